package notify

import (
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// localDigits é o tamanho de um celular brasileiro sem DDI (DDD + 9 dígitos).
const localDigits = 11

// NormalizePhone deixa só dígitos e acrescenta o DDI da região quando o
// número parece local. Transformação pura, sem rede.
func NormalizePhone(raw, region string) string {
	digits := onlyDigits(raw)
	if digits == "" {
		return ""
	}

	cc := phonenumbers.GetCountryCodeForRegion(region)
	if cc == 0 {
		return digits
	}
	prefix := strconv.Itoa(cc)

	if num, err := phonenumbers.Parse(digits, region); err == nil &&
		phonenumbers.IsValidNumberForRegion(num, region) &&
		phonenumbers.GetNationalSignificantNumber(num) == digits {
		return prefix + digits
	}

	if len(digits) == localDigits && !strings.HasPrefix(digits, prefix) {
		return prefix + digits
	}
	return digits
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
