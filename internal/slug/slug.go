// Package slug gera o identificador público do tenant a partir do nome.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const MaxLength = 45

// Make remove acentos, baixa a caixa e troca qualquer sequência fora de
// [a-z0-9] por um hífen. Pode devolver "" para nomes sem letras nem dígitos.
func Make(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, name)
	if err != nil {
		plain = name
	}

	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}

	out := b.String()
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	return out
}

// Unique acrescenta -2, -3... até exists devolver false.
func Unique(name string, exists func(string) (bool, error)) (string, error) {
	base := Make(name)
	if base == "" {
		base = "agenda"
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}

		suffix := "-" + strconv.Itoa(i)
		trimmed := base
		if len(trimmed)+len(suffix) > MaxLength {
			trimmed = strings.TrimRight(trimmed[:MaxLength-len(suffix)], "-")
		}
		candidate = trimmed + suffix
	}
}
