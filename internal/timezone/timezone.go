package timezone

import (
	"time"
	_ "time/tzdata" // imagens mínimas não trazem zoneinfo
)

const DefaultTimezone = "America/Sao_Paulo"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// --------------------------------------------------
// Relógio de parede
// --------------------------------------------------
// Horários de agenda são gravados sem fuso: o valor em UTC representa
// a hora local do tenant. A conversão só acontece nas bordas.

// WallClock reescreve um instante como horário de parede no fuso tz.
func WallClock(t time.Time, tz string) time.Time {
	l := t.In(Location(tz))
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), l.Nanosecond(), time.UTC)
}

// NowIn devolve o agora do tenant como horário de parede.
func NowIn(tz string) time.Time {
	return WallClock(time.Now(), tz)
}

// Instant interpreta um horário de parede no fuso tz e devolve o instante real.
func Instant(wall time.Time, tz string) time.Time {
	return time.Date(
		wall.Year(), wall.Month(), wall.Day(),
		wall.Hour(), wall.Minute(), wall.Second(), wall.Nanosecond(),
		Location(tz),
	)
}
