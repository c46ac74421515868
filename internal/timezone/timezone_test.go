package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWallClockRoundTrip(t *testing.T) {
	// 12:00 UTC = 09:00 em São Paulo (sem horário de verão desde 2019)
	instant := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	wall := WallClock(instant, "America/Sao_Paulo")
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), wall)

	back := Instant(wall, "America/Sao_Paulo")
	assert.True(t, back.Equal(instant))
}

func TestLocationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("Not/AZone").String())
	assert.Equal(t, "Europe/Lisbon", Location("Europe/Lisbon").String())
	assert.False(t, IsValid(""))
}
