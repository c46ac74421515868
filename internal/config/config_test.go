package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "BR", cfg.DefaultRegion)
	assert.Equal(t, 62, cfg.MaxSlotRangeDays)
	assert.Equal(t, 10*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("PUBLIC_BASE_URL", "https://agenda.example.com/")
	t.Setenv("MAX_SLOT_RANGE_DAYS", "14")
	t.Setenv("GATEWAY_TIMEOUT", "3s")
	t.Setenv("DB_TIMEOUT", "750ms")
	t.Setenv("MENUIA_SANDBOX", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, "https://agenda.example.com", cfg.PublicBaseURL)
	assert.Equal(t, 14, cfg.MaxSlotRangeDays)
	assert.Equal(t, 3*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, 750*time.Millisecond, cfg.DBTimeout)
	assert.True(t, cfg.MenuiaSandbox)
}

func TestLoad_RejectsDefaultSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_RejectsUnknownRegion(t *testing.T) {
	t.Setenv("DEFAULT_REGION", "XX")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEFAULT_REGION")
}

func TestLoad_RejectsNonPositiveDBTimeout(t *testing.T) {
	t.Setenv("DB_TIMEOUT", "0s")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_TIMEOUT")
}
