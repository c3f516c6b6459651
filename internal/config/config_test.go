package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "gym_membership", cfg.Database.Name)
	assert.Equal(t, 8*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, "log", cfg.Notify.Provider)
	assert.False(t, cfg.Reports.Enabled)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
server:
  address: ":9090"
gym:
  timezone: "America/Argentina/Buenos_Aires"
notify:
  provider: resend
  from: "Gym <noreply@example.com>"
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("NOTIFY_RESEND_API_KEY", "re_test")
	t.Setenv("JWT_EXPIRATION", "30m")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "resend", cfg.Notify.Provider)
	assert.Equal(t, "re_test", cfg.Notify.ResendAPIKey)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiration)

	loc, err := cfg.Gym.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Argentina/Buenos_Aires", loc.String())
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_NAME=from_dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DATABASE_NAME") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Database.Name)
}

func TestLoadConfig_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("GYM_TIMEZONE", "Mars/Olympus_Mons")
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
