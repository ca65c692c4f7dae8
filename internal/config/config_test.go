package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

const minimalConfig = `
api:
  base_url: https://api.example.com
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout())
	assert.Equal(t, 70.0, cfg.Booking.Fee)
	assert.Equal(t, "GHS", cfg.Booking.Currency)
	assert.Equal(t, "BK", cfg.Booking.ReferencePrefix)
	assert.Equal(t, 3*time.Second, cfg.PollInterval())
	assert.Equal(t, "https://api.paystack.co", cfg.Paystack.BaseURL)
	assert.Equal(t, "@every 5m", cfg.Scheduler.RefreshBalance)
	assert.Equal(t, "127.0.0.1:8090", cfg.StatusAddress())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverridesFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
api:
  base_url: https://api.example.com
  timeout_seconds: 30
booking:
  fee: 100
  reference_prefix: HB
  poll_interval_seconds: 5
scheduler:
  refresh_balance: "@every 1m"
  watches:
    - hostel_id: h1
      check_in_date: "2027-09-01"
      check_out_date: "2027-12-20"
`))
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.APITimeout())
	assert.Equal(t, 100.0, cfg.Booking.Fee)
	assert.Equal(t, "HB", cfg.Booking.ReferencePrefix)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, "@every 1m", cfg.Scheduler.RefreshBalance)
	require.Len(t, cfg.Scheduler.Watches, 1)
	assert.Equal(t, "h1", cfg.Scheduler.Watches[0].HostelID)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("API_URL", "https://staging.example.com")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, minimalConfig+`
database:
  host: localhost
  port: 5432
  user: hostelbook
  database: hostelbook
`))
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.API.BaseURL)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t,
		"host=db.internal port=5433 user=hostelbook password= dbname=hostelbook sslmode=disable",
		cfg.DatabaseConnectionString())
}

func TestLoadValidation(t *testing.T) {
	t.Run("Missing base URL rejected", func(t *testing.T) {
		_, err := Load(writeConfig(t, `log: {level: info}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api.base_url")
	})

	t.Run("Email notifications require a key and addresses", func(t *testing.T) {
		_, err := Load(writeConfig(t, minimalConfig+`
notify:
  email_enabled: true
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sendgrid_api_key")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
