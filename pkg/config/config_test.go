package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"leadscore/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leadscore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadYAMLPartialOverride(t *testing.T) {
	path := writeConfig(t, `
input_path: leads.csv
swedish_share: 0.5
seed: 99
columns:
  previous_purchases: 2
  time_since_last_purchase: 3
  average_purchase_value: 4
smtp:
  host: smtp.example.com
  from: sales@example.com
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "leads.csv", cfg.InputPath)
	assert.Equal(t, "demo_leads_scored.xlsx", cfg.OutputPath)
	assert.Equal(t, 0.5, cfg.SwedishShare)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, 200, cfg.RecencyThreshold)
	assert.Equal(t, 4, cfg.FeatureColumns().AveragePurchaseValue)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.Enabled())
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "input_path: from-file.xlsx\n")
	t.Setenv("LEADSCORE_INPUT", "from-env.xlsx")
	t.Setenv("LEADSCORE_SEED", "12")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env.xlsx", cfg.InputPath)
	assert.Equal(t, uint64(12), cfg.Seed)
	assert.Equal(t, 2525, cfg.SMTP.Port)
}

func TestBadEnvNumber(t *testing.T) {
	t.Setenv("SMTP_PORT", "many")
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestInvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "swedish_share: [oops"))
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"share above one":   func(c *Config) { c.SwedishShare = 1.5 },
		"zero threshold":    func(c *Config) { c.RecencyThreshold = 0 },
		"negative column":   func(c *Config) { c.Columns.PreviousPurchases = -1 },
		"duplicate columns": func(c *Config) { c.Columns.AveragePurchaseValue = c.Columns.PreviousPurchases },
		"smtp port":         func(c *Config) { c.SMTP.Port = 70000 },
		"negative timeout":  func(c *Config) { c.MySQL.Timeout = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), apperr.ErrConfig)
		})
	}

	ok := Default()
	assert.NoError(t, ok.Validate())
}

func TestLoadMySQLPoolSettings(t *testing.T) {
	path := writeConfig(t, `
mysql:
  dsn: mariadb://crm:pw@db:3306/sales
  max_open_conns: 8
  conn_max_lifetime: 5m
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MySQL.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.MySQL.ConnMaxLifetime)
	assert.Equal(t, 10*time.Second, cfg.MySQL.Timeout)
	assert.Equal(t, "CustomerLeads", cfg.MySQL.Table)
}
