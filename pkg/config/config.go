// Package config loads leadscore settings from a YAML file, a .env file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"leadscore/pkg/apperr"
	"leadscore/pkg/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "leadscore.yaml"

type Config struct {
	Env string `yaml:"env"`

	InputPath  string `yaml:"input_path"`
	OutputPath string `yaml:"output_path"`
	SheetName  string `yaml:"sheet_name"`

	Columns ColumnConfig `yaml:"columns"`

	RecencyThreshold int     `yaml:"recency_threshold_days"`
	SwedishShare     float64 `yaml:"swedish_share"`
	Seed             uint64  `yaml:"seed"` // 0 seeds from the clock

	ReportDir    string `yaml:"report_dir"`
	TemplatesDir string `yaml:"templates_dir"`
	OutboxDir    string `yaml:"outbox_dir"`

	SMTP  SMTPConfig  `yaml:"smtp"`
	MySQL MySQLConfig `yaml:"mysql"`
}

type ColumnConfig struct {
	PreviousPurchases     int `yaml:"previous_purchases"`
	TimeSinceLastPurchase int `yaml:"time_since_last_purchase"`
	AveragePurchaseValue  int `yaml:"average_purchase_value"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	FromName string `yaml:"from_name"`
}

// Enabled reports whether SMTP delivery is configured.
func (s SMTPConfig) Enabled() bool { return s.Host != "" && s.From != "" }

type MySQLConfig struct {
	DSN             string        `yaml:"dsn"`
	Table           string        `yaml:"table"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	Timeout         time.Duration `yaml:"timeout"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Env:        "production",
		InputPath:  "demo_leads.xlsx",
		OutputPath: "demo_leads_scored.xlsx",
		Columns: ColumnConfig{
			PreviousPurchases:     models.DefaultFeatureColumns.PreviousPurchases,
			TimeSinceLastPurchase: models.DefaultFeatureColumns.TimeSinceLastPurchase,
			AveragePurchaseValue:  models.DefaultFeatureColumns.AveragePurchaseValue,
		},
		RecencyThreshold: 200,
		SwedishShare:     0.6,
		ReportDir:        "reports",
		TemplatesDir:     "messages",
		OutboxDir:        "outbox",
		SMTP:             SMTPConfig{Port: 587},
		MySQL: MySQLConfig{
			Table:           "CustomerLeads",
			MaxOpenConns:    4,
			ConnMaxLifetime: 30 * time.Minute,
			Timeout:         10 * time.Second,
		},
	}
}

// Load reads path (a missing file means defaults), then .env, then the
// environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath
		if env := os.Getenv("LEADSCORE_CONFIG"); env != "" {
			path = env
		}
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, apperr.Wrap(apperr.KindConfig, "parse "+path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, apperr.Wrap(apperr.KindConfig, "read "+path, err)
	}

	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	envOverride(&cfg.Env, "LEADSCORE_ENV")
	envOverride(&cfg.InputPath, "LEADSCORE_INPUT")
	envOverride(&cfg.OutputPath, "LEADSCORE_OUTPUT")
	envOverride(&cfg.SheetName, "LEADSCORE_SHEET")
	envOverride(&cfg.ReportDir, "LEADSCORE_REPORT_DIR")
	envOverride(&cfg.TemplatesDir, "LEADSCORE_TEMPLATES_DIR")
	envOverride(&cfg.OutboxDir, "LEADSCORE_OUTBOX_DIR")
	envOverride(&cfg.MySQL.DSN, "LEADSCORE_MYSQL_DSN")
	envOverride(&cfg.MySQL.Table, "LEADSCORE_MYSQL_TABLE")
	envOverride(&cfg.SMTP.Host, "SMTP_HOST")
	envOverride(&cfg.SMTP.Username, "SMTP_USERNAME")
	envOverride(&cfg.SMTP.Password, "SMTP_PASSWORD")
	envOverride(&cfg.SMTP.From, "SMTP_FROM")
	envOverride(&cfg.SMTP.FromName, "SMTP_FROM_NAME")

	if v := os.Getenv("SMTP_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return apperr.Wrap(apperr.KindConfig, "SMTP_PORT", err)
		}
		cfg.SMTP.Port = n
	}
	if v := os.Getenv("LEADSCORE_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return apperr.Wrap(apperr.KindConfig, "LEADSCORE_SEED", err)
		}
		cfg.Seed = n
	}
	return nil
}

func envOverride(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.SwedishShare < 0 || c.SwedishShare > 1 {
		return apperr.Config(fmt.Sprintf("swedish_share must be between 0 and 1, got %g", c.SwedishShare))
	}
	if c.RecencyThreshold <= 0 {
		return apperr.Config(fmt.Sprintf("recency_threshold_days must be positive, got %d", c.RecencyThreshold))
	}

	cols := []int{c.Columns.PreviousPurchases, c.Columns.TimeSinceLastPurchase, c.Columns.AveragePurchaseValue}
	seen := make(map[int]bool, len(cols))
	for _, i := range cols {
		if i < 0 {
			return apperr.Config(fmt.Sprintf("column index must be non-negative, got %d", i))
		}
		if seen[i] {
			return apperr.Config(fmt.Sprintf("column index %d used twice", i))
		}
		seen[i] = true
	}

	if c.MySQL.MaxOpenConns < 0 || c.MySQL.ConnMaxLifetime < 0 || c.MySQL.Timeout < 0 {
		return apperr.Config("mysql pool settings must not be negative")
	}

	if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
		return apperr.Config(fmt.Sprintf("smtp.port out of range: %d", c.SMTP.Port))
	}
	return nil
}

// FeatureColumns converts the column block for the calculator.
func (c *Config) FeatureColumns() models.FeatureColumns {
	return models.FeatureColumns{
		PreviousPurchases:     c.Columns.PreviousPurchases,
		TimeSinceLastPurchase: c.Columns.TimeSinceLastPurchase,
		AveragePurchaseValue:  c.Columns.AveragePurchaseValue,
	}
}
