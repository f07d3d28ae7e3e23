package shared

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./rpglint.db"
	} `yaml:"database"`

	Lint struct {
		Sources           []string `yaml:"sources"`            // default inputs for check/analyze
		Ignore            []string `yaml:"ignore"`             // glob patterns skipped during resolution
		SeverityThreshold string   `yaml:"severity_threshold"` // "warning"|"error"
		DisabledRules     []string `yaml:"disabled_rules"`
		RulePacks         []string `yaml:"rule_packs"` // YAML rule pack paths
		Jobs              int      `yaml:"jobs"`       // parallel file workers
	} `yaml:"lint"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
		Format string `yaml:"format"`  // "text"|"json"
	} `yaml:"reporting"`

	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SessionMinutes int      `yaml:"session_minutes"`
	} `yaml:"server"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./rpglint.db"
	c.Lint.SeverityThreshold = "warning"
	c.Lint.Jobs = 4
	c.Reporting.OutDir = "./reports"
	c.Reporting.Format = "text"
	c.Server.Addr = ":8087"
	c.Server.SessionMinutes = 12 * 60
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

// LoadConfig reads path (when given) over the defaults, then applies
// RPGLINT_* environment overrides. Invalid values are configuration
// errors, fatal before any file is processed.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, fmt.Errorf("parse config: %w", err)
		}
	}
	if v := os.Getenv("RPGLINT_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("RPGLINT_SEVERITY_THRESHOLD"); v != "" {
		c.Lint.SeverityThreshold = v
	}
	if v := os.Getenv("RPGLINT_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RPGLINT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RPGLINT_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Validate rejects option values the rest of the pipeline would
// misinterpret.
func (c Config) Validate() error {
	switch strings.ToLower(c.Lint.SeverityThreshold) {
	case "", "warning", "error":
	default:
		return fmt.Errorf("lint.severity_threshold must be warning or error, got %q", c.Lint.SeverityThreshold)
	}
	switch strings.ToLower(c.Reporting.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("reporting.format must be text or json, got %q", c.Reporting.Format)
	}
	if c.Lint.Jobs < 0 {
		return fmt.Errorf("lint.jobs must be >= 0, got %d", c.Lint.Jobs)
	}
	return nil
}
