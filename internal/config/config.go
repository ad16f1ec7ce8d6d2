package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level lendbook.yaml configuration.
type Config struct {
	Ledger   LedgerConfig   `yaml:"ledger"`
	Limits   LimitsConfig   `yaml:"limits"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Git      GitConfig      `yaml:"git"`
	Serve    ServeConfig    `yaml:"serve"`
	Notify   NotifyConfig   `yaml:"notify,omitempty"`
}

// LedgerConfig selects and locates the loan store.
type LedgerConfig struct {
	Store string `yaml:"store"`          // "csv", "postgres" or "memory"
	Path  string `yaml:"path"`           // CSV file, relative to the ledger directory
	Conn  string `yaml:"conn,omitempty"` // postgres connection string
}

// LimitsConfig bounds the values accepted when adding or editing a loan.
type LimitsConfig struct {
	MaxRate float64 `yaml:"max_rate"` // %/month; 0 disables the bound
}

// DefaultsConfig pre-fills the add command's flags.
type DefaultsConfig struct {
	Amount float64 `yaml:"amount"`
	Rate   float64 `yaml:"rate"`
}

// GitConfig controls git versioning of the ledger directory.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// ServeConfig controls the HTTP API.
type ServeConfig struct {
	Addr            string `yaml:"addr"`
	RefreshSchedule string `yaml:"refresh_schedule,omitempty"` // cron spec; empty disables
	RedisAddr       string `yaml:"redis_addr,omitempty"`       // report cache; empty = in-memory
}

// NotifyConfig configures emailed statements.
type NotifyConfig struct {
	SMTPHost     string `yaml:"smtp_host,omitempty"`
	SMTPPort     string `yaml:"smtp_port,omitempty"`
	SMTPUser     string `yaml:"smtp_user,omitempty"`
	SMTPPassword string `yaml:"smtp_password,omitempty"`
	From         string `yaml:"from,omitempty"`
	To           string `yaml:"to,omitempty"`
}

// Load reads a lendbook.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger. The form
// defaults and rate ceiling follow the classic entry form: 10000 principal,
// 1.5%/month, at most 10%/month.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Store: "csv",
			Path:  "loans.csv",
		},
		Limits: LimitsConfig{
			MaxRate: 10,
		},
		Defaults: DefaultsConfig{
			Amount: 10000,
			Rate:   1.5,
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Lendbook",
			AuthorEmail: "ledger@lendbook.dev",
		},
		Serve: ServeConfig{
			Addr: ":8080",
		},
	}
}
