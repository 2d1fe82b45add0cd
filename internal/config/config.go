// Package config loads the engine's operational parameters. Ceilings,
// concurrency limits and timeouts are never hardcoded in the engine; they
// all come from here.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults mirror the operating envelope the service ran with in production.
const (
	DefaultSoftCeilingUSD      = 7.0
	DefaultHardCeilingUSD      = 15.0
	DefaultGlobalConcurrency   = 10
	DefaultPerModelConcurrency = 3
	DefaultMaxWallClockSeconds = 750
	DefaultCallTimeoutSeconds  = 120
	DefaultAPIKeyEnv           = "OPENROUTER_API_KEY"
	DefaultDatabaseDSN         = "modelblitz.db"
)

type Config struct {
	Budget      Budget      `yaml:"budget"`
	Concurrency Concurrency `yaml:"concurrency"`
	Execution   Execution   `yaml:"execution"`
	Provider    Provider    `yaml:"provider"`
	Database    Database    `yaml:"database"`
	Notify      Notify      `yaml:"notify"`
	Catalog     Catalog     `yaml:"catalog"`
	Secrets     Secrets     `yaml:"secrets"`
}

type Budget struct {
	// SoftCeilingUSD stops new dispatch; HardCeilingUSD is the backstop.
	SoftCeilingUSD float64 `yaml:"soft_ceiling_usd"`
	HardCeilingUSD float64 `yaml:"hard_ceiling_usd"`
}

type Concurrency struct {
	Global   int `yaml:"global"`
	PerModel int `yaml:"per_model"`
}

type Execution struct {
	MaxWallClockSeconds int `yaml:"max_wall_clock_seconds"`
	CallTimeoutSeconds  int `yaml:"call_timeout_seconds"`
}

type Provider struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Notify struct {
	WebhookURL string `yaml:"webhook_url"`
}

type Catalog struct {
	// Path to a yaml model lineup overriding the built-in catalog.
	Path string `yaml:"path"`
}

type Secrets struct {
	// EnvFile is loaded into the process environment (existing vars win).
	EnvFile string `yaml:"env_file"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Budget: Budget{
			SoftCeilingUSD: DefaultSoftCeilingUSD,
			HardCeilingUSD: DefaultHardCeilingUSD,
		},
		Concurrency: Concurrency{
			Global:   DefaultGlobalConcurrency,
			PerModel: DefaultPerModelConcurrency,
		},
		Execution: Execution{
			MaxWallClockSeconds: DefaultMaxWallClockSeconds,
			CallTimeoutSeconds:  DefaultCallTimeoutSeconds,
		},
		Provider: Provider{APIKeyEnv: DefaultAPIKeyEnv},
		Database: Database{Driver: "sqlite", DSN: DefaultDatabaseDSN},
	}
}

// Load reads and validates a config file, filling unset fields with
// defaults. Secrets from the env file, if configured, are loaded into the
// process environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	applyDefaults(cfg)
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	if cfg.Secrets.EnvFile != "" {
		if err := godotenv.Load(cfg.Secrets.EnvFile); err != nil {
			return nil, fmt.Errorf("loading secrets env file: %w", err)
		}
	}
	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to defaults when the file
// does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// APIKey resolves the provider API key from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(c.Provider.APIKeyEnv)
}

// applyDefaults fills fields a partial yaml section left zero.
func applyDefaults(cfg *Config) {
	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = DefaultDatabaseDSN
	}
}

func validate(cfg *Config) error {
	var errs *multierror.Error
	if cfg.Budget.SoftCeilingUSD <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("budget.soft_ceiling_usd must be positive"))
	}
	if cfg.Budget.HardCeilingUSD < cfg.Budget.SoftCeilingUSD {
		errs = multierror.Append(errs, fmt.Errorf("budget.hard_ceiling_usd must be >= soft_ceiling_usd"))
	}
	if cfg.Concurrency.Global < 1 {
		errs = multierror.Append(errs, fmt.Errorf("concurrency.global must be at least 1"))
	}
	if cfg.Concurrency.PerModel < 1 {
		errs = multierror.Append(errs, fmt.Errorf("concurrency.per_model must be at least 1"))
	}
	if cfg.Concurrency.PerModel > cfg.Concurrency.Global {
		errs = multierror.Append(errs, fmt.Errorf("concurrency.per_model cannot exceed concurrency.global"))
	}
	if cfg.Execution.MaxWallClockSeconds < 1 {
		errs = multierror.Append(errs, fmt.Errorf("execution.max_wall_clock_seconds must be at least 1"))
	}
	if cfg.Execution.CallTimeoutSeconds < 1 {
		errs = multierror.Append(errs, fmt.Errorf("execution.call_timeout_seconds must be at least 1"))
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		errs = multierror.Append(errs, fmt.Errorf("database.driver must be sqlite, postgres or mysql, got %q", cfg.Database.Driver))
	}
	return errs.ErrorOrNil()
}
