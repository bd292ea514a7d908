// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"basket-pricer/core/money"
	"basket-pricer/internal/errors"
	"basket-pricer/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. BASKET_PRICING_FILE
const EnvPrefix = "BASKET"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Pricing contains pricing configuration
	Pricing PricingConfig `json:"pricing"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// PricingConfig contains pricing-related settings
type PricingConfig struct {
	// File is the pricing definition (.hcl or .json)
	File string `json:"file"`

	// Currency overrides the currency declared in the pricing file
	Currency money.Currency `json:"currency,omitempty"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows the per-product and per-offer breakdown
	ShowDetails bool `json:"show_details"`

	// NoColor disables ANSI colors in text output
	NoColor bool `json:"no_color"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// AllowedOrigins enables CORS for these origins; empty disables CORS
	AllowedOrigins []string `json:"allowed_origins,omitempty"`
}

// Env holds the environment overrides
type Env struct {
	PricingFile    string   `envconfig:"PRICING_FILE"`
	Currency       string   `envconfig:"CURRENCY"`
	OutputFormat   string   `envconfig:"OUTPUT_FORMAT"`
	NoColor        *bool    `envconfig:"NO_COLOR"`
	LogLevel       string   `envconfig:"LOG_LEVEL"`
	Addr           string   `envconfig:"ADDR"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Pricing: PricingConfig{
			File: "pricing.hcl",
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ShowDetails:   false,
			NoColor:       false,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns $HOME/.basket-pricer.json
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".basket-pricer.json")
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("failed to read config "+path, err)
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Config("failed to parse config "+path, err)
	}

	return config, nil
}

// ApplyEnv overlays BASKET_* environment variables onto the configuration
func (c *Config) ApplyEnv() error {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return errors.Config("invalid environment", err)
	}

	if env.PricingFile != "" {
		c.Pricing.File = env.PricingFile
	}
	if env.Currency != "" {
		c.Pricing.Currency = money.ParseCurrency(env.Currency)
	}
	if env.OutputFormat != "" {
		c.Output.DefaultFormat = env.OutputFormat
	}
	if env.NoColor != nil {
		c.Output.NoColor = *env.NoColor
	}
	if env.LogLevel != "" {
		c.Logging.Level = env.LogLevel
	}
	if env.Addr != "" {
		c.Server.Addr = env.Addr
	}
	if len(env.AllowedOrigins) > 0 {
		c.Server.AllowedOrigins = env.AllowedOrigins
	}
	return nil
}

// LoadDotEnv loads KEY=value files into the process environment. Missing
// files are skipped and variables already set are kept.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return errors.Config("failed to load "+f, err)
		}
	}
	return nil
}

// Validate checks the configuration for values the CLI cannot use
func (c *Config) Validate() error {
	if c.Pricing.File == "" {
		return errors.New(errors.TypeConfig, "pricing.file must be set")
	}
	if c.Server.Addr == "" {
		return errors.New(errors.TypeConfig, "server.addr must be set")
	}
	switch c.Output.DefaultFormat {
	case "text", "json":
	default:
		return errors.Newf(errors.TypeConfig, "unsupported output format %q", c.Output.DefaultFormat)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
