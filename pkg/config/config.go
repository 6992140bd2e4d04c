package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/entrhq/heal/pkg/logging"
)

// Driver selects the browser automation backend.
type Driver string

const (
	// DriverPlaywright drives Chromium through playwright-go
	DriverPlaywright Driver = "playwright"
	// DriverRod drives Chromium through go-rod
	DriverRod Driver = "rod"
)

// Config is the run configuration for healcheck.
type Config struct {
	// BaseURL is prepended to plan paths
	BaseURL string `yaml:"base_url" json:"base_url" env:"HEAL_BASE_URL"`

	// Driver is "playwright" or "rod"
	Driver Driver `yaml:"driver" json:"driver" env:"HEAL_DRIVER"`

	// Headless runs the browser without a window
	Headless bool `yaml:"headless" json:"headless" env:"HEAL_HEADLESS"`

	// InstallBrowsers downloads Playwright browsers before the run
	InstallBrowsers bool `yaml:"install_browsers" json:"install_browsers" env:"HEAL_INSTALL_BROWSERS"`

	// Timeout is the default per-candidate visibility wait
	Timeout time.Duration `yaml:"timeout" json:"timeout" env:"HEAL_TIMEOUT"`

	// NavigationTimeout bounds the initial page load
	NavigationTimeout time.Duration `yaml:"navigation_timeout" json:"navigation_timeout" env:"HEAL_NAVIGATION_TIMEOUT"`

	Report  ReportConfig  `yaml:"report" json:"report"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// ReportConfig controls where the healing log is written.
type ReportConfig struct {
	OutputDir string `yaml:"output_dir" json:"output_dir" env:"HEAL_REPORT_DIR"`
	Name      string `yaml:"name" json:"name" env:"HEAL_REPORT_NAME"`
	Markdown  bool   `yaml:"markdown" json:"markdown" env:"HEAL_REPORT_MARKDOWN"`
}

// LoggingConfig defines logging configuration
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity" env:"HEAL_VERBOSITY"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://demoqa.com",
		Driver:            DriverPlaywright,
		Headless:          true,
		Timeout:           2 * time.Second,
		NavigationTimeout: 30 * time.Second,
		Report: ReportConfig{
			OutputDir: ".heal/report",
			Name:      "self-healing-log",
			Markdown:  true,
		},
		Logging: LoggingConfig{
			Verbosity: "normal",
		},
	}
}

// Load reads path over the defaults (if path is not empty), applies HEAL_*
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if c.Driver != DriverPlaywright && c.Driver != DriverRod {
		return fmt.Errorf("invalid driver: %s (must be 'playwright' or 'rod')", c.Driver)
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative")
	}

	if c.NavigationTimeout < 0 {
		return fmt.Errorf("navigation_timeout cannot be negative")
	}

	if c.Report.OutputDir == "" {
		return fmt.Errorf("report.output_dir is required")
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	if _, err := logging.ParseVerbosity(c.Logging.Verbosity); err != nil {
		return fmt.Errorf("invalid logging verbosity: %w", err)
	}

	return nil
}
