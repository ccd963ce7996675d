package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultPlanPath = "build-plan.json"
	DefaultSuite    = "doctests"
	DefaultVerbose  = false
	DefaultNoCache  = false
)

// Holds the configuration options for dtgen
type Config struct {
	// Path to the build plan exported by the build system
	PlanPath string

	// Name of the test suite that receives the generated artifact
	Suite string

	// Toolchain version override (defaults to the plan's detected version)
	Toolchain string

	// Cache directory (defaults to .dtgen-cache in the working directory)
	CacheDir string

	// Disable the artifact cache
	NoCache bool

	// Enable verbose output
	Verbose bool
}

func Load() (*Config, error) {
	cfg := &Config{
		PlanPath:  viper.GetString("plan"),
		Suite:     viper.GetString("suite"),
		Toolchain: viper.GetString("toolchain"),
		CacheDir:  viper.GetString("cache_dir"),
		NoCache:   viper.GetBool("no_cache"),
		Verbose:   viper.GetBool("verbose"),
	}

	// Apply defaults if not set
	if cfg.PlanPath == "" {
		cfg.PlanPath = DefaultPlanPath
	}

	if cfg.Suite == "" {
		cfg.Suite = DefaultSuite
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	abs, err := filepath.Abs(c.PlanPath)
	if err != nil {
		return fmt.Errorf("invalid plan path: %v", err)
	}
	c.PlanPath = abs

	if c.CacheDir != "" {
		abs, err := filepath.Abs(c.CacheDir)
		if err != nil {
			return fmt.Errorf("invalid cache directory: %v", err)
		}

		c.CacheDir = abs
	}

	if c.Suite == "" {
		return fmt.Errorf("test suite name not specified")
	}

	return nil
}
