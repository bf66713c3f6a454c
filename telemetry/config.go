package telemetry

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Env maps environment variable names for telemetry configuration.
type Env struct {
	Enabled        string
	ServiceName    string
	Endpoint       string
	Insecure       string
	ExportInterval string
}

type Config struct {
	Enabled        bool   `toml:"enabled"`
	ServiceName    string `toml:"service_name"`
	Endpoint       string `toml:"endpoint"`
	Insecure       bool   `toml:"insecure"`
	ExportInterval string `toml:"export_interval"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if err := c.loadEnv(env); err != nil {
		return err
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Insecure {
		c.Insecure = true
	}
	if overlay.ExportInterval != "" {
		c.ExportInterval = overlay.ExportInterval
	}
}

// ExportIntervalDuration parses and returns the metric export interval.
func (c *Config) ExportIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.ExportInterval)
	return d
}

func (c *Config) loadDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "lapi"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4317"
	}
	if c.ExportInterval == "" {
		c.ExportInterval = "60s"
	}
}

func (c *Config) loadEnv(env *Env) error {
	if env == nil {
		return nil
	}
	if v := os.Getenv(env.Enabled); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Enabled, err)
		}
		c.Enabled = enabled
	}
	if v := os.Getenv(env.ServiceName); v != "" {
		c.ServiceName = v
	}
	if v := os.Getenv(env.Endpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(env.Insecure); v != "" {
		insecure, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Insecure, err)
		}
		c.Insecure = insecure
	}
	if v := os.Getenv(env.ExportInterval); v != "" {
		c.ExportInterval = v
	}
	return nil
}

func (c *Config) validate() error {
	d, err := time.ParseDuration(c.ExportInterval)
	if err != nil {
		return fmt.Errorf("invalid export_interval: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid export_interval: must be positive")
	}
	return nil
}
