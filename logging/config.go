package logging

import (
	"fmt"
	"os"
)

// Env names the variables that override the [logging] section, for example
// LAPI_LOG_LEVEL.
type Env struct {
	Level  string
	Format string
}

// Config is the [logging] section of the lapi config file.
type Config struct {
	Level  Level  `toml:"level"`
	Format Format `toml:"format"`
}

// Finalize fills in info/text when unset, lets env win over the file and
// rejects unknown values.
func (c *Config) Finalize(env *Env) error {
	if c.Level == "" {
		c.Level = LevelInfo
	}
	if c.Format == "" {
		c.Format = FormatText
	}

	if env != nil {
		c.Level = Level(lookup(env.Level, string(c.Level)))
		c.Format = Format(lookup(env.Format, string(c.Format)))
	}

	if err := c.Level.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Format.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Merge lets an environment file overlay win wherever it sets a value.
func (c *Config) Merge(overlay *Config) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func lookup(name, fallback string) string {
	if name == "" {
		return fallback
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
