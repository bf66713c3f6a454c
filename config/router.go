package config

import (
	"fmt"
	"os"
	"strconv"
)

// RouterConfig holds router options.
type RouterConfig struct {
	Timer bool `toml:"timer"`
}

func (c *RouterConfig) Finalize() error {
	return c.loadEnv()
}

func (c *RouterConfig) Merge(overlay *RouterConfig) {
	if overlay.Timer {
		c.Timer = true
	}
}

func (c *RouterConfig) loadEnv() error {
	if v := os.Getenv("LAPI_ROUTER_TIMER"); v != "" {
		timer, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LAPI_ROUTER_TIMER: %w", err)
		}
		c.Timer = timer
	}
	return nil
}
