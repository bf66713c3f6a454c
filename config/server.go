package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr          string      `toml:"addr"`
	ReadTimeout   string      `toml:"read_timeout"`
	WriteTimeout  string      `toml:"write_timeout"`
	IdleTimeout   string      `toml:"idle_timeout"`
	MaxHeaderSize string      `toml:"max_header_size"`
	HTTP3         HTTP3Config `toml:"http3"`
}

// HTTP3Config enables an additional QUIC listener.
type HTTP3Config struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	CertFile string `toml:"cert_file"`
	KeyFile  string `toml:"key_file"`
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ReadTimeout)
	return d
}

func (c *ServerConfig) WriteTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.WriteTimeout)
	return d
}

func (c *ServerConfig) IdleTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.IdleTimeout)
	return d
}

// MaxHeaderBytes parses max_header_size ("1MB", "64KiB", ...) into bytes.
func (c *ServerConfig) MaxHeaderBytes() int {
	n, _ := units.RAMInBytes(c.MaxHeaderSize)
	return int(n)
}

func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	if err := c.loadEnv(); err != nil {
		return err
	}
	return c.validate()
}

func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Addr != "" {
		c.Addr = overlay.Addr
	}
	if overlay.ReadTimeout != "" {
		c.ReadTimeout = overlay.ReadTimeout
	}
	if overlay.WriteTimeout != "" {
		c.WriteTimeout = overlay.WriteTimeout
	}
	if overlay.IdleTimeout != "" {
		c.IdleTimeout = overlay.IdleTimeout
	}
	if overlay.MaxHeaderSize != "" {
		c.MaxHeaderSize = overlay.MaxHeaderSize
	}
	if overlay.HTTP3.Enabled {
		c.HTTP3.Enabled = true
	}
	if overlay.HTTP3.Addr != "" {
		c.HTTP3.Addr = overlay.HTTP3.Addr
	}
	if overlay.HTTP3.CertFile != "" {
		c.HTTP3.CertFile = overlay.HTTP3.CertFile
	}
	if overlay.HTTP3.KeyFile != "" {
		c.HTTP3.KeyFile = overlay.HTTP3.KeyFile
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "15s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "15s"
	}
	if c.IdleTimeout == "" {
		c.IdleTimeout = "60s"
	}
	if c.MaxHeaderSize == "" {
		c.MaxHeaderSize = "1MB"
	}
	if c.HTTP3.Addr == "" {
		c.HTTP3.Addr = ":8443"
	}
}

func (c *ServerConfig) loadEnv() error {
	if v := os.Getenv("LAPI_SERVER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("LAPI_SERVER_READ_TIMEOUT"); v != "" {
		c.ReadTimeout = v
	}
	if v := os.Getenv("LAPI_SERVER_WRITE_TIMEOUT"); v != "" {
		c.WriteTimeout = v
	}
	if v := os.Getenv("LAPI_SERVER_IDLE_TIMEOUT"); v != "" {
		c.IdleTimeout = v
	}
	if v := os.Getenv("LAPI_SERVER_MAX_HEADER_SIZE"); v != "" {
		c.MaxHeaderSize = v
	}
	if v := os.Getenv("LAPI_HTTP3_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LAPI_HTTP3_ENABLED: %w", err)
		}
		c.HTTP3.Enabled = enabled
	}
	if v := os.Getenv("LAPI_HTTP3_ADDR"); v != "" {
		c.HTTP3.Addr = v
	}
	if v := os.Getenv("LAPI_HTTP3_CERT_FILE"); v != "" {
		c.HTTP3.CertFile = v
	}
	if v := os.Getenv("LAPI_HTTP3_KEY_FILE"); v != "" {
		c.HTTP3.KeyFile = v
	}
	return nil
}

func (c *ServerConfig) validate() error {
	for name, value := range map[string]string{
		"read_timeout":  c.ReadTimeout,
		"write_timeout": c.WriteTimeout,
		"idle_timeout":  c.IdleTimeout,
	} {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}
	if _, err := units.RAMInBytes(c.MaxHeaderSize); err != nil {
		return fmt.Errorf("invalid max_header_size: %w", err)
	}
	if c.HTTP3.Enabled && (c.HTTP3.CertFile == "" || c.HTTP3.KeyFile == "") {
		return fmt.Errorf("http3 requires cert_file and key_file")
	}
	return nil
}
