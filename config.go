package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// DefaultTarget is the endpoint probed when none is configured.
const DefaultTarget = "192.168.1.2:5555"

// Config represents a probe configuration.
type Config struct {
	// Target is the remote endpoint, as host:port.  The host may be a name or an IP literal.
	Target string `yaml:"target"`

	// Count is the number of probes to send.
	Count int `yaml:"count"`

	// Interval is the pause after each probe.
	Interval time.Duration `yaml:"interval"`

	// BufferSize caps the number of reply bytes read per probe.
	BufferSize int `yaml:"bufferSize"`

	// ReadTimeout bounds the wait for a reply.  Zero waits forever.
	ReadTimeout time.Duration `yaml:"readTimeout"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Target:     DefaultTarget,
		Count:      5,
		Interval:   time.Second,
		BufferSize: 1024,
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a probe run.
func (c *Config) Validate() error {
	if c.Target == "" {
		return errors.New("target is required")
	}

	if _, _, err := net.SplitHostPort(c.Target); err != nil {
		return fmt.Errorf("invalid target %q: %w", c.Target, err)
	}

	if c.Count < 1 {
		return fmt.Errorf("count must be positive, got %d", c.Count)
	}

	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}

	if c.BufferSize < 1 {
		return fmt.Errorf("bufferSize must be positive, got %d", c.BufferSize)
	}

	if c.ReadTimeout < 0 {
		return fmt.Errorf("readTimeout must not be negative, got %s", c.ReadTimeout)
	}

	return nil
}
