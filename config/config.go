// Package config holds the process-wide preferences. A Config is built once
// at startup and treated as read-only afterwards.
package config

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/achilleasa/polaris-link/resource"
	"gopkg.in/yaml.v3"
)

// DeviceType classifies a render device.
type DeviceType string

const (
	CPU DeviceType = "cpu"
	GPU DeviceType = "gpu"
)

// Device describes a render device available to the engine.
type Device struct {
	Name    string     `yaml:"name"`
	Type    DeviceType `yaml:"type"`
	Threads int        `yaml:"threads"`
}

// Config holds the bridge preferences.
type Config struct {
	Devices       []Device `yaml:"devices"`
	DefaultDevice string   `yaml:"default_device"`
	Threads       int      `yaml:"threads"`
	TileSize      int      `yaml:"tile_size"`
	LogLevel      string   `yaml:"log_level"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML config from a local path or an http(s) URL.
func Load(path string) (*Config, error) {
	res, err := resource.Open(path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Parse(res)
}

// Parse decodes a YAML config from r. Unknown fields are rejected.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.TileSize <= 0 {
		c.TileSize = 64
	}
	if c.LogLevel == "" {
		c.LogLevel = "notice"
	}
	if len(c.Devices) == 0 {
		c.Devices = []Device{{Name: "cpu", Type: CPU}}
	}
	for i := range c.Devices {
		if c.Devices[i].Type == "" {
			c.Devices[i].Type = CPU
		}
		if c.Devices[i].Threads <= 0 {
			c.Devices[i].Threads = c.Threads
		}
	}
	if c.DefaultDevice == "" {
		c.DefaultDevice = c.Devices[0].Name
	}
}

func (c *Config) validate() error {
	seen := make(map[string]struct{}, len(c.Devices))
	for _, dev := range c.Devices {
		if dev.Name == "" {
			return fmt.Errorf("config: device with empty name")
		}
		if dev.Type != CPU && dev.Type != GPU {
			return fmt.Errorf("config: device %q has unsupported type %q", dev.Name, dev.Type)
		}
		key := strings.ToLower(dev.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("config: duplicate device %q", dev.Name)
		}
		seen[key] = struct{}{}
	}

	if _, ok := c.Device(c.DefaultDevice); !ok {
		return fmt.Errorf("config: default device %q is not defined", c.DefaultDevice)
	}
	return nil
}

// Device looks up a device by name (case insensitive).
func (c *Config) Device(name string) (Device, bool) {
	for _, dev := range c.Devices {
		if strings.EqualFold(dev.Name, name) {
			return dev, true
		}
	}
	return Device{}, false
}
