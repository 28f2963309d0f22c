// Package config loads the engine's top-level settings: device
// parameters, instrument directory paths, and control surface
// endpoints, all from one YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	SampleRate     int         `yaml:"sampleRate"`
	BufferMillis   int         `yaml:"bufferMillis"`
	OutputChannels int         `yaml:"outputChannels"`
	Instruments    []string    `yaml:"instruments"`
	MIDI           MIDISurface `yaml:"midi"`
	OSC            OSCSurface  `yaml:"osc"`
	LogLevel       string      `yaml:"logLevel"`
}

// MIDISurface configures the hardware/virtual MIDI input bridge.
type MIDISurface struct {
	Enabled bool   `yaml:"enabled"`
	Port    string `yaml:"port"`
}

// OSCSurface configures the OSC control-surface listener.
type OSCSurface struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the engine's out-of-the-box configuration.
func Default() *Config {
	return &Config{
		SampleRate:     44100,
		BufferMillis:   100,
		OutputChannels: 2,
		LogLevel:       "info",
		OSC:            OSCSurface{Addr: ":9000"},
	}
}

// Load reads and parses a Config from path, filling in defaults for
// any field left zero-valued.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}
