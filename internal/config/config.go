// Package config provides configuration management for the mouse smoother.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultPath is where the daemon looks for its configuration unless
// overridden on the command line.
const DefaultPath = "/etc/mouse-smoother.json"

// Config represents the application configuration
type Config struct {
	// Device selects which physical mouse to intercept
	Device DeviceConfig `json:"device"`

	// Wheel holds the scroll-wheel debouncing parameters
	Wheel WheelConfig `json:"wheel"`

	// Logging controls log output
	Logging LoggingConfig `json:"logging"`

	// API configures the optional status/tap HTTP server
	API APIConfig `json:"api"`
}

// DeviceConfig selects the physical input device
type DeviceConfig struct {
	// Path is an explicit /dev/input/eventN path (optional)
	Path string `json:"path,omitempty" env:"MOUSE_SMOOTHER_DEVICE"`

	// NameFilter keeps only devices whose name contains this substring
	NameFilter string `json:"name_filter,omitempty" env:"MOUSE_SMOOTHER_NAME_FILTER"`
}

// WheelConfig holds the debouncer timing parameters, in milliseconds
type WheelConfig struct {
	// DebounceTimeMs is the vertical-wheel gap above which an event starts
	// a new scroll gesture
	DebounceTimeMs uint64 `json:"debounce_time_ms" env:"MOUSE_SMOOTHER_DEBOUNCE_TIME_MS"`

	// HDebounceTimeMs is the same gap for the horizontal wheel
	HDebounceTimeMs uint64 `json:"h_debounce_time_ms" env:"MOUSE_SMOOTHER_H_DEBOUNCE_TIME_MS"`

	// DebounceTimeoutMs bounds how long a reversal run may be suppressed
	// as jitter before it is accepted as intentional
	DebounceTimeoutMs uint64 `json:"debounce_timeout_ms" env:"MOUSE_SMOOTHER_DEBOUNCE_TIMEOUT_MS"`
}

// LoggingConfig controls log output
type LoggingConfig struct {
	// Level is one of: error, warn, info, debug, trace
	Level string `json:"level" env:"MOUSE_SMOOTHER_LOG_LEVEL"`

	// Format is "text" or "json"
	Format string `json:"format,omitempty" env:"MOUSE_SMOOTHER_LOG_FORMAT"`
}

// APIConfig configures the optional HTTP status server
type APIConfig struct {
	// Enabled starts the server when true (also forced on by -api)
	Enabled bool `json:"enabled" env:"MOUSE_SMOOTHER_API_ENABLED"`

	// Port is the listen port (default: 18980)
	Port int `json:"port" env:"MOUSE_SMOOTHER_API_PORT"`

	// Token is an optional bearer token for API requests
	Token string `json:"token,omitempty" env:"MOUSE_SMOOTHER_API_TOKEN"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Wheel: WheelConfig{
			DebounceTimeMs:    50,
			HDebounceTimeMs:   50,
			DebounceTimeoutMs: 300,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		API: APIConfig{
			Enabled: false,
			Port:    18980,
		},
	}
}

// DebounceTime returns the vertical-wheel debounce window as a Duration.
func (c *Config) DebounceTime() time.Duration {
	return time.Duration(c.Wheel.DebounceTimeMs) * time.Millisecond
}

// HDebounceTime returns the horizontal-wheel debounce window as a Duration.
func (c *Config) HDebounceTime() time.Duration {
	return time.Duration(c.Wheel.HDebounceTimeMs) * time.Millisecond
}

// DebounceTimeout returns the jitter-suppression ceiling as a Duration.
func (c *Config) DebounceTimeout() time.Duration {
	return time.Duration(c.Wheel.DebounceTimeoutMs) * time.Millisecond
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
}

// NewManager creates a configuration manager bound to the given path.
// An empty path falls back to DefaultPath.
func NewManager(path string) *Manager {
	if path == "" {
		path = DefaultPath
	}
	return &Manager{
		configPath: path,
		config:     DefaultConfig(),
	}
}

// Path returns the configuration file path.
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk, then applies MOUSE_SMOOTHER_*
// environment overrides on top. A missing file is not an error; defaults
// plus the environment apply.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config %s: %w", m.configPath, err)
	}
	if err == nil {
		if err := json.Unmarshal(data, m.config); err != nil {
			return fmt.Errorf("parse config %s: %w", m.configPath, err)
		}
	}

	if err := env.Parse(m.config); err != nil {
		return fmt.Errorf("parse environment overrides: %w", err)
	}
	return nil
}

// Save writes the configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}

	if dir := filepath.Dir(m.configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(m.configPath, data, 0644)
}

// CreateDefault writes a default configuration file if none exists yet.
func (m *Manager) CreateDefault() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file %s already exists", m.configPath)
	}
	return m.Save()
}

// Get returns the current configuration
func (m *Manager) Get() *Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set updates the configuration
func (m *Manager) Set(config *Config) {
	m.mu.Lock()
	m.config = config
	m.mu.Unlock()
}
