// Package config provides settings management for the raw mouse recorder.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"rawdelta/internal/hotkey"
)

const appName = "rawdelta"

// Config represents the application settings
type Config struct {
	// ToggleHotkey pauses and resumes listening (e.g. "Ctrl+M")
	ToggleHotkey string `json:"toggle_hotkey"`

	// MaxBuffered caps the movements kept between pauses, 0 for no limit
	MaxBuffered int `json:"max_buffered"`

	// ShowTray shows the system tray icon
	ShowTray bool `json:"show_tray"`

	// StartListening opens the gate as soon as capture is registered
	StartListening bool `json:"start_listening"`

	// StartOnLogin starts the recorder when the user logs in
	StartOnLogin bool `json:"start_on_login"`

	// LogFile redirects the log to a file when set
	LogFile string `json:"log_file,omitempty"`
}

// DefaultConfig returns a new Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		ToggleHotkey: "Ctrl+M",
		ShowTray:     true,
	}
}

// Validate checks the settings for values the recorder cannot use
func (c *Config) Validate() error {
	var errs []error
	if _, err := hotkey.Parse(c.ToggleHotkey); err != nil {
		errs = append(errs, fmt.Errorf("toggle_hotkey: %w", err))
	}
	if c.MaxBuffered < 0 {
		errs = append(errs, fmt.Errorf("max_buffered: must not be negative, got %d", c.MaxBuffered))
	}
	return errors.Join(errs...)
}

// Manager handles loading and saving configuration
type Manager struct {
	mu         sync.Mutex
	configPath string
	config     *Config
}

// NewManager creates a manager for the default per-user config file
func NewManager() (*Manager, error) {
	configPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath), nil
}

// NewManagerAt creates a manager for an explicit config file
func NewManagerAt(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		config:     DefaultConfig(),
	}
}

// DefaultPath returns the per-user configuration file path
func DefaultPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", appName)
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, appName)
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", appName)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Path returns the file the manager reads and writes
func (m *Manager) Path() string {
	return m.configPath
}

// Load reads the configuration from disk. A missing file keeps the defaults.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.configPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing %s: %w", m.configPath, err)
	}
	m.config = cfg
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

	if err := os.MkdirAll(filepath.Dir(m.configPath), 0755); err != nil {
		return err
	}

	log.Printf("Config: Saving configuration to %s (%d bytes)", m.configPath, len(data))
	return os.WriteFile(m.configPath, data, 0644)
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.config
}

// Set replaces the configuration
func (m *Manager) Set(config Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = &config
}
