package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/justyntemme/crumbbar/internal/debug"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	Root      string         `json:"root"`      // directory shown as Home; "" = user home
	StartPath string         `json:"startPath"` // initial path below Root
	UI        UIConfig       `json:"ui"`
	Watcher   WatcherConfig  `json:"watcher"`
	Behavior  BehaviorConfig `json:"behavior"`
	Debug     DebugConfig    `json:"debug"`
}

// UIConfig holds UI-related settings
type UIConfig struct {
	Theme     string `json:"theme"`     // "light" or "dark"
	Separator string `json:"separator"` // drawn between segments
	ShowFiles bool   `json:"showFiles"` // drag source panel under the bar
}

// WatcherConfig holds directory watcher settings
type WatcherConfig struct {
	Enabled    bool `json:"enabled"`
	DebounceMs int  `json:"debounceMs"`
}

// BehaviorConfig holds behavior settings
type BehaviorConfig struct {
	OverwriteToTrash bool   `json:"overwriteToTrash"` // overwritten items go to the trash
	TrashDir         string `json:"trashDir"`         // "" = platform default
}

// DebugConfig selects debug log categories ("all", "none" or "APP,FS").
// CRUMBBAR_DEBUG takes precedence.
type DebugConfig struct {
	Categories string `json:"categories"`
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a manager for the file at path. An empty path uses
// ConfigPath().
func NewManager(path string) *Manager {
	if path == "" {
		path = ConfigPath()
	}
	return &Manager{
		config: DefaultConfig(),
		path:   path,
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme:     "light",
			Separator: "›",
			ShowFiles: true,
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMs: 200,
		},
		Behavior: BehaviorConfig{
			OverwriteToTrash: true,
		},
	}
}

// ConfigPath returns the config file path, e.g. ~/.config/crumbbar/config.json
func ConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "crumbbar", "config.json")
}

// Path returns the file the manager reads and writes.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.parseErr = nil

	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		debug.Log(debug.APP, "config: failed to create directory %s: %v", configDir, err)
		return err
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		debug.Log(debug.APP, "config: creating default config at %s", m.path)
		m.config = DefaultConfig()
		return m.saveUnlocked()
	}
	if err != nil {
		debug.Log(debug.APP, "config: failed to read %s: %v", m.path, err)
		return err
	}

	// Missing keys keep their defaults.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		debug.Log(debug.APP, "config: JSON parse error: %v", err)
		m.parseErr = fmt.Errorf("%s: %w", m.path, err)
		m.config = DefaultConfig()
		return nil // Don't return error - we're using defaults
	}

	debug.Log(debug.APP, "config: loaded from %s", m.path)
	m.config = cfg
	return nil
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// Update applies fn to the configuration and saves it.
func (m *Manager) Update(fn func(*Config)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.config)
	return m.saveUnlocked()
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// IsDarkMode returns true if dark mode is enabled
func (m *Manager) IsDarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.UI.Theme == "dark"
}

// SetTheme updates the theme setting
func (m *Manager) SetTheme(theme string) error {
	return m.Update(func(c *Config) { c.UI.Theme = theme })
}

// Generate backs up an existing config file and writes fresh defaults.
// Returns the backup path, or "" if there was nothing to back up.
func Generate(configPath string) (backupPath string, err error) {
	if configPath == "" {
		configPath = ConfigPath()
	}

	if _, err := os.Stat(configPath); err == nil {
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(configPath), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
