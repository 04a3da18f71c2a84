// Package settings manages persistent user settings for the netsim CLI.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Fallbacks used when a setting is unset.
const (
	DefaultSSHAddr     = ":2222"
	DefaultMetricsAddr = ":9100"
)

// Settings holds persistent user preferences
type Settings struct {
	// DefaultTopology is the topology file used when -t is not specified
	DefaultTopology string `json:"default_topology,omitempty"`

	// DefaultDevice is the device used when -d is not specified
	DefaultDevice string `json:"default_device,omitempty"`

	// RedisAddr enables the Redis saved-configuration store
	RedisAddr string `json:"redis_addr,omitempty"`

	// RedisDB selects the Redis database
	RedisDB int `json:"redis_db,omitempty"`

	// AuditLog is the JSON-lines audit file; empty keeps audit in memory
	AuditLog string `json:"audit_log,omitempty"`

	SSHAddr     string `json:"ssh_addr,omitempty"`
	MetricsAddr string `json:"metrics_addr,omitempty"`
}

// Keys lists the setting names accepted by Set and Get, in display order.
var Keys = []string{
	"default_topology",
	"default_device",
	"redis_addr",
	"redis_db",
	"audit_log",
	"ssh_addr",
	"metrics_addr",
}

// DefaultSettingsPath returns the default path for the settings file
func DefaultSettingsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "netsim_settings.json"
	}
	return filepath.Join(home, ".netsim", "settings.json")
}

// Load reads settings from the default location
func Load() (*Settings, error) {
	return LoadFrom(DefaultSettingsPath())
}

// LoadFrom reads settings from a specific path
func LoadFrom(path string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty settings if file doesn't exist
			return s, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return s, nil
}

// Save writes settings to the default location
func (s *Settings) Save() error {
	return s.SaveTo(DefaultSettingsPath())
}

// SaveTo writes settings to a specific path
func (s *Settings) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Set assigns a setting by its JSON key.
func (s *Settings) Set(key, value string) error {
	switch key {
	case "default_topology":
		s.DefaultTopology = value
	case "default_device":
		s.DefaultDevice = value
	case "redis_addr":
		s.RedisAddr = value
	case "redis_db":
		if value == "" {
			s.RedisDB = 0
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || n > 15 {
			return fmt.Errorf("redis_db must be 0-15, got '%s'", value)
		}
		s.RedisDB = n
	case "audit_log":
		s.AuditLog = value
	case "ssh_addr":
		s.SSHAddr = value
	case "metrics_addr":
		s.MetricsAddr = value
	default:
		return fmt.Errorf("unknown setting '%s'", key)
	}
	return nil
}

// Get returns a setting by its JSON key as stored (no fallbacks).
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "default_topology":
		return s.DefaultTopology, nil
	case "default_device":
		return s.DefaultDevice, nil
	case "redis_addr":
		return s.RedisAddr, nil
	case "redis_db":
		return strconv.Itoa(s.RedisDB), nil
	case "audit_log":
		return s.AuditLog, nil
	case "ssh_addr":
		return s.SSHAddr, nil
	case "metrics_addr":
		return s.MetricsAddr, nil
	}
	return "", fmt.Errorf("unknown setting '%s'", key)
}

// GetSSHAddr returns the console listen address (with fallback)
func (s *Settings) GetSSHAddr() string {
	if s.SSHAddr != "" {
		return s.SSHAddr
	}
	return DefaultSSHAddr
}

// GetMetricsAddr returns the metrics listen address (with fallback)
func (s *Settings) GetMetricsAddr() string {
	if s.MetricsAddr != "" {
		return s.MetricsAddr
	}
	return DefaultMetricsAddr
}

// Clear resets all settings to defaults
func (s *Settings) Clear() {
	*s = Settings{}
}
