// connections.go manages saved database connections.
//
// Connections are stored in ~/.askql/connections.json so users
// can quickly reconnect without retyping credentials.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Connection is a named, saveable database connection profile.
type Connection struct {
	Name     string   `json:"name"`
	Driver   string   `json:"driver"`
	Host     string   `json:"host,omitempty"`
	Port     int      `json:"port,omitempty"`
	User     string   `json:"user,omitempty"`
	Password string   `json:"password,omitempty"`
	Database string   `json:"database,omitempty"`
	SSLMode  string   `json:"ssl_mode,omitempty"`
	Path     string   `json:"path,omitempty"` // sqlite file path
	SSH      SSHEntry `json:"ssh,omitempty"`
}

// SSHEntry holds SSH tunnel settings for a saved connection.
type SSHEntry struct {
	Enabled       bool   `json:"enabled,omitempty"`
	Host          string `json:"host,omitempty"`
	Port          int    `json:"port,omitempty"`
	User          string `json:"user,omitempty"`
	KeyPath       string `json:"key_path,omitempty"`
	KeyPassphrase string `json:"key_passphrase,omitempty"`
}

// ToConfig converts a saved profile into a runtime Config.
func (c Connection) ToConfig() Config {
	cfg := Config{
		Driver:   c.Driver,
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		SSLMode:  c.SSLMode,
		Path:     c.Path,
		SSH: SSHConfig{
			Enabled:       c.SSH.Enabled,
			Host:          c.SSH.Host,
			Port:          c.SSH.Port,
			User:          c.SSH.User,
			KeyPath:       c.SSH.KeyPath,
			KeyPassphrase: c.SSH.KeyPassphrase,
		},
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverPostgres
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	return cfg
}

// ConnectionStore manages saved connections on disk.
type ConnectionStore struct {
	path        string
	Connections []Connection `json:"connections"`
}

// NewConnectionStore creates a store, loading from ~/.askql/connections.json.
func NewConnectionStore() (*ConnectionStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(homeDir, ".askql")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	store := &ConnectionStore{
		path: filepath.Join(dir, "connections.json"),
	}

	// Load existing connections
	data, err := os.ReadFile(store.path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, store); err != nil {
		return nil, fmt.Errorf("parse connections: %w", err)
	}

	return store, nil
}

// Save writes all connections to disk.
func (s *ConnectionStore) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// Add adds or updates a connection by name.
func (s *ConnectionStore) Add(conn Connection) {
	for i, c := range s.Connections {
		if c.Name == conn.Name {
			s.Connections[i] = conn
			return
		}
	}
	s.Connections = append(s.Connections, conn)
}

// Delete removes a connection by name.
func (s *ConnectionStore) Delete(name string) {
	for i, c := range s.Connections {
		if c.Name == name {
			s.Connections = append(s.Connections[:i], s.Connections[i+1:]...)
			return
		}
	}
}

// Get retrieves a connection by name.
func (s *ConnectionStore) Get(name string) (Connection, bool) {
	for _, c := range s.Connections {
		if c.Name == name {
			return c, true
		}
	}
	return Connection{}, false
}
