// Package config defines the application configuration structures.
//
// Separated from cmd to allow other packages (db, ssh, agent, tui) to
// depend on config without importing Cobra.
package config

import "strconv"

// Driver names accepted in Config.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the database connection settings.
type Config struct {
	Driver string // "postgres" or "sqlite"

	// PostgreSQL settings
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string

	// SQLite settings
	Path string // database file path, or ":memory:"

	SSH SSHConfig
}

// SSHConfig holds SSH tunnel settings (PostgreSQL only).
type SSHConfig struct {
	Enabled       bool
	Host          string
	Port          int
	User          string
	KeyPath       string
	KeyPassphrase string
}

// DSN builds the connection string for the configured driver.
// When the SSH tunnel is active, the caller should override Host/Port
// with the local tunnel endpoint first.
func (c Config) DSN() string {
	if c.Driver == DriverSQLite {
		return c.Path
	}
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Database +
		" sslmode=" + c.SSLMode
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Driver:  DriverSQLite,
		Host:    "localhost",
		Port:    5432,
		User:    "postgres",
		SSLMode: "disable",
		Path:    "askql.db",
	}
}
