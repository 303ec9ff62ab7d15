// Package db manages the database connection and schema introspection.
//
// Design decisions:
//   - Built on database/sql so a single code path serves both
//     PostgreSQL (pgx stdlib driver) and SQLite (mattn/go-sqlite3).
//   - The connection is owned by the caller: the agent and tools use
//     it but never close it.
//   - SSH tunnel integration is handled transparently for PostgreSQL:
//     if SSH is enabled, we first establish the tunnel, then point the
//     driver at the local endpoint.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/DachengChen/askql/config"
	"github.com/DachengChen/askql/ssh"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	_ "github.com/mattn/go-sqlite3"    // registers the "sqlite3" driver
)

// DB wraps a database handle with driver identity and an optional SSH tunnel.
type DB struct {
	SQL    *sql.DB
	Driver string // config.DriverPostgres or config.DriverSQLite
	Tunnel *ssh.Tunnel
}

// Open establishes a database connection, optionally through an SSH tunnel.
func Open(ctx context.Context, cfg config.Config) (*DB, error) {
	d := &DB{Driver: cfg.Driver}

	driverName := ""
	switch cfg.Driver {
	case config.DriverPostgres:
		driverName = "pgx"
	case config.DriverSQLite:
		driverName = "sqlite3"
	default:
		return nil, fmt.Errorf("unknown driver %q (supported: postgres, sqlite)", cfg.Driver)
	}

	// If SSH tunnel is requested, set it up first.
	if cfg.Driver == config.DriverPostgres && cfg.SSH.Enabled {
		tunnel, err := ssh.NewTunnel(cfg.SSH, cfg.Host, cfg.Port)
		if err != nil {
			return nil, fmt.Errorf("ssh tunnel: %w", err)
		}
		localAddr, err := tunnel.Start(ctx)
		if err != nil {
			return nil, fmt.Errorf("ssh tunnel start: %w", err)
		}
		d.Tunnel = tunnel

		// Override connection target with local tunnel endpoint
		cfg.Host = localAddr.Host
		cfg.Port = localAddr.Port
	}

	handle, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		if d.Tunnel != nil {
			d.Tunnel.Stop()
		}
		return nil, fmt.Errorf("%s open: %w", cfg.Driver, err)
	}

	// Verify the connection
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		if d.Tunnel != nil {
			d.Tunnel.Stop()
		}
		return nil, fmt.Errorf("%s ping: %w", cfg.Driver, err)
	}

	d.SQL = handle
	return d, nil
}

// Wrap adopts an externally supplied, already-open handle. Lifecycle
// stays with the caller: do not call Close on the wrapper.
func Wrap(handle *sql.DB, driver string) *DB {
	return &DB{SQL: handle, Driver: driver}
}

// Close shuts down the handle and SSH tunnel.
func (d *DB) Close() {
	if d.SQL != nil {
		d.SQL.Close()
	}
	if d.Tunnel != nil {
		d.Tunnel.Stop()
	}
}
