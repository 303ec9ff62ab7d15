// Package cmd contains all Cobra commands for askql.
//
// Design decision: the root command launches the chat TUI directly;
// `askql ask "..."` runs one question non-interactively for scripting.
// Connection settings come from flags or a saved profile
// (~/.askql/connections.json).
package cmd

import (
	"context"
	"fmt"

	"github.com/DachengChen/askql/agent"
	"github.com/DachengChen/askql/ai"
	"github.com/DachengChen/askql/applog"
	"github.com/DachengChen/askql/config"
	"github.com/DachengChen/askql/db"
	"github.com/DachengChen/askql/tui"
	"github.com/spf13/cobra"
)

var (
	flagDriver     string
	flagPath       string
	flagHost       string
	flagPort       int
	flagUser       string
	flagPassword   string
	flagDatabase   string
	flagSSLMode    string
	flagConnection string
	flagSaveAs     string
	flagExportDir  string

	flagSSHHost          string
	flagSSHPort          int
	flagSSHUser          string
	flagSSHKeyPath       string
	flagSSHKeyPassphrase string
)

var rootCmd = &cobra.Command{
	Use:   "askql",
	Short: "Natural-language SQL assistant for the terminal",
	Long: `askql answers natural-language questions about your database:
  • AI agent with three tools: schema inspection, SQL execution, CSV export
  • PostgreSQL (pgx) and SQLite backends
  • Optional SSH tunnel for remote servers
  • Destructive statements gated behind confirmation tokens (agent policy)

Run 'askql' to start the chat TUI, or 'askql ask "..."' for a one-shot answer.`,
	// Running with no subcommand launches the TUI.
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		ag, conn, history, err := newAgent(cmd.Context(), cfg, flagExportDir)
		if err != nil {
			return err
		}
		defer conn.Close()

		target := cfg.Path
		if cfg.Driver == config.DriverPostgres {
			target = fmt.Sprintf("%s@%s/%s", cfg.User, cfg.Host, cfg.Database)
		}
		return tui.Run(tui.Options{Agent: ag, History: history, Target: target})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagDriver, "driver", "", "database driver: postgres or sqlite")
	pf.StringVar(&flagPath, "db", "", "sqlite database file path")
	pf.StringVar(&flagHost, "host", "localhost", "postgres host")
	pf.IntVar(&flagPort, "port", 5432, "postgres port")
	pf.StringVar(&flagUser, "user", "postgres", "postgres user")
	pf.StringVar(&flagPassword, "password", "", "postgres password")
	pf.StringVar(&flagDatabase, "dbname", "postgres", "postgres database name")
	pf.StringVar(&flagSSLMode, "sslmode", "disable", "postgres sslmode")
	pf.StringVar(&flagConnection, "connection", "", "saved connection profile name")
	pf.StringVar(&flagSaveAs, "save", "", "save these settings as a named connection profile")
	pf.StringVar(&flagExportDir, "export-dir", ".", "directory for CSV exports")

	pf.StringVar(&flagSSHHost, "ssh-host", "", "SSH bastion host (enables tunnel)")
	pf.IntVar(&flagSSHPort, "ssh-port", 22, "SSH bastion port")
	pf.StringVar(&flagSSHUser, "ssh-user", "", "SSH user")
	pf.StringVar(&flagSSHKeyPath, "ssh-key", "", "SSH private key path")
	pf.StringVar(&flagSSHKeyPassphrase, "ssh-key-passphrase", "", "SSH key passphrase")
}

// Execute runs the root command.
func Execute() error {
	defer applog.Close()
	return rootCmd.Execute()
}

// resolveConfig builds the database config from a saved profile or flags,
// and optionally saves it back as a profile.
func resolveConfig() (config.Config, error) {
	var cfg config.Config

	if flagConnection != "" {
		store, err := config.NewConnectionStore()
		if err != nil {
			return cfg, fmt.Errorf("load connections: %w", err)
		}
		conn, ok := store.Get(flagConnection)
		if !ok {
			return cfg, fmt.Errorf("unknown connection profile %q", flagConnection)
		}
		cfg = conn.ToConfig()
	} else {
		cfg = config.Config{
			Driver:   flagDriver,
			Host:     flagHost,
			Port:     flagPort,
			User:     flagUser,
			Password: flagPassword,
			Database: flagDatabase,
			SSLMode:  flagSSLMode,
			Path:     flagPath,
		}
		if cfg.Driver == "" {
			// Infer the driver: an explicit sqlite path means sqlite.
			if flagPath != "" {
				cfg.Driver = config.DriverSQLite
			} else {
				cfg.Driver = config.DriverPostgres
			}
		}
		if flagSSHHost != "" {
			cfg.SSH = config.SSHConfig{
				Enabled:       true,
				Host:          flagSSHHost,
				Port:          flagSSHPort,
				User:          flagSSHUser,
				KeyPath:       flagSSHKeyPath,
				KeyPassphrase: flagSSHKeyPassphrase,
			}
		}
	}

	if flagSaveAs != "" {
		if err := saveProfile(flagSaveAs, cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// saveProfile persists the resolved config under a profile name.
func saveProfile(name string, cfg config.Config) error {
	store, err := config.NewConnectionStore()
	if err != nil {
		return fmt.Errorf("load connections: %w", err)
	}
	store.Add(config.Connection{
		Name:     name,
		Driver:   cfg.Driver,
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		SSLMode:  cfg.SSLMode,
		Path:     cfg.Path,
		SSH: config.SSHEntry{
			Enabled:       cfg.SSH.Enabled,
			Host:          cfg.SSH.Host,
			Port:          cfg.SSH.Port,
			User:          cfg.SSH.User,
			KeyPath:       cfg.SSH.KeyPath,
			KeyPassphrase: cfg.SSH.KeyPassphrase,
		},
	})
	if err := store.Save(); err != nil {
		return fmt.Errorf("save connections: %w", err)
	}
	applog.Event("CONFIG", "saved connection profile %q", name)
	return nil
}

// newAgent opens the database and wires the provider, tools, and history.
// The caller owns the returned DB and must Close it.
func newAgent(ctx context.Context, cfg config.Config, exportDir string) (*agent.Agent, *db.DB, *db.History, error) {
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	provider, err := ai.NewProvider(appCfg.AI)
	if err != nil {
		return nil, nil, nil, err
	}

	conn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect: %w", err)
	}
	applog.Event("CONNECT", "%s connected", cfg.Driver)

	schemas, err := conn.FetchAllSchemas(ctx)
	if err != nil {
		conn.Close()
		return nil, nil, nil, fmt.Errorf("introspect schema: %w", err)
	}

	history := db.NewHistory()
	ag, err := agent.New(agent.Options{
		Provider:      provider,
		Tools:         agent.DefaultTools(conn, history, exportDir),
		SchemaContext: db.FormatSchemaContext(schemas),
	})
	if err != nil {
		conn.Close()
		return nil, nil, nil, err
	}

	return ag, conn, history, nil
}
