// ask.go implements the one-shot, non-interactive mode.
package cmd

import (
	"fmt"
	"strings"

	"github.com/DachengChen/askql/config"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask one question and print the answer",
	Long: `Runs a single agent invocation against the configured database and
prints the answer to stdout. Useful for scripting:

  askql --db chinook.db ask "how many albums are there?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		ag, conn, _, err := newAgent(ctx, cfg, flagExportDir)
		if err != nil {
			return err
		}
		defer conn.Close()

		question := strings.Join(args, " ")
		result, err := ag.Ask(ctx, question)
		if err != nil {
			return err
		}

		fmt.Println(result.Answer)
		return nil
	},
}

var connectionsCmd = &cobra.Command{
	Use:   "connections",
	Short: "List saved connection profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := config.NewConnectionStore()
		if err != nil {
			return err
		}
		if len(store.Connections) == 0 {
			fmt.Println("No saved connections. Use --save <name> to create one.")
			return nil
		}
		for _, c := range store.Connections {
			target := c.Path
			if c.Driver != "sqlite" {
				target = fmt.Sprintf("%s@%s:%d/%s", c.User, c.Host, c.Port, c.Database)
			}
			fmt.Printf("%-20s %-10s %s\n", c.Name, c.Driver, target)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(connectionsCmd)
}
