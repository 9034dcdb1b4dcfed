// Joinpanel edits the join code and server addresses used to join a
// multiplayer session.
//
// It keeps a small YAML registry with the primary server record, the relay
// server record and the persisted relay address, and offers an interactive
// form plus scriptable commands for the same edits.
//
// Usage:
//
//	joinpanel [command] [flags]
//
// Running without arguments launches the interactive form.
// See 'joinpanel --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/joinpanel/internal/logging"
	"github.com/muurk/joinpanel/internal/version"
)

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "joinpanel",
	Short: "Join code and server address editor",
	Long: `Edit the join code, primary server and relay server settings.

The form has five fields: Join Code, Server IP, Server Port, Relay IP and
Relay Port. Valid fields are written to the configuration file on submit;
the relay IP and port are only saved together.

If no command is specified, the interactive form will launch automatically.`,
	Version:           version.Version,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runForm,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "joinpanel %s (commit: %s)\n", version.Version, version.Commit)
	},
}
