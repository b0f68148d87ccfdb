// Package cli is the taskdesk command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// options are the persistent flags shared by every command.
type options struct {
	configPath string
	owner      string
	logLevel   string
}

func newRootCmd(version string) *cobra.Command {
	o := &options{}

	rootCmd := &cobra.Command{
		Use:   "taskdesk",
		Short: "taskdesk - personal tasks with an archive for past-due work",
		Long: `taskdesk keeps an owner's active tasks, projects and notes, and moves
tasks whose due day has passed into a permanent archive.

Run "taskdesk tui" for the terminal UI or "taskdesk serve" for the HTTP API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", "", "config file (default ~/.config/taskdesk/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&o.owner, "owner", "", "owner id to act as (overrides config and saved session)")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(newServeCmd(o))
	rootCmd.AddCommand(newTUICmd(o))
	rootCmd.AddCommand(newLoginCmd(o))
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd(o))
	rootCmd.AddCommand(newTaskCmd(o))
	rootCmd.AddCommand(newProjectCmd(o))
	rootCmd.AddCommand(newArchiveCmd(o))
	rootCmd.AddCommand(newNoteCmd(o))
	rootCmd.AddCommand(newConfigCmd(o))

	return rootCmd
}

// Execute runs the root command.
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}
