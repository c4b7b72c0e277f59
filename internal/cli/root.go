package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcuslira2/task-manager-front/internal/apierr"
)

var app *Application

var rootCmd = &cobra.Command{
	Use:           "task-manager",
	Short:         "Command-line client for the task-manager backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = initializeApplication()
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app != nil {
			_ = app.Log.Sync()
		}
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(listCmd, createCmd, updateCmd, deleteCmd)
}

// Execute runs the command tree and maps errors onto exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		switch {
		case errors.Is(err, apierr.ErrSessionExpired),
			errors.Is(err, apierr.ErrMissingCredential),
			errors.Is(err, apierr.ErrNotAuthenticated):
			fmt.Fprintln(os.Stderr, "❌ You are not logged in. Please run 'task-manager login' first.")
		default:
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		}
		os.Exit(1)
	}
}
