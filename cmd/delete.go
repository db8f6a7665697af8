package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a chat session",
	Long: `Remove a session from the local history.

Deleting the current session leaves the current-session pointer dangling;
the next command that needs a session starts a fresh one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		session, err := resolveSession(app.store, args[0])
		if err != nil {
			return err
		}

		app.store.DeleteSession(session.ID)
		fmt.Printf("Deleted session %s (%s)\n", shortID(session.ID), truncateTitle(session.Title))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
