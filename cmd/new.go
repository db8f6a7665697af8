package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCmd represents the new command
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new chat session",
	Long: `Create a fresh session and make it the current one.

Existing sessions are kept; use 'chathub list' to see them all.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		session := app.store.CreateSession()
		fmt.Printf("Started new session %s\n", shortID(session.ID))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
