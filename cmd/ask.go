package cmd

import (
	"fmt"
	"strings"

	"github.com/iksnae/chathub/internal"
	"github.com/spf13/cobra"
)

var askSessionID string

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant a question",
	Long: `Send a text question to the assistant and print the reply.

The question and the reply are appended to the current session. When the
reply contains a multi-step solution, the steps are listed separately.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.TrimSpace(strings.Join(args, " "))
		if question == "" {
			return fmt.Errorf("question is empty")
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctrl, err := app.newController()
		if err != nil {
			return err
		}

		if askSessionID != "" {
			if err := ctrl.SwitchSession(askSessionID); err != nil {
				return err
			}
		}

		internal.LogDebug("Sending question to session %s", ctrl.Session().ID)
		turn, err := ctrl.SendText(cmd.Context(), question)
		if err != nil {
			return err
		}

		renderTurn(turn)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVar(&askSessionID, "session", "", "Append to a specific session instead of the current one")
}
