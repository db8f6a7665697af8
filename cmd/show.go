package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chathub/internal"
	"github.com/spf13/cobra"
)

var showLimit int

var sessionHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("212")).
	Padding(0, 1)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show messages for a session",
	Long: `Display the conversation of a session.

Without an argument the current session is shown. A unique id prefix is
accepted in place of the full session id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		var session internal.ChatSession
		if len(args) == 1 {
			session, err = resolveSession(app.store, args[0])
			if err != nil {
				return err
			}
		} else {
			id := app.store.CurrentSessionID()
			found := false
			if id != "" {
				session, found = app.store.GetSession(id)
			}
			if !found {
				return fmt.Errorf("no current session, start one with `chathub ask`")
			}
		}

		fmt.Println(sessionHeaderStyle.Render(session.Title))
		fmt.Println(mutedStyle.Render(fmt.Sprintf("%s · %d message(s) · created %s",
			session.ID, len(session.Messages), session.CreatedTime().Format("2006-01-02 15:04"))))
		fmt.Println()

		messages := session.Messages
		if showLimit > 0 && len(messages) > showLimit {
			fmt.Println(mutedStyle.Render(fmt.Sprintf("(showing last %d of %d messages)", showLimit, len(messages))))
			fmt.Println()
			messages = messages[len(messages)-showLimit:]
		}

		for _, msg := range messages {
			renderMessage(msg)
		}
		return nil
	},
}

// resolveSession finds a session by full id or unique id prefix
func resolveSession(store *internal.SessionStore, id string) (internal.ChatSession, error) {
	if session, ok := store.GetSession(id); ok {
		return session, nil
	}

	var matches []internal.ChatSession
	for _, session := range store.ListSessions() {
		if len(id) > 0 && len(session.ID) >= len(id) && session.ID[:len(id)] == id {
			matches = append(matches, session)
		}
	}

	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return internal.ChatSession{}, fmt.Errorf("session %s not found", id)
	default:
		return internal.ChatSession{}, fmt.Errorf("session id prefix %s is ambiguous (%d matches)", id, len(matches))
	}
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Show only the last N messages")
}
