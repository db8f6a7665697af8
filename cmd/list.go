package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	// Styles for the session table
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	columnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")).
			Bold(true)
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions",
	Long:  `List all chat sessions in the local history, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		sessions := app.store.ListSessions()
		if len(sessions) == 0 {
			fmt.Println(headerStyle.Render("No sessions yet. Start one with `chathub ask`"))
			return nil
		}

		currentID := app.store.CurrentSessionID()

		fmt.Println(headerStyle.Render(fmt.Sprintf("Found %d session(s)", len(sessions))))
		fmt.Println()

		w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)

		_, _ = fmt.Fprintln(w, columnStyle.Render("ID")+"\t"+columnStyle.Render("Title")+"\t"+columnStyle.Render("Messages")+"\t"+columnStyle.Render("Updated")+"\t")
		_, _ = fmt.Fprintln(w, divider(90))

		for _, session := range sessions {
			id := idStyle.Render(shortID(session.ID))

			title := truncateTitle(session.Title)
			if session.ID == currentID {
				title = currentStyle.Render(title + " *")
			} else {
				title = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Render(title)
			}

			count := countStyle.Render(strconv.Itoa(len(session.Messages)))
			updated := dateStyle.Render(relativeDate(session.UpdatedTime()))

			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, title, count, updated)
		}

		_ = w.Flush()
		fmt.Println()
		fmt.Println(idStyle.Render("* current session. Use the full ID with `chathub show <id>`"))
		return nil
	},
}

// relativeDate formats t compactly depending on how long ago it was
func relativeDate(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return t.Format("Today 15:04")
	case diff < 7*24*time.Hour:
		return t.Format("Mon 15:04")
	case diff < 365*24*time.Hour:
		return t.Format("Jan 02 15:04")
	default:
		return t.Format("2006-01-02")
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
