package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/chathub/internal"
)

var (
	// Shared styles for rendering conversations
	userLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true)

	contentStyle = lipgloss.NewStyle().
			Padding(0, 2)

	stepNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// renderMessage prints one message with its role label, content, and steps
func renderMessage(msg internal.Message) {
	label := assistantLabelStyle.Render("assistant")
	if msg.Role == internal.RoleUser {
		label = userLabelStyle.Render("you")
	}

	timestamp := mutedStyle.Render(msg.Time().Format("15:04:05"))
	fmt.Printf("%s %s\n", label, timestamp)

	if msg.Image != "" {
		fmt.Println(contentStyle.Render(mutedStyle.Render("[attached image]")))
	}

	fmt.Println(contentStyle.Render(msg.Content))

	if msg.HasSteps() {
		fmt.Println()
		fmt.Println(contentStyle.Render(mutedStyle.Render("Steps:")))
		for i, step := range msg.Steps {
			num := stepNumberStyle.Render(fmt.Sprintf("%d.", i+1))
			fmt.Println(contentStyle.Render(fmt.Sprintf("%s %s", num, step)))
		}
	}
	fmt.Println()
}

// renderTurn prints the assistant half of a completed turn
func renderTurn(turn *internal.Turn) {
	if turn == nil {
		return
	}
	if turn.Failed {
		fmt.Println(errorStyle.Render(turn.Reply.Content))
		return
	}
	renderMessage(turn.Reply)
}

// shortID returns the first 8 characters of a session id for display
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// truncateTitle shortens long titles but keeps them readable
func truncateTitle(title string) string {
	if title == "" {
		return "Untitled"
	}
	if len(title) > 50 {
		return title[:47] + "..."
	}
	return title
}

// divider returns a horizontal rule of the given width
func divider(width int) string {
	return strings.Repeat("─", width)
}
