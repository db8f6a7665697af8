package export

import (
	"fmt"
	"io"

	"github.com/iksnae/chathub/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.ChatSession, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", session.Title)
	_, _ = fmt.Fprintf(w, "**Session:** %s  \n", session.ID)
	_, _ = fmt.Fprintf(w, "**Created:** %s  \n", session.CreatedTime().Format("2006-01-02 15:04"))
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))

	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range session.Messages {
		timestamp := msg.Time().Format("15:04:05")
		_, _ = fmt.Fprintf(w, "**%s** (%s)\n\n", msg.Role, timestamp)

		if msg.Image != "" {
			_, _ = fmt.Fprintf(w, "*[attached image]*\n\n")
		}

		_, _ = fmt.Fprintf(w, "%s\n\n", msg.Content)

		if msg.HasSteps() {
			_, _ = fmt.Fprintf(w, "Steps:\n\n")
			for n, step := range msg.Steps {
				_, _ = fmt.Fprintf(w, "%d. %s\n", n+1, step)
			}
			_, _ = fmt.Fprintf(w, "\n")
		}

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
