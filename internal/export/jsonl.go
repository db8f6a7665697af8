package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/chathub/internal"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.ChatSession, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range session.Messages {
		obj := map[string]interface{}{
			"role":      msg.Role,
			"content":   msg.Content,
			"timestamp": msg.Timestamp,
		}

		if msg.HasSteps() {
			obj["steps"] = msg.Steps
		}
		if msg.Image != "" {
			obj["image"] = msg.Image
		}

		if err := enc.Encode(obj); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
