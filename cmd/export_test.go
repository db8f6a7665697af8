package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iksnae/chathub/internal"
	"github.com/iksnae/chathub/internal/export"
	"github.com/iksnae/chathub/testutil"
)

func TestWriteExport(t *testing.T) {
	dir := testutil.CreateTempDir(t)

	session := &internal.ChatSession{
		ID:    "11111111-2222-3333-4444-555555555555",
		Title: "Fractions",
		Messages: []internal.Message{
			{ID: "1", Role: internal.RoleUser, Content: "How do I add fractions?", Timestamp: 1700000000000},
		},
		CreatedAt: 1700000000000,
		UpdatedAt: 1700000000000,
	}

	exporter, err := export.NewExporter("md")
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}

	path := filepath.Join(dir, "session_11111111.md")
	if err := writeExport(exporter, session, path); err != nil {
		t.Fatalf("writeExport() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "# Fractions") {
		t.Errorf("exported file missing title header:\n%s", data)
	}
	if !strings.Contains(string(data), "How do I add fractions?") {
		t.Errorf("exported file missing message content:\n%s", data)
	}
}

func TestWriteExport_BadPath(t *testing.T) {
	session := &internal.ChatSession{ID: "abc"}
	exporter, err := export.NewExporter("json")
	if err != nil {
		t.Fatalf("NewExporter() error = %v", err)
	}

	if err := writeExport(exporter, session, "/nonexistent-dir/out.json"); err == nil {
		t.Error("expected error for unwritable path")
	}
}
