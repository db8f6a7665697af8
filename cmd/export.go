package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iksnae/chathub/internal"
	"github.com/iksnae/chathub/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat    string
	exportOutputDir string
	exportAll       bool
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export [session-id]",
	Short: "Export sessions to file",
	Long: `Export chat sessions to various formats (jsonl, md, yaml, json).

Without an argument the current session is exported; pass a session id to
export a specific one, or --all for every session in the history.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		app, err := openApp()
		if err != nil {
			return err
		}
		defer app.Close()

		var sessions []internal.ChatSession
		switch {
		case exportAll:
			sessions = app.store.ListSessions()
			if len(sessions) == 0 {
				return fmt.Errorf("no sessions to export")
			}
		case len(args) == 1:
			session, err := resolveSession(app.store, args[0])
			if err != nil {
				return err
			}
			sessions = []internal.ChatSession{session}
		default:
			id := app.store.CurrentSessionID()
			session, found := internal.ChatSession{}, false
			if id != "" {
				session, found = app.store.GetSession(id)
			}
			if !found {
				return fmt.Errorf("no current session to export")
			}
			sessions = []internal.ChatSession{session}
		}

		if err := os.MkdirAll(exportOutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for i := range sessions {
			path := filepath.Join(exportOutputDir, fmt.Sprintf("session_%s.%s", shortID(sessions[i].ID), exporter.Extension()))
			if err := writeExport(exporter, &sessions[i], path); err != nil {
				return err
			}
			fmt.Printf("Exported %s → %s\n", shortID(sessions[i].ID), path)
		}
		return nil
	},
}

func writeExport(exporter export.Exporter, session *internal.ChatSession, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := exporter.Export(session, f); err != nil {
		return fmt.Errorf("failed to export session %s: %w", session.ID, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "md", "Export format (jsonl, md, yaml, json)")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output", "o", ".", "Output directory")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every session")
}
