package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chathub/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	homeDir string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chathub",
	Short: "AI homework assistant with local chat history",
	Long: `ChatHub is a command-line AI homework assistant.

Ask questions as text or submit a photographed problem, and get answers
broken down into step-by-step solutions. Conversations are kept as named
sessions in a local history you can browse, continue, and export.

Quick Start:
  chathub ask "What is the derivative of x^2?"   # Ask a question
  chathub solve problem.jpg                      # Analyze a photographed problem
  chathub new                                    # Start a fresh conversation
  chathub list                                   # List all sessions
  chathub show <session-id>                      # View a session
  chathub export --format md                     # Export the current session

Set CHATHUB_API_KEY (or put it in ~/.chathub/.env) before asking questions.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "Custom config/data directory (default ~/.chathub)")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
