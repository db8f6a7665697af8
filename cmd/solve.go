package cmd

import (
	"github.com/iksnae/chathub/internal"
	"github.com/spf13/cobra"
)

var solveQuestion string

// solveCmd represents the solve command
var solveCmd = &cobra.Command{
	Use:   "solve <image-file>",
	Short: "Analyze a photographed problem",
	Long: `Send an image of a homework problem to the assistant.

The image is read from disk, base64-encoded and submitted together with an
optional question. Without --question a default analysis prompt is used.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		imageBase64, err := internal.EncodeImageFile(args[0])
		if err != nil {
			return err
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

		internal.LogDebug("Submitting image (%d encoded bytes)", len(imageBase64))
		turn, err := ctrl.SendImage(cmd.Context(), imageBase64, solveQuestion)
		if err != nil {
			return err
		}

		renderTurn(turn)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(solveCmd)
	solveCmd.Flags().StringVarP(&solveQuestion, "question", "q", "", "Question to ask about the image")
}
