package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "twentyq",
	Short: "Web-based 20 Questions against an LLM guesser",
	Long:  "twentyq hosts a 20 Questions game: the model asks yes/no questions, you answer, it guesses. Single Go binary with an embedded web UI.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
