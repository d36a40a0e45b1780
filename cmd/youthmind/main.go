package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:     "youthmind",
	Short:   "AI wellness companion backend for youth",
	Version: version,
	Long: `youthmind serves the MindEaseAI wellness features over HTTP and MCP:
mood detection, counselor chat, voice conversations, coping activities,
career roadmaps, and an anonymous moderated peer-support board.`,
}

func main() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resourcesCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(moodCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
