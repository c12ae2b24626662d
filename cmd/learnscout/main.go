// Package main provides the entry point for the learnscout CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "learnscout",
		Short:         "Gather beginner learning material for a topic from Reddit",
		Long:          "learnscout finds the communities where people learn a topic, searches them for guides, roadmaps and resource lists, and packages the best threads as a JSON corpus for summarization.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGatherCommand())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
