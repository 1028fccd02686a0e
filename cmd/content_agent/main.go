// Package main provides the entry point for the content workflow agent CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "content_agent",
	Short: "Content workflow agent",
	Long:  "Content workflow agent researches a topic, drafts a long-form article through a quality review loop, repurposes it into platform posts, stores everything as documents, and schedules posting slots.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
