package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/research"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Gather research for a topic",
	Long:  "Run web research for a topic across facts, controversies, trends, content gaps and expert quotes, and write the structured results to a JSON file for later steps.",
	RunE:  runResearch,
}

var (
	researchTopic     string
	researchOutDir    string
	researchTavilyKey string
)

func init() {
	researchCmd.Flags().StringVarP(&researchTopic, "topic", "t", "", "Topic to research (required)")
	researchCmd.Flags().StringVarP(&researchOutDir, "out", "o", "", "Output directory (required)")
	researchCmd.Flags().StringVar(&researchTavilyKey, "tavily-key", "", "Tavily API key (optional, defaults to TAVILY_API_KEY env var)")

	researchCmd.MarkFlagRequired("topic")
	researchCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(_ *cobra.Command, _ []string) error {
	apiKey := researchTavilyKey
	if apiKey == "" {
		apiKey = os.Getenv("TAVILY_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("a Tavily API key is required; set --tavily-key or TAVILY_API_KEY")
	}

	researcher := research.NewResearcher(research.NewTavilyClient(apiKey))
	data, err := researcher.Research(context.Background(), researchTopic)
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	path, err := writeJSONArtifact(researchOutDir, "research.json", data)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Gathered %d sources for %q\n", len(data.Sources), researchTopic)
	fmt.Fprintf(os.Stdout, "Research: %s\n", path)
	return nil
}
