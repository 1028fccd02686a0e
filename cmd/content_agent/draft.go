package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/evaluation"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/review"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/writing"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft an article through the review loop",
	Long:  "Write a long-form article from a research file, evaluating each attempt and retrying with feedback until it passes the quality bar or attempts run out. Research may be omitted; the draft then relies on the model alone.",
	RunE:  runDraft,
}

var (
	draftTopic         string
	draftResearchPath  string
	draftOutDir        string
	draftAPIKey        string
	draftWritingSample string
)

func init() {
	draftCmd.Flags().StringVarP(&draftTopic, "topic", "t", "", "Topic the article is about (required)")
	draftCmd.Flags().StringVarP(&draftResearchPath, "research", "r", "", "Path to research.json from the research step (optional)")
	draftCmd.Flags().StringVarP(&draftOutDir, "out", "o", "", "Output directory (required)")
	draftCmd.Flags().StringVar(&draftAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	draftCmd.Flags().StringVar(&draftWritingSample, "writing-sample", "", "Path to a plain text writing sample for voice matching")

	draftCmd.MarkFlagRequired("topic")
	draftCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(draftCmd)
}

func newLLMClient(ctx context.Context, flagKey string) (llm.Client, error) {
	apiKey := flagKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("a Gemini API key is required; set --api-key or GEMINI_API_KEY")
	}
	return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
}

func runDraft(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	client, err := newLLMClient(ctx, draftAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	research := &types.ResearchData{Topic: draftTopic}
	if draftResearchPath != "" {
		if err := readJSONArtifact(draftResearchPath, research); err != nil {
			return err
		}
	}

	writer := writing.NewWriter(client)
	if draftWritingSample != "" {
		sample, err := os.ReadFile(draftWritingSample)
		if err != nil {
			return fmt.Errorf("failed to read writing sample: %w", err)
		}
		writer.Sample = string(sample)
	}

	loop := review.NewLoop(writer, evaluation.NewEvaluator(client))
	loop.OnAttempt = func(attempt int, eval *types.Evaluation) {
		fmt.Fprintf(os.Stdout, "Attempt %d: %.1f\n", attempt, eval.Overall)
	}

	result, err := loop.Run(ctx, draftTopic, research)
	if err != nil {
		return fmt.Errorf("drafting failed: %w", err)
	}

	if _, err := writeJSONArtifact(draftOutDir, "draft.json", result.Draft); err != nil {
		return err
	}
	if _, err := writeJSONArtifact(draftOutDir, "evaluation.json", result.Evaluation); err != nil {
		return err
	}
	article := result.Draft.Title + "\n\n" + result.Draft.Body
	path, err := writeTextArtifact(draftOutDir, "master_content.txt", article)
	if err != nil {
		return err
	}

	verdict := "approved"
	if !result.Evaluation.Passed {
		verdict = "best effort (below bar)"
	}
	fmt.Fprintf(os.Stdout, "Draft %s: %.1f after %d attempts\n", verdict, result.Evaluation.Overall, result.Attempts)
	fmt.Fprintf(os.Stdout, "Article: %s\n", path)
	return nil
}
