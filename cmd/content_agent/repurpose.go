package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/repurpose"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

var repurposeCmd = &cobra.Command{
	Use:   "repurpose",
	Short: "Adapt a draft into platform posts",
	Long:  "Turn a drafted article into a short-video script, a professional network post and a casual feed caption, each formatted for its platform.",
	RunE:  runRepurpose,
}

var (
	repurposeTopic     string
	repurposeDraftPath string
	repurposeOutDir    string
	repurposeAPIKey    string
)

func init() {
	repurposeCmd.Flags().StringVarP(&repurposeTopic, "topic", "t", "", "Topic the draft is about (required)")
	repurposeCmd.Flags().StringVarP(&repurposeDraftPath, "draft", "d", "", "Path to draft.json from the draft step (required)")
	repurposeCmd.Flags().StringVarP(&repurposeOutDir, "out", "o", "", "Output directory (required)")
	repurposeCmd.Flags().StringVar(&repurposeAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")

	repurposeCmd.MarkFlagRequired("topic")
	repurposeCmd.MarkFlagRequired("draft")
	repurposeCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(repurposeCmd)
}

func runRepurpose(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	client, err := newLLMClient(ctx, repurposeAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	var draft types.Draft
	if err := readJSONArtifact(repurposeDraftPath, &draft); err != nil {
		return err
	}

	bundle, runErr := repurpose.NewRepurposer(client).Repurpose(ctx, repurposeTopic, &draft)
	if runErr != nil && !errors.Is(runErr, repurpose.ErrPartialFailure) {
		return runErr
	}

	if _, err := writeJSONArtifact(repurposeOutDir, "social.json", bundle); err != nil {
		return err
	}
	for _, platform := range types.AllPlatforms {
		post, ok := bundle.Posts[platform]
		if !ok || post.Failed() {
			continue
		}
		name := fmt.Sprintf("%s_post.txt", platform)
		if _, err := writeTextArtifact(repurposeOutDir, name, post.ContentText()); err != nil {
			return err
		}
	}

	for _, platform := range bundle.FailedPlatforms() {
		fmt.Fprintf(os.Stdout, "Warning: %s post failed: %s\n", platform.DisplayName(), bundle.Posts[platform].Err)
	}
	fmt.Fprintf(os.Stdout, "Generated %d of %d platform posts in %s\n",
		len(bundle.Posts)-len(bundle.FailedPlatforms()), len(types.AllPlatforms), repurposeOutDir)

	if runErr != nil {
		return runErr
	}
	return nil
}
