package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/config"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/notion"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/schedule"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Store documents and schedule posting slots",
	Long:  "Store the drafted article and its platform posts as documents, then book a calendar slot for each post at its platform's next engagement window. Either stage can be skipped by leaving its credentials unset.",
	RunE:  runPublish,
}

var (
	publishTopic      string
	publishDraftPath  string
	publishSocialPath string
	publishOutDir     string
)

func init() {
	publishCmd.Flags().StringVarP(&publishTopic, "topic", "t", "", "Topic the content is about (required)")
	publishCmd.Flags().StringVarP(&publishDraftPath, "draft", "d", "", "Path to draft.json from the draft step (required)")
	publishCmd.Flags().StringVarP(&publishSocialPath, "social", "s", "", "Path to social.json from the repurpose step (optional)")
	publishCmd.Flags().StringVarP(&publishOutDir, "out", "o", "", "Output directory (required)")

	publishCmd.MarkFlagRequired("topic")
	publishCmd.MarkFlagRequired("draft")
	publishCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(publishCmd)
}

func runPublish(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.FromEnv()
	if cfg.Timezone == "" {
		cfg.Timezone = config.DefaultTimezone
	}

	var draft types.Draft
	if err := readJSONArtifact(publishDraftPath, &draft); err != nil {
		return err
	}

	bundle := &types.SocialBundle{Topic: publishTopic, Posts: make(map[types.Platform]types.PlatformPost)}
	if publishSocialPath != "" {
		if err := readJSONArtifact(publishSocialPath, bundle); err != nil {
			return err
		}
	}

	record := &types.PublishRecord{
		PostPageIDs: make(map[types.Platform]string),
		EventIDs:    make(map[types.Platform]string),
	}

	if cfg.NotionAPIKey != "" && cfg.NotionDatabaseID != "" {
		store := notion.NewClient(cfg.NotionAPIKey, cfg.NotionDatabaseID)
		stored := store.StoreBundle(ctx, publishTopic, &draft, bundle)
		if stored.MasterErr != nil {
			fmt.Fprintf(os.Stdout, "Warning: %v\n", stored.MasterErr)
		}
		record.DocumentID = stored.MasterPageID
		for platform, id := range stored.PostPageIDs {
			record.PostPageIDs[platform] = id
		}
		for platform, err := range stored.PostErrors {
			fmt.Fprintf(os.Stdout, "Warning: storing %s post failed: %v\n", platform.DisplayName(), err)
		}
	} else {
		fmt.Fprintln(os.Stdout, "Document store not configured, skipping storage.")
	}

	if cfg.CalendarID != "" {
		location, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return fmt.Errorf("failed to load timezone %q: %w", cfg.Timezone, err)
		}
		creator, err := schedule.NewCalendarClient(ctx, cfg.ServiceAccountFile, cfg.CalendarID, cfg.Timezone)
		if err != nil {
			return err
		}
		scheduler := schedule.NewScheduler(creator, location)
		for platform, res := range scheduler.ScheduleBundle(ctx, bundle) {
			if res.Err != nil {
				fmt.Fprintf(os.Stdout, "Warning: scheduling %s failed: %v\n", platform.DisplayName(), res.Err)
				continue
			}
			record.EventIDs[platform] = res.EventID
			fmt.Fprintf(os.Stdout, "%s scheduled for %s\n", platform.DisplayName(), res.ScheduledAt.Format("Mon Jan 2 15:04 MST"))
		}
	} else {
		fmt.Fprintln(os.Stdout, "Calendar not configured, skipping scheduling.")
	}

	path, err := writeJSONArtifact(publishOutDir, "publish.json", record)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Publish record: %s\n", path)
	return nil
}
