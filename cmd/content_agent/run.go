package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/config"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/pipeline"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Run the full content workflow end-to-end",
	Long: `Orchestrates the entire content workflow: research -> draft with review loop -> platform repurposing -> document storage -> calendar scheduling.

Configuration is read from the environment (or a .env file) and can be loaded from a JSON file using --config. Command-line arguments override both.`,
	RunE: runWorkflowCmd,
}

var (
	runConfigPath    string
	runTopic         string
	runOutDir        string
	runAPIKey        string
	runTavilyKey     string
	runTimezone      string
	runWritingSample string
	runDatabaseURL   string
	runVerbose       bool
)

func init() {
	runCommand.Flags().StringVar(&runConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	runCommand.Flags().StringVarP(&runTopic, "topic", "t", "", "Topic to generate content for (required)")
	runCommand.Flags().StringVarP(&runOutDir, "out", "o", "output", "Directory to write generated files into")
	runCommand.Flags().StringVar(&runAPIKey, "api-key", "", "Gemini API key (optional, defaults to GEMINI_API_KEY env var)")
	runCommand.Flags().StringVar(&runTavilyKey, "tavily-key", "", "Tavily API key (optional, defaults to TAVILY_API_KEY env var)")
	runCommand.Flags().StringVar(&runTimezone, "timezone", "", "IANA timezone for posting windows (defaults to "+config.DefaultTimezone+")")
	runCommand.Flags().StringVar(&runWritingSample, "writing-sample", "", "Path to a plain text writing sample for voice matching")
	runCommand.Flags().StringVar(&runDatabaseURL, "db-url", "", "PostgreSQL connection URL for run persistence (optional, defaults to DATABASE_URL env var)")
	runCommand.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Print detailed progress information")

	runCommand.MarkFlagRequired("topic")

	rootCmd.AddCommand(runCommand)
}

// resolveConfig builds the effective configuration: config file values,
// filled from the environment, overridden by explicitly set flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := &config.Config{}
	if runConfigPath != "" {
		loaded, err := config.Load(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if runVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", runConfigPath)
		}
	}

	merged := cfg.MergeWithDefaults(*config.FromEnv())
	cfg = &merged

	if cmd.Flags().Changed("api-key") {
		cfg.GeminiAPIKey = runAPIKey
	}
	if cmd.Flags().Changed("tavily-key") {
		cfg.TavilyAPIKey = runTavilyKey
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Timezone = runTimezone
	}
	if cmd.Flags().Changed("writing-sample") {
		cfg.WritingSample = runWritingSample
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = runDatabaseURL
	}
	cfg.Verbose = runVerbose

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWorkflowCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	p, cleanup, err := pipeline.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// Capture the draft and posts as they are produced so they can be
	// written out alongside the report.
	var draft *types.Draft
	var bundle *types.SocialBundle
	p.OnProgress = func(event pipeline.ProgressEvent) {
		switch content := event.Content.(type) {
		case *types.Draft:
			draft = content
		case *types.SocialBundle:
			bundle = content
		}
	}

	report, runErr := p.Run(ctx, runTopic)
	if runErr != nil && report == nil {
		return runErr
	}

	outDir := filepath.Join(runOutDir, slugify(runTopic))
	if err := writeRunOutputs(outDir, report, draft, bundle); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Output written to %s\n", outDir)

	if runErr != nil {
		if errors.Is(runErr, pipeline.ErrPartial) {
			fmt.Fprintf(os.Stdout, "Run finished with partial failures; see %s\n", filepath.Join(outDir, "report.json"))
			return nil
		}
		return runErr
	}
	return nil
}

// writeRunOutputs persists the generated content, the status report and a
// human-readable links summary.
func writeRunOutputs(outDir string, report *types.StatusReport, draft *types.Draft, bundle *types.SocialBundle) error {
	if _, err := writeJSONArtifact(outDir, "report.json", report); err != nil {
		return err
	}

	if draft != nil {
		article := draft.Title + "\n\n" + draft.Body
		if _, err := writeTextArtifact(outDir, "master_content.txt", article); err != nil {
			return err
		}
	}

	if bundle != nil {
		for _, platform := range types.AllPlatforms {
			post, ok := bundle.Posts[platform]
			if !ok || post.Failed() {
				continue
			}
			name := fmt.Sprintf("%s_post.txt", platform)
			if _, err := writeTextArtifact(outDir, name, post.ContentText()); err != nil {
				return err
			}
		}
	}

	links := fmt.Sprintf("Topic: %s\nApproved: %t (score %.1f after %d attempts)\n",
		report.Topic, report.Approved, report.FinalScore, report.Attempts)
	if report.DraftPageID != "" {
		links += fmt.Sprintf("Master document: %s\n", report.DraftPageID)
	}
	for _, platform := range types.AllPlatforms {
		outcome, ok := report.Platforms[platform]
		if !ok {
			continue
		}
		links += fmt.Sprintf("%s: ", platform.DisplayName())
		switch {
		case outcome.RepurposeError != "":
			links += "repurposing failed\n"
		case outcome.EventID != "":
			links += fmt.Sprintf("event %s at %s\n", outcome.EventID, outcome.ScheduledAt.Format("Mon Jan 2 15:04"))
		case outcome.PageID != "":
			links += fmt.Sprintf("document %s\n", outcome.PageID)
		default:
			links += "generated\n"
		}
	}

	_, err := writeTextArtifact(outDir, "links.txt", links)
	return err
}
