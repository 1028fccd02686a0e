package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/db"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List workflow runs recorded in the database",
	Long:  "List recent workflow runs from the configured PostgreSQL database, or show a single run with --id.",
	RunE:  runRuns,
}

var (
	runsDBURL string
	runsID    string
	runsLimit int
)

func init() {
	runsCmd.Flags().StringVar(&runsDBURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	runsCmd.Flags().StringVar(&runsID, "id", "", "Show a single run by ID")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := runsDBURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("a database URL is required; set --db-url or DATABASE_URL")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	if runsID != "" {
		id, err := uuid.Parse(runsID)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", runsID, err)
		}
		run, err := database.GetRun(ctx, id)
		if err != nil {
			return err
		}
		if run == nil {
			return fmt.Errorf("run %s not found", id)
		}
		printRun(run)
		return nil
	}

	runs, err := database.ListRuns(ctx, runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}
	for i := range runs {
		printRun(&runs[i])
	}
	return nil
}

func printRun(run *db.Run) {
	completed := "-"
	if run.CompletedAt != nil {
		completed = run.CompletedAt.Format(time.RFC3339)
	}
	fmt.Printf("%s  %-9s  %s  %s  %s\n",
		run.ID, run.Status, run.CreatedAt.Format(time.RFC3339), completed, run.Topic)
}
