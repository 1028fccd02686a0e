package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/config"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/pipeline"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for running the content workflow.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	p, cleanup, err := pipeline.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var artifacts server.ArtifactReader
	if p.Database != nil {
		artifacts = p.Database
	}

	srv := server.New(server.Config{Port: servePort}, p.RunWithSample, artifacts)

	return srv.Start(ctx)
}
