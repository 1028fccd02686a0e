// Package pipeline provides the high-level orchestration for the content
// generation workflow: research, drafting with review, repurposing, storage
// and scheduling.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/config"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/db"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/evaluation"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/notion"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/observability"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/repurpose"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/research"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/review"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/schedule"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/writing"
)

// ErrPartial indicates the run produced content but some downstream step
// (repurposing, storage or scheduling) failed. The status report carries
// the details.
var ErrPartial = errors.New("run completed with partial failures")

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Researcher gathers research for a topic.
type Researcher interface {
	Research(ctx context.Context, topic string) (*types.ResearchData, error)
}

// Reviewer runs the draft/evaluate loop.
type Reviewer interface {
	Run(ctx context.Context, topic string, research *types.ResearchData) (*review.Result, error)
}

// Repurposer adapts a draft into platform posts.
type Repurposer interface {
	Repurpose(ctx context.Context, topic string, draft *types.Draft) (*types.SocialBundle, error)
}

// Store persists the draft and posts as documents.
type Store interface {
	StoreBundle(ctx context.Context, topic string, draft *types.Draft, bundle *types.SocialBundle) *notion.StoreResult
}

// Scheduler books posting slots for the bundle.
type Scheduler interface {
	ScheduleBundle(ctx context.Context, bundle *types.SocialBundle) map[types.Platform]schedule.ScheduleResult
}

// Pipeline wires the workflow stages together. Store, Scheduler and
// Database are optional; a nil field skips that stage.
type Pipeline struct {
	Research   Researcher
	Review     Reviewer
	Repurpose  Repurposer
	Store      Store
	Scheduler  Scheduler
	Database   *db.DB
	Printer    *observability.Printer
	Verbose    bool
	OnProgress ProgressCallback

	// NewReviewer builds a review loop bound to a caller-provided writing
	// sample, so concurrent runs can carry different voices.
	NewReviewer func(sample string) Reviewer

	out io.Writer
}

// New builds a Pipeline from configuration, wiring real service clients.
// The returned cleanup function releases client connections and must be
// called when the pipeline is no longer needed.
func New(ctx context.Context, cfg *config.Config) (*Pipeline, func(), error) {
	client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("create llm client: %w", err)
	}

	cleanup := func() { _ = client.Close() }

	writer := writing.NewWriter(client)
	sample, err := cfg.LoadWritingSample()
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("load writing sample: %w", err)
	}
	writer.Sample = sample

	p := &Pipeline{
		Research:  research.NewResearcher(research.NewTavilyClient(cfg.TavilyAPIKey)),
		Review:    review.NewLoop(writer, evaluation.NewEvaluator(client)),
		Repurpose: repurpose.NewRepurposer(client),
		Printer:   observability.NewPrinter(os.Stdout),
		Verbose:   cfg.Verbose,
		out:       os.Stdout,
	}
	p.NewReviewer = func(sample string) Reviewer {
		w := writing.NewWriter(client)
		w.Sample = sample
		return review.NewLoop(w, evaluation.NewEvaluator(client))
	}

	if cfg.NotionAPIKey != "" {
		p.Store = notion.NewClient(cfg.NotionAPIKey, cfg.NotionDatabaseID)
	}

	if cfg.CalendarID != "" {
		location, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
		}
		creator, err := schedule.NewCalendarClient(ctx, cfg.ServiceAccountFile, cfg.CalendarID, cfg.Timezone)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		p.Scheduler = schedule.NewScheduler(creator, location)
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Printf("Warning: Failed to connect to database: %v\n", err)
			fmt.Printf("Continuing without run persistence...\n")
		} else {
			if err := database.EnsureSchema(ctx); err != nil {
				fmt.Printf("Warning: Failed to ensure database schema: %v\n", err)
				database.Close()
			} else {
				p.Database = database
				prev := cleanup
				cleanup = func() {
					database.Close()
					prev()
				}
			}
		}
	}

	return p, cleanup, nil
}

// stepf prints step progress to the pipeline's output writer.
func (p *Pipeline) stepf(format string, args ...any) {
	out := p.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, format, args...)
}

// emitProgress calls the progress callback if configured
func (p *Pipeline) emitProgress(runID uuid.UUID, step, message string, content any) {
	if p.OnProgress != nil {
		id := ""
		if runID != uuid.Nil {
			id = runID.String()
		}
		p.OnProgress(ProgressEvent{Step: step, Message: message, RunID: id, Content: content})
	}
}

// Run executes the full workflow for a topic. Research and drafting
// failures abort the run; later stages fail per item and are reported in
// the returned status report alongside ErrPartial.
func (p *Pipeline) Run(ctx context.Context, topic string) (*types.StatusReport, error) {
	return p.run(ctx, topic, p.Review)
}

// RunWithSample executes the workflow with a caller-provided writing
// sample guiding the draft's voice. An empty sample uses the configured
// reviewer unchanged.
func (p *Pipeline) RunWithSample(ctx context.Context, topic, sample string) (*types.StatusReport, error) {
	if sample == "" || p.NewReviewer == nil {
		return p.run(ctx, topic, p.Review)
	}
	return p.run(ctx, topic, p.NewReviewer(sample))
}

func (p *Pipeline) run(ctx context.Context, topic string, reviewer Reviewer) (*types.StatusReport, error) {
	var runID uuid.UUID
	if p.Database != nil {
		var err error
		runID, err = p.Database.CreateRun(ctx, topic)
		if err != nil {
			fmt.Printf("Warning: Failed to create database run: %v\n", err)
		}
	}

	// Step 1: Research
	p.stepf("Step 1/5: Researching %q...\n", topic)
	researchData, err := p.Research.Research(ctx, topic)
	if err != nil {
		p.failRun(ctx, runID)
		return nil, fmt.Errorf("research failed: %w", err)
	}
	if p.Verbose && p.Printer != nil {
		p.Printer.PrintResearch(researchData)
	}
	p.emitProgress(runID, db.StepResearch,
		fmt.Sprintf("Gathered %d sources", len(researchData.Sources)), researchData)
	p.saveArtifact(ctx, runID, db.StepResearch, researchData)

	// Step 2: Draft with review loop
	p.stepf("Step 2/5: Drafting with review (up to %d attempts)...\n", review.MaxAttempts)
	result, err := reviewer.Run(ctx, topic, researchData)
	if err != nil {
		p.failRun(ctx, runID)
		return nil, fmt.Errorf("drafting failed: %w", err)
	}
	if p.Verbose && p.Printer != nil {
		p.Printer.PrintDraft(result.Draft)
		p.Printer.PrintEvaluation(result.Evaluation)
	}
	p.emitProgress(runID, db.StepDraft,
		fmt.Sprintf("Draft %q scored %.1f after %d attempts", result.Draft.Title, result.Evaluation.Overall, result.Attempts), result.Draft)
	p.saveArtifact(ctx, runID, db.StepDraft, result.Draft)
	p.saveArtifact(ctx, runID, db.StepEvaluation, result.Evaluation)

	report := &types.StatusReport{
		Topic:      topic,
		Attempts:   result.Attempts,
		FinalScore: result.Evaluation.Overall,
		Approved:   result.Evaluation.Passed,
		Platforms:  make(map[types.Platform]types.PlatformOutcome, len(types.AllPlatforms)),
	}
	if runID != uuid.Nil {
		report.RunID = runID.String()
	}

	partial := false

	// Step 3: Repurpose for each platform
	p.stepf("Step 3/5: Repurposing for %d platforms...\n", len(types.AllPlatforms))
	bundle, err := p.Repurpose.Repurpose(ctx, topic, result.Draft)
	if err != nil {
		if !errors.Is(err, repurpose.ErrPartialFailure) {
			p.failRun(ctx, runID)
			return nil, fmt.Errorf("repurposing failed: %w", err)
		}
		partial = true
	}
	if p.Verbose && p.Printer != nil {
		p.Printer.PrintBundle(bundle)
	}
	p.emitProgress(runID, db.StepSocial,
		fmt.Sprintf("Generated %d platform posts", len(bundle.Posts)-len(bundle.FailedPlatforms())), bundle)
	p.saveArtifact(ctx, runID, db.StepSocial, bundle)

	for _, platform := range types.AllPlatforms {
		outcome := types.PlatformOutcome{Platform: platform}
		if post, ok := bundle.Posts[platform]; ok {
			outcome.Repurposed = !post.Failed()
			outcome.RepurposeError = post.Err
		}
		report.Platforms[platform] = outcome
	}

	// Step 4: Store documents
	record := &types.PublishRecord{
		PostPageIDs: make(map[types.Platform]string),
		EventIDs:    make(map[types.Platform]string),
	}
	if p.Store != nil {
		p.stepf("Step 4/5: Storing documents...\n")
		stored := p.Store.StoreBundle(ctx, topic, result.Draft, bundle)
		if stored.MasterErr != nil {
			report.StoreError = stored.MasterErr.Error()
			partial = true
		}
		report.DraftPageID = stored.MasterPageID
		record.DocumentID = stored.MasterPageID

		for platform, outcome := range report.Platforms {
			if id, ok := stored.PostPageIDs[platform]; ok {
				outcome.PageID = id
				record.PostPageIDs[platform] = id
			}
			if err, ok := stored.PostErrors[platform]; ok {
				outcome.StoreError = err.Error()
				partial = true
			}
			report.Platforms[platform] = outcome
		}
	} else {
		p.stepf("Step 4/5: Document store not configured, skipping.\n")
	}

	// Step 5: Schedule posting slots
	if p.Scheduler != nil {
		p.stepf("Step 5/5: Scheduling posting slots...\n")
		scheduled := p.Scheduler.ScheduleBundle(ctx, bundle)
		for platform, res := range scheduled {
			outcome := report.Platforms[platform]
			if res.Err != nil {
				// Platforms whose posts never generated already carry a
				// repurpose error; do not double-report them.
				if outcome.RepurposeError == "" {
					outcome.ScheduleError = res.Err.Error()
					partial = true
				}
			} else {
				outcome.EventID = res.EventID
				outcome.ScheduledAt = res.ScheduledAt
				record.EventIDs[platform] = res.EventID
			}
			report.Platforms[platform] = outcome
		}
	} else {
		p.stepf("Step 5/5: Calendar not configured, skipping.\n")
	}

	report.CompletedAt = time.Now()
	p.saveArtifact(ctx, runID, db.StepPublish, record)
	p.saveArtifact(ctx, runID, db.StepReport, report)
	p.emitProgress(runID, db.StepReport, "Run complete", report)

	if p.Database != nil && runID != uuid.Nil {
		status := db.StatusCompleted
		if partial {
			status = db.StatusPartial
		}
		if err := p.Database.CompleteRun(ctx, runID, status); err != nil {
			fmt.Printf("Warning: Failed to complete database run: %v\n", err)
		}
	}

	if p.Verbose && p.Printer != nil {
		p.Printer.PrintReport(report)
	}

	if partial {
		return report, ErrPartial
	}
	return report, nil
}

func (p *Pipeline) failRun(ctx context.Context, runID uuid.UUID) {
	if p.Database == nil || runID == uuid.Nil {
		return
	}
	if err := p.Database.CompleteRun(ctx, runID, db.StatusFailed); err != nil {
		fmt.Printf("Warning: Failed to mark database run failed: %v\n", err)
	}
}

func (p *Pipeline) saveArtifact(ctx context.Context, runID uuid.UUID, step string, content any) {
	if p.Database == nil || runID == uuid.Nil {
		return
	}
	if err := p.Database.SaveArtifact(ctx, runID, step, content); err != nil {
		fmt.Printf("Warning: Failed to save %s artifact: %v\n", step, err)
	}
}
