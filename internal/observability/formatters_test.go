package observability

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

func TestPrintResearch(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResearch(&types.ResearchData{
		Topic:         "home workouts",
		FactsAndStats: []string{"fact one", "fact two"},
		Sources:       []types.Source{{URL: "https://a.example"}},
	})

	out := buf.String()
	assert.Contains(t, out, "RESEARCH")
	assert.Contains(t, out, "home workouts")
	assert.Contains(t, out, "fact one")
	assert.Contains(t, out, "Sources:  1")
}

func TestPrintResearchNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResearch(nil)
	assert.Empty(t, buf.String())
}

func TestPrintEvaluation(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(&types.Evaluation{
		Authenticity: 8,
		Quality:      7,
		Completeness: 7,
		Depth:        6,
		Overall:      7.3,
		Passed:       true,
	})

	out := buf.String()
	assert.Contains(t, out, "7.3")
	assert.Contains(t, out, "APPROVED")
	assert.NotContains(t, out, "Feedback")
}

func TestPrintEvaluationRejectedShowsFeedback(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintEvaluation(&types.Evaluation{
		Overall:  5.1,
		Feedback: "expand the middle section",
	})

	out := buf.String()
	assert.Contains(t, out, "REJECTED")
	assert.Contains(t, out, "expand the middle")
}

func TestPrintBundleMarksFailures(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintBundle(&types.SocialBundle{
		Topic: "workouts",
		Posts: map[types.Platform]types.PlatformPost{
			types.PlatformShortVideo:   {Platform: types.PlatformShortVideo, Hook: "stop scrolling"},
			types.PlatformProfessional: {Platform: types.PlatformProfessional, Err: "rate limited"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "stop scrolling")
	assert.Contains(t, out, "FAILED: rate limited")
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	scheduled := time.Date(2026, 9, 7, 8, 0, 0, 0, time.UTC)
	p.PrintReport(&types.StatusReport{
		Topic:       "workouts",
		Attempts:    2,
		FinalScore:  7.7,
		Approved:    true,
		DraftPageID: "page-1",
		Platforms: map[types.Platform]types.PlatformOutcome{
			types.PlatformShortVideo: {Platform: types.PlatformShortVideo, Repurposed: true, ScheduledAt: scheduled},
			types.PlatformCasual:     {Platform: types.PlatformCasual, RepurposeError: "bad json"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "RUN REPORT")
	assert.Contains(t, out, "approved")
	assert.Contains(t, out, "scheduled")
	assert.Contains(t, out, "repurpose failed: bad json")
}

func TestWrap(t *testing.T) {
	out := wrap("one two three four five", 9)
	assert.Equal(t, "one two\nthree\nfour five", out)
}
