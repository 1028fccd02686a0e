// Package writing turns a researched topic into a long-form draft using an
// LLM, optionally matching the voice of a provided writing sample.
package writing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/prompts"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// ErrGenerationFailed indicates the model could not produce a usable draft.
var ErrGenerationFailed = errors.New("draft generation failed")

// Writer produces article drafts from research data.
type Writer struct {
	client llm.Client

	// Sample is the creator's writing sample. When set, the prompt instructs
	// the model to match its voice.
	Sample string
}

// NewWriter creates a Writer backed by the given LLM client.
func NewWriter(client llm.Client) *Writer {
	return &Writer{client: client}
}

// Write generates a draft for the topic. priorFeedback, when non-empty,
// carries the evaluator's notes from a rejected attempt and is injected into
// the prompt so the rewrite addresses them. attempt is recorded on the
// returned draft.
func (w *Writer) Write(ctx context.Context, topic string, research *types.ResearchData, priorFeedback string, attempt int) (*types.Draft, error) {
	prompt, err := w.buildPrompt(topic, research, priorFeedback)
	if err != nil {
		return nil, err
	}

	text, err := w.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	title, body := splitTitle(text)
	if body == "" {
		return nil, fmt.Errorf("%w: empty response", ErrGenerationFailed)
	}

	return &types.Draft{
		Title:     title,
		Body:      body,
		WordCount: types.CountWords(body),
		Attempt:   attempt,
	}, nil
}

func (w *Writer) buildPrompt(topic string, research *types.ResearchData, priorFeedback string) (string, error) {
	template, err := prompts.Get("writer.json", "draft-article")
	if err != nil {
		return "", fmt.Errorf("load writer prompt: %w", err)
	}

	voice := ""
	if strings.TrimSpace(w.Sample) != "" {
		voice = prompts.Format(prompts.MustGet("writer.json", "voice-section"), map[string]string{
			"WritingSample": w.Sample,
		})
	}

	feedback := ""
	if strings.TrimSpace(priorFeedback) != "" {
		feedback = prompts.Format(prompts.MustGet("writer.json", "feedback-section"), map[string]string{
			"Feedback": priorFeedback,
		})
	}

	return prompts.Format(template, map[string]string{
		"VoiceSection":    voice,
		"Topic":           topic,
		"Research":        formatResearch(research),
		"FeedbackSection": feedback,
	}), nil
}

// formatResearch renders the research data as labelled bullet sections so the
// model can weave findings into the draft.
func formatResearch(r *types.ResearchData) string {
	if r == nil {
		return "No research available."
	}

	var b strings.Builder
	if r.Summary != "" {
		b.WriteString("Summary: ")
		b.WriteString(r.Summary)
		b.WriteString("\n\n")
	}
	writeSection(&b, "FACTS AND STATS", r.FactsAndStats)
	writeSection(&b, "CONTROVERSIES AND DEBATES", r.Controversies)
	writeSection(&b, "TRENDING ANGLES", r.TrendingAngles)
	writeSection(&b, "CONTENT GAPS", r.ContentGaps)
	writeSection(&b, "EXPERT QUOTES", r.ExpertQuotes)

	if len(r.Sources) > 0 {
		b.WriteString("SOURCES:\n")
		for _, s := range r.Sources {
			fmt.Fprintf(&b, "- %s (%s)\n", s.Title, s.URL)
		}
	}

	out := strings.TrimSpace(b.String())
	if out == "" {
		return "No research available."
	}
	return out
}

func writeSection(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(heading)
	b.WriteString(":\n")
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// splitTitle separates the first non-empty line from the rest of the text.
// A leading markdown heading marker on the title is stripped in case the
// model ignores the format instruction.
func splitTitle(text string) (title, body string) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		title = strings.TrimSpace(strings.TrimLeft(trimmed, "# "))
		body = strings.TrimSpace(strings.Join(lines[i+1:], "\n"))
		return title, body
	}
	return "", ""
}
