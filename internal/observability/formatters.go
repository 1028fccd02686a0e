// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintResearch outputs a summary of the gathered research.
func (p *Printer) PrintResearch(data *types.ResearchData) {
	if data == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:    %s\n", data.Topic))
	sb.WriteString(fmt.Sprintf("Sources:  %d\n", len(data.Sources)))
	sb.WriteString("\n")

	writeList(&sb, "Facts & Stats", data.FactsAndStats)
	writeList(&sb, "Controversies", data.Controversies)
	writeList(&sb, "Trending Angles", data.TrendingAngles)
	writeList(&sb, "Content Gaps", data.ContentGaps)
	writeList(&sb, "Expert Quotes", data.ExpertQuotes)

	p.printBox("RESEARCH", strings.TrimRight(sb.String(), "\n"))
}

// PrintDraft outputs a short summary of a draft attempt.
func (p *Printer) PrintDraft(draft *types.Draft) {
	if draft == nil {
		return
	}

	content := fmt.Sprintf("Title:    %s\nWords:    %d\nAttempt:  %d",
		draft.Title, draft.WordCount, draft.Attempt)
	p.printBox("DRAFT", content)
}

// PrintEvaluation outputs the evaluator's verdict on a draft.
func (p *Printer) PrintEvaluation(eval *types.Evaluation) {
	if eval == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Authenticity:  %.1f\n", eval.Authenticity))
	sb.WriteString(fmt.Sprintf("Quality:       %.1f\n", eval.Quality))
	sb.WriteString(fmt.Sprintf("Completeness:  %.1f\n", eval.Completeness))
	sb.WriteString(fmt.Sprintf("Depth:         %.1f\n", eval.Depth))
	sb.WriteString(fmt.Sprintf("Overall:       %.1f\n", eval.Overall))
	if eval.Passed {
		sb.WriteString("Verdict:       APPROVED")
	} else {
		sb.WriteString("Verdict:       REJECTED")
	}
	if !eval.Passed && eval.Feedback != "" {
		sb.WriteString("\n\nFeedback:\n")
		sb.WriteString(wrap(eval.Feedback, boxWidth-6))
	}

	p.printBox("EVALUATION", sb.String())
}

// PrintBundle outputs a per-platform summary of the repurposed posts.
func (p *Printer) PrintBundle(bundle *types.SocialBundle) {
	if bundle == nil {
		return
	}

	var sb strings.Builder
	for _, platform := range types.AllPlatforms {
		post, ok := bundle.Posts[platform]
		if !ok {
			continue
		}
		if post.Failed() {
			sb.WriteString(fmt.Sprintf("%-12s FAILED: %s\n", platform.DisplayName(), post.Err))
			continue
		}
		sb.WriteString(fmt.Sprintf("%-12s %s\n", platform.DisplayName(), post.Hook))
	}

	p.printBox("PLATFORM POSTS", strings.TrimRight(sb.String(), "\n"))
}

// PrintReport outputs the final status report for a run.
func (p *Printer) PrintReport(report *types.StatusReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:     %s\n", report.Topic))
	sb.WriteString(fmt.Sprintf("Attempts:  %d\n", report.Attempts))
	sb.WriteString(fmt.Sprintf("Score:     %.1f\n", report.FinalScore))
	if report.Approved {
		sb.WriteString("Status:    approved\n")
	} else {
		sb.WriteString("Status:    best effort (below bar)\n")
	}
	if report.DraftPageID != "" {
		sb.WriteString(fmt.Sprintf("Document:  %s\n", report.DraftPageID))
	}
	if report.StoreError != "" {
		sb.WriteString(fmt.Sprintf("Store:     ERROR: %s\n", report.StoreError))
	}
	sb.WriteString("\n")

	for _, platform := range types.AllPlatforms {
		outcome, ok := report.Platforms[platform]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("%s:\n", platform.DisplayName()))
		switch {
		case outcome.RepurposeError != "":
			sb.WriteString(fmt.Sprintf("  repurpose failed: %s\n", outcome.RepurposeError))
		case outcome.StoreError != "":
			sb.WriteString(fmt.Sprintf("  generated, store failed: %s\n", outcome.StoreError))
		case outcome.ScheduleError != "":
			sb.WriteString(fmt.Sprintf("  stored, scheduling failed: %s\n", outcome.ScheduleError))
		case !outcome.ScheduledAt.IsZero():
			sb.WriteString(fmt.Sprintf("  scheduled %s\n", outcome.ScheduledAt.Format("Mon Jan 2 15:04 MST")))
		default:
			sb.WriteString("  stored\n")
		}
	}

	p.printBox("RUN REPORT", strings.TrimRight(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
	}
	if len(items) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
	}
	sb.WriteString("\n")
}

// wrap breaks text into lines no longer than width.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteString("\n")
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
