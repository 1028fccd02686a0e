// Package review runs the write/evaluate retry loop that gates drafts on
// quality before downstream stages see them.
package review

import (
	"context"
	"fmt"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// MaxAttempts caps the number of drafting rounds per run.
const MaxAttempts = 3

// Writer produces a draft for a topic. Feedback from a rejected attempt is
// passed back in on the next call.
type Writer interface {
	Write(ctx context.Context, topic string, research *types.ResearchData, priorFeedback string, attempt int) (*types.Draft, error)
}

// Evaluator scores a draft. Implementations never return an error; a verdict
// is always produced.
type Evaluator interface {
	Evaluate(ctx context.Context, draft *types.Draft, topic string, sourceCount int) *types.Evaluation
}

// Result is the outcome of a review loop: the selected draft, its evaluation
// and how many attempts were used.
type Result struct {
	Draft      *types.Draft
	Evaluation *types.Evaluation
	Attempts   int
}

// Loop pairs a writer with an evaluator.
type Loop struct {
	writer      Writer
	evaluator   Evaluator
	maxAttempts int

	// OnAttempt, when set, is called after each evaluation with the attempt
	// number and verdict. Used for progress reporting.
	OnAttempt func(attempt int, eval *types.Evaluation)
}

// NewLoop creates a review loop with the default attempt cap.
func NewLoop(writer Writer, evaluator Evaluator) *Loop {
	return &Loop{writer: writer, evaluator: evaluator, maxAttempts: MaxAttempts}
}

// Run drafts and evaluates until a draft passes or attempts are exhausted.
// On exhaustion the highest-scoring draft wins; ties keep the earlier
// attempt. A writer failure aborts the loop, since without a draft there is
// nothing to evaluate or select.
func (l *Loop) Run(ctx context.Context, topic string, research *types.ResearchData) (*Result, error) {
	sourceCount := 0
	if research != nil {
		sourceCount = len(research.Sources)
	}

	var best *Result
	feedback := ""

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		draft, err := l.writer.Write(ctx, topic, research, feedback, attempt)
		if err != nil {
			return nil, fmt.Errorf("attempt %d: %w", attempt, err)
		}

		eval := l.evaluator.Evaluate(ctx, draft, topic, sourceCount)
		if l.OnAttempt != nil {
			l.OnAttempt(attempt, eval)
		}

		if eval.Passed {
			return &Result{Draft: draft, Evaluation: eval, Attempts: attempt}, nil
		}

		if best == nil || eval.Overall > best.Evaluation.Overall {
			best = &Result{Draft: draft, Evaluation: eval, Attempts: attempt}
		}
		feedback = eval.Feedback
	}

	best.Attempts = l.maxAttempts
	return best, nil
}
