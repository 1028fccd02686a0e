// Package evaluation scores drafts against the publishing bar. The evaluator
// fails closed: any provider or parse failure yields a zero-score rejection
// rather than an error, so the review loop always gets a verdict.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/prompts"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/schemas"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// Evaluator judges draft quality with an LLM.
type Evaluator struct {
	client llm.Client
}

// NewEvaluator creates an Evaluator backed by the given LLM client.
func NewEvaluator(client llm.Client) *Evaluator {
	return &Evaluator{client: client}
}

type evaluationResponse struct {
	Authenticity float64  `json:"authenticity_score"`
	Quality      float64  `json:"quality_score"`
	Completeness float64  `json:"completeness_score"`
	Depth        float64  `json:"depth_score"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Feedback     string   `json:"specific_feedback"`
}

// Evaluate scores the draft. sourceCount is the number of research sources
// the draft drew on, included as context for the completeness criterion.
// Evaluate never returns an error: unusable model output becomes a zero-score
// rejection whose feedback notes the failure.
func (e *Evaluator) Evaluate(ctx context.Context, draft *types.Draft, topic string, sourceCount int) *types.Evaluation {
	template, err := prompts.Get("evaluator.json", "evaluate-draft")
	if err != nil {
		return rejected(fmt.Sprintf("evaluation unavailable: %v", err))
	}

	prompt := prompts.Format(template, map[string]string{
		"WordCount":   strconv.Itoa(draft.WordCount),
		"Title":       draft.Title,
		"Body":        draft.Body,
		"Topic":       topic,
		"SourceCount": strconv.Itoa(sourceCount),
	})

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return rejected(fmt.Sprintf("evaluation call failed: %v", err))
	}

	if err := schemas.Validate(schemas.Evaluation, raw); err != nil {
		return rejected(fmt.Sprintf("evaluation response invalid: %v", err))
	}

	var resp evaluationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return rejected(fmt.Sprintf("evaluation response unparseable: %v", err))
	}

	authenticity := clampScore(resp.Authenticity)
	quality := clampScore(resp.Quality)
	completeness := clampScore(resp.Completeness)
	depth := clampScore(resp.Depth)
	overall := types.WeightedOverall(authenticity, quality, completeness, depth)

	return &types.Evaluation{
		Authenticity: authenticity,
		Quality:      quality,
		Completeness: completeness,
		Depth:        depth,
		Overall:      overall,
		Passed:       overall >= types.PassThreshold,
		Strengths:    resp.Strengths,
		Weaknesses:   resp.Weaknesses,
		Feedback:     resp.Feedback,
	}
}

// rejected builds the fail-closed verdict used when the model output cannot
// be trusted.
func rejected(reason string) *types.Evaluation {
	return &types.Evaluation{
		Passed:     false,
		Weaknesses: []string{reason},
		Feedback:   "The draft could not be evaluated. " + reason,
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
