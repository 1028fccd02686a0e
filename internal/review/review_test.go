package review

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

type scriptedWriter struct {
	calls     int
	failOn    int
	feedbacks []string
}

func (w *scriptedWriter) Write(ctx context.Context, topic string, research *types.ResearchData, priorFeedback string, attempt int) (*types.Draft, error) {
	w.calls++
	w.feedbacks = append(w.feedbacks, priorFeedback)
	if w.failOn != 0 && w.calls == w.failOn {
		return nil, errors.New("model unavailable")
	}
	return &types.Draft{
		Title:   fmt.Sprintf("Draft %d", attempt),
		Body:    "body",
		Attempt: attempt,
	}, nil
}

type scriptedEvaluator struct {
	scores []float64
	calls  int
}

func (e *scriptedEvaluator) Evaluate(ctx context.Context, draft *types.Draft, topic string, sourceCount int) *types.Evaluation {
	score := e.scores[e.calls]
	e.calls++
	return &types.Evaluation{
		Overall:  score,
		Passed:   score >= types.PassThreshold,
		Feedback: fmt.Sprintf("feedback after %.1f", score),
	}
}

func research() *types.ResearchData {
	return &types.ResearchData{
		Topic:   "topic",
		Sources: []types.Source{{URL: "https://a.example"}, {URL: "https://b.example"}},
	}
}

func TestRunStopsOnFirstPass(t *testing.T) {
	w := &scriptedWriter{}
	e := &scriptedEvaluator{scores: []float64{5.2, 7.7}}
	loop := NewLoop(w, e)

	res, err := loop.Run(context.Background(), "topic", research())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Attempts)
	assert.Equal(t, 2, res.Draft.Attempt)
	assert.True(t, res.Evaluation.Passed)
	assert.Equal(t, 2, w.calls)
	assert.Equal(t, 2, e.calls)
}

func TestRunPassesFeedbackForward(t *testing.T) {
	w := &scriptedWriter{}
	e := &scriptedEvaluator{scores: []float64{5.0, 8.0}}
	loop := NewLoop(w, e)

	_, err := loop.Run(context.Background(), "topic", research())
	require.NoError(t, err)

	require.Len(t, w.feedbacks, 2)
	assert.Empty(t, w.feedbacks[0])
	assert.Equal(t, "feedback after 5.0", w.feedbacks[1])
}

func TestRunExhaustionPicksBest(t *testing.T) {
	w := &scriptedWriter{}
	e := &scriptedEvaluator{scores: []float64{6.9, 6.5, 6.9}}
	loop := NewLoop(w, e)

	res, err := loop.Run(context.Background(), "topic", research())
	require.NoError(t, err)

	// Tie keeps the earlier attempt.
	assert.Equal(t, 1, res.Draft.Attempt)
	assert.Equal(t, MaxAttempts, res.Attempts)
	assert.False(t, res.Evaluation.Passed)
	assert.InDelta(t, 6.9, res.Evaluation.Overall, 0.001)
}

func TestRunExhaustionPicksStrictlyHigher(t *testing.T) {
	w := &scriptedWriter{}
	e := &scriptedEvaluator{scores: []float64{5.1, 6.8, 6.2}}
	loop := NewLoop(w, e)

	res, err := loop.Run(context.Background(), "topic", research())
	require.NoError(t, err)

	assert.Equal(t, 2, res.Draft.Attempt)
	assert.InDelta(t, 6.8, res.Evaluation.Overall, 0.001)
}

func TestRunWriterFailureAborts(t *testing.T) {
	w := &scriptedWriter{failOn: 2}
	e := &scriptedEvaluator{scores: []float64{5.0}}
	loop := NewLoop(w, e)

	res, err := loop.Run(context.Background(), "topic", research())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, 1, e.calls)
}

func TestRunReportsAttempts(t *testing.T) {
	w := &scriptedWriter{}
	e := &scriptedEvaluator{scores: []float64{8.2}}
	loop := NewLoop(w, e)

	var seen []float64
	loop.OnAttempt = func(attempt int, eval *types.Evaluation) {
		seen = append(seen, eval.Overall)
	}

	res, err := loop.Run(context.Background(), "topic", research())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, []float64{8.2}, seen)
}
