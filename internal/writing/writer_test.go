package writing

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
	lastTier   llm.ModelTier
}

func (f *fakeClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.response, f.err
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *fakeClient) Close() error { return nil }

func sampleResearch() *types.ResearchData {
	return &types.ResearchData{
		Topic:          "home workouts",
		FactsAndStats:  []string{"72% of people quit the gym within 6 months"},
		TrendingAngles: []string{"trending: 15-minute routines"},
		Sources:        []types.Source{{Title: "Fitness Report", URL: "https://example.com/report"}},
		Summary:        "Short routines are replacing gym memberships.",
	}
}

func TestWriteProducesDraft(t *testing.T) {
	client := &fakeClient{
		response: "The 15-Minute Fix\n\nEveryone says they have no time. Here is the system.",
	}
	w := NewWriter(client)

	draft, err := w.Write(context.Background(), "home workouts", sampleResearch(), "", 1)
	require.NoError(t, err)

	assert.Equal(t, "The 15-Minute Fix", draft.Title)
	assert.Equal(t, "Everyone says they have no time. Here is the system.", draft.Body)
	assert.Equal(t, 1, draft.Attempt)
	assert.Equal(t, types.CountWords(draft.Body), draft.WordCount)
	assert.Equal(t, llm.TierAdvanced, client.lastTier)
	assert.Contains(t, client.lastPrompt, "home workouts")
	assert.Contains(t, client.lastPrompt, "72% of people quit")
	assert.Contains(t, client.lastPrompt, "https://example.com/report")
}

func TestWriteStripsMarkdownHeading(t *testing.T) {
	client := &fakeClient{response: "## A Title\n\nBody text here."}
	w := NewWriter(client)

	draft, err := w.Write(context.Background(), "topic", sampleResearch(), "", 1)
	require.NoError(t, err)
	assert.Equal(t, "A Title", draft.Title)
}

func TestWriteInjectsVoiceAndFeedback(t *testing.T) {
	client := &fakeClient{response: "Title\n\nBody."}
	w := NewWriter(client)
	w.Sample = "I write short. Punchy. Like this."

	_, err := w.Write(context.Background(), "topic", sampleResearch(), "hook was weak, no numbers", 2)
	require.NoError(t, err)

	assert.Contains(t, client.lastPrompt, "I write short. Punchy.")
	assert.Contains(t, client.lastPrompt, "hook was weak, no numbers")
	assert.Contains(t, client.lastPrompt, "PREVIOUS ATTEMPT FEEDBACK")
}

func TestWriteOmitsOptionalSections(t *testing.T) {
	client := &fakeClient{response: "Title\n\nBody."}
	w := NewWriter(client)

	_, err := w.Write(context.Background(), "topic", sampleResearch(), "", 1)
	require.NoError(t, err)

	assert.NotContains(t, client.lastPrompt, "THE CREATOR'S VOICE")
	assert.NotContains(t, client.lastPrompt, "PREVIOUS ATTEMPT FEEDBACK")
	assert.False(t, strings.Contains(client.lastPrompt, "{{."), "unresolved placeholders in prompt")
}

func TestWriteProviderError(t *testing.T) {
	client := &fakeClient{err: errors.New("quota exceeded")}
	w := NewWriter(client)

	_, err := w.Write(context.Background(), "topic", sampleResearch(), "", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestWriteEmptyBody(t *testing.T) {
	client := &fakeClient{response: "Just a title, no body"}
	w := NewWriter(client)

	_, err := w.Write(context.Background(), "topic", sampleResearch(), "", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
