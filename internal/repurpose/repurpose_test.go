package repurpose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/llm"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// platformClient answers each prompt by the platform name it contains.
type platformClient struct {
	responses map[string]string
	errs      map[string]error
	calls     int
}

func (f *platformClient) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateJSON(ctx, prompt, tier)
}

func (f *platformClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.calls++
	for key, err := range f.errs {
		if strings.Contains(prompt, key) {
			return "", err
		}
	}
	for key, resp := range f.responses {
		if strings.Contains(prompt, key) {
			return resp, nil
		}
	}
	return "", errors.New("no canned response")
}

func (f *platformClient) GetModel(tier llm.ModelTier) string { return "fake-model" }

func (f *platformClient) Close() error { return nil }

func postJSON(hook string, hashtags ...string) string {
	tags := make([]string, len(hashtags))
	for i, h := range hashtags {
		tags[i] = fmt.Sprintf("%q", h)
	}
	return fmt.Sprintf(`{"hook": %q, "body": "the body", "call_to_action": "do the thing", "hashtags": [%s]}`,
		hook, strings.Join(tags, ","))
}

func testDraft() *types.Draft {
	return &types.Draft{Title: "Title", Body: "Article body about workouts.", WordCount: 1200}
}

func TestRepurposeAllPlatforms(t *testing.T) {
	client := &platformClient{responses: map[string]string{
		"short-video script":   postJSON("stop scrolling", "#fitness"),
		"professional network": postJSON("a data point", "#a", "#b", "#c", "#d", "#e"),
		"casual feed":          postJSON("real talk", "#x", "#y"),
	}}
	r := NewRepurposer(client)

	bundle, err := r.Repurpose(context.Background(), "workouts", testDraft())
	require.NoError(t, err)

	assert.True(t, bundle.Complete())
	assert.Len(t, bundle.Posts, 3)
	assert.Equal(t, 3, client.calls)
	assert.Equal(t, "stop scrolling", bundle.Posts[types.PlatformShortVideo].Hook)
	assert.Len(t, bundle.Posts[types.PlatformProfessional].Hashtags, 5)
}

func TestRepurposePartialFailure(t *testing.T) {
	client := &platformClient{
		responses: map[string]string{
			"short-video script": postJSON("hook", "#a"),
			"casual feed":        postJSON("hook", "#b"),
		},
		errs: map[string]error{"professional network": errors.New("rate limited")},
	}
	r := NewRepurposer(client)

	bundle, err := r.Repurpose(context.Background(), "workouts", testDraft())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPartialFailure)
	assert.Contains(t, err.Error(), "professional")

	// The bundle still carries every platform, with the failure marked.
	require.Len(t, bundle.Posts, 3)
	assert.True(t, bundle.Posts[types.PlatformProfessional].Failed())
	assert.False(t, bundle.Posts[types.PlatformShortVideo].Failed())
	assert.Equal(t, []types.Platform{types.PlatformProfessional}, bundle.FailedPlatforms())
}

func TestRepurposeInvalidJSON(t *testing.T) {
	client := &platformClient{responses: map[string]string{
		"short-video script":   `{"body": "missing hook"}`,
		"professional network": postJSON("hook", "#a"),
		"casual feed":          postJSON("hook", "#b"),
	}}
	r := NewRepurposer(client)

	bundle, err := r.Repurpose(context.Background(), "workouts", testDraft())
	require.Error(t, err)
	assert.True(t, bundle.Posts[types.PlatformShortVideo].Failed())
}

func TestNormalizeHashtags(t *testing.T) {
	tests := []struct {
		name  string
		in    []string
		limit int
		want  []string
	}{
		{"adds prefix", []string{"fitness", "#health"}, 0, []string{"#fitness", "#health"}},
		{"dedupes case-insensitively", []string{"#Fit", "#fit", "#go"}, 0, []string{"#Fit", "#go"}},
		{"caps at limit", []string{"#a", "#b", "#c"}, 2, []string{"#a", "#b"}},
		{"drops empties", []string{"", "  ", "#", "#ok"}, 0, []string{"#ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeHashtags(tt.in, tt.limit))
		})
	}
}
