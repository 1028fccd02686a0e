package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Home Workouts", "home_workouts"},
		{"  AI & the future of work!  ", "ai__the_future_of_work"},
		{"C++ vs Go", "c_vs_go"},
		{"!!!", "topic"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, slugify(tt.in))
		})
	}
}

func TestSlugifyLength(t *testing.T) {
	long := slugify("a topic with a very very very very very very very long name indeed truly")
	assert.LessOrEqual(t, len(long), 60)
}

func TestJSONArtifactRoundTrip(t *testing.T) {
	dir := t.TempDir()

	draft := &types.Draft{Title: "Title", Body: "Body.", WordCount: 2, Attempt: 1}
	path, err := writeJSONArtifact(dir, "draft.json", draft)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "draft.json"), path)

	var loaded types.Draft
	require.NoError(t, readJSONArtifact(path, &loaded))
	assert.Equal(t, *draft, loaded)
}

func TestReadJSONArtifactErrors(t *testing.T) {
	var v types.Draft
	assert.Error(t, readJSONArtifact("/nonexistent/draft.json", &v))

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0o644))
	assert.Error(t, readJSONArtifact(bad, &v))
}

func TestWriteRunOutputs(t *testing.T) {
	dir := t.TempDir()

	report := &types.StatusReport{
		Topic:      "workouts",
		Attempts:   2,
		FinalScore: 7.7,
		Approved:   true,
		Platforms: map[types.Platform]types.PlatformOutcome{
			types.PlatformShortVideo: {Platform: types.PlatformShortVideo, Repurposed: true, PageID: "page-1"},
			types.PlatformCasual:     {Platform: types.PlatformCasual, RepurposeError: "bad json"},
		},
	}
	draft := &types.Draft{Title: "Title", Body: "Body."}
	bundle := &types.SocialBundle{
		Topic: "workouts",
		Posts: map[types.Platform]types.PlatformPost{
			types.PlatformShortVideo: {Platform: types.PlatformShortVideo, Hook: "hook", Body: "script"},
			types.PlatformCasual:     {Platform: types.PlatformCasual, Err: "bad json"},
		},
	}

	require.NoError(t, writeRunOutputs(dir, report, draft, bundle))

	for _, name := range []string{"report.json", "links.txt", "master_content.txt", "short_video_post.txt"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	// Failed platforms get no post file.
	_, err := os.Stat(filepath.Join(dir, "casual_post.txt"))
	assert.True(t, os.IsNotExist(err))

	links, err := os.ReadFile(filepath.Join(dir, "links.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(links), "TikTok: document page-1")
	assert.Contains(t, string(links), "Instagram: repurposing failed")
}
