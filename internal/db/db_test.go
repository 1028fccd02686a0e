package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepConstants(t *testing.T) {
	steps := []string{
		StepResearch,
		StepDraft,
		StepEvaluation,
		StepSocial,
		StepPublish,
		StepReport,
	}

	seen := make(map[string]bool)
	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
		assert.False(t, seen[step], "step constant %q duplicated", step)
		seen[step] = true
	}
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "content_runs")
	assert.Contains(t, schemaSQL, "content_artifacts")
	assert.True(t, strings.Contains(schemaSQL, "IF NOT EXISTS"), "schema must be idempotent")
}

func TestRunType(t *testing.T) {
	run := Run{
		Topic:  "home workouts",
		Status: StatusRunning,
	}

	assert.Equal(t, "home workouts", run.Topic)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.CompletedAt)
}
