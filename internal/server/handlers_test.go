package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// blockingRunner lets tests control when a background run completes.
type blockingRunner struct {
	mu      sync.Mutex
	started chan string
	samples chan string
	release chan struct{}
	report  *types.StatusReport
	err     error
}

func newBlockingRunner() *blockingRunner {
	return &blockingRunner{
		started: make(chan string, 8),
		samples: make(chan string, 8),
		release: make(chan struct{}),
		report:  &types.StatusReport{Topic: "t", Approved: true},
	}
}

func (b *blockingRunner) run(ctx context.Context, topic, writingSample string) (*types.StatusReport, error) {
	b.started <- topic
	b.samples <- writingSample
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.report, b.err
}

func newTestServer(run runFunc) *Server {
	return New(Config{Port: 0}, run, nil)
}

func postRun(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/runs", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func getPath(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(w, req)
	return w
}

func waitForStatus(t *testing.T, s *Server, id, want string) *runState {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state, ok := s.runs.get(id)
		if ok && state.Status == want {
			return state
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("run %s never reached status %s", id, want)
	return nil
}

func TestHealth(t *testing.T) {
	s := newTestServer(nil)
	w := getPath(s, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestCreateRun(t *testing.T) {
	runner := newBlockingRunner()
	s := newTestServer(runner.run)

	w := postRun(t, s, `{"topic": "home workouts"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp CreateRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, "started", resp.Status)

	assert.Equal(t, "home workouts", <-runner.started)

	// Still running until the runner returns.
	state, ok := s.runs.get(resp.RunID)
	require.True(t, ok)
	assert.Equal(t, runStatusRunning, state.Status)

	close(runner.release)
	final := waitForStatus(t, s, resp.RunID, runStatusCompleted)
	require.NotNil(t, final.Report)
	assert.True(t, final.Report.Approved)
	assert.NotNil(t, final.CompletedAt)
}

func TestCreateRunValidation(t *testing.T) {
	s := newTestServer(nil)

	w := postRun(t, s, `{"topic": "   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "topic is required")

	w = postRun(t, s, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateRunPartialFailure(t *testing.T) {
	runner := newBlockingRunner()
	runner.err = errors.New("scheduling failed for casual")
	s := newTestServer(runner.run)

	w := postRun(t, s, `{"topic": "x"}`)
	var resp CreateRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	<-runner.started
	close(runner.release)

	final := waitForStatus(t, s, resp.RunID, runStatusPartial)
	assert.Contains(t, final.Error, "scheduling failed")
	assert.NotNil(t, final.Report)
}

func TestCreateRunHardFailure(t *testing.T) {
	runner := newBlockingRunner()
	runner.report = nil
	runner.err = errors.New("research failed")
	s := newTestServer(runner.run)

	w := postRun(t, s, `{"topic": "x"}`)
	var resp CreateRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	<-runner.started
	close(runner.release)

	final := waitForStatus(t, s, resp.RunID, runStatusFailed)
	assert.Equal(t, "research failed", final.Error)
	assert.Nil(t, final.Report)
}

func TestCreateRunWritingSample(t *testing.T) {
	runner := newBlockingRunner()
	s := newTestServer(runner.run)

	postRun(t, s, `{"topic": "x", "writing_sample": "my voice"}`)
	<-runner.started
	assert.Equal(t, "my voice", <-runner.samples)

	postRun(t, s, `{"topic": "y"}`)
	<-runner.started
	assert.Empty(t, <-runner.samples)

	close(runner.release)
}

func TestGetRun(t *testing.T) {
	s := newTestServer(nil)

	w := getPath(s, "/runs/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(s, "/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRuns(t *testing.T) {
	runner := newBlockingRunner()
	s := newTestServer(runner.run)

	postRun(t, s, `{"topic": "first"}`)
	postRun(t, s, `{"topic": "second"}`)
	<-runner.started
	<-runner.started
	close(runner.release)

	w := getPath(s, "/runs")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Runs []runState `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Runs, 2)
}

// fakeArtifacts serves canned artifact payloads keyed by step.
type fakeArtifacts struct {
	runID     uuid.UUID
	artifacts map[string][]byte
}

func (f *fakeArtifacts) GetArtifact(_ context.Context, runID uuid.UUID, step string) ([]byte, error) {
	if runID != f.runID {
		return nil, nil
	}
	return f.artifacts[step], nil
}

func TestGetRunArtifacts(t *testing.T) {
	dbRunID := uuid.New()
	runner := newBlockingRunner()
	runner.report = &types.StatusReport{Topic: "t", RunID: dbRunID.String()}

	s := New(Config{Port: 0}, runner.run, &fakeArtifacts{
		runID: dbRunID,
		artifacts: map[string][]byte{
			"research": []byte(`{"topic": "t"}`),
			"report":   []byte(`{"approved": true}`),
		},
	})

	w := postRun(t, s, `{"topic": "t"}`)
	var resp CreateRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	<-runner.started

	// Nothing recorded until the run finishes.
	w = getPath(s, "/runs/"+resp.RunID+"/artifacts")
	assert.Equal(t, http.StatusNotFound, w.Code)

	close(runner.release)
	waitForStatus(t, s, resp.RunID, runStatusCompleted)

	w = getPath(s, "/runs/"+resp.RunID+"/artifacts")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		RunID     string                     `json:"run_id"`
		Artifacts map[string]json.RawMessage `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, resp.RunID, body.RunID)
	require.Len(t, body.Artifacts, 2)
	assert.JSONEq(t, `{"topic": "t"}`, string(body.Artifacts["research"]))
	assert.JSONEq(t, `{"approved": true}`, string(body.Artifacts["report"]))
}

func TestGetRunArtifactsWithoutDatabase(t *testing.T) {
	runner := newBlockingRunner()
	s := newTestServer(runner.run)

	w := postRun(t, s, `{"topic": "t"}`)
	var resp CreateRunResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	<-runner.started
	close(runner.release)
	waitForStatus(t, s, resp.RunID, runStatusCompleted)

	w = getPath(s, "/runs/"+resp.RunID+"/artifacts")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}

func TestGetRunArtifactsUnknownRun(t *testing.T) {
	s := newTestServer(nil)

	w := getPath(s, "/runs/not-a-uuid/artifacts")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = getPath(s, "/runs/6ba7b810-9dad-11d1-80b4-00c04fd430c8/artifacts")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
