package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/db"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// runFunc executes a workflow run for a topic, optionally guided by a
// writing sample, and returns its report. A non-nil report alongside an
// error means the run finished partially.
type runFunc func(ctx context.Context, topic, writingSample string) (*types.StatusReport, error)

// ArtifactReader loads stored stage artifacts for a workflow run. It is
// satisfied by db.DB and is nil when no database is configured.
type ArtifactReader interface {
	GetArtifact(ctx context.Context, runID uuid.UUID, step string) ([]byte, error)
}

// artifactSteps lists the stage artifacts in pipeline order.
var artifactSteps = []string{
	db.StepResearch,
	db.StepDraft,
	db.StepEvaluation,
	db.StepSocial,
	db.StepPublish,
	db.StepReport,
}

// Run statuses exposed by the API.
const (
	runStatusRunning   = "running"
	runStatusCompleted = "completed"
	runStatusPartial   = "partial"
	runStatusFailed    = "failed"
)

// runState tracks one background run.
type runState struct {
	ID          string              `json:"run_id"`
	Topic       string              `json:"topic"`
	Status      string              `json:"status"`
	Error       string              `json:"error,omitempty"`
	Report      *types.StatusReport `json:"report,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
}

// runRegistry is the in-memory index of runs started through the API.
type runRegistry struct {
	mu   sync.RWMutex
	runs map[string]*runState
}

func newRunRegistry() *runRegistry {
	return &runRegistry{runs: make(map[string]*runState)}
}

func (r *runRegistry) create(topic string) *runState {
	state := &runState{
		ID:        uuid.New().String(),
		Topic:     topic,
		Status:    runStatusRunning,
		CreatedAt: time.Now(),
	}
	r.mu.Lock()
	r.runs[state.ID] = state
	r.mu.Unlock()
	return state
}

func (r *runRegistry) finish(id, status, errMsg string, report *types.StatusReport) {
	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()
	state, ok := r.runs[id]
	if !ok {
		return
	}
	state.Status = status
	state.Error = errMsg
	state.Report = report
	state.CompletedAt = &now
}

func (r *runRegistry) get(id string) (*runState, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	state, ok := r.runs[id]
	if !ok {
		return nil, false
	}
	copied := *state
	return &copied, true
}

func (r *runRegistry) list() []*runState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*runState, 0, len(r.runs))
	for _, state := range r.runs {
		copied := *state
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// CreateRunRequest represents the request body for POST /runs. The
// writing sample is optional and steers the draft's voice for this run
// only.
type CreateRunRequest struct {
	Topic         string `json:"topic"`
	WritingSample string `json:"writing_sample,omitempty"`
}

// CreateRunResponse represents the response for POST /runs
type CreateRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// handleCreateRun starts a new workflow run in the background
func (s *Server) handleCreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		s.errorResponse(w, http.StatusBadRequest, "topic is required")
		return
	}

	state := s.runs.create(topic)
	log.Printf("Starting workflow run %s for topic %q", state.ID, topic)

	go func() {
		report, err := s.runner(context.Background(), topic, req.WritingSample)
		switch {
		case err == nil:
			s.runs.finish(state.ID, runStatusCompleted, "", report)
		case report != nil:
			s.runs.finish(state.ID, runStatusPartial, err.Error(), report)
		default:
			s.runs.finish(state.ID, runStatusFailed, err.Error(), nil)
		}
		if err != nil {
			log.Printf("Workflow run %s finished with error: %v", state.ID, err)
		}
	}()

	s.jsonResponse(w, http.StatusAccepted, CreateRunResponse{
		RunID:  state.ID,
		Status: "started",
	})
}

// handleGetRun returns the status and, when finished, the report of a run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	state, ok := s.runs.get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, state)
}

// handleListRuns returns all runs started through this server, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": s.runs.list()})
}

// handleGetRunArtifacts returns the persisted stage artifacts of a
// finished run, keyed by step name
func (s *Server) handleGetRunArtifacts(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID format")
		return
	}

	state, ok := s.runs.get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	if s.artifacts == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact persistence is not configured")
		return
	}
	if state.Report == nil || state.Report.RunID == "" {
		s.errorResponse(w, http.StatusNotFound, "No artifacts recorded for this run")
		return
	}

	dbRunID, err := uuid.Parse(state.Report.RunID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Run record carries an invalid database ID")
		return
	}

	artifacts := make(map[string]json.RawMessage)
	for _, step := range artifactSteps {
		content, err := s.artifacts.GetArtifact(r.Context(), dbRunID, step)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Failed to load artifacts: "+err.Error())
			return
		}
		if content != nil {
			artifacts[step] = json.RawMessage(content)
		}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"run_id":    id,
		"artifacts": artifacts,
	})
}
