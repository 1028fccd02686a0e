package schedule

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

func newTestCalendarClient(t *testing.T, handler http.Handler) (*CalendarClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := calendar.NewService(context.Background(),
		option.WithEndpoint(server.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)

	return &CalendarClient{
		service:    svc,
		calendarID: "cal-1",
		timezone:   "Africa/Lagos",
		retryBase:  time.Millisecond,
	}, server
}

func TestCreateEventRetriesServerErrors(t *testing.T) {
	requests := 0
	client, _ := newTestCalendarClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		var event calendar.Event
		require.NoError(t, json.NewDecoder(r.Body).Decode(&event))
		assert.Equal(t, "Instagram - home workouts", event.Summary)
		assert.Equal(t, "post text", event.Description)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(calendar.Event{Id: "evt-123"})
	}))

	loc := lagos(t)
	start := time.Date(2026, 9, 7, 11, 0, 0, 0, loc)
	id, err := client.CreateEvent(context.Background(), types.PlatformCasual, "home workouts", "post text", start)

	require.NoError(t, err)
	assert.Equal(t, "evt-123", id)
	assert.Equal(t, 3, requests)
}

func TestCreateEventDoesNotRetryClientErrors(t *testing.T) {
	requests := 0
	client, _ := newTestCalendarClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.WriteHeader(http.StatusForbidden)
	}))

	loc := lagos(t)
	start := time.Date(2026, 9, 7, 8, 0, 0, 0, loc)
	_, err := client.CreateEvent(context.Background(), types.PlatformShortVideo, "home workouts", "post text", start)

	require.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, 1, requests)
}
