package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/Ikein-Sarah/content-workflow-agent/internal/backoff"
	"github.com/Ikein-Sarah/content-workflow-agent/internal/types"
)

// eventDuration is how long each posting event blocks on the calendar.
const eventDuration = time.Hour

// ErrUnavailable indicates the calendar service rejected a request.
var ErrUnavailable = errors.New("calendar unavailable")

// EventCreator books a posting slot and returns the created event ID.
// content is the full post text and becomes the event description.
type EventCreator interface {
	CreateEvent(ctx context.Context, platform types.Platform, topic, content string, start time.Time) (string, error)
}

// CalendarClient creates events through the Google Calendar API.
type CalendarClient struct {
	service    *calendar.Service
	calendarID string
	timezone   string
	retryBase  time.Duration
}

// NewCalendarClient builds a client authenticated with a service account
// credentials file. calendarID is the target calendar, usually the user's
// primary calendar shared with the service account.
func NewCalendarClient(ctx context.Context, credentialsFile, calendarID, timezone string) (*CalendarClient, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarEventsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return &CalendarClient{
		service:    svc,
		calendarID: calendarID,
		timezone:   timezone,
		retryBase:  backoff.DefaultBase,
	}, nil
}

// CreateEvent books a one hour posting event titled with the platform's
// display name and the topic. The post content goes in the description so
// the reminder carries everything needed to publish. Reminders fire by
// email an hour ahead and by popup fifteen minutes ahead.
func (c *CalendarClient) CreateEvent(ctx context.Context, platform types.Platform, topic, content string, start time.Time) (string, error) {
	event := &calendar.Event{
		Summary:     fmt.Sprintf("%s - %s", platform.DisplayName(), topic),
		Description: content,
		Start: &calendar.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: start.Add(eventDuration).Format(time.RFC3339),
			TimeZone: c.timezone,
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: 60},
				{Method: "popup", Minutes: 15},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	var created *calendar.Event
	err := backoff.Retry(ctx, backoff.DefaultAttempts, c.retryBase, func(ctx context.Context) error {
		var err error
		created, err = c.service.Events.Insert(c.calendarID, event).Context(ctx).Do()
		if err == nil {
			return nil
		}
		wrapped := fmt.Errorf("%w: insert event for %s: %v", ErrUnavailable, platform, err)
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500 && apiErr.Code != 429 {
			return backoff.Permanent(wrapped)
		}
		return wrapped
	})
	if err != nil {
		return "", err
	}
	return created.Id, nil
}

// Scheduler books one event per successful platform post, each at its next
// engagement window.
type Scheduler struct {
	creator  EventCreator
	location *time.Location

	// Now is overridable in tests.
	Now func() time.Time
}

// NewScheduler creates a Scheduler placing slots in the given location.
func NewScheduler(creator EventCreator, location *time.Location) *Scheduler {
	return &Scheduler{creator: creator, location: location, Now: time.Now}
}

// ScheduleResult is the outcome for one platform.
type ScheduleResult struct {
	EventID     string
	ScheduledAt time.Time
	Err         error
}

// ScheduleBundle books posting slots for every non-failed post in the
// bundle. Platforms fail independently; every platform present in the
// bundle gets an entry in the result.
func (s *Scheduler) ScheduleBundle(ctx context.Context, bundle *types.SocialBundle) map[types.Platform]ScheduleResult {
	results := make(map[types.Platform]ScheduleResult, len(types.AllPlatforms))
	now := s.Now().In(s.location)

	for _, platform := range types.AllPlatforms {
		post, ok := bundle.Posts[platform]
		if !ok {
			continue
		}
		if post.Failed() {
			results[platform] = ScheduleResult{Err: fmt.Errorf("post generation failed, nothing to schedule")}
			continue
		}

		slot := NextSlot(now, platform)
		eventID, err := s.creator.CreateEvent(ctx, platform, bundle.Topic, post.ContentText(), slot)
		if err != nil {
			results[platform] = ScheduleResult{Err: err}
			continue
		}
		results[platform] = ScheduleResult{EventID: eventID, ScheduledAt: slot}
	}
	return results
}
