package types

import "time"

// PublishRecord captures the identifiers created by the publishing stage.
// There is no dedup key on either write, so re-running a pipeline creates
// duplicate pages and events.
type PublishRecord struct {
	// DocumentID is the document-store page ID of the long-form draft.
	DocumentID string `json:"document_store_id"`
	// PostPageIDs maps each platform to the page ID of its derived post.
	PostPageIDs map[Platform]string `json:"post_page_ids,omitempty"`
	// EventIDs maps each platform to its calendar event ID.
	EventIDs map[Platform]string `json:"calendar_event_ids,omitempty"`
}

// PlatformOutcome reports what happened to one platform's derived post
// across repurposing, storage and scheduling. Error strings are empty on
// success.
type PlatformOutcome struct {
	Platform       Platform  `json:"platform"`
	Repurposed     bool      `json:"repurposed"`
	RepurposeError string    `json:"repurpose_error,omitempty"`
	PageID         string    `json:"page_id,omitempty"`
	StoreError     string    `json:"store_error,omitempty"`
	EventID        string    `json:"event_id,omitempty"`
	ScheduledAt    time.Time `json:"scheduled_at,omitzero"`
	ScheduleError  string    `json:"schedule_error,omitempty"`
}

// StatusReport is the end-of-run summary. Partial failures are listed here
// rather than silently dropped.
type StatusReport struct {
	RunID       string                       `json:"run_id,omitempty"`
	Topic       string                       `json:"topic"`
	Attempts    int                          `json:"attempts"`
	FinalScore  float64                      `json:"final_score"`
	Approved    bool                         `json:"approved"`
	DraftPageID string                       `json:"draft_page_id,omitempty"`
	StoreError  string                       `json:"store_error,omitempty"`
	Platforms   map[Platform]PlatformOutcome `json:"platforms"`
	CompletedAt time.Time                    `json:"completed_at"`
}
