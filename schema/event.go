package schema

import "time"

// EventType tags the kind of item captured by the host integration.
type EventType string

const (
	// EventTypeFeedback is a user-submitted feedback report, optionally with
	// an annotated screenshot reference in its data.
	EventTypeFeedback EventType = "feedback"
	// EventTypePromoterScore is a promoter-score survey answer.
	EventTypePromoterScore EventType = "promoter_score"
	// EventTypeSession marks session-level analytics emitted by the host.
	EventTypeSession EventType = "session"
)

// Event is an immutable record queued for submission. Data holds JSON-compatible
// values only; it is never mutated after creation.
type Event struct {
	Type      EventType      `json:"type"`
	Data      map[string]any `json:"data"`
	CreatedAt int64          `json:"created_at"` // Unix seconds
}

// NewEvent creates an Event of the given type stamped with the current time.
func NewEvent(eventType EventType, data map[string]any) Event {
	if data == nil {
		data = map[string]any{}
	}
	return Event{
		Type:      eventType,
		Data:      data,
		CreatedAt: time.Now().Unix(),
	}
}

// NewFeedbackEvent creates a feedback event with the fields the capture flow
// collects. Extra data keys (screenshot reference, console logs) merge in.
func NewFeedbackEvent(description, email string, extra map[string]any) Event {
	data := map[string]any{
		"description": description,
		"email":       email,
	}
	for k, v := range extra {
		data[k] = v
	}
	return NewEvent(EventTypeFeedback, data)
}

// NewPromoterScoreEvent creates a promoter-score survey answer.
func NewPromoterScoreEvent(score float64, comment string) Event {
	return NewEvent(EventTypePromoterScore, map[string]any{
		"score":   score,
		"comment": comment,
	})
}
