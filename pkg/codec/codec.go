package codec

import (
	"encoding/json"
	"fmt"

	"github.com/pulsenote/feedback-sync/schema"
)

// DecodeError reports a stored payload that could not be turned back into an
// event. Entries failing with it are purged from the queue, not retried.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("codec: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Encode serializes an event to its canonical JSON form, used both for
// storage and for the wire submission format.
func Encode(ev schema.Event) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

// Decode reconstructs an event from its stored form. It never returns a
// partially populated event: any failure yields a *DecodeError.
//
// Numbers in the payload come back as float64 regardless of how they were
// written; callers relying on wire compatibility depend on this.
func Decode(data []byte) (schema.Event, error) {
	var ev schema.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return schema.Event{}, &DecodeError{Reason: "invalid JSON", Err: err}
	}
	if ev.Type == "" {
		return schema.Event{}, &DecodeError{Reason: "missing event type"}
	}
	if ev.CreatedAt < 0 {
		return schema.Event{}, &DecodeError{Reason: "negative creation timestamp"}
	}
	if ev.Data == nil {
		ev.Data = map[string]any{}
	}
	return ev, nil
}
