package submitter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pulsenote/feedback-sync/pkg/config"
	"github.com/pulsenote/feedback-sync/schema"
)

func testEvents() []schema.Event {
	return []schema.Event{
		{
			Type:      schema.EventTypeFeedback,
			Data:      map[string]any{"description": "blank screen"},
			CreatedAt: 1690000000,
		},
		{
			Type:      schema.EventTypePromoterScore,
			Data:      map[string]any{"score": float64(8)},
			CreatedAt: 1690000100,
		},
	}
}

func TestHTTPSubmitter_SendEvents(t *testing.T) {
	var gotBody []byte
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/events", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotToken = r.Header.Get("Api-Token")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sub, err := NewHTTPSubmitter(&config.SubmitterSettings{
		Type:     "http",
		Endpoint: server.URL,
		APIToken: "secret-token",
	})
	assert.NoError(t, err)
	defer sub.Close()

	err = sub.SendEvents(context.Background(), testEvents())
	assert.NoError(t, err)
	assert.Equal(t, "secret-token", gotToken)

	var batch struct {
		Events []schema.Event `json:"events"`
	}
	assert.NoError(t, json.Unmarshal(gotBody, &batch))
	assert.Len(t, batch.Events, 2)
	assert.Equal(t, schema.EventTypeFeedback, batch.Events[0].Type)
}

func TestHTTPSubmitter_RetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sub, err := NewHTTPSubmitter(&config.SubmitterSettings{
		Type:           "http",
		Endpoint:       server.URL,
		MaxElapsedTime: 5 * time.Second,
	})
	assert.NoError(t, err)
	defer sub.Close()

	err = sub.SendEvents(context.Background(), testEvents())
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(2))
}

func TestHTTPSubmitter_RejectionIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	sub, err := NewHTTPSubmitter(&config.SubmitterSettings{
		Type:           "http",
		Endpoint:       server.URL,
		MaxElapsedTime: 5 * time.Second,
	})
	assert.NoError(t, err)
	defer sub.Close()

	err = sub.SendEvents(context.Background(), testEvents())
	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestHTTPSubmitter_ServerDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse all connections

	sub, err := NewHTTPSubmitter(&config.SubmitterSettings{
		Type:           "http",
		Endpoint:       server.URL,
		MaxElapsedTime: 500 * time.Millisecond,
	})
	assert.NoError(t, err)
	defer sub.Close()

	err = sub.SendEvents(context.Background(), testEvents())
	assert.Error(t, err)
}

func TestNewHTTPSubmitter_MissingEndpoint(t *testing.T) {
	_, err := NewHTTPSubmitter(&config.SubmitterSettings{Type: "http"})
	assert.Error(t, err)
}
