package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsenote/feedback-sync/schema"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	ev := schema.Event{
		Type:      schema.EventTypeFeedback,
		Data:      map[string]any{"description": "crash on save", "email": "user@example.com"},
		CreatedAt: 1690000000,
	}

	data, err := Encode(ev)
	assert.NoError(t, err)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, ev.Type, decoded.Type)
	assert.Equal(t, ev.CreatedAt, decoded.CreatedAt)
	assert.Equal(t, "crash on save", decoded.Data["description"])
	assert.Equal(t, "user@example.com", decoded.Data["email"])
}

func TestDecode_NormalizesNumbersToFloat64(t *testing.T) {
	ev := schema.Event{
		Type:      schema.EventTypePromoterScore,
		Data:      map[string]any{"score": 9, "comment": "great"},
		CreatedAt: 1690000000,
	}

	data, err := Encode(ev)
	assert.NoError(t, err)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	// Integers surface as float64 after a store/reload cycle.
	assert.Equal(t, float64(9), decoded.Data["score"])

	// A second cycle is byte-identical to the first.
	second, err := Encode(decoded)
	assert.NoError(t, err)
	third, err := Decode(second)
	assert.NoError(t, err)
	assert.Equal(t, decoded, third)
}

func TestDecode_InvalidJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, "invalid JSON", decodeErr.Reason)
}

func TestDecode_MissingType(t *testing.T) {
	_, err := Decode([]byte(`{"data":{"a":1},"created_at":1690000000}`))
	assert.Error(t, err)

	var decodeErr *DecodeError
	assert.True(t, errors.As(err, &decodeErr))
}

func TestDecode_NilDataBecomesEmptyMap(t *testing.T) {
	decoded, err := Decode([]byte(`{"type":"session","created_at":1690000000}`))
	assert.NoError(t, err)
	assert.NotNil(t, decoded.Data)
	assert.Empty(t, decoded.Data)
}
