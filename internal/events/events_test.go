package events_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyage-planner/voyage/internal/events"
)

func TestEvent_Encode(t *testing.T) {
	userID := uuid.New()
	tripID := uuid.New()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	e := events.New(events.TripCreated, userID, tripID, at, map[string]string{"destination": "PAR"})
	body, err := e.Encode()
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "trip.created", got["type"])
	assert.Equal(t, userID.String(), got["user_id"])
	assert.Equal(t, tripID.String(), got["entity_id"])
	assert.Equal(t, "2025-06-01T11:00:00Z", got["occurred_at"])
	assert.Equal(t, map[string]any{"destination": "PAR"}, got["payload"])
}

func TestEvent_EncodeOmitsEmptyPayload(t *testing.T) {
	body, err := events.New(events.TripDeleted, uuid.New(), uuid.New(), time.Now(), nil).Encode()
	require.NoError(t, err)
	assert.NotContains(t, string(body), "payload")
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	p := events.NewLogPublisher(log)

	e := events.New(events.HotelBookingConfirmed, uuid.New(), uuid.New(), time.Now(), nil)
	require.NoError(t, p.Publish(context.Background(), e))
	require.NoError(t, p.Close())

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "event", line["msg"])
	assert.Equal(t, "booking.hotel.confirmed", line["type"])
	assert.Equal(t, e.EntityID.String(), line["entity_id"])
}

func TestNewKafkaPublisher_Validation(t *testing.T) {
	_, err := events.NewKafkaPublisher(nil, "topic", nil)
	assert.Error(t, err)

	_, err = events.NewKafkaPublisher([]string{"localhost:9092"}, "", nil)
	assert.Error(t, err)

	p, err := events.NewKafkaPublisher([]string{"localhost:9092"}, "trip-events", nil)
	require.NoError(t, err)
	assert.NoError(t, p.Close())
}
