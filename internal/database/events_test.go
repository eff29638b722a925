package database

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu       sync.Mutex
	messages [][]byte
}

func (p *recordingPublisher) Publish(eventData []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, eventData)
}

func TestLogEventPublishes(t *testing.T) {
	publisher := &recordingPublisher{}
	store := NewStore(testStore.GetPool(), publisher)
	userID := createTestUser(t, "event_user", "")

	event, err := store.LogEvent(context.Background(), userID, EventFileUploaded, map[string]interface{}{"id": 1})
	require.NoError(t, err)
	require.NotZero(t, event.ID)
	require.Equal(t, EventFileUploaded, event.EventType)

	require.Len(t, publisher.messages, 1)
	var published Event
	require.NoError(t, json.Unmarshal(publisher.messages[0], &published))
	require.Equal(t, event.ID, published.ID)
	require.JSONEq(t, `{"id": 1}`, string(published.Payload))
}

func TestGetEventsSince(t *testing.T) {
	first, err := testStore.LogEvent(context.Background(), 0, EventFileTouched, map[string]int{"id": 10})
	require.NoError(t, err)
	second, err := testStore.LogEvent(context.Background(), 0, EventFileDeleted, map[string]int{"id": 10})
	require.NoError(t, err)

	events, err := testStore.GetEventsSince(context.Background(), first.ID)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, second.ID, events[0].ID)

	events, err = testStore.GetEventsSince(context.Background(), second.ID)
	require.NoError(t, err)
	require.Empty(t, events)
}
