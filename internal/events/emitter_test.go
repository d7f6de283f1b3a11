package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasktrail-api/internal/events"
)

type recordingHandler struct {
	seen []*events.TaskEvent
	err  error
}

func (h *recordingHandler) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	h.seen = append(h.seen, event)
	return h.err
}

func TestEmitEventReachesAllHandlers(t *testing.T) {
	emitter := events.NewInMemoryEventEmitter(nil)

	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := events.NewTaskEvent(events.TaskCreated, uuid.New())
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, first.seen, 1)
	require.Len(t, second.seen, 1)
	assert.Equal(t, event.ID, first.seen[0].ID)
	assert.Equal(t, events.TaskCreated, second.seen[0].Type)
}

func TestEmitEventContinuesPastHandlerError(t *testing.T) {
	emitter := events.NewInMemoryEventEmitter(nil)

	failing := &recordingHandler{err: errors.New("handler down")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	err := emitter.EmitEvent(context.Background(), events.NewTaskEvent(events.TaskDeleted, uuid.New()))
	assert.EqualError(t, err, "handler down")
	assert.Len(t, healthy.seen, 1, "later handlers still receive the event")
}

func TestEmitEventWithoutHandlers(t *testing.T) {
	emitter := events.NewInMemoryEventEmitter(nil)
	assert.NoError(t, emitter.EmitEvent(context.Background(),
		events.NewTaskEvent(events.TaskUpdated, uuid.New())))
}
