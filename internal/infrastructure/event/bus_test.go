package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/printchain/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testEvent implements DomainEvent for testing
type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New()),
		Data:            "test data",
	}
}

// testHandler implements EventHandler for testing
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestEventHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	t.Run("delivers event to subscribed handler", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestEventHandler("job.completed")
		bus.Subscribe(handler)

		evt := newTestEvent("job.completed")
		require.NoError(t, bus.Publish(context.Background(), evt))

		handled := handler.getHandled()
		require.Len(t, handled, 1)
		assert.Equal(t, evt.EventID(), handled[0].EventID())
	})

	t.Run("does not deliver to handlers of other event types", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestEventHandler("invoice.created")
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("job.completed")))
		assert.Empty(t, handler.getHandled())
	})

	t.Run("wildcard handler receives all events", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestEventHandler()
		bus.Subscribe(handler)

		require.NoError(t, bus.Publish(context.Background(),
			newTestEvent("job.completed"), newTestEvent("invoice.created")))
		assert.Len(t, handler.getHandled(), 2)
	})

	t.Run("handler error does not fail publish or block other handlers", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		failing := newTestEventHandler("job.completed")
		failing.err = errors.New("handler failure")
		ok := newTestEventHandler("job.completed")
		bus.Subscribe(failing)
		bus.Subscribe(ok)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("job.completed")))
		assert.Len(t, ok.getHandled(), 1)
	})

	t.Run("unsubscribed handler receives nothing", func(t *testing.T) {
		bus := NewInMemoryEventBus(zap.NewNop())
		handler := newTestEventHandler("job.completed")
		bus.Subscribe(handler)
		bus.Unsubscribe(handler)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("job.completed")))
		assert.Empty(t, handler.getHandled())
	})
}

func TestHandlerRegistry(t *testing.T) {
	t.Run("combines type-specific and wildcard handlers", func(t *testing.T) {
		registry := NewHandlerRegistry()
		specific := newTestEventHandler("po.created")
		wildcard := newTestEventHandler()
		registry.Register(specific, "po.created")
		registry.Register(wildcard)

		handlers := registry.GetHandlers("po.created")
		assert.Len(t, handlers, 2)

		handlers = registry.GetHandlers("invoice.created")
		assert.Len(t, handlers, 1)
	})

	t.Run("unregister removes handler everywhere", func(t *testing.T) {
		registry := NewHandlerRegistry()
		handler := newTestEventHandler("po.created")
		registry.Register(handler, "po.created", "po.cancelled")
		registry.Unregister(handler)

		assert.Empty(t, registry.GetHandlers("po.created"))
		assert.Empty(t, registry.GetHandlers("po.cancelled"))
	})
}

func TestLoggingEventHandler(t *testing.T) {
	t.Run("handles any event type", func(t *testing.T) {
		handler := NewLoggingEventHandler(zap.NewNop())
		assert.Empty(t, handler.EventTypes())
		assert.NoError(t, handler.Handle(context.Background(), newTestEvent("po.created")))
	})
}
