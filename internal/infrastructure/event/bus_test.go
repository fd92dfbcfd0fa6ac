package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Test", uuid.New(), uuid.New())}
}

type recordingHandler struct {
	types []string
	err   error
	panic bool

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func (h *recordingHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	if h.panic {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, e)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func startedBus(t *testing.T) *InMemoryEventBus {
	t.Helper()
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	return bus
}

func TestInMemoryEventBus_DeliversByType(t *testing.T) {
	bus := startedBus(t)
	delivered := &recordingHandler{types: []string{"OrderDelivered"}}
	created := &recordingHandler{types: []string{"OrderCreated"}}
	all := &recordingHandler{}
	bus.Subscribe(delivered)
	bus.Subscribe(created)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("OrderDelivered"), newTestEvent("Other")))

	assert.Equal(t, 1, delivered.count())
	assert.Equal(t, 0, created.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := startedBus(t)
	failing := &recordingHandler{types: []string{"X"}, err: errors.New("nope")}
	panicking := &recordingHandler{types: []string{"X"}, panic: true}
	ok := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(ok)

	assert.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, ok.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := startedBus(t)
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_StoppedDropsEvents(t *testing.T) {
	bus := startedBus(t)
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("X")))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_StopWaitsForConcurrentPublishers(t *testing.T) {
	bus := startedBus(t)
	h := &recordingHandler{types: []string{"X"}}
	bus.Subscribe(h)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			for j := 0; j < 50; j++ {
				_ = bus.Publish(context.Background(), newTestEvent("X"))
			}
		}()
	}

	close(start)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	atStop := h.count()

	wg.Wait()
	assert.Equal(t, atStop, h.count(), "no delivery may finish after Stop returns")
}
