package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink, zap.NewNop())

	d.Dispatch(Event{Action: ActionSlotCreated, EntityID: "s1"})
	d.Dispatch(Event{Action: ActionSlotsReserved, EntityID: "o1"})
	d.Close()

	require.Len(t, sink.events, 2)
	assert.Equal(t, ActionSlotCreated, sink.events[0].Action)
	assert.Equal(t, ActionSlotsReserved, sink.events[1].Action)
}

func TestNilDispatcher(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: ActionOrderPaid})
		d.Close()
	})
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sink := NewZapSink(zap.New(core))

	require.NoError(t, sink.Log(context.Background(), Event{
		TenantID: "t1",
		Action:   ActionOrderExpired,
		EntityID: "o1",
		Metadata: map[string]int{"released": 2},
	}))

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, ActionOrderExpired, fields["action"])
	assert.Equal(t, `{"released":2}`, fields["metadata"])
}
