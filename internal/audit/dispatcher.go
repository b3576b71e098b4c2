package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/logging"
)

const (
	ActionSlotCreated         = "slot_created"
	ActionSlotCanceled        = "slot_canceled"
	ActionSlotsReserved       = "slots_reserved"
	ActionReservationConflict = "reservation_conflict"
	ActionOrderPaid           = "order_paid"
	ActionOrderExpired        = "order_expired"
)

type Event struct {
	TenantID string
	UserID   string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

// Dispatcher writes events from a single background worker. Dispatch never
// blocks the caller; when the queue is full the event is dropped.
type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
	queue  chan Event

	once sync.Once
	done chan struct{}
}

func NewDispatcher(sink Sink, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		logger: logging.OrNop(logger),
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.logger.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity_id", ev.EntityID),
				zap.Error(err),
			)
		}
	}
}

// Dispatch is safe on a nil Dispatcher.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close drains queued events and stops the worker. Dispatch must not be
// called after Close.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
