package booking

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

const DefaultSweepBatchSize = 200

type SweepResult struct {
	Scanned       int
	Canceled      int
	Skipped       int
	Failed        int
	SlotsReleased int
}

type SweepStaleReservations struct {
	repo      domain.Repository
	audit     *audit.Dispatcher
	logger    *zap.Logger
	batchSize int
}

func NewSweepStaleReservations(
	repo domain.Repository,
	audit *audit.Dispatcher,
	logger *zap.Logger,
	batchSize int,
) *SweepStaleReservations {
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}
	return &SweepStaleReservations{
		repo:      repo,
		audit:     audit,
		logger:    logging.OrNop(logger),
		batchSize: batchSize,
	}
}

// Execute cancels pending orders whose reservation ended before now and
// frees their slots. One order failing never stops the others; only the
// initial query error is returned.
func (uc *SweepStaleReservations) Execute(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	orders, err := uc.repo.FindOrders(ctx, domain.OrderFilter{
		Statuses:       []models.OrderStatus{models.OrderPending},
		ReservedBefore: now,
		Limit:          uc.batchSize,
	})
	if err != nil {
		return res, err
	}
	res.Scanned = len(orders)

	for i := range orders {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		order := &orders[i]
		canceled, released, err := uc.expire(ctx, order, now)

		switch {
		case err != nil:
			res.Failed++
			uc.logger.Error("sweep order failed", zap.String("order_id", order.ID), zap.Error(err))
		case !canceled:
			res.Skipped++
			uc.logger.Info("sweep order skipped, no longer pending", zap.String("order_id", order.ID))
		default:
			res.Canceled++
			res.SlotsReleased += released
			uc.logger.Info("sweep order expired",
				zap.String("order_id", order.ID),
				zap.Int("released", released),
				zap.Int("requested", len(order.SlotIDs)),
			)
			uc.audit.Dispatch(audit.Event{
				TenantID: order.TenantID,
				UserID:   order.UserID,
				Action:   audit.ActionOrderExpired,
				Entity:   "order",
				EntityID: order.ID,
				Metadata: map[string]int{"released": released, "requested": len(order.SlotIDs)},
			})
		}
	}

	return res, nil
}

// expire cancels the order only if it is still pending, then returns its
// slots held by the order's customer to the calendar.
func (uc *SweepStaleReservations) expire(
	ctx context.Context,
	order *models.Order,
	now time.Time,
) (bool, int, error) {

	var canceled bool
	var released []string

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderCanceled, now)
		if err != nil || !ok {
			return err
		}
		canceled = true

		released, err = tx.UpdateSlotStatus(ctx, domain.StatusUpdate{
			IDs:          order.SlotIDs,
			TenantID:     order.TenantID,
			From:         models.SlotBooked,
			To:           models.SlotAvailable,
			OnlyCustomer: order.UserID,
		})
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return canceled, len(released), nil
}
