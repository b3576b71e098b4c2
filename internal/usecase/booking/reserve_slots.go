package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type ReserveSlotsInput struct {
	TenantID   string
	SlotIDs    []string
	CustomerID string
	TTL        time.Duration

	// Now defaults to the wall clock.
	Now time.Time
}

type ReserveSlots struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewReserveSlots(
	repo domain.Repository,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *ReserveSlots {
	return &ReserveSlots{
		repo:   repo,
		audit:  audit,
		logger: logging.OrNop(logger),
	}
}

// Execute books every requested slot for the customer and opens a pending
// order, or changes nothing. Both writes share one transaction; a partial
// transition aborts it and the conflict lists the slots that were not
// available.
func (uc *ReserveSlots) Execute(
	ctx context.Context,
	in ReserveSlotsInput,
) (*models.Order, error) {

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if in.CustomerID == "" {
		return nil, httperr.ErrUnauthorized("missing_identity")
	}
	ids := domain.Dedupe(in.SlotIDs)
	if len(ids) == 0 {
		return nil, httperr.ErrBusiness("no_slots_requested")
	}
	if in.TTL <= 0 {
		return nil, httperr.ErrBusiness("invalid_reservation_ttl")
	}

	tenant, err := loadTenant(ctx, uc.repo, in.TenantID)
	if err != nil {
		return nil, err
	}
	now := nowOr(in.Now)

	// --------------------------------------------------
	// 2. Transition + order, all or nothing
	// --------------------------------------------------
	var order *models.Order
	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		booked, err := tx.UpdateSlotStatus(ctx, domain.StatusUpdate{
			IDs:      ids,
			TenantID: tenant.ID,
			From:     models.SlotAvailable,
			To:       models.SlotBooked,
			Customer: in.CustomerID,
		})
		if err != nil {
			return err
		}

		if missing := domain.Missing(ids, booked); len(missing) > 0 {
			return httperr.WithDetails(
				httperr.ErrConflict("slots_unavailable"),
				map[string]any{"unavailable_slot_ids": missing},
			)
		}

		order = domain.NewPendingOrder(tenant, in.CustomerID, ids, now, in.TTL)
		return tx.CreateOrder(ctx, order)
	})

	// --------------------------------------------------
	// 3. Outcome
	// --------------------------------------------------
	var be httperr.BusinessError
	if errors.As(err, &be) && httperr.IsConflict(err) {
		uc.logger.Info("reservation conflict",
			zap.String("tenant_id", tenant.ID),
			zap.String("customer_id", in.CustomerID),
			zap.Any("details", be.Details),
		)
		uc.audit.Dispatch(audit.Event{
			TenantID: tenant.ID,
			UserID:   in.CustomerID,
			Action:   audit.ActionReservationConflict,
			Entity:   "slot",
			Metadata: be.Details,
		})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   in.CustomerID,
		Action:   audit.ActionSlotsReserved,
		Entity:   "order",
		EntityID: order.ID,
		Metadata: map[string]any{"slot_ids": order.SlotIDs},
	})

	return order, nil
}
