package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
	"github.com/BruksfildServices01/slot-booking/internal/timezone"
)

type CreateAvailableSlotInput struct {
	TenantID string
	ActorID  string
	Start    time.Time
	End      time.Time
	Mode     models.SlotMode
}

type CreateAvailableSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAvailableSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAvailableSlot {
	return &CreateAvailableSlot{
		repo:  repo,
		audit: audit,
	}
}

// Execute is idempotent: creating a slot that already exists returns the
// stored one with created=false. Partial overlaps are a conflict.
func (uc *CreateAvailableSlot) Execute(
	ctx context.Context,
	in CreateAvailableSlotInput,
) (*models.Slot, bool, error) {

	// --------------------------------------------------
	// 1. Ownership
	// --------------------------------------------------
	tenant, err := loadOwnedTenant(ctx, uc.repo, in.TenantID, in.ActorID)
	if err != nil {
		return nil, false, err
	}

	// --------------------------------------------------
	// 2. Interval
	// --------------------------------------------------
	slot, err := domain.NewAvailableSlot(
		tenant.ID,
		in.Start,
		in.End,
		in.Mode,
		timezone.Location(tenant.Timezone),
	)
	if err != nil {
		return nil, false, err
	}

	// --------------------------------------------------
	// 3. Insert
	// --------------------------------------------------
	err = uc.repo.InsertSlot(ctx, slot)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrSlotExists):
		return uc.existing(ctx, slot)
	case errors.Is(err, domain.ErrSlotOverlap):
		return nil, false, httperr.ErrConflict("slot_overlap")
	default:
		return nil, false, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		UserID:   in.ActorID,
		Action:   audit.ActionSlotCreated,
		Entity:   "slot",
		EntityID: slot.ID,
	})

	return slot, true, nil
}

func (uc *CreateAvailableSlot) existing(
	ctx context.Context,
	want *models.Slot,
) (*models.Slot, bool, error) {

	slots, err := uc.repo.FindSlots(ctx, domain.SlotFilter{
		TenantID:        want.TenantID,
		From:            want.Start,
		To:              want.End,
		ExcludeCanceled: true,
	})
	if err != nil {
		return nil, false, err
	}

	for i := range slots {
		if slots[i].Start.Equal(want.Start) && slots[i].End.Equal(want.End) {
			return &slots[i], false, nil
		}
	}

	// Canceled between the insert and this read.
	return nil, false, httperr.ErrConflict("slot_overlap")
}
