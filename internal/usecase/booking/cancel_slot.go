package booking

import (
	"context"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type CancelSlot struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelSlot(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelSlot {
	return &CancelSlot{
		repo:  repo,
		audit: audit,
	}
}

// Execute withdraws an available slot from the calendar. Held or confirmed
// slots cannot be canceled here.
func (uc *CancelSlot) Execute(
	ctx context.Context,
	tenantID string,
	actorID string,
	slotID string,
) (*models.Slot, error) {

	if _, err := loadOwnedTenant(ctx, uc.repo, tenantID, actorID); err != nil {
		return nil, err
	}

	changed, err := uc.repo.UpdateSlotStatus(ctx, domain.StatusUpdate{
		IDs:      []string{slotID},
		TenantID: tenantID,
		From:     models.SlotAvailable,
		To:       models.SlotCanceled,
	})
	if err != nil {
		return nil, err
	}

	slots, err := uc.repo.FindSlots(ctx, domain.SlotFilter{
		TenantID: tenantID,
		IDs:      []string{slotID},
	})
	if err != nil {
		return nil, err
	}
	if len(slots) == 0 {
		return nil, httperr.ErrNotFound("slot_not_found")
	}
	if len(changed) == 0 {
		return nil, httperr.ErrConflict("slot_not_available")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		UserID:   actorID,
		Action:   audit.ActionSlotCanceled,
		Entity:   "slot",
		EntityID: slotID,
	})

	return &slots[0], nil
}
