package booking

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
	"github.com/BruksfildServices01/slot-booking/internal/timezone"
)

// MaxQueryRange bounds a single availability query.
const MaxQueryRange = 62 * 24 * time.Hour

type ListPublicSlotsInput struct {
	TenantSlug string

	// Either From/To or Date (YYYY-MM-DD in the tenant's timezone).
	From time.Time
	To   time.Time
	Date string
}

type ListPublicSlots struct {
	repo domain.Repository
}

func NewListPublicSlots(repo domain.Repository) *ListPublicSlots {
	return &ListPublicSlots{repo: repo}
}

// Execute returns every slot of the tenant intersecting [From,To), in start
// order and in any status. It is a single read with no side effects.
func (uc *ListPublicSlots) Execute(
	ctx context.Context,
	in ListPublicSlotsInput,
) ([]models.Slot, error) {

	tenant, err := uc.repo.GetTenantBySlug(ctx, in.TenantSlug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("tenant_not_found")
	}
	if err != nil {
		return nil, err
	}

	from, to := in.From, in.To
	if in.Date != "" {
		from, to, err = timezone.DayRange(in.Date, timezone.Location(tenant.Timezone))
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_date")
		}
	}

	if from.IsZero() || to.IsZero() || !from.Before(to) {
		return nil, httperr.ErrBusiness("invalid_range")
	}
	if to.Sub(from) > MaxQueryRange {
		return nil, httperr.ErrBusiness("range_too_large")
	}

	slots, err := uc.repo.FindSlots(ctx, domain.SlotFilter{
		TenantID: tenant.ID,
		From:     from,
		To:       to,
	})
	if err != nil {
		return nil, err
	}
	return slots, nil
}
