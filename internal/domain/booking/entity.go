package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// SlotDuration is the fixed length of every calendar slot.
const SlotDuration = time.Hour

// ===============================
// Domain Actions
// ===============================

// NewAvailableSlot validates the interval against loc and builds the slot.
// Slots start on the hour in the tenant's timezone and last SlotDuration.
func NewAvailableSlot(
	tenantID string,
	start, end time.Time,
	mode models.SlotMode,
	loc *time.Location,
) (*models.Slot, error) {
	if !start.Before(end) {
		return nil, httperr.ErrBusiness("invalid_slot_interval")
	}
	if end.Sub(start) != SlotDuration {
		return nil, httperr.ErrBusiness("invalid_slot_interval")
	}

	local := start.In(loc)
	if local.Minute() != 0 || local.Second() != 0 || local.Nanosecond() != 0 {
		return nil, httperr.ErrBusiness("invalid_slot_interval")
	}

	if mode == "" {
		mode = models.ModeOnline
	}
	if !mode.Valid() {
		return nil, httperr.ErrBusiness("invalid_mode")
	}

	return &models.Slot{
		ID:       uuid.NewString(),
		TenantID: tenantID,
		Start:    start.UTC(),
		End:      end.UTC(),
		Status:   models.SlotAvailable,
		Mode:     mode,
	}, nil
}

// NewPendingOrder prices the reservation and stamps reservedUntil.
func NewPendingOrder(
	tenant *models.Tenant,
	userID string,
	slotIDs []string,
	now time.Time,
	ttl time.Duration,
) *models.Order {
	reservedUntil := now.Add(ttl).UTC()

	return &models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		TenantID:      tenant.ID,
		SlotIDs:       append([]string(nil), slotIDs...),
		Status:        models.OrderPending,
		ReservedUntil: &reservedUntil,
		AmountCents:   int64(len(slotIDs)) * tenant.HourlyRateCents,
		Currency:      tenant.Currency,
	}
}

// Missing returns the ids of want that are absent from got, in want order.
func Missing(want, got []string) []string {
	seen := make(map[string]struct{}, len(got))
	for _, id := range got {
		seen[id] = struct{}{}
	}

	var out []string
	for _, id := range want {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

// Dedupe keeps the first occurrence of each id.
func Dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
