package booking

import (
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// ===============================
// Slot transitions
// ===============================

var slotTransitions = map[models.SlotStatus][]models.SlotStatus{
	models.SlotAvailable: {models.SlotBooked, models.SlotCanceled},
	models.SlotBooked:    {models.SlotAvailable, models.SlotConfirmed},
	models.SlotConfirmed: {models.SlotCanceled},
	models.SlotCanceled:  nil,
}

// CanTransitionSlot rejects any move not listed in the slot table.
func CanTransitionSlot(from, to models.SlotStatus) error {
	if !from.Valid() || !to.Valid() {
		return httperr.ErrBusiness("invalid_slot_status")
	}
	for _, next := range slotTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrConflict("invalid_slot_transition")
}

// ===============================
// Order transitions
// ===============================

var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderPending:  {models.OrderPaid, models.OrderCanceled},
	models.OrderPaid:     {models.OrderRefunded},
	models.OrderCanceled: nil,
	models.OrderRefunded: nil,
}

func CanTransitionOrder(from, to models.OrderStatus) error {
	if !from.Valid() || !to.Valid() {
		return httperr.ErrBusiness("invalid_order_status")
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrConflict("invalid_order_transition")
}

// VisibleOrderStatuses are the statuses a customer sees in their history.
func VisibleOrderStatuses() []models.OrderStatus {
	return []models.OrderStatus{models.OrderPaid, models.OrderRefunded}
}
