package dto

import (
	"time"

	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type OrderDTO struct {
	ID            string     `json:"id"`
	TenantID      string     `json:"tenant_id"`
	SlotIDs       []string   `json:"slot_ids"`
	Status        string     `json:"status"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
	AmountCents   int64      `json:"amount_cents"`
	Currency      string     `json:"currency"`
	ReceiptURL    string     `json:"receipt_url,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func NewOrderDTO(o models.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID,
		TenantID:      o.TenantID,
		SlotIDs:       o.SlotIDs,
		Status:        string(o.Status),
		ReservedUntil: o.ReservedUntil,
		AmountCents:   o.AmountCents,
		Currency:      o.Currency,
		ReceiptURL:    o.ReceiptURL,
		PaidAt:        o.PaidAt,
		CreatedAt:     o.CreatedAt,
	}
}

func NewOrderDTOs(orders []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(orders))
	for _, o := range orders {
		out = append(out, NewOrderDTO(o))
	}
	return out
}
