package models

import "time"

type Order struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	UserID   string `gorm:"size:36;not null;index" json:"user_id"`
	TenantID string `gorm:"size:36;not null;index" json:"tenant_id"`

	SlotIDs []string `gorm:"type:jsonb;serializer:json;not null" json:"slot_ids"`

	Status        OrderStatus `gorm:"size:20;not null;default:'pending';index:idx_orders_status_reserved,priority:1" json:"status"`
	ReservedUntil *time.Time  `gorm:"type:timestamptz;index:idx_orders_status_reserved,priority:2" json:"reserved_until"`

	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Currency    string `gorm:"size:3;not null" json:"currency"`
	ReceiptURL  string `gorm:"size:1024" json:"receipt_url"`
	PaymentRef  string `gorm:"size:100" json:"payment_ref"`

	PaidAt     *time.Time `json:"paid_at"`
	CanceledAt *time.Time `json:"canceled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
