package models

import "time"

// Slot is one bookable interval of a tenant's calendar.
// Non-canceled slots of one tenant never overlap; the database enforces it
// with a partial unique index and an exclusion constraint (see db.NewDB).
type Slot struct {
	ID       string `gorm:"primaryKey;size:36" json:"id"`
	TenantID string `gorm:"size:36;not null;index:idx_bookings_tenant_start,priority:1" json:"tenant_id"`

	Start time.Time `gorm:"column:start_at;type:timestamptz;not null;index:idx_bookings_tenant_start,priority:2" json:"start"`
	End   time.Time `gorm:"column:end_at;type:timestamptz;not null" json:"end"`

	Status     SlotStatus `gorm:"size:20;not null;default:'available';index" json:"status"`
	CustomerID *string    `gorm:"size:36;index" json:"customer_id"`
	Mode       SlotMode   `gorm:"size:20;not null;default:'online'" json:"mode"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Slot) TableName() string {
	return "bookings"
}

// Overlaps reports whether [Start,End) intersects [from,to).
func (s Slot) Overlaps(from, to time.Time) bool {
	return s.Start.Before(to) && s.End.After(from)
}
