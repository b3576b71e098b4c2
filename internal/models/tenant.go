package models

import "time"

type Tenant struct {
	ID   string `gorm:"primaryKey;size:36" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	OwnerID  string `gorm:"size:36;index;not null" json:"owner_id"`
	Timezone string `gorm:"size:64" json:"timezone"`

	HourlyRateCents int64  `gorm:"not null;default:0" json:"hourly_rate_cents"`
	Currency        string `gorm:"size:3;not null;default:'BRL'" json:"currency"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
