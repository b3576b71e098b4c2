package models

import "time"

const (
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

type User struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;default:'customer'" json:"role"`

	// TenantID is set for tenant owners.
	TenantID *string `gorm:"size:36;index" json:"tenant_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
