package booking

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/slot-booking/internal/models"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a unique key (email, slug) is taken.
	ErrDuplicate = errors.New("duplicate")

	// ErrSlotExists is returned by InsertSlot when a non-canceled slot with the
	// same tenant and exact interval is already stored.
	ErrSlotExists = errors.New("slot already exists")

	// ErrSlotOverlap is returned by InsertSlot when the interval partially
	// intersects a non-canceled slot of the same tenant.
	ErrSlotOverlap = errors.New("slot overlaps existing slot")
)

// SlotFilter selects slots. Zero fields do not filter.
// From/To select slots whose [Start,End) intersects [From,To).
type SlotFilter struct {
	TenantID        string
	From            time.Time
	To              time.Time
	IDs             []string
	Statuses        []models.SlotStatus
	CustomerID      string
	ExcludeCanceled bool
}

// StatusUpdate is a conditional slot transition: only slots in IDs that
// belong to TenantID and are currently From move to To.
type StatusUpdate struct {
	IDs      []string
	TenantID string
	From     models.SlotStatus
	To       models.SlotStatus

	// Customer is written when To is booked; leaving available sets it and
	// returning to available clears it.
	Customer string

	// OnlyCustomer restricts the update to slots held by that customer.
	OnlyCustomer string
}

type OrderFilter struct {
	UserID         string
	TenantID       string
	Statuses       []models.OrderStatus
	ReservedBefore time.Time
	Limit          int
}

type Repository interface {
	// -------- Tenant / User --------
	GetTenantBySlug(
		ctx context.Context,
		slug string,
	) (*models.Tenant, error)

	GetTenantByID(
		ctx context.Context,
		id string,
	) (*models.Tenant, error)

	CreateTenant(
		ctx context.Context,
		tenant *models.Tenant,
	) error

	CreateUser(
		ctx context.Context,
		user *models.User,
	) error

	GetUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	GetUserByID(
		ctx context.Context,
		id string,
	) (*models.User, error)

	// -------- Slot --------
	InsertSlot(
		ctx context.Context,
		slot *models.Slot,
	) error

	FindSlots(
		ctx context.Context,
		filter SlotFilter,
	) ([]models.Slot, error)

	// UpdateSlotStatus returns the ids that actually transitioned.
	UpdateSlotStatus(
		ctx context.Context,
		update StatusUpdate,
	) ([]string, error)

	// -------- Order --------
	CreateOrder(
		ctx context.Context,
		order *models.Order,
	) error

	GetOrder(
		ctx context.Context,
		id string,
	) (*models.Order, error)

	FindOrders(
		ctx context.Context,
		filter OrderFilter,
	) ([]models.Order, error)

	// UpdateOrderStatus moves the order from -> to and reports whether the
	// row was still in from.
	UpdateOrderStatus(
		ctx context.Context,
		id string,
		from models.OrderStatus,
		to models.OrderStatus,
		at time.Time,
	) (bool, error)

	SetOrderPayment(
		ctx context.Context,
		id string,
		paymentRef string,
		receiptURL string,
	) error

	// -------- Transaction --------

	// Transaction runs fn against a repository bound to one storage
	// transaction. Any error returned by fn rolls everything back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error
}
