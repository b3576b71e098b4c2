package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

var _ domain.Repository = (*BookingGormRepository)(nil)

// --------------------------------------------------
// Tenant / User
// --------------------------------------------------

func (r *BookingGormRepository) GetTenantBySlug(
	ctx context.Context,
	slug string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&tenant).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

func (r *BookingGormRepository) GetTenantByID(
	ctx context.Context,
	id string,
) (*models.Tenant, error) {

	var tenant models.Tenant
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&tenant).Error; err != nil {
		return nil, notFound(err)
	}
	return &tenant, nil
}

func (r *BookingGormRepository) CreateTenant(
	ctx context.Context,
	tenant *models.Tenant,
) error {
	return duplicate(r.db.WithContext(ctx).Create(tenant).Error)
}

func (r *BookingGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	return duplicate(r.db.WithContext(ctx).Create(user).Error)
}

func (r *BookingGormRepository) GetUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *BookingGormRepository) GetUserByID(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// --------------------------------------------------
// Slot
// --------------------------------------------------

// InsertSlot locks the tenant's overlapping rows before inserting. The
// partial unique index and the exclusion constraint catch whatever slips
// past the lock (a concurrent insert into an empty range).
func (r *BookingGormRepository) InsertSlot(
	ctx context.Context,
	slot *models.Slot,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var overlapping []models.Slot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(
				"tenant_id = ? AND status <> ? AND start_at < ? AND end_at > ?",
				slot.TenantID,
				models.SlotCanceled,
				slot.End,
				slot.Start,
			).
			Find(&overlapping).Error; err != nil {
			return err
		}

		for _, existing := range overlapping {
			if existing.Start.Equal(slot.Start) && existing.End.Equal(slot.End) {
				return domain.ErrSlotExists
			}
		}
		if len(overlapping) > 0 {
			return domain.ErrSlotOverlap
		}

		return tx.Create(slot).Error
	})

	switch {
	case err == nil:
		return nil
	case httperr.IsUniqueViolation(err):
		return domain.ErrSlotExists
	case httperr.IsExclusionConflict(err):
		return domain.ErrSlotOverlap
	case errors.Is(err, domain.ErrSlotExists), errors.Is(err, domain.ErrSlotOverlap):
		return err
	default:
		return fmt.Errorf("insert slot: %w", err)
	}
}

func (r *BookingGormRepository) FindSlots(
	ctx context.Context,
	filter domain.SlotFilter,
) ([]models.Slot, error) {

	q := r.db.WithContext(ctx).Model(&models.Slot{})

	if filter.TenantID != "" {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if !filter.From.IsZero() {
		q = q.Where("end_at > ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("start_at < ?", filter.To)
	}
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.ExcludeCanceled {
		q = q.Where("status <> ?", models.SlotCanceled)
	}

	var slots []models.Slot
	if err := q.Order("start_at ASC").Find(&slots).Error; err != nil {
		return nil, fmt.Errorf("find slots: %w", err)
	}
	return slots, nil
}

// UpdateSlotStatus is a single conditional UPDATE ... RETURNING id, so two
// callers racing for the same slot cannot both see it transition.
func (r *BookingGormRepository) UpdateSlotStatus(
	ctx context.Context,
	update domain.StatusUpdate,
) ([]string, error) {

	if len(update.IDs) == 0 {
		return nil, nil
	}

	values := map[string]any{
		"status":     update.To,
		"updated_at": time.Now().UTC(),
	}
	switch update.To {
	case models.SlotBooked:
		values["customer_id"] = update.Customer
	case models.SlotAvailable:
		values["customer_id"] = nil
	}

	var changed []models.Slot
	q := r.db.WithContext(ctx).
		Model(&changed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("id IN ? AND status = ?", update.IDs, update.From)

	if update.TenantID != "" {
		q = q.Where("tenant_id = ?", update.TenantID)
	}
	if update.OnlyCustomer != "" {
		q = q.Where("customer_id = ?", update.OnlyCustomer)
	}

	if err := q.Updates(values).Error; err != nil {
		return nil, fmt.Errorf("update slot status: %w", err)
	}

	ids := make([]string, 0, len(changed))
	for _, s := range changed {
		ids = append(ids, s.ID)
	}
	return ids, nil
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *BookingGormRepository) CreateOrder(
	ctx context.Context,
	order *models.Order,
) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *BookingGormRepository) GetOrder(
	ctx context.Context,
	id string,
) (*models.Order, error) {

	var order models.Order
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *BookingGormRepository) FindOrders(
	ctx context.Context,
	filter domain.OrderFilter,
) ([]models.Order, error) {

	q := r.db.WithContext(ctx).Model(&models.Order{})

	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.TenantID != "" {
		q = q.Where("tenant_id = ?", filter.TenantID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	if !filter.ReservedBefore.IsZero() {
		q = q.Where("reserved_until < ?", filter.ReservedBefore).
			Order("reserved_until ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}
	return orders, nil
}

func (r *BookingGormRepository) UpdateOrderStatus(
	ctx context.Context,
	id string,
	from models.OrderStatus,
	to models.OrderStatus,
	at time.Time,
) (bool, error) {

	values := map[string]any{
		"status":     to,
		"updated_at": at,
	}
	switch to {
	case models.OrderPaid:
		values["paid_at"] = at
	case models.OrderCanceled:
		values["canceled_at"] = at
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return false, fmt.Errorf("update order status: %w", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *BookingGormRepository) SetOrderPayment(
	ctx context.Context,
	id string,
	paymentRef string,
	receiptURL string,
) error {

	values := map[string]any{}
	if paymentRef != "" {
		values["payment_ref"] = paymentRef
	}
	if receiptURL != "" {
		values["receipt_url"] = receiptURL
	}
	if len(values) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(values)
	if res.Error != nil {
		return fmt.Errorf("set order payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if httperr.IsUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	return err
}
