package repository

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// BookingMemoryRepository keeps everything in process. Transactions are
// serialized and run against a copy that replaces the live state on commit.
type BookingMemoryRepository struct {
	root *memoryRoot
	tx   *memoryState
}

type memoryRoot struct {
	mu    sync.Mutex
	state *memoryState
}

type memoryState struct {
	tenants map[string]models.Tenant
	users   map[string]models.User
	slots   map[string]models.Slot
	orders  map[string]models.Order
}

func NewBookingMemoryRepository() *BookingMemoryRepository {
	return &BookingMemoryRepository{
		root: &memoryRoot{state: newMemoryState()},
	}
}

var _ domain.Repository = (*BookingMemoryRepository)(nil)

func newMemoryState() *memoryState {
	return &memoryState{
		tenants: map[string]models.Tenant{},
		users:   map[string]models.User{},
		slots:   map[string]models.Slot{},
		orders:  map[string]models.Order{},
	}
}

func (s *memoryState) clone() *memoryState {
	c := newMemoryState()
	for k, v := range s.tenants {
		c.tenants[k] = v
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = copySlot(v)
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	return c
}

func copySlot(s models.Slot) models.Slot {
	if s.CustomerID != nil {
		id := *s.CustomerID
		s.CustomerID = &id
	}
	return s
}

func copyOrder(o models.Order) models.Order {
	o.SlotIDs = slices.Clone(o.SlotIDs)
	return o
}

func (r *BookingMemoryRepository) with(ctx context.Context, fn func(st *memoryState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.tx != nil {
		return fn(r.tx)
	}

	r.root.mu.Lock()
	defer r.root.mu.Unlock()
	return fn(r.root.state)
}

// --------------------------------------------------
// Tenant / User
// --------------------------------------------------

func (r *BookingMemoryRepository) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var out *models.Tenant
	err := r.with(ctx, func(st *memoryState) error {
		for _, t := range st.tenants {
			if t.Slug == slug {
				t := t
				out = &t
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *BookingMemoryRepository) GetTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	var out *models.Tenant
	err := r.with(ctx, func(st *memoryState) error {
		t, ok := st.tenants[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *BookingMemoryRepository) CreateTenant(ctx context.Context, tenant *models.Tenant) error {
	return r.with(ctx, func(st *memoryState) error {
		for _, t := range st.tenants {
			if t.Slug == tenant.Slug || t.ID == tenant.ID {
				return domain.ErrDuplicate
			}
		}
		now := time.Now().UTC()
		tenant.CreatedAt, tenant.UpdatedAt = now, now
		st.tenants[tenant.ID] = *tenant
		return nil
	})
}

func (r *BookingMemoryRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.with(ctx, func(st *memoryState) error {
		for _, u := range st.users {
			if u.Email == user.Email || u.ID == user.ID {
				return domain.ErrDuplicate
			}
		}
		now := time.Now().UTC()
		user.CreatedAt, user.UpdatedAt = now, now
		st.users[user.ID] = *user
		return nil
	})
}

func (r *BookingMemoryRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var out *models.User
	err := r.with(ctx, func(st *memoryState) error {
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return domain.ErrNotFound
	})
	return out, err
}

func (r *BookingMemoryRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var out *models.User
	err := r.with(ctx, func(st *memoryState) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

// --------------------------------------------------
// Slot
// --------------------------------------------------

func (r *BookingMemoryRepository) InsertSlot(ctx context.Context, slot *models.Slot) error {
	return r.with(ctx, func(st *memoryState) error {
		overlap := false
		for _, existing := range st.slots {
			if existing.TenantID != slot.TenantID || existing.Status == models.SlotCanceled {
				continue
			}
			if existing.Start.Equal(slot.Start) && existing.End.Equal(slot.End) {
				return domain.ErrSlotExists
			}
			if existing.Overlaps(slot.Start, slot.End) {
				overlap = true
			}
		}
		if overlap {
			return domain.ErrSlotOverlap
		}

		now := time.Now().UTC()
		slot.CreatedAt, slot.UpdatedAt = now, now
		st.slots[slot.ID] = copySlot(*slot)
		return nil
	})
}

func (r *BookingMemoryRepository) FindSlots(ctx context.Context, filter domain.SlotFilter) ([]models.Slot, error) {
	var out []models.Slot
	err := r.with(ctx, func(st *memoryState) error {
		for _, s := range st.slots {
			if matchSlot(s, filter) {
				out = append(out, copySlot(s))
			}
		}
		return nil
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Start.Equal(out[j].Start) {
			return out[i].ID < out[j].ID
		}
		return out[i].Start.Before(out[j].Start)
	})
	return out, err
}

func matchSlot(s models.Slot, f domain.SlotFilter) bool {
	if f.TenantID != "" && s.TenantID != f.TenantID {
		return false
	}
	if !f.From.IsZero() && !s.End.After(f.From) {
		return false
	}
	if !f.To.IsZero() && !s.Start.Before(f.To) {
		return false
	}
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, s.ID) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, s.Status) {
		return false
	}
	if f.CustomerID != "" && (s.CustomerID == nil || *s.CustomerID != f.CustomerID) {
		return false
	}
	if f.ExcludeCanceled && s.Status == models.SlotCanceled {
		return false
	}
	return true
}

func (r *BookingMemoryRepository) UpdateSlotStatus(ctx context.Context, update domain.StatusUpdate) ([]string, error) {
	var changed []string
	err := r.with(ctx, func(st *memoryState) error {
		now := time.Now().UTC()
		for _, id := range domain.Dedupe(update.IDs) {
			s, ok := st.slots[id]
			if !ok || s.Status != update.From {
				continue
			}
			if update.TenantID != "" && s.TenantID != update.TenantID {
				continue
			}
			if update.OnlyCustomer != "" && (s.CustomerID == nil || *s.CustomerID != update.OnlyCustomer) {
				continue
			}

			s.Status = update.To
			switch update.To {
			case models.SlotBooked:
				customer := update.Customer
				s.CustomerID = &customer
			case models.SlotAvailable:
				s.CustomerID = nil
			}
			s.UpdatedAt = now
			st.slots[id] = s
			changed = append(changed, id)
		}
		return nil
	})
	return changed, err
}

// --------------------------------------------------
// Order
// --------------------------------------------------

func (r *BookingMemoryRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.with(ctx, func(st *memoryState) error {
		if _, ok := st.orders[order.ID]; ok {
			return domain.ErrDuplicate
		}
		now := time.Now().UTC()
		order.CreatedAt, order.UpdatedAt = now, now
		st.orders[order.ID] = copyOrder(*order)
		return nil
	})
}

func (r *BookingMemoryRepository) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var out *models.Order
	err := r.with(ctx, func(st *memoryState) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		o = copyOrder(o)
		out = &o
		return nil
	})
	return out, err
}

func (r *BookingMemoryRepository) FindOrders(ctx context.Context, filter domain.OrderFilter) ([]models.Order, error) {
	var out []models.Order
	err := r.with(ctx, func(st *memoryState) error {
		for _, o := range st.orders {
			if matchOrder(o, filter) {
				out = append(out, copyOrder(o))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !filter.ReservedBefore.IsZero() {
		sort.Slice(out, func(i, j int) bool {
			return out[i].ReservedUntil.Before(*out[j].ReservedUntil)
		})
	} else {
		sort.Slice(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func matchOrder(o models.Order, f domain.OrderFilter) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.TenantID != "" && o.TenantID != f.TenantID {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
		return false
	}
	if !f.ReservedBefore.IsZero() && (o.ReservedUntil == nil || !o.ReservedUntil.Before(f.ReservedBefore)) {
		return false
	}
	return true
}

func (r *BookingMemoryRepository) UpdateOrderStatus(
	ctx context.Context,
	id string,
	from models.OrderStatus,
	to models.OrderStatus,
	at time.Time,
) (bool, error) {
	var updated bool
	err := r.with(ctx, func(st *memoryState) error {
		o, ok := st.orders[id]
		if !ok || o.Status != from {
			return nil
		}

		o.Status = to
		o.UpdatedAt = at
		switch to {
		case models.OrderPaid:
			o.PaidAt = &at
		case models.OrderCanceled:
			o.CanceledAt = &at
		}
		st.orders[id] = o
		updated = true
		return nil
	})
	return updated, err
}

func (r *BookingMemoryRepository) SetOrderPayment(ctx context.Context, id, paymentRef, receiptURL string) error {
	return r.with(ctx, func(st *memoryState) error {
		o, ok := st.orders[id]
		if !ok {
			return domain.ErrNotFound
		}
		if paymentRef != "" {
			o.PaymentRef = paymentRef
		}
		if receiptURL != "" {
			o.ReceiptURL = receiptURL
		}
		st.orders[id] = o
		return nil
	})
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingMemoryRepository) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Nested: run against a child copy, fold it back on success.
	if r.tx != nil {
		child := r.tx.clone()
		if err := fn(&BookingMemoryRepository{root: r.root, tx: child}); err != nil {
			return err
		}
		*r.tx = *child
		return nil
	}

	r.root.mu.Lock()
	defer r.root.mu.Unlock()

	work := r.root.state.clone()
	if err := fn(&BookingMemoryRepository{root: r.root, tx: work}); err != nil {
		return err
	}
	r.root.state = work
	return nil
}
