package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func slotAt(id, tenant string, hour int) *models.Slot {
	start := day.Add(time.Duration(hour) * time.Hour)
	return &models.Slot{
		ID:       id,
		TenantID: tenant,
		Start:    start,
		End:      start.Add(time.Hour),
		Status:   models.SlotAvailable,
		Mode:     models.ModeOnline,
	}
}

func TestMemoryInsertSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()

	require.NoError(t, repo.InsertSlot(ctx, slotAt("a", "t1", 10)))

	assert.ErrorIs(t, repo.InsertSlot(ctx, slotAt("b", "t1", 10)), domain.ErrSlotExists)

	half := slotAt("c", "t1", 10)
	half.Start = half.Start.Add(30 * time.Minute)
	half.End = half.End.Add(30 * time.Minute)
	assert.ErrorIs(t, repo.InsertSlot(ctx, half), domain.ErrSlotOverlap)

	// Other tenants and adjacent intervals are independent.
	assert.NoError(t, repo.InsertSlot(ctx, slotAt("d", "t2", 10)))
	assert.NoError(t, repo.InsertSlot(ctx, slotAt("e", "t1", 11)))

	// A canceled slot frees its interval.
	_, err := repo.UpdateSlotStatus(ctx, domain.StatusUpdate{
		IDs: []string{"a"}, From: models.SlotAvailable, To: models.SlotCanceled,
	})
	require.NoError(t, err)
	assert.NoError(t, repo.InsertSlot(ctx, slotAt("f", "t1", 10)))
}

func TestMemoryFindSlotsIntersects(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()

	for i, hour := range []int{12, 9, 10, 11} {
		require.NoError(t, repo.InsertSlot(ctx, slotAt(string(rune('a'+i)), "t1", hour)))
	}

	slots, err := repo.FindSlots(ctx, domain.SlotFilter{
		TenantID: "t1",
		From:     day.Add(10*time.Hour + 30*time.Minute),
		To:       day.Add(12 * time.Hour),
	})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, day.Add(10*time.Hour), slots[0].Start)
	assert.Equal(t, day.Add(11*time.Hour), slots[1].Start)
}

func TestMemoryUpdateSlotStatusConditional(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	require.NoError(t, repo.InsertSlot(ctx, slotAt("a", "t1", 10)))
	require.NoError(t, repo.InsertSlot(ctx, slotAt("b", "t1", 11)))

	changed, err := repo.UpdateSlotStatus(ctx, domain.StatusUpdate{
		IDs: []string{"a"}, TenantID: "t1", From: models.SlotAvailable, To: models.SlotBooked, Customer: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, changed)

	changed, err = repo.UpdateSlotStatus(ctx, domain.StatusUpdate{
		IDs: []string{"a", "b", "missing"}, TenantID: "t1", From: models.SlotAvailable, To: models.SlotBooked, Customer: "u2",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, changed)

	// Release restricted to the holder.
	changed, err = repo.UpdateSlotStatus(ctx, domain.StatusUpdate{
		IDs: []string{"a", "b"}, From: models.SlotBooked, To: models.SlotAvailable, OnlyCustomer: "u1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, changed)

	slots, err := repo.FindSlots(ctx, domain.SlotFilter{IDs: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.SlotAvailable, slots[0].Status)
	assert.Nil(t, slots[0].CustomerID)
}

func TestMemoryTransactionRollback(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	require.NoError(t, repo.InsertSlot(ctx, slotAt("a", "t1", 10)))

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		if _, err := tx.UpdateSlotStatus(ctx, domain.StatusUpdate{
			IDs: []string{"a"}, From: models.SlotAvailable, To: models.SlotBooked, Customer: "u1",
		}); err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, &models.Order{ID: "o1", Status: models.OrderPending}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	slots, err := repo.FindSlots(ctx, domain.SlotFilter{})
	require.NoError(t, err)
	assert.Equal(t, models.SlotAvailable, slots[0].Status)

	_, err = repo.GetOrder(ctx, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryNestedTransaction(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()

	err := repo.Transaction(ctx, func(tx domain.Repository) error {
		require.NoError(t, tx.CreateOrder(ctx, &models.Order{ID: "kept", Status: models.OrderPending}))

		inner := tx.Transaction(ctx, func(tx domain.Repository) error {
			require.NoError(t, tx.CreateOrder(ctx, &models.Order{ID: "dropped", Status: models.OrderPending}))
			return errors.New("inner")
		})
		assert.Error(t, inner)
		return nil
	})
	require.NoError(t, err)

	_, err = repo.GetOrder(ctx, "kept")
	assert.NoError(t, err)
	_, err = repo.GetOrder(ctx, "dropped")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMemoryOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()
	now := day.Add(9 * time.Hour)

	expired := now.Add(-time.Minute)
	future := now.Add(time.Minute)
	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "old", UserID: "u1", Status: models.OrderPending, ReservedUntil: &expired}))
	require.NoError(t, repo.CreateOrder(ctx, &models.Order{ID: "new", UserID: "u1", Status: models.OrderPending, ReservedUntil: &future}))

	stale, err := repo.FindOrders(ctx, domain.OrderFilter{
		Statuses:       []models.OrderStatus{models.OrderPending},
		ReservedBefore: now,
	})
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, "old", stale[0].ID)

	ok, err := repo.UpdateOrderStatus(ctx, "old", models.OrderPending, models.OrderCanceled, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateOrderStatus(ctx, "old", models.OrderPending, models.OrderPaid, now)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetOrderPayment(ctx, "new", "mp-1", "https://receipts/new.json"))
	order, err := repo.GetOrder(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "mp-1", order.PaymentRef)
	assert.Equal(t, "https://receipts/new.json", order.ReceiptURL)

	assert.ErrorIs(t, repo.SetOrderPayment(ctx, "nope", "x", ""), domain.ErrNotFound)
}

func TestMemoryDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewBookingMemoryRepository()

	require.NoError(t, repo.CreateUser(ctx, &models.User{ID: "u1", Email: "a@b.c"}))
	assert.ErrorIs(t, repo.CreateUser(ctx, &models.User{ID: "u2", Email: "a@b.c"}), domain.ErrDuplicate)

	require.NoError(t, repo.CreateTenant(ctx, &models.Tenant{ID: "t1", Slug: "acme"}))
	assert.ErrorIs(t, repo.CreateTenant(ctx, &models.Tenant{ID: "t2", Slug: "acme"}), domain.ErrDuplicate)

	tenant, err := repo.GetTenantBySlug(ctx, "acme")
	require.NoError(t, err)
	assert.Equal(t, "t1", tenant.ID)
}
