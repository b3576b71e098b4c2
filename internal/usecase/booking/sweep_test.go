package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

func reserve(t *testing.T, repo *hookedRepo, customer string, now time.Time, ttl time.Duration, slots ...*models.Slot) *models.Order {
	t.Helper()

	ids := make([]string, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}

	order, err := NewReserveSlots(repo, nil, nil).Execute(context.Background(), ReserveSlotsInput{
		TenantID: tenantID, SlotIDs: ids, CustomerID: customer, TTL: ttl, Now: now,
	})
	require.NoError(t, err)
	return order
}

func TestSweepReleasesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	now := at(9)

	a := addSlot(t, repo, 10)
	b := addSlot(t, repo, 11)
	c := addSlot(t, repo, 12)

	expired := reserve(t, repo, "late", now.Add(-20*time.Minute), 15*time.Minute, a, b)
	fresh := reserve(t, repo, "early", now.Add(-5*time.Minute), 15*time.Minute, c)

	core, logs := observer.New(zap.InfoLevel)
	res, err := NewSweepStaleReservations(repo, nil, zap.New(core), 0).Execute(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, SweepResult{Scanned: 1, Canceled: 1, SlotsReleased: 2}, res)

	got, err := repo.GetOrder(ctx, expired.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCanceled, got.Status)
	assert.NotNil(t, got.CanceledAt)

	got, err = repo.GetOrder(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)

	for _, s := range []*models.Slot{a, b} {
		slot := slotByID(t, repo, s.ID)
		assert.Equal(t, models.SlotAvailable, slot.Status)
		assert.Nil(t, slot.CustomerID)
	}
	assert.Equal(t, models.SlotBooked, slotByID(t, repo, c.ID).Status)

	entries := logs.FilterMessage("sweep order expired").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, 2, entries[0].ContextMap()["released"])
	assert.EqualValues(t, 2, entries[0].ContextMap()["requested"])
}

func TestSweepLosesToPayment(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	now := at(9)

	slot := addSlot(t, repo, 10)
	order := reserve(t, repo, "cust", now.Add(-time.Hour), 15*time.Minute, slot)

	// Payment lands after the sweep has read the stale list.
	repo.afterFindOrders = func() {
		_, err := NewConfirmOrderPaid(repo.Repository, nil, nil, nil).Execute(ctx, ConfirmOrderPaidInput{OrderID: order.ID})
		require.NoError(t, err)
	}

	res, err := NewSweepStaleReservations(repo, nil, nil, 10).Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 1, Skipped: 1}, res)

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, got.Status)
	assert.Equal(t, models.SlotConfirmed, slotByID(t, repo, slot.ID).Status)
}

func TestSweepIsolatesFailures(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	now := at(9)

	a := addSlot(t, repo, 10)
	b := addSlot(t, repo, 11)
	broken := reserve(t, repo, "one", now.Add(-time.Hour), 15*time.Minute, a)
	healthy := reserve(t, repo, "two", now.Add(-time.Hour), 15*time.Minute, b)
	repo.failOrderID = broken.ID

	res, err := NewSweepStaleReservations(repo, nil, nil, 10).Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 2, Canceled: 1, Failed: 1, SlotsReleased: 1}, res)

	got, err := repo.GetOrder(ctx, healthy.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCanceled, got.Status)

	got, err = repo.GetOrder(ctx, broken.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)
	assert.Equal(t, models.SlotBooked, slotByID(t, repo, a.ID).Status)
}

func TestSweepReleasesOnlyCustomerHeldSlots(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	now := at(9)

	slot := addSlot(t, repo, 10)
	order := reserve(t, repo, "cust", now.Add(-time.Hour), 15*time.Minute, slot)

	// Simulate the slot having moved on to someone else already.
	require.NoError(t, repo.Transaction(ctx, func(tx domain.Repository) error {
		if _, err := tx.UpdateSlotStatus(ctx, domain.StatusUpdate{
			IDs: []string{slot.ID}, From: models.SlotBooked, To: models.SlotAvailable,
		}); err != nil {
			return err
		}
		_, err := tx.UpdateSlotStatus(ctx, domain.StatusUpdate{
			IDs: []string{slot.ID}, From: models.SlotAvailable, To: models.SlotBooked, Customer: "someone-else",
		})
		return err
	}))

	res, err := NewSweepStaleReservations(repo, nil, nil, 10).Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Scanned: 1, Canceled: 1}, res)

	held := slotByID(t, repo, slot.ID)
	assert.Equal(t, models.SlotBooked, held.Status)
	assert.Equal(t, "someone-else", *held.CustomerID)

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCanceled, got.Status)
}

func TestSweepBatchLimit(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	now := at(9)

	for hour := 10; hour < 13; hour++ {
		reserve(t, repo, "cust", now.Add(-time.Hour), 15*time.Minute, addSlot(t, repo, hour))
	}

	uc := NewSweepStaleReservations(repo, nil, nil, 2)

	res, err := uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Canceled)

	res, err = uc.Execute(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Canceled)
}
