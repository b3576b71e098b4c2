package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type memorySink struct {
	events []audit.Event
}

func (s *memorySink) Log(_ context.Context, ev audit.Event) error {
	s.events = append(s.events, ev)
	return nil
}

func TestConfirmOrderPaid(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	a := addSlot(t, repo, 10)
	b := addSlot(t, repo, 11)
	order := reserve(t, repo, "cust", at(9), 15*time.Minute, a, b)

	receipts := &fakeReceipts{}
	sink := &memorySink{}
	dispatcher := audit.NewDispatcher(sink, nil)
	uc := NewConfirmOrderPaid(repo, receipts, dispatcher, nil)

	paid, err := uc.Execute(ctx, ConfirmOrderPaidInput{
		OrderID:     order.ID,
		PaymentRef:  "mp-123",
		AmountCents: 10000,
		Currency:    "BRL",
		Now:         at(9).Add(5 * time.Minute),
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderPaid, paid.Status)
	assert.Equal(t, "mp-123", paid.PaymentRef)
	assert.Equal(t, "https://receipts.example/"+order.ID+".json", paid.ReceiptURL)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, models.SlotConfirmed, slotByID(t, repo, a.ID).Status)
	assert.Equal(t, models.SlotConfirmed, slotByID(t, repo, b.ID).Status)

	// Webhooks are delivered more than once.
	again, err := uc.Execute(ctx, ConfirmOrderPaidInput{OrderID: order.ID, PaymentRef: "mp-123"})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, again.Status)
	assert.Equal(t, 1, receipts.calls)

	dispatcher.Close()
	require.Len(t, sink.events, 1)
	assert.Equal(t, audit.ActionOrderPaid, sink.events[0].Action)
}

func TestConfirmOrderPaidRejects(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	slot := addSlot(t, repo, 10)
	order := reserve(t, repo, "cust", at(7), 15*time.Minute, slot)

	uc := NewConfirmOrderPaid(repo, nil, nil, nil)

	_, err := uc.Execute(ctx, ConfirmOrderPaidInput{OrderID: "missing"})
	assert.True(t, httperr.IsBusiness(err, "order_not_found"))

	_, err = uc.Execute(ctx, ConfirmOrderPaidInput{OrderID: order.ID, AmountCents: 1})
	assert.True(t, httperr.IsBusiness(err, "payment_amount_mismatch"))

	_, err = uc.Execute(ctx, ConfirmOrderPaidInput{OrderID: order.ID, Currency: "USD"})
	assert.True(t, httperr.IsBusiness(err, "payment_amount_mismatch"))

	_, err = NewSweepStaleReservations(repo, nil, nil, 0).Execute(ctx, at(9))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, ConfirmOrderPaidInput{OrderID: order.ID})
	assert.True(t, httperr.IsBusiness(err, "order_not_pending"))
	assert.True(t, httperr.IsConflict(err))
	assert.Equal(t, models.SlotAvailable, slotByID(t, repo, slot.ID).Status)
}

func TestConfirmOrderPaidReceiptFailureKeepsPayment(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}
	order := reserve(t, repo, "cust", at(9), 15*time.Minute, addSlot(t, repo, 10))

	uc := NewConfirmOrderPaid(repo, &fakeReceipts{err: errors.New("s3 down")}, nil, nil)

	paid, err := uc.Execute(ctx, ConfirmOrderPaidInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, paid.Status)
	assert.Empty(t, paid.ReceiptURL)
}

func TestListMyOrders(t *testing.T) {
	ctx := context.Background()
	repo := &hookedRepo{Repository: newRepo(t)}

	paid := reserve(t, repo, "cust", at(9), 15*time.Minute, addSlot(t, repo, 10))
	reserve(t, repo, "cust", at(9), 15*time.Minute, addSlot(t, repo, 11))
	reserve(t, repo, "other", at(9), 15*time.Minute, addSlot(t, repo, 12))

	_, err := NewConfirmOrderPaid(repo, nil, nil, nil).Execute(ctx, ConfirmOrderPaidInput{OrderID: paid.ID})
	require.NoError(t, err)

	orders, err := NewListMyOrders(repo).Execute(ctx, "cust")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, paid.ID, orders[0].ID)

	_, err = NewListMyOrders(repo).Execute(ctx, "")
	assert.Equal(t, 401, httperr.Status(err))
}

// A one-hour slot is listed, reserved with a 15 minute hold, and back on
// the calendar after a sweep 16 minutes later.
func TestReservationExpiryScenario(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	list := NewListPublicSlots(repo)
	query := ListPublicSlotsInput{TenantSlug: "studio-ana", Date: "2025-06-01"}

	slot := addSlot(t, repo, 10)

	slots, err := list.Execute(ctx, query)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.SlotAvailable, slots[0].Status)

	reservedAt := at(9)
	order, err := NewReserveSlots(repo, nil, nil).Execute(ctx, ReserveSlotsInput{
		TenantID:   tenantID,
		SlotIDs:    []string{slot.ID},
		CustomerID: "cust",
		TTL:        15 * time.Minute,
		Now:        reservedAt,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, models.SlotBooked, slotByID(t, repo, slot.ID).Status)

	res, err := NewSweepStaleReservations(repo, nil, nil, 0).Execute(ctx, reservedAt.Add(16*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Canceled)

	got, err := repo.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCanceled, got.Status)

	slots, err = list.Execute(ctx, query)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, models.SlotAvailable, slots[0].Status)
	assert.Nil(t, slots[0].CustomerID)
}
