package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/infra/repository"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

const (
	ownerID  = "owner-1"
	tenantID = "tenant-1"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func at(hour int) time.Time {
	return day.Add(time.Duration(hour) * time.Hour)
}

func newRepo(t *testing.T) *repository.BookingMemoryRepository {
	t.Helper()

	repo := repository.NewBookingMemoryRepository()
	require.NoError(t, repo.CreateTenant(context.Background(), &models.Tenant{
		ID:              tenantID,
		Name:            "Studio Ana",
		Slug:            "studio-ana",
		OwnerID:         ownerID,
		Timezone:        "UTC",
		HourlyRateCents: 5000,
		Currency:        "BRL",
	}))
	return repo
}

func addSlot(t *testing.T, repo domain.Repository, hour int) *models.Slot {
	t.Helper()

	slot, created, err := NewCreateAvailableSlot(repo, nil).Execute(context.Background(), CreateAvailableSlotInput{
		TenantID: tenantID,
		ActorID:  ownerID,
		Start:    at(hour),
		End:      at(hour + 1),
	})
	require.NoError(t, err)
	require.True(t, created)
	return slot
}

func slotByID(t *testing.T, repo domain.Repository, id string) models.Slot {
	t.Helper()

	slots, err := repo.FindSlots(context.Background(), domain.SlotFilter{IDs: []string{id}})
	require.NoError(t, err)
	require.Len(t, slots, 1)
	return slots[0]
}

// hookedRepo injects behavior around a real repository.
type hookedRepo struct {
	domain.Repository

	afterFindOrders func()
	failOrderID     string
}

func (r *hookedRepo) FindOrders(ctx context.Context, f domain.OrderFilter) ([]models.Order, error) {
	out, err := r.Repository.FindOrders(ctx, f)
	if r.afterFindOrders != nil {
		r.afterFindOrders()
	}
	return out, err
}

func (r *hookedRepo) UpdateOrderStatus(
	ctx context.Context,
	id string,
	from, to models.OrderStatus,
	at time.Time,
) (bool, error) {
	if id == r.failOrderID {
		return false, errors.New("storage unavailable")
	}
	return r.Repository.UpdateOrderStatus(ctx, id, from, to, at)
}

func (r *hookedRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx domain.Repository) error {
		return fn(&hookedRepo{Repository: tx, failOrderID: r.failOrderID})
	})
}

type fakeReceipts struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeReceipts) PutReceipt(_ context.Context, order *models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://receipts.example/" + order.ID + ".json", nil
}
