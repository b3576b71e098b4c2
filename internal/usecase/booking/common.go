package booking

import (
	"context"
	"errors"
	"time"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// ReceiptStore uploads a receipt for a paid order and returns its URL.
type ReceiptStore interface {
	PutReceipt(ctx context.Context, order *models.Order) (string, error)
}

func loadTenant(ctx context.Context, repo domain.Repository, id string) (*models.Tenant, error) {
	tenant, err := repo.GetTenantByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("tenant_not_found")
	}
	return tenant, err
}

// loadOwnedTenant fails with Forbidden unless actorID owns tenantID.
func loadOwnedTenant(ctx context.Context, repo domain.Repository, tenantID, actorID string) (*models.Tenant, error) {
	if actorID == "" {
		return nil, httperr.ErrUnauthorized("missing_identity")
	}

	tenant, err := loadTenant(ctx, repo, tenantID)
	if err != nil {
		return nil, err
	}
	if tenant.OwnerID != actorID {
		return nil, httperr.ErrForbidden("not_tenant_owner")
	}
	return tenant, nil
}

func nowOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
