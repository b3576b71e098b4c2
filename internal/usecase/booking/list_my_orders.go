package booking

import (
	"context"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type ListMyOrders struct {
	repo domain.Repository
}

func NewListMyOrders(repo domain.Repository) *ListMyOrders {
	return &ListMyOrders{repo: repo}
}

// Execute lists the caller's paid and refunded orders, newest first.
func (uc *ListMyOrders) Execute(ctx context.Context, userID string) ([]models.Order, error) {
	if userID == "" {
		return nil, httperr.ErrUnauthorized("missing_identity")
	}

	return uc.repo.FindOrders(ctx, domain.OrderFilter{
		UserID:   userID,
		Statuses: domain.VisibleOrderStatuses(),
	})
}
