package booking

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/audit"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/models"
)

type ConfirmOrderPaidInput struct {
	OrderID    string
	PaymentRef string

	// AmountCents and Currency, when set, must match the order.
	AmountCents int64
	Currency    string

	Now time.Time
}

type ConfirmOrderPaid struct {
	repo     domain.Repository
	receipts ReceiptStore
	audit    *audit.Dispatcher
	logger   *zap.Logger
}

// NewConfirmOrderPaid accepts a nil receipts store; orders then keep an
// empty receipt URL.
func NewConfirmOrderPaid(
	repo domain.Repository,
	receipts ReceiptStore,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *ConfirmOrderPaid {
	return &ConfirmOrderPaid{
		repo:     repo,
		receipts: receipts,
		audit:    audit,
		logger:   logging.OrNop(logger),
	}
}

// Execute moves a pending order to paid and its slots to confirmed in one
// transaction. Repeating it for a paid order is a no-op.
func (uc *ConfirmOrderPaid) Execute(
	ctx context.Context,
	in ConfirmOrderPaidInput,
) (*models.Order, error) {

	order, err := uc.repo.GetOrder(ctx, in.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("order_not_found")
	}
	if err != nil {
		return nil, err
	}

	if in.AmountCents > 0 && in.AmountCents != order.AmountCents {
		return nil, httperr.ErrConflict("payment_amount_mismatch")
	}
	if in.Currency != "" && in.Currency != order.Currency {
		return nil, httperr.ErrConflict("payment_amount_mismatch")
	}

	now := nowOr(in.Now)
	alreadyPaid := false

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.UpdateOrderStatus(ctx, order.ID, models.OrderPending, models.OrderPaid, now)
		if err != nil {
			return err
		}
		if !ok {
			current, err := tx.GetOrder(ctx, order.ID)
			if err != nil {
				return err
			}
			if current.Status == models.OrderPaid {
				alreadyPaid = true
				return nil
			}
			return httperr.ErrConflict("order_not_pending")
		}

		confirmed, err := tx.UpdateSlotStatus(ctx, domain.StatusUpdate{
			IDs:          order.SlotIDs,
			TenantID:     order.TenantID,
			From:         models.SlotBooked,
			To:           models.SlotConfirmed,
			OnlyCustomer: order.UserID,
		})
		if err != nil {
			return err
		}
		if len(confirmed) != len(order.SlotIDs) {
			uc.logger.Warn("paid order with slots not held",
				zap.String("order_id", order.ID),
				zap.Int("confirmed", len(confirmed)),
				zap.Int("requested", len(order.SlotIDs)),
			)
		}

		return tx.SetOrderPayment(ctx, order.ID, in.PaymentRef, "")
	})
	if err != nil {
		return nil, err
	}

	paid, err := uc.repo.GetOrder(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	if alreadyPaid {
		return paid, nil
	}

	uc.attachReceipt(ctx, paid)

	uc.audit.Dispatch(audit.Event{
		TenantID: paid.TenantID,
		UserID:   paid.UserID,
		Action:   audit.ActionOrderPaid,
		Entity:   "order",
		EntityID: paid.ID,
		Metadata: map[string]any{"payment_ref": in.PaymentRef},
	})

	return paid, nil
}

// attachReceipt is best effort: the order is already paid.
func (uc *ConfirmOrderPaid) attachReceipt(ctx context.Context, order *models.Order) {
	if uc.receipts == nil {
		return
	}

	url, err := uc.receipts.PutReceipt(ctx, order)
	if err != nil {
		uc.logger.Warn("receipt upload failed", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	if err := uc.repo.SetOrderPayment(ctx, order.ID, "", url); err != nil {
		uc.logger.Warn("receipt url not saved", zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	order.ReceiptURL = url
}
