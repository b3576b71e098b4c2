package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
)

const statusApproved = "approved"

var ErrInvalidPaymentID = errors.New("invalid payment id")

// Payment is the processor's view of a charge. OrderID comes from the
// external reference set at checkout.
type Payment struct {
	ID          string
	OrderID     string
	Status      string
	AmountCents int64
	Currency    string
}

func (p Payment) Approved() bool {
	return p.Status == statusApproved
}

type Verifier interface {
	Verify(ctx context.Context, paymentID string) (*Payment, error)
}

type paymentGetter interface {
	Get(ctx context.Context, id int) (*payment.Response, error)
}

type MercadoPagoVerifier struct {
	client paymentGetter
}

func NewMercadoPagoVerifier(accessToken string) (*MercadoPagoVerifier, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPagoVerifier{client: payment.NewClient(cfg)}, nil
}

// Verify fetches the payment from the processor; webhook bodies are never
// trusted for status or amount.
func (v *MercadoPagoVerifier) Verify(ctx context.Context, paymentID string) (*Payment, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil || id <= 0 {
		return nil, ErrInvalidPaymentID
	}

	res, err := v.client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}

	return &Payment{
		ID:          strconv.Itoa(res.ID),
		OrderID:     res.ExternalReference,
		Status:      res.Status,
		AmountCents: int64(math.Round(res.TransactionAmount * 100)),
		Currency:    res.CurrencyID,
	}, nil
}
