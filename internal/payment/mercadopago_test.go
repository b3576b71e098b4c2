package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGetter struct {
	res *payment.Response
	err error
	got int
}

func (f *fakeGetter) Get(_ context.Context, id int) (*payment.Response, error) {
	f.got = id
	return f.res, f.err
}

func TestVerify(t *testing.T) {
	getter := &fakeGetter{res: &payment.Response{
		ID:                123,
		Status:            "approved",
		ExternalReference: "order-1",
		TransactionAmount: 150.5,
		CurrencyID:        "BRL",
	}}
	v := &MercadoPagoVerifier{client: getter}

	p, err := v.Verify(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, 123, getter.got)
	assert.Equal(t, "123", p.ID)
	assert.Equal(t, "order-1", p.OrderID)
	assert.Equal(t, int64(15050), p.AmountCents)
	assert.True(t, p.Approved())
}

func TestVerifyErrors(t *testing.T) {
	v := &MercadoPagoVerifier{client: &fakeGetter{err: errors.New("timeout")}}

	_, err := v.Verify(context.Background(), "abc")
	assert.ErrorIs(t, err, ErrInvalidPaymentID)

	_, err = v.Verify(context.Background(), "7")
	assert.ErrorContains(t, err, "timeout")
}
