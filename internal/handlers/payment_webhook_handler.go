package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/logging"
	"github.com/BruksfildServices01/slot-booking/internal/payment"
	ucBooking "github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
)

type PaymentWebhookHandler struct {
	verifier payment.Verifier
	confirm  *ucBooking.ConfirmOrderPaid
	logger   *zap.Logger
}

func NewPaymentWebhookHandler(
	verifier payment.Verifier,
	confirm *ucBooking.ConfirmOrderPaid,
	logger *zap.Logger,
) *PaymentWebhookHandler {
	return &PaymentWebhookHandler{
		verifier: verifier,
		confirm:  confirm,
		logger:   logging.OrNop(logger),
	}
}

// MercadoPagoNotification is the subset of the webhook body we read.
type MercadoPagoNotification struct {
	Type string `json:"type"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// MercadoPago acknowledges every notification it can parse. The payment is
// re-read from the processor before any order changes.
func (h *PaymentWebhookHandler) MercadoPago(c *gin.Context) {
	var n MercadoPagoNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid notification body")
		return
	}
	if n.Type != "payment" || n.Data.ID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	p, err := h.verifier.Verify(c.Request.Context(), n.Data.ID)
	if errors.Is(err, payment.ErrInvalidPaymentID) {
		httperr.BadRequest(c, "invalid_payment_id", "invalid payment id")
		return
	}
	if err != nil {
		h.logger.Error("payment lookup failed", zap.String("payment_id", n.Data.ID), zap.Error(err))
		httperr.Write(c, http.StatusBadGateway, "payment_lookup_failed", "payment provider unavailable")
		return
	}
	if !p.Approved() || p.OrderID == "" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	order, err := h.confirm.Execute(c.Request.Context(), ucBooking.ConfirmOrderPaidInput{
		OrderID:     p.OrderID,
		PaymentRef:  p.ID,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
	})
	if err != nil {
		h.logger.Warn("payment not applied",
			zap.String("payment_id", p.ID),
			zap.String("order_id", p.OrderID),
			zap.Error(err),
		)
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": string(order.Status), "order_id": order.ID})
}
