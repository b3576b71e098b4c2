package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-booking/internal/dto"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/httpresp"
	"github.com/BruksfildServices01/slot-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
)

type CheckoutHandler struct {
	reserve *ucBooking.ReserveSlots
	ttl     time.Duration
}

func NewCheckoutHandler(reserve *ucBooking.ReserveSlots, ttl time.Duration) *CheckoutHandler {
	return &CheckoutHandler{reserve: reserve, ttl: ttl}
}

type CheckoutRequest struct {
	TenantID string   `json:"tenant_id" binding:"required"`
	SlotIDs  []string `json:"slot_ids" binding:"required,min=1,max=24"`
}

// Checkout reserves the slots and opens a pending order. Lost races answer
// 409 with the unavailable slot ids in details.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	order, err := h.reserve.Execute(c.Request.Context(), ucBooking.ReserveSlotsInput{
		TenantID:   req.TenantID,
		SlotIDs:    req.SlotIDs,
		CustomerID: middleware.UserID(c),
		TTL:        h.ttl,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewOrderDTO(*order))
}
