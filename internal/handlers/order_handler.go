package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-booking/internal/dto"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/httpresp"
	"github.com/BruksfildServices01/slot-booking/internal/middleware"
	ucBooking "github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
)

type OrderHandler struct {
	listMine *ucBooking.ListMyOrders
}

func NewOrderHandler(listMine *ucBooking.ListMyOrders) *OrderHandler {
	return &OrderHandler{listMine: listMine}
}

func (h *OrderHandler) ListMine(c *gin.Context) {
	orders, err := h.listMine.Execute(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewOrderDTOs(orders))
}
