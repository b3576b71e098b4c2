package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-booking/internal/dto"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/httpresp"
	"github.com/BruksfildServices01/slot-booking/internal/middleware"
	"github.com/BruksfildServices01/slot-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/slot-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	listPublic *ucBooking.ListPublicSlots
	create     *ucBooking.CreateAvailableSlot
	cancel     *ucBooking.CancelSlot
}

func NewSlotHandler(
	listPublic *ucBooking.ListPublicSlots,
	create *ucBooking.CreateAvailableSlot,
	cancel *ucBooking.CancelSlot,
) *SlotHandler {
	return &SlotHandler{
		listPublic: listPublic,
		create:     create,
		cancel:     cancel,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateSlotRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
	Mode  string    `json:"mode"`
}

type CreateSlotResponse struct {
	Slot    dto.SlotDTO `json:"slot"`
	Created bool        `json:"created"`
}

// ======================================================
// PUBLIC
// ======================================================

// ListPublic serves GET /api/public/:slug/slots?from=&to= (RFC3339) or ?date=YYYY-MM-DD.
func (h *SlotHandler) ListPublic(c *gin.Context) {
	in := ucBooking.ListPublicSlotsInput{
		TenantSlug: c.Param("slug"),
		Date:       c.Query("date"),
	}

	if in.Date == "" {
		var err error
		if in.From, err = time.Parse(time.RFC3339, c.Query("from")); err != nil {
			httperr.BadRequest(c, "invalid_range", "from must be an RFC3339 timestamp")
			return
		}
		if in.To, err = time.Parse(time.RFC3339, c.Query("to")); err != nil {
			httperr.BadRequest(c, "invalid_range", "to must be an RFC3339 timestamp")
			return
		}
	}

	slots, err := h.listPublic.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, dto.NewSlotDTOs(slots))
}

// ======================================================
// OWNER
// ======================================================

func (h *SlotHandler) Create(c *gin.Context) {
	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	slot, created, err := h.create.Execute(c.Request.Context(), ucBooking.CreateAvailableSlotInput{
		TenantID: middleware.TenantID(c),
		ActorID:  middleware.UserID(c),
		Start:    req.Start,
		End:      req.End,
		Mode:     models.SlotMode(req.Mode),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, CreateSlotResponse{Slot: dto.NewSlotDTO(*slot), Created: created})
}

func (h *SlotHandler) Cancel(c *gin.Context) {
	slot, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.TenantID(c),
		middleware.UserID(c),
		c.Param("id"),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, dto.NewSlotDTO(*slot))
}
