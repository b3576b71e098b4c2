package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/httpresp"
	"github.com/BruksfildServices01/slot-booking/internal/middleware"
)

type MeHandler struct {
	repo domain.Repository
}

func NewMeHandler(repo domain.Repository) *MeHandler {
	return &MeHandler{repo: repo}
}

// GetMe returns the caller and, for owners, the tenant they run.
func (h *MeHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.repo.GetUserByID(ctx, middleware.UserID(c))
	if errors.Is(err, domain.ErrNotFound) {
		httperr.Unauthorized(c, "user_not_found", "Usuário do token não existe.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body := gin.H{
		"user": gin.H{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"role":      user.Role,
			"tenant_id": user.TenantID,
		},
		"tenant": nil,
	}

	if user.TenantID != nil {
		tenant, err := h.repo.GetTenantByID(ctx, *user.TenantID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			httperr.Respond(c, err)
			return
		}
		if tenant != nil {
			body["tenant"] = gin.H{
				"id":                tenant.ID,
				"name":              tenant.Name,
				"slug":              tenant.Slug,
				"timezone":          tenant.Timezone,
				"hourly_rate_cents": tenant.HourlyRateCents,
				"currency":          tenant.Currency,
			}
		}
	}

	httpresp.OK(c, body)
}
