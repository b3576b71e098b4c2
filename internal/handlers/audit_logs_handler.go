package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/middleware"
	"github.com/BruksfildServices01/slot-booking/internal/models"
	"github.com/BruksfildServices01/slot-booking/internal/timezone"
)

// AuditLogsHandler lists a tenant's audit trail. Only available with the
// postgres driver; the memory driver writes audit events to the log.
type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("tenant_id = ?", tenantID)

	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse(timezone.DateLayout, from); err == nil {
			q = q.Where("created_at >= ?", d)
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse(timezone.DateLayout, to); err == nil {
			q = q.Where("created_at < ?", d.Add(24*time.Hour))
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	logs := []models.AuditLog{}
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
