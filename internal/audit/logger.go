package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/slot-booking/internal/models"
)

// GormSink stores events in audit_logs.
type GormSink struct {
	db *gorm.DB
}

func NewGormSink(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Log(ctx context.Context, ev Event) error {
	entry := models.AuditLog{
		TenantID: ev.TenantID,
		UserID:   optional(ev.UserID),
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: optional(ev.EntityID),
		Metadata: encodeMetadata(ev.Metadata),
	}

	return s.db.WithContext(ctx).Create(&entry).Error
}

// ZapSink writes events as structured log lines, for deployments without
// a database.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Log(_ context.Context, ev Event) error {
	s.logger.Info("audit",
		zap.String("tenant_id", ev.TenantID),
		zap.String("user_id", ev.UserID),
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("entity_id", ev.EntityID),
		zap.String("metadata", encodeMetadata(ev.Metadata)),
	)
	return nil
}

func encodeMetadata(metadata any) string {
	if metadata == nil {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(b)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
