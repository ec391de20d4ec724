package services

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/werner-traut/budget/internal/logger"
	"github.com/werner-traut/budget/internal/models"
)

// maxAuditChanges caps the stored changes payload.
const maxAuditChanges = 4096

type auditService struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db, log: logger.Named("audit")}
}

// Log records an audit event. Audit failures are logged and never reach the
// caller; the mutation being audited has already committed.
func (s *auditService) Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{}) {
	if userID == "" {
		s.log.Warnw("audit event without user dropped", "action", action, "resource_type", resourceType)
		return
	}

	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      s.encodeChanges(action, changes),
	}

	if err := s.db.Create(entry).Error; err != nil {
		s.log.Errorw("failed to create audit log entry",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource_type", resourceType,
			"resource_id", resourceID,
		)
	}
}

// encodeChanges renders changes as JSON. Payloads over maxAuditChanges are
// replaced by a marker carrying the original size.
func (s *auditService) encodeChanges(action string, changes map[string]interface{}) string {
	if len(changes) == 0 {
		return ""
	}
	data, err := json.Marshal(changes)
	if err != nil {
		s.log.Errorw("failed to marshal audit log changes", "error", err, "action", action)
		return "{}"
	}
	if len(data) > maxAuditChanges {
		marker, _ := json.Marshal(map[string]interface{}{"truncated": true, "size": len(data)})
		return string(marker)
	}
	return string(data)
}
