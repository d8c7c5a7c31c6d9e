package activity

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Interface-corporation/grow-movement-app/internal/model"
)

// Recorder appends rows to the activity log. Writes are best-effort: a failed
// audit write is logged at warn level and never fails the primary mutation.
type Recorder struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRecorder creates a recorder writing through the given database handle.
func NewRecorder(db *gorm.DB, log *zap.Logger) *Recorder {
	return &Recorder{db: db, log: log}
}

// Record appends an entry using the recorder's own handle.
func (r *Recorder) Record(action, entityType, entityID string, details model.Details, userID *string) {
	r.RecordTx(r.db, action, entityType, entityID, details, userID)
}

// RecordTx appends an entry using the supplied handle, so calls made inside a
// lifecycle transaction join it and stay consistent with the cascade.
func (r *Recorder) RecordTx(tx *gorm.DB, action, entityType, entityID string, details model.Details, userID *string) {
	entry := model.ActivityLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
		UserID:     userID,
	}
	if err := tx.Create(&entry).Error; err != nil {
		r.log.Warn("Failed to write activity log entry",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
