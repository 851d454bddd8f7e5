// Package activity is the append-only log of orchestration outcomes.
package activity

import (
	"vlanman/internal/logs"
	"vlanman/internal/models"

	"gorm.io/gorm"
)

type Recorder struct{ db *gorm.DB }

func NewRecorder(db *gorm.DB) *Recorder { return &Recorder{db: db} }

// Record appends one entry. Best effort: a storage failure here is
// logged and swallowed so it can never fail the operation being logged.
func (rec *Recorder) Record(userUUID, vlanUUID, action, details, status, ip string) {
	entry := &models.ActivityLog{
		UserUUID:  userUUID,
		VlanUUID:  vlanUUID,
		Action:    action,
		Details:   details,
		Status:    status,
		IPAddress: ip,
	}
	if err := rec.db.Create(entry).Error; err != nil {
		logs.Logger.Errorf("record activity %s/%s: %v", action, status, err)
	}
}

// List returns the newest entries, up to limit.
func (rec *Recorder) List(limit int) ([]models.ActivityLog, error) {
	var out []models.ActivityLog
	err := rec.db.Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (rec *Recorder) ListByUser(userUUID string, limit int) ([]models.ActivityLog, error) {
	var out []models.ActivityLog
	err := rec.db.Where("user_uuid = ?", userUUID).Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}
