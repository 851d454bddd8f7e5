package vlan

import (
	"errors"
	"time"

	"vlanman/internal/models"

	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Create(v *models.VlanConfig) error { return r.db.Create(v).Error }
func (r *Repo) Save(v *models.VlanConfig) error   { return r.db.Save(v).Error }

func (r *Repo) GetByUUID(uuid string) (*models.VlanConfig, error) {
	var v models.VlanConfig
	if err := r.db.Where("uuid = ?", uuid).First(&v).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ExistsActive reports whether an active record with this VLAN id is
// already registered (the per-creation duplicate check).
func (r *Repo) ExistsActive(vlanID int) (bool, error) {
	var count int64
	err := r.db.Model(&models.VlanConfig{}).
		Where("vlan_id = ? AND status = ?", vlanID, models.VlanStatusActive).
		Count(&count).Error
	return count > 0, err
}

func (r *Repo) ListAll() ([]models.VlanConfig, error) {
	var out []models.VlanConfig
	err := r.db.Order("vlan_id").Find(&out).Error
	return out, err
}

func (r *Repo) ListByUser(userUUID string) ([]models.VlanConfig, error) {
	var out []models.VlanConfig
	err := r.db.Where("user_uuid = ?", userUUID).Order("vlan_id").Find(&out).Error
	return out, err
}

func (r *Repo) Delete(v *models.VlanConfig) error {
	return r.db.Unscoped().Delete(v).Error
}

// MarkExpired flips auto-delete records past their expiry to expired.
// Returns the number of rows changed; a second immediate run changes
// zero because the status predicate no longer matches.
func (r *Repo) MarkExpired(now time.Time) ([]models.VlanConfig, error) {
	var due []models.VlanConfig
	err := r.db.
		Where("auto_delete = ? AND status = ? AND expires_at IS NOT NULL AND expires_at < ?",
			true, models.VlanStatusActive, now).
		Find(&due).Error
	if err != nil {
		return nil, err
	}
	for i := range due {
		due[i].Status = models.VlanStatusExpired
		if err := r.db.Model(&due[i]).Update("status", models.VlanStatusExpired).Error; err != nil {
			return nil, err
		}
	}
	return due, nil
}
