// Package users holds the user registry and bearer-token sessions.
package users

import (
	"errors"
	"time"

	"vlanman/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("user not found")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// FindOrCreate looks a user up by NIM, creating one on first login.
// The bool is true when the user was created.
func (r *Repo) FindOrCreate(name, nim, email string) (*models.User, bool, error) {
	var u models.User
	tx := r.db.Where("nim = ?", nim).First(&u)
	if tx.Error != nil {
		if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, false, tx.Error
		}
		u = models.User{UUID: uuid.NewString(), Name: name, NIM: nim, Email: email}
		if err := r.db.Create(&u).Error; err != nil {
			return nil, false, err
		}
		return &u, true, nil
	}
	return &u, false, nil
}

func (r *Repo) GetByUUID(id string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("uuid = ?", id).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *Repo) ListAll() ([]models.User, error) {
	var out []models.User
	err := r.db.Order("id").Find(&out).Error
	return out, err
}

// CreateSession issues a bearer token valid for ttl.
func (r *Repo) CreateSession(userUUID, ip, userAgent string, ttl time.Duration) (*models.UserSession, error) {
	s := &models.UserSession{
		UserUUID:  userUUID,
		Token:     uuid.NewString(),
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	return s, r.db.Create(s).Error
}

// UserByToken resolves a bearer token to its user; expired or unknown
// tokens fail with ErrNotAuthenticated.
func (r *Repo) UserByToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	var s models.UserSession
	if err := r.db.Where("token = ?", token).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	if !s.Active(time.Now().UTC()) {
		return nil, ErrNotAuthenticated
	}
	return r.GetByUUID(s.UserUUID)
}

func (r *Repo) RevokeToken(token string) error {
	return r.db.Unscoped().Where("token = ?", token).Delete(&models.UserSession{}).Error
}

// CleanupExpiredSessions deletes sessions past their expiry. Returns
// the number of rows removed.
func (r *Repo) CleanupExpiredSessions(now time.Time) (int64, error) {
	tx := r.db.Unscoped().Where("expires_at < ?", now).Delete(&models.UserSession{})
	return tx.RowsAffected, tx.Error
}

// CountVlans is used by the user profile payload.
func (r *Repo) CountVlans(userUUID string) (int64, error) {
	var n int64
	err := r.db.Model(&models.VlanConfig{}).Where("user_uuid = ?", userUUID).Count(&n).Error
	return n, err
}
