package models

import (
	"time"

	"gorm.io/gorm"
)

// User — whoever requests VLANs. Identified by NIM (student/staff number).
type User struct {
	gorm.Model
	UUID  string `gorm:"column:uuid;type:char(36);uniqueIndex"`
	Name  string `gorm:"type:varchar(100);not null"`
	NIM   string `gorm:"column:nim;type:varchar(50);uniqueIndex;not null"`
	Email string `gorm:"type:varchar(120);uniqueIndex;not null"`
}

// UserSession is one issued bearer token. Expired rows are swept in the
// background.
type UserSession struct {
	gorm.Model
	UserUUID  string    `gorm:"column:user_uuid;type:char(36);index"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	UserAgent string    `gorm:"type:varchar(500)"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (s *UserSession) Active(now time.Time) bool { return now.Before(s.ExpiresAt) }
