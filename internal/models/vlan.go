package models

import (
	"time"

	"gorm.io/gorm"
)

// VLAN record lifecycle states.
const (
	VlanStatusActive  = "active"
	VlanStatusExpired = "expired"
)

// VlanConfig is a provisioned VLAN. A row exists only after the switch
// confirmed the corresponding create.
type VlanConfig struct {
	gorm.Model
	UUID        string `gorm:"column:uuid;type:char(36);uniqueIndex"`
	VlanID      int    `gorm:"column:vlan_id;index;not null"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(255)"`

	UserUUID string `gorm:"column:user_uuid;type:char(36);index;not null"`

	SubnetMask string `gorm:"type:varchar(18);default:'255.255.255.0'"`
	MaxHosts   int
	HostCount  int `gorm:"default:0"`

	Status string `gorm:"type:varchar(20);default:'active'"`

	// Auto-delete: records past ExpiresAt are flipped to expired by the
	// sweep; the device-side VLAN is left in place.
	AutoDelete bool
	ExpiresAt  *time.Time

	DeviceSynced  bool
	SyncTimestamp *time.Time
}

func (v *VlanConfig) Expired(now time.Time) bool {
	return v.ExpiresAt != nil && now.After(*v.ExpiresAt)
}
