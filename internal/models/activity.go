package models

import "gorm.io/gorm"

// Activity actions.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
	ActionExpire = "EXPIRE"
	ActionLogin  = "LOGIN"
	ActionLogout = "LOGOUT"
)

// Activity outcomes.
const (
	OutcomeSuccess = "SUCCESS"
	OutcomeFailed  = "FAILED"
)

// ActivityLog is append-only; rows are never updated or deleted.
type ActivityLog struct {
	gorm.Model
	UserUUID  string `gorm:"column:user_uuid;type:char(36);index"`
	VlanUUID  string `gorm:"column:vlan_uuid;type:char(36);index"`
	Action    string `gorm:"type:varchar(50);not null"`
	Details   string `gorm:"type:text"`
	Status    string `gorm:"type:varchar(20)"`
	IPAddress string `gorm:"type:varchar(45)"`
}
