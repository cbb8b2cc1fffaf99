package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateApplication = "CREATE_APPLICATION"
	ActionUpdateApplication = "UPDATE_APPLICATION"
	ActionDeleteApplication = "DELETE_APPLICATION"
	ActionCreateDepartment  = "CREATE_DEPARTMENT"
	ActionUpdateDepartment  = "UPDATE_DEPARTMENT"
	ActionDeleteDepartment  = "DELETE_DEPARTMENT"

	// Request workflow actions
	ActionCreateAppRequest              = "CREATE_APP_REQUEST"
	ActionUpdateAppRequest              = "UPDATE_APP_REQUEST"
	ActionApproveAppRequest             = "APPROVE_APP_REQUEST"
	ActionRejectAppRequest              = "REJECT_APP_REQUEST"
	ActionCreateApplicationFromApproval = "CREATE_APPLICATION_FROM_APPROVAL"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
