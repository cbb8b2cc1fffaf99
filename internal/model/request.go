package model

import (
	"time"

	"github.com/google/uuid"
)

// Request status enum constants
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ApplicationRequest is a user-submitted proposal for a new catalog entry.
// Lifecycle: pending -> approved (materializes an Application) or rejected
// (the row is deleted outright).
type ApplicationRequest struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	URL         string       `gorm:"type:text;not null" json:"url"`
	ImageURL    string       `gorm:"type:text" json:"image_url"`
	AuthType    string       `gorm:"type:varchar(30);not null" json:"auth_type"`
	Status      string       `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AdminNotes  string       `gorm:"type:text" json:"admin_notes"`
	RequestedBy *uuid.UUID   `gorm:"type:uuid;index" json:"requested_by"`
	Requester   *User        `gorm:"foreignKey:RequestedBy" json:"requester,omitempty"`
	Departments []Department `gorm:"many2many:application_request_departments;constraint:OnDelete:CASCADE;" json:"departments"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
