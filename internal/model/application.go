package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthType enum constants — how a cataloged application authenticates its users
const (
	AuthTypeUsernamePassword = "username_password"
	AuthTypeSSO              = "sso"
	AuthTypeAPIKey           = "api_key"
	AuthTypeOAuth            = "oauth"
	AuthTypeOther            = "other"
)

// Application is a catalog entry for an internal tool. Mutated only by admins
// directly or indirectly through request approval.
type Application struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string       `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	URL         string       `gorm:"type:text;not null" json:"url"`
	ImageURL    string       `gorm:"type:text" json:"image_url"`
	AuthType    string       `gorm:"type:varchar(30);not null" json:"auth_type"`
	Departments []Department `gorm:"many2many:application_departments;constraint:OnDelete:CASCADE;" json:"departments"`
	CreatedAt   time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// Department is a pure tagging dimension, many-to-many with Application.
type Department struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
