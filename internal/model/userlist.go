package model

import (
	"time"

	"github.com/google/uuid"
)

// UserFavorite marks an application as favorited by a user. Presence of the
// row is the whole state — toggle semantics, no ordering.
type UserFavorite struct {
	UserID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"user_id"`
	ApplicationID uuid.UUID   `gorm:"type:uuid;primaryKey" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// UserApplicationListEntry represents membership and position in a user's
// personal curated list ("My Applications"). OrderIndex is a dense 0-based
// per-user sequence; gaps are tolerated, only relative order matters.
type UserApplicationListEntry struct {
	UserID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"user_id"`
	ApplicationID uuid.UUID   `gorm:"type:uuid;primaryKey" json:"application_id"`
	Application   Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE;" json:"-"`
	OrderIndex    int         `gorm:"not null;index" json:"order_index"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName keeps the original table name used by the portal schema
func (UserApplicationListEntry) TableName() string {
	return "user_application_lists"
}
