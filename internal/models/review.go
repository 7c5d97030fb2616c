package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a user's one-off review of a venue. The unique index on
// (user, venue) enforces the one-review-per-court rule at the storage
// layer.
type Review struct {
	gorm.Model
	UserID  uint      `gorm:"not null;uniqueIndex:idx_review_user_venue"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_venue"`

	// Snapshot of the venue's rating at review time.
	Rating    float64 `gorm:"not null;default:0"`
	Comment   string  `gorm:"size:150;not null"`
	Anonymous bool    `gorm:"not null;default:false"`
	Views     int     `gorm:"not null;default:0"`

	User  User  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Venue Venue `gorm:"foreignKey:VenueID;references:ID;constraint:OnDelete:CASCADE;"`
}
