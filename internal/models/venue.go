package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Venue is a bookable court. Rows are mirrored from the upstream place
// search API and deduplicated on PlaceID; admins can also curate them
// by hand.
type Venue struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlaceID string    `gorm:"size:255;uniqueIndex;not null"`

	Name     string `gorm:"size:200;not null"`
	Location string `gorm:"size:300"`
	Address  string `gorm:"size:300;not null"`

	Latitude  *float64
	Longitude *float64

	// Aggregate rating as reported by the upstream API, not the local
	// review average (that one is computed on read).
	Rating      *float64
	TotalReview *int

	ThumbnailURL string `gorm:"size:500"`
	ImageURL     string `gorm:"size:500"`
	Description  string
	Notes        string
	IsFeatured   bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	Reviews []Review `gorm:"foreignKey:VenueID"`
}

func (v *Venue) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
