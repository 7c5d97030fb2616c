package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking reserves one hourly slot at a venue. The composite unique
// index on (venue, date, start time) is what actually prevents
// double-booking; handler pre-checks are only a nicety.
type Booking struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID  uint      `gorm:"not null;index"`
	VenueID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_booking_slot"`

	BookingDate string `gorm:"size:10;not null;uniqueIndex:idx_booking_slot"` // YYYY-MM-DD
	StartTime   string `gorm:"size:5;not null;uniqueIndex:idx_booking_slot"`  // HH:MM
	EndTime     string `gorm:"size:5;not null"`

	// Contact details as entered on the booking form, snapshotted so
	// later profile edits don't rewrite history.
	CustomerName  string `gorm:"size:200;not null"`
	CustomerEmail string `gorm:"size:255;not null"`
	CustomerPhone string `gorm:"size:20;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time

	User  User  `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
	Venue Venue `gorm:"foreignKey:VenueID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
