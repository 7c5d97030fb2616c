package models

import "gorm.io/gorm"

// Roles a user can hold. Admins manage the dashboards, venue owners
// manage their own courts, everyone else is a customer.
const (
	RoleCustomer   = "customer"
	RoleVenueOwner = "venue_owner"
	RoleAdmin      = "admin"
)

// User represents a user account together with its profile attributes.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	Email        string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         string `gorm:"size:20;not null;default:'customer';index"`

	Phone    string `gorm:"size:20"`
	Address  string `gorm:"size:255"`
	PhotoURL string `gorm:"size:500"`
	Bio      string

	// Symmetric friendship edges. Both directions are stored, so a
	// lookup from either side only needs this association.
	Friends []*User `gorm:"many2many:user_friends"`
}
