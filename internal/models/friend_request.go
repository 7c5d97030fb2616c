package models

import "gorm.io/gorm"

// FriendRequest is a directed pending edge from one user to another.
// Accepting it adds the symmetric friendship and deletes the row, so
// accepted requests never linger.
type FriendRequest struct {
	gorm.Model
	FromUserID uint `gorm:"not null;index;uniqueIndex:idx_friend_request_edge"`
	ToUserID   uint `gorm:"not null;index;uniqueIndex:idx_friend_request_edge"`
	IsAccepted bool `gorm:"not null;default:false"`

	FromUser User `gorm:"foreignKey:FromUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToUser   User `gorm:"foreignKey:ToUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
