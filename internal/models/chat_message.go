package models

import "gorm.io/gorm"

// ChatMessage is a direct message between two users. History is ordered
// by CreatedAt; Read is flipped when the receiver opens the conversation.
type ChatMessage struct {
	gorm.Model
	SenderID   uint   `gorm:"not null;index"`
	ReceiverID uint   `gorm:"not null;index"`
	Content    string `gorm:"not null"`
	Read       bool   `gorm:"not null;default:false"`

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnDelete:CASCADE;"`
}
