package models

import "time"

// MaxMessageLength bounds message text, counted in runes.
const MaxMessageLength = 140

type Message struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:140;not null"`
	Timestamp time.Time `gorm:"not null"`
	AuthorID  uint      `gorm:"not null;index"`
	Author    User      `gorm:"foreignKey:AuthorID"`
}

// GetUserID reports the owning user, used by ownership checks.
func (m Message) GetUserID() uint { return m.AuthorID }

// Like links a user to a message they liked.
type Like struct {
	UserID    uint `gorm:"primaryKey;autoIncrement:false"`
	MessageID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}
