package models

import "time"

// Defaults applied at signup when the form leaves the image fields blank.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User & social-graph models
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex;size:64;not null"`
	Email          string `gorm:"uniqueIndex;size:254;not null"`
	PasswordHash   string `gorm:"not null"` // bcrypt
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	CreatedAt      time.Time
	Messages       []Message `gorm:"foreignKey:AuthorID"`
}

// Follow is a directional edge: Follower follows Followed.
// The composite primary key keeps the pair unique.
type Follow struct {
	FollowerID uint `gorm:"primaryKey;autoIncrement:false"`
	FollowedID uint `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt  time.Time
}
