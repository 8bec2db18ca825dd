package entity

import "time"

// Identity is an account of the identity provider, separate from the
// application user that shares its ID.
type Identity struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Email        string `gorm:"not null;uniqueIndex"`
	Name         string
	AvatarURL    string
	Provider     string `gorm:"not null"`
	PasswordHash string
	GoogleID     *string `gorm:"uniqueIndex"`
	Confirmed    bool    `gorm:"not null;default:false"`
}
