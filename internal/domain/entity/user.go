package entity

import "time"

type User struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Name      string `gorm:"not null"`
	Email     string `gorm:"not null;uniqueIndex"`
	Password  string
	Role      string `gorm:"not null;default:fan"`
	Avatar    string
	Bio       string

	Follows []Follow `gorm:"foreignKey:UserID"`
}

// Follow is a user's membership in a club's audience.
type Follow struct {
	UserID    string `gorm:"primaryKey;type:uuid"`
	ClubID    int64  `gorm:"primaryKey"`
	CreatedAt time.Time
}

func (Follow) TableName() string {
	return "user_club_follows"
}
