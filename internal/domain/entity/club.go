package entity

import "time"

type Club struct {
	ID             int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Name           string `gorm:"not null"`
	Sport          string
	Logo           string
	Tagline        string
	Description    string
	CreatorID      string  `gorm:"not null;type:uuid;index"`
	FundingCurrent float64 `gorm:"not null;default:0"`
	FundingGoal    float64 `gorm:"not null;default:0"`

	Posts   []Post   `gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE"`
	Players []Player `gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE"`
	Merch   []Merch  `gorm:"foreignKey:ClubID;constraint:OnDelete:CASCADE"`
}

type Post struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	ClubID    int64  `gorm:"not null;index"`
	Text      string `gorm:"not null"`
	Image     *string
	Likes     int `gorm:"not null;default:0"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
}

type Comment struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	PostID    int64  `gorm:"not null;index"`
	UserID    string `gorm:"not null;type:uuid"`
	Text      string `gorm:"not null"`
}

type Player struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	ClubID    int64  `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Position  string
	Number    *int
	Avatar    string
}

type Merch struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
	ClubID    int64  `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Price     float64
	Image     string
}

func (Merch) TableName() string {
	return "merches"
}
