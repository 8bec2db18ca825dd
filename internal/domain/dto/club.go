package dto

import "time"

type Funding struct {
	Current float64 `json:"current"`
	Goal    float64 `json:"goal"`
}

type Club struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Sport       string    `json:"sport"`
	Logo        string    `json:"logo"`
	Tagline     string    `json:"tagline"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creatorId"`
	Funding     Funding   `json:"funding"`
	Posts       []Post    `json:"posts"`
	Players     []Player  `json:"players"`
	Merch       []Merch   `json:"merch"`
	CreatedAt   time.Time `json:"createdAt"`
}

type NewClub struct {
	Name        string
	Sport       string
	Logo        string
	Tagline     string
	Description string
	CreatorID   string
	Funding     Funding
}

// ClubSettings are the fields a creator can edit after the club exists.
type ClubSettings struct {
	Name        string
	Sport       string
	Logo        string
	Tagline     string
	Description string
	Funding     Funding
}

type Post struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Image     *string   `json:"image"`
	Timestamp time.Time `json:"timestamp"`
	Likes     int       `json:"likes"`
	Comments  []Comment `json:"comments"`
}

type NewPost struct {
	Text  string
	Image *string
}

type Comment struct {
	ID     int64  `json:"id"`
	UserID string `json:"userId"`
	Text   string `json:"text"`
}

type NewComment struct {
	UserID string
	Text   string
}

type Player struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Number   *int   `json:"number,omitempty"`
	Avatar   string `json:"avatar"`
}

type NewPlayer struct {
	Name     string
	Position string
	Number   *int
	Avatar   string
}

type Merch struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

type NewMerch struct {
	Name  string
	Price float64
	Image string
}

// Post returns the club post with the given id.
func (c *Club) Post(postID int64) (*Post, bool) {
	for i := range c.Posts {
		if c.Posts[i].ID == postID {
			return &c.Posts[i], true
		}
	}
	return nil, false
}

// Comment returns the comment with the given id.
func (p *Post) Comment(commentID int64) (*Comment, bool) {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i], true
		}
	}
	return nil, false
}
