package dto

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleFan     Role = "fan"
	RoleCreator Role = "creator"
)

func (r Role) Valid() bool {
	return r == RoleFan || r == RoleCreator
}

// User is the application-level account. ManagedClubs is derived from club
// ownership and is recomputed whenever a State is built.
type User struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Password      string  `json:"password,omitempty"`
	Role          Role    `json:"role"`
	FollowedClubs []int64 `json:"followedClubs"`
	ManagedClubs  []int64 `json:"managedClubs"`
	Avatar        string  `json:"avatar"`
	Bio           string  `json:"bio"`
}

type NewUser struct {
	ID       string
	Name     string
	Email    string
	Password string
	Role     Role
	Avatar   string
	Bio      string
}

type UserProfile struct {
	Name   string
	Avatar string
	Bio    string
}

// Follows reports whether the user follows the club.
func (u *User) Follows(clubID int64) bool {
	for _, id := range u.FollowedClubs {
		if id == clubID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with u.
func (u User) Clone() User {
	u.FollowedClubs = append([]int64(nil), u.FollowedClubs...)
	u.ManagedClubs = append([]int64(nil), u.ManagedClubs...)
	return u
}

// PlaceholderAvatar builds the default avatar URL from the first letter of name.
func PlaceholderAvatar(name string) string {
	initial := "U"
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		initial = strings.ToUpper(string([]rune(trimmed)[:1]))
	}
	return fmt.Sprintf("https://placehold.co/100x100/A78BFA/FFFFFF?text=%s", initial)
}
