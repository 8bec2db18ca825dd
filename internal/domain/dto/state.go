package dto

import (
	"sort"
	"time"
)

// State is a snapshot of everything the UI can see. Callers must not modify
// it; the data store replaces it on every change.
type State struct {
	Clubs        []Club
	UsersByEmail map[string]User
	FetchedAt    time.Time
}

// NewState builds a snapshot and derives every user's ManagedClubs from the
// clubs' CreatorID.
func NewState(clubs []Club, users []User, fetchedAt time.Time) *State {
	state := &State{
		Clubs:        clubs,
		UsersByEmail: make(map[string]User, len(users)),
		FetchedAt:    fetchedAt,
	}
	for _, user := range users {
		state.UsersByEmail[user.Email] = user
	}
	state.DeriveManagedClubs()
	return state
}

// DeriveManagedClubs recomputes ManagedClubs for every user.
func (s *State) DeriveManagedClubs() {
	managed := make(map[string][]int64)
	for _, club := range s.Clubs {
		managed[club.CreatorID] = append(managed[club.CreatorID], club.ID)
	}
	for email, user := range s.UsersByEmail {
		ids := append([]int64{}, managed[user.ID]...)
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		user.ManagedClubs = ids
		s.UsersByEmail[email] = user
	}
}

func (s *State) Club(clubID int64) (*Club, bool) {
	for i := range s.Clubs {
		if s.Clubs[i].ID == clubID {
			return &s.Clubs[i], true
		}
	}
	return nil, false
}

func (s *State) Post(clubID, postID int64) (*Post, bool) {
	club, ok := s.Club(clubID)
	if !ok {
		return nil, false
	}
	return club.Post(postID)
}

func (s *State) UserByID(userID string) (User, bool) {
	for _, user := range s.UsersByEmail {
		if user.ID == userID {
			return user, true
		}
	}
	return User{}, false
}

// ClubsByCreator returns the clubs owned by the user, newest first.
func (s *State) ClubsByCreator(userID string) []Club {
	var clubs []Club
	for _, club := range s.Clubs {
		if club.CreatorID == userID {
			clubs = append(clubs, club)
		}
	}
	return clubs
}
