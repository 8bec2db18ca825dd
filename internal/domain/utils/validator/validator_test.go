package validator

import (
	"math"
	"strings"
	"testing"

	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/stretchr/testify/assert"
)

func TestClubName(t *testing.T) {
	assert.True(t, ClubName("Mountain Lions FC"))
	assert.False(t, ClubName("  FC "))
	assert.False(t, ClubName(strings.Repeat("a", 61)))
}

func TestFunding(t *testing.T) {
	assert.True(t, Funding(dto.Funding{Current: 12000, Goal: 10000}))
	assert.True(t, Funding(dto.Funding{}))
	assert.False(t, Funding(dto.Funding{Current: -1, Goal: 10}))
	assert.False(t, Funding(dto.Funding{Current: 0, Goal: math.Inf(1)}))
	assert.False(t, Funding(dto.Funding{Current: math.NaN()}))
}

func TestNewClub(t *testing.T) {
	club := dto.NewClub{Name: "Valley Vipers", Sport: "Volleyball", CreatorID: "u2", Funding: dto.Funding{Goal: 10000}}
	assert.True(t, NewClub(club))

	club.CreatorID = ""
	assert.False(t, NewClub(club))
}

func TestEmail(t *testing.T) {
	assert.True(t, Email("fan@example.com"))
	assert.False(t, Email("fan"))
	assert.False(t, Email("Alex <fan@example.com>"))
}

func TestNewUser(t *testing.T) {
	assert.True(t, NewUser(dto.NewUser{Name: "Alex", Email: "fan@example.com", Role: dto.RoleFan}))
	assert.False(t, NewUser(dto.NewUser{Name: "Alex", Email: "fan@example.com", Role: "admin"}))
	assert.False(t, NewUser(dto.NewUser{Name: " ", Email: "fan@example.com", Role: dto.RoleFan}))
}

func TestContent(t *testing.T) {
	assert.True(t, PostText("Hello"))
	assert.False(t, PostText("   "))
	assert.True(t, CommentText("Go Lions!"))
	assert.False(t, CommentText(strings.Repeat("x", 501)))

	seven, negative := 7, -3
	assert.True(t, JerseyNumber(nil))
	assert.True(t, JerseyNumber(&seven))
	assert.False(t, JerseyNumber(&negative))
	assert.True(t, NewPlayer(dto.NewPlayer{Name: "Sam", Position: "Keeper", Number: &seven}))
}
