package validator

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
)

func ClubName(name string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(name))
	return length >= 3 && length <= 60
}

func ClubSport(sport string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(sport))
	return length >= 1 && length <= 40
}

func ClubTagline(tagline string) bool {
	return utf8.RuneCountInString(tagline) <= 120
}

func ClubDescription(description string) bool {
	return utf8.RuneCountInString(description) <= 1000
}

// Funding accepts any non-negative amounts; current may exceed goal.
func Funding(funding dto.Funding) bool {
	return amount(funding.Current) && amount(funding.Goal)
}

func amount(value float64) bool {
	return value >= 0 && !math.IsInf(value, 0) && !math.IsNaN(value)
}

func NewClub(club dto.NewClub) bool {
	return ClubName(club.Name) &&
		ClubSport(club.Sport) &&
		ClubTagline(club.Tagline) &&
		ClubDescription(club.Description) &&
		Funding(club.Funding) &&
		club.CreatorID != ""
}

func ClubSettings(settings dto.ClubSettings) bool {
	return ClubName(settings.Name) &&
		ClubSport(settings.Sport) &&
		ClubTagline(settings.Tagline) &&
		ClubDescription(settings.Description) &&
		Funding(settings.Funding)
}
