package validator

import (
	"strings"
	"unicode/utf8"

	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
)

func PostText(text string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(text))
	return length >= 1 && length <= 2000
}

func CommentText(text string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(text))
	return length >= 1 && length <= 500
}

func JerseyNumber(number *int) bool {
	return number == nil || (*number >= 0 && *number <= 99)
}

func NewPlayer(player dto.NewPlayer) bool {
	return UserName(player.Name) &&
		utf8.RuneCountInString(player.Position) <= 40 &&
		JerseyNumber(player.Number)
}
