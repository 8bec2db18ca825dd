package validator

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
)

func Email(email string) bool {
	address, err := mail.ParseAddress(email)
	return err == nil && address.Address == email
}

func Password(password string) bool {
	return utf8.RuneCountInString(password) >= 6 && utf8.RuneCountInString(password) <= 72
}

func UserName(name string) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(name))
	return length >= 1 && length <= 60
}

func Bio(bio string) bool {
	return utf8.RuneCountInString(bio) <= 500
}

func NewUser(user dto.NewUser) bool {
	return UserName(user.Name) && Email(user.Email) && user.Role.Valid() && Bio(user.Bio)
}

func UserProfile(profile dto.UserProfile) bool {
	return UserName(profile.Name) && Bio(profile.Bio)
}
