package dto

import "time"

const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
)

// Identity is the account held by the identity provider. Its ID is the join
// key into the users table.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Provider  string `json:"provider"`
	Confirmed bool   `json:"confirmed"`
}

type Session struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Identity     Identity  `json:"identity"`
}

type SignUpResult struct {
	Identity             Identity
	Session              *Session
	ConfirmationRequired bool
}

// DeviceSession is what survives a reload on this device.
type DeviceSession struct {
	RefreshToken string    `json:"refreshToken"`
	Identity     Identity  `json:"identity"`
	SavedAt      time.Time `json:"savedAt"`
}
