package errorz

import (
	"errors"
	"fmt"
)

var (
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrRoleRequired     = errors.New("role must be chosen before the user is created")
	ErrNoPendingSignUp  = errors.New("no pending sign up")
	ErrUnknownPage      = errors.New("unknown page")
	ErrNotAuthenticated = errors.New("not authenticated")
)

// StoreError is a remote read/write failure. It is reported to the user as a
// generic "please retry" alert and is never retried automatically.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError wraps err into a *StoreError. It returns nil for a nil err.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

type AuthErrorKind string

const (
	InvalidCredentials AuthErrorKind = "invalid_credentials"
	AlreadyRegistered  AuthErrorKind = "already_registered"
	EmailNotConfirmed  AuthErrorKind = "email_not_confirmed"
	InvalidCode        AuthErrorKind = "invalid_code"
	InvalidOAuthState  AuthErrorKind = "invalid_oauth_state"
	SessionExpired     AuthErrorKind = "session_expired"
	ProviderFailure    AuthErrorKind = "provider_failure"
)

// AuthError is an identity provider failure with a user-facing subkind.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func NewAuthError(kind AuthErrorKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

func (e *AuthError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("auth: %s", e.Kind)
	}
	return fmt.Sprintf("auth: %s: %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another *AuthError with the same kind, so
// errors.Is(err, &AuthError{Kind: AlreadyRegistered}) works.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// Message returns the text shown to the user for this kind of failure.
func (e *AuthError) Message() string {
	switch e.Kind {
	case InvalidCredentials:
		return "Invalid email or password."
	case AlreadyRegistered:
		return "A user with this email already exists."
	case EmailNotConfirmed:
		return "Please confirm your email before logging in."
	case InvalidCode:
		return "That confirmation code is wrong or has expired."
	case InvalidOAuthState:
		return "The sign-in link has expired. Please try again."
	case SessionExpired:
		return "Your session has expired. Please log in again."
	default:
		return "Sign-in failed. Please try again."
	}
}

// IsAuthKind reports whether err is an *AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Kind == kind
}
