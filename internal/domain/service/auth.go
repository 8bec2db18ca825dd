package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/pkg/logger/types"
)

type IdentityProvider interface {
	SignUp(ctx context.Context, email, secret, name string) (*dto.SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) (*dto.Session, error)
	SignInWithPassword(ctx context.Context, email, secret string) (*dto.Session, error)
	OAuthURL(ctx context.Context) (string, error)
	ExchangeOAuth(ctx context.Context, state, code string) (*dto.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
}

type DeviceStorage interface {
	Get(ctx context.Context, deviceID string) (*dto.DeviceSession, error)
	Set(ctx context.Context, deviceID string, session dto.DeviceSession) error
	Clear(ctx context.Context, deviceID string) error
}

type appUserStore interface {
	FindUserByID(ctx context.Context, id string) (*dto.User, error)
	AddUser(ctx context.Context, user dto.NewUser) (*dto.User, error)
}

// AuthService holds the current session of this device and bridges provider
// identities to application users.
type AuthService struct {
	provider IdentityProvider
	devices  DeviceStorage
	users    appUserStore
	deviceID string
	// firstLoginRole, when set, creates users on first login without asking
	// for a role.
	firstLoginRole dto.Role
	logger         *types.Logger
	now            func() time.Time

	mu        sync.Mutex
	session   *dto.Session
	listeners map[uint64]func(*dto.Identity)
	nextID    uint64
}

func NewAuthService(
	provider IdentityProvider,
	devices DeviceStorage,
	users appUserStore,
	deviceID string,
	firstLoginRole dto.Role,
	logger *types.Logger,
) *AuthService {
	return &AuthService{
		provider:       provider,
		devices:        devices,
		users:          users,
		deviceID:       deviceID,
		firstLoginRole: firstLoginRole,
		logger:         logger,
		now:            time.Now,
		listeners:      make(map[uint64]func(*dto.Identity)),
	}
}

// SignInWithPassword only opens a session; the application user is resolved
// separately by GetOrCreateAppUser.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, secret string) (*dto.Identity, error) {
	session, err := s.provider.SignInWithPassword(ctx, email, secret)
	if err != nil {
		return nil, err
	}
	s.setSession(ctx, session)
	return &session.Identity, nil
}

func (s *AuthService) SignUp(ctx context.Context, email, secret, name string) (*dto.SignUpResult, error) {
	result, err := s.provider.SignUp(ctx, email, secret, name)
	if err != nil {
		return nil, err
	}
	if result.Session != nil {
		s.setSession(ctx, result.Session)
	}
	return result, nil
}

func (s *AuthService) ConfirmSignUp(ctx context.Context, email, code string) (*dto.Identity, error) {
	session, err := s.provider.ConfirmSignUp(ctx, email, code)
	if err != nil {
		return nil, err
	}
	s.setSession(ctx, session)
	return &session.Identity, nil
}

// SignInWithGoogle returns the consent URL to redirect to. The login itself
// is only observed through OnSessionChange once CompleteOAuth runs.
func (s *AuthService) SignInWithGoogle(ctx context.Context) (string, error) {
	return s.provider.OAuthURL(ctx)
}

// CompleteOAuth handles the redirect back from Google.
func (s *AuthService) CompleteOAuth(ctx context.Context, state, code string) error {
	session, err := s.provider.ExchangeOAuth(ctx, state, code)
	if err != nil {
		return err
	}
	s.setSession(ctx, session)
	return nil
}

// SignOut always ends the local session and notifies listeners, even when
// the provider could not revoke the token.
func (s *AuthService) SignOut(ctx context.Context) error {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()

	var err error
	if session != nil {
		err = s.provider.SignOut(ctx, session.RefreshToken)
		if err != nil {
			s.logger.Warnf("failed to revoke session: %v", err)
		}
	}
	s.clearSession(ctx)
	return err
}

func (s *AuthService) GetSession() *dto.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	session := *s.session
	return &session
}

// GetAuthUser returns nil when nobody is signed in.
func (s *AuthService) GetAuthUser() *dto.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	identity := s.session.Identity
	return &identity
}

// OnSessionChange registers cb for logins, logouts and refreshes. cb gets
// nil on logout.
func (s *AuthService) OnSessionChange(cb func(*dto.Identity)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = cb
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// RefreshSession rotates the tokens. An expired session signs the device out.
func (s *AuthService) RefreshSession(ctx context.Context) error {
	s.mu.Lock()
	current := s.session
	s.mu.Unlock()
	if current == nil {
		return errorz.ErrNotAuthenticated
	}

	session, err := s.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		if errorz.IsAuthKind(err, errorz.SessionExpired) {
			s.logger.Infof("session expired (identity_id=%s)", current.Identity.ID)
			s.clearSession(ctx)
		}
		return err
	}
	s.setSession(ctx, session)
	return nil
}

// Restore resumes the session saved on this device, if any. A saved session
// the provider no longer accepts is discarded without an error.
func (s *AuthService) Restore(ctx context.Context) (*dto.Identity, error) {
	saved, err := s.devices.Get(ctx, s.deviceID)
	if err != nil {
		return nil, errorz.NewStoreError("devices.get", err)
	}
	if saved == nil {
		return nil, nil
	}

	session, err := s.provider.Refresh(ctx, saved.RefreshToken)
	if err != nil {
		var authErr *errorz.AuthError
		if errors.As(err, &authErr) {
			if err := s.devices.Clear(ctx, s.deviceID); err != nil {
				s.logger.Warnf("failed to clear device session: %v", err)
			}
			return nil, nil
		}
		return nil, err
	}
	s.setSession(ctx, session)
	return &session.Identity, nil
}

// StartRefreshScheduler refreshes the session shortly before it expires
// until ctx is done.
func (s *AuthService) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	s.logger.Info("Starting session refresh scheduler")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.refreshIfExpiring(ctx, 2*interval)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (s *AuthService) refreshIfExpiring(ctx context.Context, within time.Duration) {
	s.mu.Lock()
	session := s.session
	s.mu.Unlock()
	if session == nil || session.ExpiresAt.Sub(s.now()) > within {
		return
	}
	if err := s.RefreshSession(ctx); err != nil {
		s.logger.Errorf("failed to refresh session: %v", err)
	}
}

// GetOrCreateAppUser returns the application user joined to identity. A
// missing user is created only once a role is known: roleHint, or the
// configured first-login role. Otherwise errorz.ErrRoleRequired is returned
// and nothing is written.
func (s *AuthService) GetOrCreateAppUser(ctx context.Context, identity dto.Identity, roleHint dto.Role) (*dto.User, error) {
	user, err := s.users.FindUserByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	role := roleHint
	if role == "" {
		role = s.firstLoginRole
	}
	if role == "" {
		return nil, errorz.ErrRoleRequired
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: role %q", errorz.ErrInvalidInput, role)
	}

	name := displayName(identity)
	avatar := identity.AvatarURL
	if avatar == "" {
		avatar = dto.PlaceholderAvatar(name)
	}

	created, err := s.users.AddUser(ctx, dto.NewUser{
		ID:     identity.ID,
		Name:   name,
		Email:  identity.Email,
		Role:   role,
		Avatar: avatar,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("app user created (user_id=%s, role=%s)", created.ID, created.Role)
	return created, nil
}

func displayName(identity dto.Identity) string {
	if name := strings.TrimSpace(identity.Name); name != "" {
		return name
	}
	if local, _, ok := strings.Cut(identity.Email, "@"); ok && local != "" {
		return local
	}
	return "User"
}

func (s *AuthService) setSession(ctx context.Context, session *dto.Session) {
	s.mu.Lock()
	stored := *session
	s.session = &stored
	s.mu.Unlock()

	err := s.devices.Set(ctx, s.deviceID, dto.DeviceSession{
		RefreshToken: session.RefreshToken,
		Identity:     session.Identity,
		SavedAt:      s.now(),
	})
	if err != nil {
		s.logger.Warnf("failed to save device session: %v", err)
	}

	identity := session.Identity
	s.emit(&identity)
}

func (s *AuthService) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.session = nil
	s.mu.Unlock()

	if err := s.devices.Clear(ctx, s.deviceID); err != nil {
		s.logger.Warnf("failed to clear device session: %v", err)
	}
	s.emit(nil)
}

func (s *AuthService) emit(identity *dto.Identity) {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]func(*dto.Identity), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, listener := range listeners {
		var arg *dto.Identity
		if identity != nil {
			copied := *identity
			arg = &copied
		}
		listener(arg)
	}
}
