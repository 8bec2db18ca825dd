package identity

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis/codes"
	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"github.com/Badsnus/hakkon-clubs/internal/domain/utils/validator"
	"github.com/Badsnus/hakkon-clubs/pkg/jwt"
	"github.com/Badsnus/hakkon-clubs/pkg/logger/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

type IdentityStorage interface {
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByGoogleID(ctx context.Context, googleID string) (*entity.Identity, error)
	Create(ctx context.Context, identity *entity.Identity) error
	Confirm(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	LinkGoogle(ctx context.Context, id, googleID string) error
}

type SessionStorage interface {
	Get(ctx context.Context, refreshToken string) (string, error)
	Set(ctx context.Context, refreshToken string, identityID string, expiration time.Duration) error
	Clear(ctx context.Context, refreshToken string) error
}

type CodeStorage interface {
	Get(ctx context.Context, email string) (codes.Code, error)
	Set(ctx context.Context, email string, code string, codeContext string, expiration time.Duration) error
	Clear(ctx context.Context, email string) error
}

type StateStorage interface {
	Set(ctx context.Context, state string, expiration time.Duration) error
	Consume(ctx context.Context, state string) (bool, error)
}

type smtpClient interface {
	SendConfirmationEmail(to string, code string) error
}

type tokenService interface {
	GenerateToken(identityID, email string) (string, time.Time, error)
	ValidateToken(token string) (*jwt.Claims, error)
}

// OAuthConfig is satisfied by *oauth2.Config.
type OAuthConfig interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	Client(ctx context.Context, t *oauth2.Token) *http.Client
}

type Config struct {
	ConfirmEmail bool
	RefreshTTL   time.Duration
	CodeTTL      time.Duration
	StateTTL     time.Duration
	UserInfoURL  string
	BcryptCost   int
}

// Provider is the identity provider: password and Google accounts, sign-up
// confirmation codes, and refresh-token sessions.
type Provider struct {
	identities IdentityStorage
	sessions   SessionStorage
	codes      CodeStorage
	states     StateStorage
	smtpClient smtpClient
	tokens     tokenService
	oauth      OAuthConfig
	cfg        Config
	logger     *types.Logger
}

func NewProvider(
	identities IdentityStorage,
	sessions SessionStorage,
	codes CodeStorage,
	states StateStorage,
	smtpClient smtpClient,
	tokens tokenService,
	oauth OAuthConfig,
	cfg Config,
	logger *types.Logger,
) *Provider {
	if cfg.UserInfoURL == "" {
		cfg.UserInfoURL = GoogleUserInfoURL
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &Provider{
		identities: identities,
		sessions:   sessions,
		codes:      codes,
		states:     states,
		smtpClient: smtpClient,
		tokens:     tokens,
		oauth:      oauth,
		cfg:        cfg,
		logger:     logger,
	}
}

// SignUp creates a password identity. With e-mail confirmation enabled the
// result carries no session until ConfirmSignUp succeeds.
func (p *Provider) SignUp(ctx context.Context, email, secret, name string) (*dto.SignUpResult, error) {
	email = normalizeEmail(email)
	if !validator.Email(email) || !validator.Password(secret) {
		return nil, fmt.Errorf("%w: email or password", errorz.ErrInvalidInput)
	}

	existing, err := p.identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// An unconfirmed password sign-up never proved the mailbox, so a new
		// sign-up for the same address replaces it.
		if existing.Confirmed || existing.Provider != dto.ProviderEmail {
			return nil, errorz.NewAuthError(errorz.AlreadyRegistered, nil)
		}
		if err := p.identities.Delete(ctx, existing.ID); err != nil {
			return nil, err
		}
		p.logger.Infof("unconfirmed identity replaced (identity_id=%s)", existing.ID)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), p.cfg.BcryptCost)
	if err != nil {
		return nil, errorz.NewAuthError(errorz.ProviderFailure, err)
	}

	identity := entity.Identity{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Provider:     dto.ProviderEmail,
		PasswordHash: string(hash),
		Confirmed:    !p.cfg.ConfirmEmail,
	}
	if err := p.identities.Create(ctx, &identity); err != nil {
		return nil, err
	}
	p.logger.Infof("identity created (identity_id=%s, provider=%s)", identity.ID, identity.Provider)

	if p.cfg.ConfirmEmail {
		if err := p.sendConfirmationCode(ctx, identity); err != nil {
			if errDelete := p.identities.Delete(ctx, identity.ID); errDelete != nil {
				p.logger.Errorf("failed to remove unconfirmed identity (identity_id=%s): %v", identity.ID, errDelete)
			}
			return nil, err
		}
		return &dto.SignUpResult{
			Identity:             toDTO(identity),
			ConfirmationRequired: true,
		}, nil
	}

	session, err := p.issueSession(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &dto.SignUpResult{
		Identity: toDTO(identity),
		Session:  session,
	}, nil
}

func (p *Provider) sendConfirmationCode(ctx context.Context, identity entity.Identity) error {
	code, err := generateRandomCode(6)
	if err != nil {
		return errorz.NewAuthError(errorz.ProviderFailure, err)
	}
	if err := p.codes.Set(ctx, identity.Email, code, identity.ID, p.cfg.CodeTTL); err != nil {
		return errorz.NewStoreError("codes.set", err)
	}
	if err := p.smtpClient.SendConfirmationEmail(identity.Email, code); err != nil {
		if errClear := p.codes.Clear(ctx, identity.Email); errClear != nil {
			p.logger.Warnf("failed to clear confirmation code: %v", errClear)
		}
		return errorz.NewAuthError(errorz.ProviderFailure, err)
	}
	return nil
}

// ConfirmSignUp checks the mailed code and opens the first session.
func (p *Provider) ConfirmSignUp(ctx context.Context, email, code string) (*dto.Session, error) {
	email = normalizeEmail(email)
	stored, err := p.codes.Get(ctx, email)
	if err != nil {
		return nil, errorz.NewStoreError("codes.get", err)
	}
	if stored.Code == "" || subtle.ConstantTimeCompare([]byte(stored.Code), []byte(strings.TrimSpace(code))) != 1 {
		return nil, errorz.NewAuthError(errorz.InvalidCode, nil)
	}

	identity, err := p.identities.GetByID(ctx, stored.CodeContext)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errorz.NewAuthError(errorz.InvalidCode, nil)
	}
	if err := p.identities.Confirm(ctx, identity.ID); err != nil {
		return nil, err
	}
	if err := p.codes.Clear(ctx, email); err != nil {
		p.logger.Warnf("failed to clear confirmation code: %v", err)
	}
	identity.Confirmed = true

	return p.issueSession(ctx, *identity)
}

func (p *Provider) SignInWithPassword(ctx context.Context, email, secret string) (*dto.Session, error) {
	identity, err := p.identities.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if identity == nil || identity.PasswordHash == "" {
		return nil, errorz.NewAuthError(errorz.InvalidCredentials, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(secret)); err != nil {
		return nil, errorz.NewAuthError(errorz.InvalidCredentials, nil)
	}
	if !identity.Confirmed {
		return nil, errorz.NewAuthError(errorz.EmailNotConfirmed, nil)
	}

	return p.issueSession(ctx, *identity)
}

// Refresh rotates the refresh token and issues a new access token.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*dto.Session, error) {
	identityID, err := p.sessions.Get(ctx, refreshToken)
	if err != nil {
		return nil, errorz.NewStoreError("sessions.get", err)
	}
	if identityID == "" {
		return nil, errorz.NewAuthError(errorz.SessionExpired, nil)
	}

	identity, err := p.identities.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errorz.NewAuthError(errorz.SessionExpired, nil)
	}

	if err := p.sessions.Clear(ctx, refreshToken); err != nil {
		return nil, errorz.NewStoreError("sessions.clear", err)
	}
	return p.issueSession(ctx, *identity)
}

func (p *Provider) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return errorz.NewStoreError("sessions.clear", p.sessions.Clear(ctx, refreshToken))
}

// User returns the identity behind an access token.
func (p *Provider) User(ctx context.Context, accessToken string) (*dto.Identity, error) {
	claims, err := p.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, errorz.NewAuthError(errorz.SessionExpired, err)
	}

	identity, err := p.identities.GetByID(ctx, claims.IdentityID)
	if err != nil {
		return nil, err
	}
	if identity == nil {
		return nil, errorz.NewAuthError(errorz.SessionExpired, nil)
	}

	result := toDTO(*identity)
	return &result, nil
}

func (p *Provider) issueSession(ctx context.Context, identity entity.Identity) (*dto.Session, error) {
	accessToken, expiresAt, err := p.tokens.GenerateToken(identity.ID, identity.Email)
	if err != nil {
		return nil, errorz.NewAuthError(errorz.ProviderFailure, err)
	}

	refreshToken := uuid.NewString()
	if err := p.sessions.Set(ctx, refreshToken, identity.ID, p.cfg.RefreshTTL); err != nil {
		return nil, errorz.NewStoreError("sessions.set", err)
	}

	return &dto.Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		Identity:     toDTO(identity),
	}, nil
}

func toDTO(identity entity.Identity) dto.Identity {
	return dto.Identity{
		ID:        identity.ID,
		Email:     identity.Email,
		Name:      identity.Name,
		AvatarURL: identity.AvatarURL,
		Provider:  identity.Provider,
		Confirmed: identity.Confirmed,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateRandomCode returns length decimal digits.
func generateRandomCode(length int) (string, error) {
	limit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
