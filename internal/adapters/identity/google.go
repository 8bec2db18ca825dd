package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewGoogleConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// OAuthURL starts the Google redirect flow. The returned URL carries a
// one-time state that ExchangeOAuth consumes.
func (p *Provider) OAuthURL(ctx context.Context) (string, error) {
	state, err := generateRandomCode(32)
	if err != nil {
		return "", errorz.NewAuthError(errorz.ProviderFailure, err)
	}
	if err := p.states.Set(ctx, state, p.cfg.StateTTL); err != nil {
		return "", errorz.NewStoreError("oauth_states.set", err)
	}
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

// ExchangeOAuth completes the Google redirect flow. A Google account is
// matched by its Google id first, then linked to an identity with the same
// verified e-mail, and otherwise becomes a new identity.
func (p *Provider) ExchangeOAuth(ctx context.Context, state, code string) (*dto.Session, error) {
	ok, err := p.states.Consume(ctx, state)
	if err != nil {
		return nil, errorz.NewStoreError("oauth_states.consume", err)
	}
	if !ok {
		return nil, errorz.NewAuthError(errorz.InvalidOAuthState, nil)
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errorz.NewAuthError(errorz.ProviderFailure, err)
	}
	info, err := p.fetchUserInfo(ctx, token)
	if err != nil {
		return nil, errorz.NewAuthError(errorz.ProviderFailure, err)
	}
	if info.ID == "" || info.Email == "" || !info.EmailVerified {
		return nil, errorz.NewAuthError(errorz.ProviderFailure, fmt.Errorf("google account without verified email"))
	}

	identity, err := p.identities.GetByGoogleID(ctx, info.ID)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		return p.issueSession(ctx, *identity)
	}

	email := normalizeEmail(info.Email)
	identity, err = p.identities.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if identity != nil {
		if err := p.identities.LinkGoogle(ctx, identity.ID, info.ID); err != nil {
			return nil, err
		}
		identity.Confirmed = true
		p.logger.Infof("google account linked (identity_id=%s)", identity.ID)
		return p.issueSession(ctx, *identity)
	}

	googleID := info.ID
	created := entity.Identity{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      info.Name,
		AvatarURL: info.Picture,
		Provider:  dto.ProviderGoogle,
		GoogleID:  &googleID,
		Confirmed: true,
	}
	if err := p.identities.Create(ctx, &created); err != nil {
		return nil, err
	}
	p.logger.Infof("identity created (identity_id=%s, provider=%s)", created.ID, created.Provider)

	return p.issueSession(ctx, created)
}

func (p *Provider) fetchUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := p.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.UserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %s", resp.Status)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, err
	}
	return &info, nil
}
