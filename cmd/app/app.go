package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Badsnus/hakkon-clubs/internal/adapters/config"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/postgres"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/identity"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/service"
	"github.com/Badsnus/hakkon-clubs/pkg/jwt"
	"github.com/Badsnus/hakkon-clubs/pkg/logger"
	"github.com/Badsnus/hakkon-clubs/pkg/logger/types"
	"github.com/Badsnus/hakkon-clubs/pkg/smtp"
	"gorm.io/gorm"
)

type App struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Store   *service.DataStore
	Auth    *service.AuthService
	Session *service.SessionController
	Logger  *types.Logger

	settings config.Settings
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	appLogger, err := logger.Named("app")
	if err != nil {
		return nil, err
	}
	storeLogger, err := logger.Named("store")
	if err != nil {
		return nil, err
	}
	providerLogger, err := logger.Named("identity")
	if err != nil {
		return nil, err
	}
	authLogger, err := logger.Named("auth")
	if err != nil {
		return nil, err
	}
	sessionLogger, err := logger.Named("session")
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings
	store := service.NewDataStore(service.Storages{
		Clubs:    postgres.NewClubStorage(cfg.Database),
		Users:    postgres.NewUserStorage(cfg.Database),
		Posts:    postgres.NewPostStorage(cfg.Database),
		Comments: postgres.NewCommentStorage(cfg.Database),
		Players:  postgres.NewPlayerStorage(cfg.Database),
		Follows:  postgres.NewFollowStorage(cfg.Database),
	}, settings.FreshnessWindow, storeLogger)

	provider := identity.NewProvider(
		postgres.NewIdentityStorage(cfg.Database),
		cfg.Redis.Sessions,
		cfg.Redis.Codes,
		cfg.Redis.OAuthStates,
		smtp.NewClient(cfg.SMTPDialer, settings.SMTPFrom, settings.SMTPDomain),
		jwt.NewService(settings.Auth.JWTSecret, settings.Auth.AccessTTL),
		identity.NewGoogleConfig(settings.Auth.GoogleClientID, settings.Auth.GoogleClientSecret, settings.Auth.GoogleRedirectURL),
		identity.Config{
			ConfirmEmail: settings.Auth.ConfirmEmail,
			RefreshTTL:   settings.Auth.RefreshTTL,
			CodeTTL:      settings.Auth.CodeTTL,
			StateTTL:     settings.Auth.StateTTL,
			BcryptCost:   settings.Auth.BcryptCost,
		},
		providerLogger,
	)

	auth := service.NewAuthService(provider, cfg.Redis.Devices, store, settings.DeviceID, settings.Auth.FirstLoginRole, authLogger)
	session := service.NewSessionController(ctx, auth, store, sessionLogger)

	return &App{
		DB:       cfg.Database,
		Redis:    cfg.Redis,
		Store:    store,
		Auth:     auth,
		Session:  session,
		Logger:   appLogger,
		settings: settings,
	}, nil
}

// Start resumes the saved session, warms the cache and blocks until ctx is
// cancelled or the process is interrupted.
func (a *App) Start(ctx context.Context) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.Info("App starting")

	unsubscribe := a.Session.OnChange(func(view dto.View) {
		if view.Modal != nil {
			a.Logger.Infof("alert shown (page=%s): %s", view.Page, view.Modal.Message)
			return
		}
		a.Logger.Debugf("view changed (page=%s, club_id=%d, post_id=%d)", view.Page, view.Context.ClubID, view.Context.PostID)
	})
	defer unsubscribe()

	restored, err := a.Auth.Restore(ctx)
	switch {
	case err != nil:
		a.Logger.Errorf("Failed to restore session: %v", err)
	case restored != nil:
		a.Logger.Infof("Session restored (identity_id=%s)", restored.ID)
	default:
		a.Logger.Info("No saved session, starting on the login page")
	}

	state, err := a.Store.GetState(ctx)
	if err != nil {
		a.Logger.Errorf("Failed to load clubs: %v", err)
	} else {
		a.Logger.Infof("Loaded %d clubs and %d users", len(state.Clubs), len(state.UsersByEmail))
	}

	a.Auth.StartRefreshScheduler(ctx, a.settings.Auth.RefreshInterval)

	<-ctx.Done()
	a.Logger.Info("App stopping")
	a.Close()
}

func (a *App) Close() {
	a.Session.Close()
	if err := a.Redis.Close(); err != nil {
		a.Logger.Errorf("Failed to close redis: %v", err)
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Logger.Errorf("Failed to close database: %v", err)
		}
	}
}
