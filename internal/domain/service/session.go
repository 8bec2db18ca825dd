package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/utils/validator"
	"github.com/Badsnus/hakkon-clubs/pkg/logger/types"
)

const defaultFundingGoal = 10000

type authBridge interface {
	SignInWithPassword(ctx context.Context, email, secret string) (*dto.Identity, error)
	SignUp(ctx context.Context, email, secret, name string) (*dto.SignUpResult, error)
	ConfirmSignUp(ctx context.Context, email, code string) (*dto.Identity, error)
	SignInWithGoogle(ctx context.Context) (string, error)
	SignOut(ctx context.Context) error
	GetOrCreateAppUser(ctx context.Context, identity dto.Identity, roleHint dto.Role) (*dto.User, error)
	OnSessionChange(cb func(*dto.Identity)) func()
}

type sessionStore interface {
	GetState(ctx context.Context) (*dto.State, error)
	Subscribe(fn func()) func()
	FindUserByEmail(ctx context.Context, email string) (*dto.User, error)
	UpdateUser(ctx context.Context, userID string, profile dto.UserProfile) error
	AddClub(ctx context.Context, club dto.NewClub) (*dto.Club, error)
	ToggleFollow(ctx context.Context, userID string, clubID int64, isFollowing bool) error
}

type pendingSignUp struct {
	email string
	role  dto.Role
}

// SessionController routes between pages, holds the modal alert and keeps
// the signed-in user in sync with the auth and data store notifications.
type SessionController struct {
	auth   authBridge
	store  sessionStore
	ctx    context.Context
	logger *types.Logger

	mu              sync.Mutex
	page            dto.Page
	pageCtx         dto.PageContext
	history         []dto.NavEntry
	modal           *dto.Modal
	currentUser     *dto.User
	pendingIdentity *dto.Identity
	pendingSignUp   *pendingSignUp

	listenersMu sync.Mutex
	listeners   map[uint64]func(dto.View)
	nextID      uint64

	unsubscribe []func()
}

// NewSessionController starts on the login page. ctx is used for the work
// triggered by notifications.
func NewSessionController(ctx context.Context, auth authBridge, store sessionStore, logger *types.Logger) *SessionController {
	c := &SessionController{
		auth:      auth,
		store:     store,
		ctx:       ctx,
		logger:    logger,
		page:      dto.PageLogin,
		listeners: make(map[uint64]func(dto.View)),
	}
	c.unsubscribe = []func(){
		auth.OnSessionChange(c.handleSessionChange),
		store.Subscribe(c.handleStoreChange),
	}
	return c
}

func (c *SessionController) Close() {
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
}

// OnChange registers fn to receive every new view.
func (c *SessionController) OnChange(fn func(dto.View)) func() {
	c.listenersMu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.listenersMu.Lock()
			delete(c.listeners, id)
			c.listenersMu.Unlock()
		})
	}
}

func (c *SessionController) View() dto.View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *SessionController) viewLocked() dto.View {
	view := dto.View{
		Page:      c.page,
		Context:   c.pageCtx,
		CanGoBack: len(c.history) > 0,
	}
	if c.currentUser != nil {
		user := c.currentUser.Clone()
		view.CurrentUser = &user
	}
	if c.modal != nil {
		modal := *c.modal
		view.Modal = &modal
	}
	return view
}

func (c *SessionController) changed() {
	view := c.View()

	c.listenersMu.Lock()
	ids := make([]uint64, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	listeners := make([]func(dto.View), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.listenersMu.Unlock()

	for _, listener := range listeners {
		listener(view)
	}
}

// NavigateTo pushes the current page onto the history and switches to page.
func (c *SessionController) NavigateTo(page dto.Page, pageCtx dto.PageContext) error {
	if !page.Valid() {
		return fmt.Errorf("%w: %q", errorz.ErrUnknownPage, page)
	}

	c.mu.Lock()
	c.history = append(c.history, dto.NavEntry{Page: c.page, Context: c.pageCtx})
	c.page = page
	c.pageCtx = pageCtx
	c.mu.Unlock()

	c.changed()
	return nil
}

// NavigateBack restores the previous page. It does nothing on an empty
// history.
func (c *SessionController) NavigateBack() {
	c.mu.Lock()
	if len(c.history) == 0 {
		c.mu.Unlock()
		return
	}
	last := c.history[len(c.history)-1]
	c.history = c.history[:len(c.history)-1]
	c.page = last.Page
	c.pageCtx = last.Context
	c.mu.Unlock()

	c.changed()
}

// ShowAlert replaces the current modal.
func (c *SessionController) ShowAlert(title, message string) {
	c.mu.Lock()
	c.modal = &dto.Modal{Title: title, Message: message}
	c.mu.Unlock()

	c.changed()
}

func (c *SessionController) DismissAlert() {
	c.mu.Lock()
	c.modal = nil
	c.mu.Unlock()

	c.changed()
}

func (c *SessionController) alert(err error) {
	modal := AlertFor(err)
	c.ShowAlert(modal.Title, modal.Message)
}

// AlertFor maps an error to the modal shown to the user.
func AlertFor(err error) dto.Modal {
	var authErr *errorz.AuthError
	switch {
	case errors.As(err, &authErr):
		return dto.Modal{Title: "WHOOPS!", Message: authErr.Message()}
	case errors.Is(err, errorz.ErrForbidden):
		return dto.Modal{Title: "WHOOPS!", Message: "You are not allowed to do that."}
	case errors.Is(err, errorz.ErrInvalidInput):
		return dto.Modal{Title: "WHOOPS!", Message: "Please check the form and try again."}
	case errors.Is(err, errorz.ErrNoPendingSignUp):
		return dto.Modal{Title: "WHOOPS!", Message: "Please start signing up again."}
	case errors.Is(err, errorz.ErrNotAuthenticated):
		return dto.Modal{Title: "WHOOPS!", Message: "Please log in first."}
	default:
		return dto.Modal{Title: "WHOOPS!", Message: "Something went wrong. Please try again."}
	}
}

func (c *SessionController) handleSessionChange(identity *dto.Identity) {
	if identity == nil {
		c.mu.Lock()
		c.page = dto.PageLogin
		c.pageCtx = dto.PageContext{}
		c.history = nil
		c.currentUser = nil
		c.pendingIdentity = nil
		c.pendingSignUp = nil
		c.mu.Unlock()

		c.changed()
		return
	}

	c.mu.Lock()
	if c.currentUser != nil && c.currentUser.ID == identity.ID {
		c.mu.Unlock()
		return
	}
	var roleHint dto.Role
	if c.pendingSignUp != nil && strings.EqualFold(c.pendingSignUp.email, identity.Email) {
		roleHint = c.pendingSignUp.role
	}
	c.mu.Unlock()

	user, err := c.auth.GetOrCreateAppUser(c.ctx, *identity, roleHint)

	c.mu.Lock()
	switch {
	case errors.Is(err, errorz.ErrRoleRequired):
		pending := *identity
		c.pendingIdentity = &pending
		c.setPageLocked(dto.PageRoleChooser)
	case err != nil:
		c.logger.Errorf("failed to resolve app user (identity_id=%s): %v", identity.ID, err)
		modal := AlertFor(err)
		c.modal = &modal
	default:
		c.currentUser = user
		c.pendingIdentity = nil
		c.pendingSignUp = nil
		c.setPageLocked(dto.HomePage(user.Role))
	}
	c.mu.Unlock()

	c.changed()
}

// setPageLocked switches page and drops the history.
func (c *SessionController) setPageLocked(page dto.Page) {
	c.page = page
	c.pageCtx = dto.PageContext{}
	c.history = nil
}

func (c *SessionController) handleStoreChange() {
	c.mu.Lock()
	current := c.currentUser
	c.mu.Unlock()
	if current == nil {
		c.changed()
		return
	}

	state, err := c.store.GetState(c.ctx)
	if err != nil {
		c.logger.Warnf("failed to read state after change: %v", err)
		return
	}
	fresh, ok := state.UserByID(current.ID)
	if ok {
		c.mu.Lock()
		if c.currentUser != nil && c.currentUser.ID == fresh.ID {
			user := fresh.Clone()
			c.currentUser = &user
		}
		c.mu.Unlock()
	}
	c.changed()
}

func (c *SessionController) currentUserCopy() (*dto.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentUser == nil {
		return nil, errorz.ErrNotAuthenticated
	}
	user := c.currentUser.Clone()
	return &user, nil
}

// Login signs in with a password. The page switches once the session change
// is observed.
func (c *SessionController) Login(ctx context.Context, email, password string) error {
	if _, err := c.auth.SignInWithPassword(ctx, strings.TrimSpace(email), password); err != nil {
		c.alert(err)
		return err
	}
	return nil
}

// InitiateSignUp registers a new account with the chosen role. Nothing is
// created when the e-mail is already taken.
func (c *SessionController) InitiateSignUp(ctx context.Context, user dto.NewUser) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	if !validator.Email(email) || !validator.Password(user.Password) || !validator.UserName(user.Name) || !user.Role.Valid() {
		err := fmt.Errorf("%w: sign up", errorz.ErrInvalidInput)
		c.alert(err)
		return err
	}

	existing, err := c.store.FindUserByEmail(ctx, email)
	if err != nil {
		c.alert(err)
		return err
	}
	if existing != nil {
		err := errorz.NewAuthError(errorz.AlreadyRegistered, nil)
		c.alert(err)
		return err
	}

	c.mu.Lock()
	c.pendingSignUp = &pendingSignUp{email: email, role: user.Role}
	c.mu.Unlock()

	result, err := c.auth.SignUp(ctx, email, user.Password, strings.TrimSpace(user.Name))
	if err != nil {
		c.mu.Lock()
		c.pendingSignUp = nil
		c.mu.Unlock()
		c.alert(err)
		return err
	}
	if result.ConfirmationRequired {
		c.ShowAlert("POW!", fmt.Sprintf("We sent a confirmation code to %s.", email))
	}
	return nil
}

// ConfirmSignUp finishes a sign-up that required an e-mailed code.
func (c *SessionController) ConfirmSignUp(ctx context.Context, code string) error {
	c.mu.Lock()
	pending := c.pendingSignUp
	c.mu.Unlock()
	if pending == nil {
		c.alert(errorz.ErrNoPendingSignUp)
		return errorz.ErrNoPendingSignUp
	}

	if _, err := c.auth.ConfirmSignUp(ctx, pending.email, strings.TrimSpace(code)); err != nil {
		c.alert(err)
		return err
	}
	return nil
}

// CompleteSignUp creates the user for an identity that signed in without a
// role, typically a first Google login.
func (c *SessionController) CompleteSignUp(ctx context.Context, role dto.Role) error {
	c.mu.Lock()
	identity := c.pendingIdentity
	c.mu.Unlock()
	if identity == nil {
		c.alert(errorz.ErrNoPendingSignUp)
		return errorz.ErrNoPendingSignUp
	}

	user, err := c.auth.GetOrCreateAppUser(ctx, *identity, role)
	if err != nil {
		c.alert(err)
		return err
	}

	c.mu.Lock()
	c.currentUser = user
	c.pendingIdentity = nil
	c.setPageLocked(dto.HomePage(user.Role))
	c.mu.Unlock()

	c.changed()
	return nil
}

// SignInWithGoogle returns the URL the view should redirect to.
func (c *SessionController) SignInWithGoogle(ctx context.Context) (string, error) {
	url, err := c.auth.SignInWithGoogle(ctx)
	if err != nil {
		c.alert(err)
		return "", err
	}
	return url, nil
}

// Logout always returns to the login page.
func (c *SessionController) Logout(ctx context.Context) {
	if err := c.auth.SignOut(ctx); err != nil {
		c.logger.Warnf("sign out: %v", err)
	}
}

func (c *SessionController) UpdateProfile(ctx context.Context, profile dto.UserProfile) error {
	user, err := c.currentUserCopy()
	if err != nil {
		c.alert(err)
		return err
	}
	if err := c.store.UpdateUser(ctx, user.ID, profile); err != nil {
		c.alert(err)
		return err
	}
	return nil
}

// ToggleFollow flips the follow state the current user sees for clubID.
func (c *SessionController) ToggleFollow(ctx context.Context, clubID int64) error {
	user, err := c.currentUserCopy()
	if err != nil {
		c.alert(err)
		return err
	}
	if err := c.store.ToggleFollow(ctx, user.ID, clubID, user.Follows(clubID)); err != nil {
		c.alert(err)
		return err
	}
	return nil
}

// CreateClub creates a club owned by the current creator and opens the
// creator dashboard.
func (c *SessionController) CreateClub(ctx context.Context, club dto.NewClub) (*dto.Club, error) {
	user, err := c.currentUserCopy()
	if err != nil {
		c.alert(err)
		return nil, err
	}
	if user.Role != dto.RoleCreator {
		c.alert(errorz.ErrForbidden)
		return nil, errorz.ErrForbidden
	}

	club.CreatorID = user.ID
	if club.Funding.Goal == 0 {
		club.Funding.Goal = defaultFundingGoal
	}

	created, err := c.store.AddClub(ctx, club)
	if err != nil {
		c.alert(err)
		return nil, err
	}
	if err := c.NavigateTo(dto.PageCreatorDashboard, dto.PageContext{ClubID: created.ID}); err != nil {
		return nil, err
	}
	return created, nil
}
