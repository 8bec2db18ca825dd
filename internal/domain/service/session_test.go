package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T) (*SessionController, authFixture) {
	t.Helper()
	f := newAuthFixture(t, "")
	f.provider.addAccount(dto.Identity{ID: creatorID, Email: "creator@example.com", Name: "Coach Taylor", Provider: dto.ProviderEmail, Confirmed: true}, "password")

	controller := NewSessionController(context.Background(), f.auth, f.store, logger.Nop("session"))
	t.Cleanup(controller.Close)
	return controller, f
}

func TestControllerStartsOnLogin(t *testing.T) {
	c, _ := newTestController(t)

	view := c.View()
	assert.Equal(t, dto.PageLogin, view.Page)
	assert.Nil(t, view.CurrentUser)
	assert.Nil(t, view.Modal)
	assert.False(t, view.CanGoBack)
}

func TestNavigateToAndBack(t *testing.T) {
	c, _ := newTestController(t)

	c.NavigateBack()
	assert.Equal(t, dto.PageLogin, c.View().Page)

	require.NoError(t, c.NavigateTo(dto.PageClubPublicView, dto.PageContext{ClubID: 1}))
	require.NoError(t, c.NavigateTo(dto.PagePostDetail, dto.PageContext{ClubID: 1, PostID: 7}))
	assert.Equal(t, dto.PageContext{ClubID: 1, PostID: 7}, c.View().Context)

	c.NavigateBack()
	view := c.View()
	assert.Equal(t, dto.PageClubPublicView, view.Page)
	assert.Equal(t, dto.PageContext{ClubID: 1}, view.Context)
	assert.True(t, view.CanGoBack)

	c.NavigateBack()
	assert.Equal(t, dto.PageLogin, c.View().Page)
	assert.False(t, c.View().CanGoBack)

	err := c.NavigateTo("settings", dto.PageContext{})
	assert.ErrorIs(t, err, errorz.ErrUnknownPage)
	assert.Equal(t, dto.PageLogin, c.View().Page)
}

func TestShowAlertReplacesModal(t *testing.T) {
	c, _ := newTestController(t)

	c.ShowAlert("POW!", "first")
	c.ShowAlert("WHOOPS!", "second")
	assert.Equal(t, &dto.Modal{Title: "WHOOPS!", Message: "second"}, c.View().Modal)

	c.DismissAlert()
	assert.Nil(t, c.View().Modal)
}

func TestLoginOpensHomePage(t *testing.T) {
	c, _ := newTestController(t)
	require.NoError(t, c.NavigateTo(dto.PageSignUp, dto.PageContext{}))

	require.NoError(t, c.Login(context.Background(), "fan@example.com", "password"))

	view := c.View()
	assert.Equal(t, dto.PageFanDashboard, view.Page)
	require.NotNil(t, view.CurrentUser)
	assert.Equal(t, "Alex", view.CurrentUser.Name)
	assert.False(t, view.CanGoBack)
}

func TestLoginFailureShowsAlert(t *testing.T) {
	c, _ := newTestController(t)

	err := c.Login(context.Background(), "fan@example.com", "wrong")

	assert.True(t, errorz.IsAuthKind(err, errorz.InvalidCredentials))
	view := c.View()
	assert.Equal(t, dto.PageLogin, view.Page)
	require.NotNil(t, view.Modal)
	assert.Equal(t, "WHOOPS!", view.Modal.Title)
	assert.Equal(t, "Invalid email or password.", view.Modal.Message)
}

func TestInitiateSignUpWithTakenEmailCreatesNothing(t *testing.T) {
	c, f := newTestController(t)
	ctx := context.Background()
	before, err := f.store.GetState(ctx)
	require.NoError(t, err)

	err = c.InitiateSignUp(ctx, dto.NewUser{Name: "Alex", Email: "fan@example.com", Password: "secret1", Role: dto.RoleFan})

	assert.True(t, errorz.IsAuthKind(err, errorz.AlreadyRegistered))
	assert.Equal(t, 0, f.remote.writeCount())
	assert.Empty(t, f.provider.pending)
	assert.Len(t, f.provider.accounts, 2)
	after, err := f.store.GetState(ctx)
	require.NoError(t, err)
	assert.Len(t, after.UsersByEmail, len(before.UsersByEmail))
	assert.Nil(t, f.auth.GetSession())
	require.NotNil(t, c.View().Modal)
}

func TestInitiateSignUpRejectsInvalidInput(t *testing.T) {
	c, f := newTestController(t)

	err := c.InitiateSignUp(context.Background(), dto.NewUser{Name: "Jamie", Email: "not-an-email", Password: "secret1", Role: dto.RoleFan})

	assert.ErrorIs(t, err, errorz.ErrInvalidInput)
	assert.Len(t, f.provider.accounts, 2)
}

func TestInitiateSignUpCreatesUserWithChosenRole(t *testing.T) {
	c, f := newTestController(t)
	ctx := context.Background()

	require.NoError(t, c.InitiateSignUp(ctx, dto.NewUser{Name: "Jamie", Email: "Jamie@Example.com", Password: "secret1", Role: dto.RoleCreator}))

	view := c.View()
	assert.Equal(t, dto.PageCreatorDashboard, view.Page)
	require.NotNil(t, view.CurrentUser)
	assert.Equal(t, dto.RoleCreator, view.CurrentUser.Role)
	assert.Equal(t, "jamie@example.com", view.CurrentUser.Email)

	state, err := f.store.GetState(ctx)
	require.NoError(t, err)
	_, ok := state.UsersByEmail["jamie@example.com"]
	assert.True(t, ok)
}

func TestSignUpWithConfirmationCode(t *testing.T) {
	c, f := newTestController(t)
	f.provider.confirmSignUps = true
	ctx := context.Background()

	require.NoError(t, c.InitiateSignUp(ctx, dto.NewUser{Name: "Jamie", Email: "jamie@example.com", Password: "secret1", Role: dto.RoleFan}))
	view := c.View()
	require.NotNil(t, view.Modal)
	assert.Equal(t, "POW!", view.Modal.Title)
	assert.Nil(t, view.CurrentUser)

	err := c.ConfirmSignUp(ctx, "000000")
	assert.True(t, errorz.IsAuthKind(err, errorz.InvalidCode))

	require.NoError(t, c.ConfirmSignUp(ctx, "123456"))
	view = c.View()
	assert.Equal(t, dto.PageFanDashboard, view.Page)
	require.NotNil(t, view.CurrentUser)
	assert.Equal(t, "Jamie", view.CurrentUser.Name)
}

func TestConfirmSignUpWithoutPending(t *testing.T) {
	c, _ := newTestController(t)

	err := c.ConfirmSignUp(context.Background(), "123456")

	assert.ErrorIs(t, err, errorz.ErrNoPendingSignUp)
}

func TestFirstGoogleLoginAsksForRole(t *testing.T) {
	c, f := newTestController(t)
	ctx := context.Background()
	f.provider.oauth["state-1"] = dto.Identity{ID: "g1", Email: "gale@example.com", Name: "Gale", Provider: dto.ProviderGoogle, Confirmed: true}

	url, err := c.SignInWithGoogle(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	require.NoError(t, f.auth.CompleteOAuth(ctx, "state-1", "code"))

	view := c.View()
	assert.Equal(t, dto.PageRoleChooser, view.Page)
	assert.Nil(t, view.CurrentUser)
	assert.Equal(t, 0, f.remote.writeCount())

	require.NoError(t, c.CompleteSignUp(ctx, dto.RoleCreator))
	view = c.View()
	assert.Equal(t, dto.PageCreatorDashboard, view.Page)
	require.NotNil(t, view.CurrentUser)
	assert.Equal(t, "g1", view.CurrentUser.ID)
	assert.Equal(t, dto.RoleCreator, view.CurrentUser.Role)
}

func TestCompleteSignUpWithoutPendingIdentity(t *testing.T) {
	c, _ := newTestController(t)

	err := c.CompleteSignUp(context.Background(), dto.RoleFan)

	assert.ErrorIs(t, err, errorz.ErrNoPendingSignUp)
}

func TestLogoutResetsNavigation(t *testing.T) {
	c, f := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "fan@example.com", "password"))
	require.NoError(t, c.NavigateTo(dto.PageClubPublicView, dto.PageContext{ClubID: 1}))

	f.provider.signOutErr = errors.New("network down")
	c.Logout(ctx)

	view := c.View()
	assert.Equal(t, dto.PageLogin, view.Page)
	assert.Equal(t, dto.PageContext{}, view.Context)
	assert.False(t, view.CanGoBack)
	assert.Nil(t, view.CurrentUser)
}

func TestSessionExpiryResetsNavigation(t *testing.T) {
	c, f := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "fan@example.com", "password"))
	require.NoError(t, c.NavigateTo(dto.PageFanProfile, dto.PageContext{}))

	f.provider.refreshErr = errorz.NewAuthError(errorz.SessionExpired, nil)
	require.Error(t, f.auth.RefreshSession(ctx))

	assert.Equal(t, dto.PageLogin, c.View().Page)
	assert.False(t, c.View().CanGoBack)
}

func TestToggleFollowUpdatesCurrentUser(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "fan@example.com", "password"))

	require.NoError(t, c.ToggleFollow(ctx, 1))
	assert.Equal(t, []int64{1}, c.View().CurrentUser.FollowedClubs)

	require.NoError(t, c.ToggleFollow(ctx, 1))
	assert.Empty(t, c.View().CurrentUser.FollowedClubs)
}

func TestToggleFollowRequiresLogin(t *testing.T) {
	c, _ := newTestController(t)

	err := c.ToggleFollow(context.Background(), 1)

	assert.ErrorIs(t, err, errorz.ErrNotAuthenticated)
}

func TestUpdateProfileUpdatesCurrentUser(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "fan@example.com", "password"))

	require.NoError(t, c.UpdateProfile(ctx, dto.UserProfile{Name: "Alexandra", Bio: "Lions fan"}))

	user := c.View().CurrentUser
	assert.Equal(t, "Alexandra", user.Name)
	assert.Equal(t, "Lions fan", user.Bio)
}

func TestCreateClubAsFanIsForbidden(t *testing.T) {
	c, f := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "fan@example.com", "password"))

	_, err := c.CreateClub(ctx, dto.NewClub{Name: "Fan Club", Sport: "Soccer"})

	assert.ErrorIs(t, err, errorz.ErrForbidden)
	assert.Equal(t, 0, f.remote.writeCount())
}

func TestCreateClubAsCreator(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	require.NoError(t, c.Login(ctx, "creator@example.com", "password"))

	club, err := c.CreateClub(ctx, dto.NewClub{Name: "River Otters", Sport: "Water Polo"})
	require.NoError(t, err)

	assert.Equal(t, creatorID, club.CreatorID)
	assert.Equal(t, dto.Funding{Current: 0, Goal: 10000}, club.Funding)
	view := c.View()
	assert.Equal(t, dto.PageCreatorDashboard, view.Page)
	assert.Equal(t, club.ID, view.Context.ClubID)
	assert.Contains(t, view.CurrentUser.ManagedClubs, club.ID)
}

func TestOnChangeReceivesViews(t *testing.T) {
	c, _ := newTestController(t)
	var pages []dto.Page
	unsubscribe := c.OnChange(func(view dto.View) { pages = append(pages, view.Page) })

	require.NoError(t, c.NavigateTo(dto.PageSignUp, dto.PageContext{}))
	c.NavigateBack()
	unsubscribe()
	require.NoError(t, c.NavigateTo(dto.PageSignUp, dto.PageContext{}))

	assert.Equal(t, []dto.Page{dto.PageSignUp, dto.PageLogin}, pages)
}

func TestAlertFor(t *testing.T) {
	storeErr := errorz.NewStoreError("clubs.get_all", errors.New("connection refused"))
	assert.Equal(t, "Something went wrong. Please try again.", AlertFor(storeErr).Message)

	authErr := errorz.NewStoreError("users.create", errorz.NewAuthError(errorz.AlreadyRegistered, nil))
	assert.Equal(t, "A user with this email already exists.", AlertFor(authErr).Message)

	assert.Equal(t, "WHOOPS!", AlertFor(errorz.ErrForbidden).Title)
}
