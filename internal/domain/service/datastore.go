package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/utils/validator"
	"github.com/Badsnus/hakkon-clubs/pkg/logger/types"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const DefaultFreshnessWindow = 5 * time.Second

type ClubStorage interface {
	GetAll(ctx context.Context) ([]dto.Club, error)
	Create(ctx context.Context, club dto.NewClub) (*dto.Club, error)
	UpdateSettings(ctx context.Context, id int64, settings dto.ClubSettings) error
}

type UserStorage interface {
	GetAll(ctx context.Context) ([]dto.User, error)
	GetByEmail(ctx context.Context, email string) (*dto.User, error)
	GetByID(ctx context.Context, id string) (*dto.User, error)
	Create(ctx context.Context, user dto.NewUser) (*dto.User, error)
	UpdateProfile(ctx context.Context, id string, profile dto.UserProfile) error
}

type PostStorage interface {
	Create(ctx context.Context, clubID int64, post dto.NewPost) (*dto.Post, error)
	Delete(ctx context.Context, clubID, postID int64) error
}

type CommentStorage interface {
	Create(ctx context.Context, postID int64, comment dto.NewComment) (*dto.Comment, error)
	Delete(ctx context.Context, postID, commentID int64) error
}

type PlayerStorage interface {
	Create(ctx context.Context, clubID int64, player dto.NewPlayer) (*dto.Player, error)
}

type FollowStorage interface {
	Create(ctx context.Context, userID string, clubID int64) error
	Delete(ctx context.Context, userID string, clubID int64) error
}

// Storages are the remote tables behind a DataStore.
type Storages struct {
	Clubs    ClubStorage
	Users    UserStorage
	Posts    PostStorage
	Comments CommentStorage
	Players  PlayerStorage
	Follows  FollowStorage
}

// DataStore caches all clubs and users and tells subscribers when the
// snapshot changes.
//
// Creates refresh the whole snapshot, because callers need the generated ids.
// Edits, deletions and follow toggles patch a copy of the snapshot in place.
// Either way the snapshot is replaced before subscribers are notified, and a
// failed remote write leaves it untouched.
type DataStore struct {
	storages  Storages
	freshness time.Duration
	now       func() time.Time
	logger    *types.Logger

	mu    sync.Mutex
	state *dto.State
	// gen is bumped by every write and invalidation; a fetch that started
	// under an older gen is returned to its callers but never cached.
	gen   uint64
	group singleflight.Group

	subMu       sync.Mutex
	subscribers map[uint64]func()
	nextSubID   uint64
}

func NewDataStore(storages Storages, freshness time.Duration, logger *types.Logger) *DataStore {
	if freshness <= 0 {
		freshness = DefaultFreshnessWindow
	}
	return &DataStore{
		storages:    storages,
		freshness:   freshness,
		now:         time.Now,
		logger:      logger,
		subscribers: make(map[uint64]func()),
	}
}

// GetState returns the cached snapshot while it is fresh and refetches it
// otherwise. Concurrent callers share one fetch.
func (s *DataStore) GetState(ctx context.Context) (*dto.State, error) {
	s.mu.Lock()
	if s.state != nil && s.now().Sub(s.state.FetchedAt) < s.freshness {
		state := s.state
		s.mu.Unlock()
		return state, nil
	}
	gen := s.gen
	s.mu.Unlock()

	return s.fetch(ctx, gen)
}

// Refresh drops the cache, refetches and notifies subscribers.
// If the refetch fails the cache stays empty and nobody is notified.
func (s *DataStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = nil
	s.mu.Unlock()

	if _, err := s.fetch(ctx, gen); err != nil {
		s.logger.Errorf("failed to refresh state: %v", err)
		return err
	}
	s.notify()
	return nil
}

// fetch loads the snapshot for gen. Concurrent callers share one remote
// read, which runs detached from any single caller's cancellation; each
// caller still stops waiting when its own ctx is done.
func (s *DataStore) fetch(ctx context.Context, gen uint64) (*dto.State, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		var (
			clubs []dto.Club
			users []dto.User
		)
		g, gctx := errgroup.WithContext(shared)
		g.Go(func() error {
			var err error
			clubs, err = s.storages.Clubs.GetAll(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			users, err = s.storages.Users.GetAll(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}

		state := dto.NewState(clubs, users, s.now())
		s.mu.Lock()
		if s.gen == gen {
			s.state = state
		}
		s.mu.Unlock()
		s.logger.Debugf("state fetched (clubs=%d, users=%d)", len(clubs), len(users))
		return state, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.State), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Subscribe registers fn to run after every change of the snapshot. The
// returned function unsubscribes and is safe to call more than once.
func (s *DataStore) Subscribe(fn func()) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, id)
			s.subMu.Unlock()
		})
	}
}

func (s *DataStore) notify() {
	s.subMu.Lock()
	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	callbacks := make([]func(), 0, len(ids))
	for _, id := range ids {
		callbacks = append(callbacks, s.subscribers[id])
	}
	s.subMu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}

// patch applies fn to a copy of the cached snapshot and swaps it in. With
// nothing cached there is nothing to patch; the next read fetches.
func (s *DataStore) patch(fn func(state *dto.State)) {
	s.mu.Lock()
	s.gen++
	if s.state != nil {
		next := cloneState(s.state)
		fn(next)
		next.DeriveManagedClubs()
		s.state = next
	}
	s.mu.Unlock()

	s.notify()
}

func cloneState(state *dto.State) *dto.State {
	next := &dto.State{
		Clubs:        append([]dto.Club(nil), state.Clubs...),
		UsersByEmail: make(map[string]dto.User, len(state.UsersByEmail)),
		FetchedAt:    state.FetchedAt,
	}
	for email, user := range state.UsersByEmail {
		next.UsersByEmail[email] = user
	}
	return next
}

func (s *DataStore) FindUserByEmail(ctx context.Context, email string) (*dto.User, error) {
	return s.storages.Users.GetByEmail(ctx, email)
}

func (s *DataStore) FindUserByID(ctx context.Context, id string) (*dto.User, error) {
	return s.storages.Users.GetByID(ctx, id)
}

func (s *DataStore) AddUser(ctx context.Context, user dto.NewUser) (*dto.User, error) {
	if !validator.NewUser(user) {
		return nil, fmt.Errorf("%w: user", errorz.ErrInvalidInput)
	}

	created, err := s.storages.Users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateUser writes the profile fields only; role, email and follows are
// not editable here.
func (s *DataStore) UpdateUser(ctx context.Context, userID string, profile dto.UserProfile) error {
	if !validator.UserProfile(profile) {
		return fmt.Errorf("%w: profile", errorz.ErrInvalidInput)
	}
	if err := s.storages.Users.UpdateProfile(ctx, userID, profile); err != nil {
		return err
	}

	s.patch(func(state *dto.State) {
		for email, user := range state.UsersByEmail {
			if user.ID == userID {
				user.Name = profile.Name
				user.Avatar = profile.Avatar
				user.Bio = profile.Bio
				state.UsersByEmail[email] = user
			}
		}
	})
	return nil
}

func (s *DataStore) AddClub(ctx context.Context, club dto.NewClub) (*dto.Club, error) {
	if !validator.NewClub(club) {
		return nil, fmt.Errorf("%w: club", errorz.ErrInvalidInput)
	}

	created, err := s.storages.Clubs.Create(ctx, club)
	if err != nil {
		return nil, err
	}
	state, err := s.refreshed(ctx)
	if err != nil {
		return nil, err
	}
	if fresh, ok := state.Club(created.ID); ok {
		club := *fresh
		return &club, nil
	}
	return created, nil
}

func (s *DataStore) UpdateClub(ctx context.Context, clubID int64, settings dto.ClubSettings) error {
	if !validator.ClubSettings(settings) {
		return fmt.Errorf("%w: club settings", errorz.ErrInvalidInput)
	}
	if err := s.storages.Clubs.UpdateSettings(ctx, clubID, settings); err != nil {
		return err
	}

	s.patch(func(state *dto.State) {
		if club, ok := state.Club(clubID); ok {
			club.Name = settings.Name
			club.Sport = settings.Sport
			club.Logo = settings.Logo
			club.Tagline = settings.Tagline
			club.Description = settings.Description
			club.Funding = settings.Funding
		}
	})
	return nil
}

func (s *DataStore) AddPost(ctx context.Context, clubID int64, post dto.NewPost) (*dto.Post, error) {
	if !validator.PostText(post.Text) {
		return nil, fmt.Errorf("%w: post", errorz.ErrInvalidInput)
	}

	created, err := s.storages.Posts.Create(ctx, clubID, post)
	if err != nil {
		return nil, err
	}
	state, err := s.refreshed(ctx)
	if err != nil {
		return nil, err
	}
	if fresh, ok := state.Post(clubID, created.ID); ok {
		post := *fresh
		return &post, nil
	}
	return created, nil
}

func (s *DataStore) DeletePost(ctx context.Context, clubID, postID int64) error {
	if err := s.storages.Posts.Delete(ctx, clubID, postID); err != nil {
		return err
	}

	s.patch(func(state *dto.State) {
		club, ok := state.Club(clubID)
		if !ok {
			return
		}
		posts := make([]dto.Post, 0, len(club.Posts))
		for _, post := range club.Posts {
			if post.ID != postID {
				posts = append(posts, post)
			}
		}
		club.Posts = posts
	})
	return nil
}

// lookup returns a snapshot in which found holds. A cached snapshot may lag
// writes made elsewhere, so a miss is retried once against a fresh fetch
// before it is reported as errorz.ErrNotFound.
func (s *DataStore) lookup(ctx context.Context, found func(*dto.State) bool) (*dto.State, error) {
	state, err := s.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if found(state) {
		return state, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	state, err = s.GetState(ctx)
	if err != nil {
		return nil, err
	}
	if !found(state) {
		return nil, errorz.ErrNotFound
	}
	return state, nil
}

func (s *DataStore) AddComment(ctx context.Context, clubID, postID int64, comment dto.NewComment) (*dto.Comment, error) {
	if !validator.CommentText(comment.Text) || comment.UserID == "" {
		return nil, fmt.Errorf("%w: comment", errorz.ErrInvalidInput)
	}

	if _, err := s.lookup(ctx, func(state *dto.State) bool {
		_, ok := state.Post(clubID, postID)
		return ok
	}); err != nil {
		if errors.Is(err, errorz.ErrNotFound) {
			return nil, fmt.Errorf("%w: post", errorz.ErrNotFound)
		}
		return nil, err
	}

	created, err := s.storages.Comments.Create(ctx, postID, comment)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// DeleteComment lets the comment author or the club creator remove a
// comment. A comment that is already gone is a no-op.
func (s *DataStore) DeleteComment(ctx context.Context, actorID string, clubID, postID, commentID int64) error {
	state, err := s.lookup(ctx, func(state *dto.State) bool {
		post, ok := state.Post(clubID, postID)
		if !ok {
			return false
		}
		_, ok = post.Comment(commentID)
		return ok
	})
	if errors.Is(err, errorz.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	club, _ := state.Club(clubID)
	post, _ := club.Post(postID)
	comment, _ := post.Comment(commentID)
	if actorID != comment.UserID && actorID != club.CreatorID {
		return errorz.ErrForbidden
	}

	if err := s.storages.Comments.Delete(ctx, postID, commentID); err != nil {
		return err
	}

	s.patch(func(state *dto.State) {
		club, ok := state.Club(clubID)
		if !ok {
			return
		}
		posts := append([]dto.Post(nil), club.Posts...)
		for i := range posts {
			if posts[i].ID != postID {
				continue
			}
			comments := make([]dto.Comment, 0, len(posts[i].Comments))
			for _, c := range posts[i].Comments {
				if c.ID != commentID {
					comments = append(comments, c)
				}
			}
			posts[i].Comments = comments
		}
		club.Posts = posts
	})
	return nil
}

func (s *DataStore) AddPlayer(ctx context.Context, clubID int64, player dto.NewPlayer) (*dto.Player, error) {
	if !validator.NewPlayer(player) {
		return nil, fmt.Errorf("%w: player", errorz.ErrInvalidInput)
	}

	created, err := s.storages.Players.Create(ctx, clubID, player)
	if err != nil {
		return nil, err
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// ToggleFollow flips the follow edge. isFollowing is the membership the
// caller saw before the toggle; it is not re-read here.
func (s *DataStore) ToggleFollow(ctx context.Context, userID string, clubID int64, isFollowing bool) error {
	var err error
	if isFollowing {
		err = s.storages.Follows.Delete(ctx, userID, clubID)
	} else {
		err = s.storages.Follows.Create(ctx, userID, clubID)
	}
	if err != nil {
		return err
	}

	s.patch(func(state *dto.State) {
		for email, user := range state.UsersByEmail {
			if user.ID != userID {
				continue
			}
			followed := make([]int64, 0, len(user.FollowedClubs)+1)
			for _, id := range user.FollowedClubs {
				if id != clubID {
					followed = append(followed, id)
				}
			}
			if !isFollowing {
				followed = append(followed, clubID)
			}
			user.FollowedClubs = followed
			state.UsersByEmail[email] = user
		}
	})
	return nil
}

// refreshed refreshes and returns the snapshot the refresh produced.
func (s *DataStore) refreshed(ctx context.Context) (*dto.State, error) {
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	return s.GetState(ctx)
}
