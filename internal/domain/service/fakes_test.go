package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Badsnus/hakkon-clubs/internal/domain/common/errorz"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
)

// fakeRemote is an in-memory relational backend shared by the fake storages.
type fakeRemote struct {
	mu sync.Mutex

	clubs   []dto.Club
	users   []dto.User
	follows map[string]map[int64]bool
	nextID  int64
	now     time.Time

	clubFetches int
	userFetches int
	writes      int

	failWrites error
	failFetch  error
	// fetching receives a value when GetAll of clubs starts; gate blocks it.
	fetching chan struct{}
	gate     chan struct{}
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		follows: make(map[string]map[int64]bool),
		nextID:  100,
		now:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeRemote) storages() Storages {
	return Storages{
		Clubs:    fakeClubs{r},
		Users:    fakeUsers{r},
		Posts:    fakePosts{r},
		Comments: fakeComments{r},
		Players:  fakePlayers{r},
		Follows:  fakeFollows{r},
	}
}

func (r *fakeRemote) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *fakeRemote) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *fakeRemote) write() error {
	if r.failWrites != nil {
		return errorz.NewStoreError("write", r.failWrites)
	}
	r.writes++
	return nil
}

func (r *fakeRemote) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *fakeRemote) fetchCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.clubFetches
}

func (r *fakeRemote) club(id int64) *dto.Club {
	for i := range r.clubs {
		if r.clubs[i].ID == id {
			return &r.clubs[i]
		}
	}
	return nil
}

func (r *fakeRemote) addUser(user dto.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, user)
	for _, id := range user.FollowedClubs {
		if r.follows[user.ID] == nil {
			r.follows[user.ID] = make(map[int64]bool)
		}
		r.follows[user.ID][id] = true
	}
}

func (r *fakeRemote) addClub(club dto.Club) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if club.CreatedAt.IsZero() {
		club.CreatedAt = r.tick()
	}
	r.clubs = append([]dto.Club{club}, r.clubs...)
}

func copyClub(club dto.Club) dto.Club {
	posts := make([]dto.Post, 0, len(club.Posts))
	for _, post := range club.Posts {
		post.Comments = append([]dto.Comment{}, post.Comments...)
		posts = append(posts, post)
	}
	club.Posts = posts
	club.Players = append([]dto.Player{}, club.Players...)
	club.Merch = append([]dto.Merch{}, club.Merch...)
	return club
}

type fakeClubs struct{ r *fakeRemote }

func (f fakeClubs) GetAll(ctx context.Context) ([]dto.Club, error) {
	f.r.mu.Lock()
	fetching, gate := f.r.fetching, f.r.gate
	f.r.mu.Unlock()
	if fetching != nil {
		fetching <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.clubFetches++
	if f.r.failFetch != nil {
		return nil, errorz.NewStoreError("clubs.get_all", f.r.failFetch)
	}
	clubs := make([]dto.Club, 0, len(f.r.clubs))
	for _, club := range f.r.clubs {
		clubs = append(clubs, copyClub(club))
	}
	sort.SliceStable(clubs, func(i, j int) bool { return clubs[i].CreatedAt.After(clubs[j].CreatedAt) })
	return clubs, nil
}

func (f fakeClubs) Create(ctx context.Context, club dto.NewClub) (*dto.Club, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return nil, err
	}
	created := dto.Club{
		ID:          f.r.id(),
		Name:        club.Name,
		Sport:       club.Sport,
		Logo:        club.Logo,
		Tagline:     club.Tagline,
		Description: club.Description,
		CreatorID:   club.CreatorID,
		Funding:     club.Funding,
		Posts:       []dto.Post{},
		Players:     []dto.Player{},
		Merch:       []dto.Merch{},
		CreatedAt:   f.r.tick(),
	}
	f.r.clubs = append([]dto.Club{created}, f.r.clubs...)
	return &created, nil
}

func (f fakeClubs) UpdateSettings(ctx context.Context, id int64, settings dto.ClubSettings) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return err
	}
	club := f.r.club(id)
	if club == nil {
		return errorz.ErrNotFound
	}
	club.Name = settings.Name
	club.Sport = settings.Sport
	club.Logo = settings.Logo
	club.Tagline = settings.Tagline
	club.Description = settings.Description
	club.Funding = settings.Funding
	return nil
}

type fakeUsers struct{ r *fakeRemote }

func (f fakeUsers) GetAll(ctx context.Context) ([]dto.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	f.r.userFetches++
	if f.r.failFetch != nil {
		return nil, errorz.NewStoreError("users.get_all", f.r.failFetch)
	}
	users := make([]dto.User, 0, len(f.r.users))
	for _, user := range f.r.users {
		users = append(users, f.r.withFollows(user))
	}
	return users, nil
}

func (r *fakeRemote) withFollows(user dto.User) dto.User {
	followed := []int64{}
	for id := range r.follows[user.ID] {
		followed = append(followed, id)
	}
	sort.Slice(followed, func(i, j int) bool { return followed[i] < followed[j] })
	user.FollowedClubs = followed
	// a stale stored copy must never leak through
	user.ManagedClubs = []int64{999}
	return user
}

func (f fakeUsers) find(match func(dto.User) bool) *dto.User {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, user := range f.r.users {
		if match(user) {
			found := f.r.withFollows(user)
			return &found
		}
	}
	return nil
}

func (f fakeUsers) GetByEmail(ctx context.Context, email string) (*dto.User, error) {
	return f.find(func(user dto.User) bool { return user.Email == email }), nil
}

func (f fakeUsers) GetByID(ctx context.Context, id string) (*dto.User, error) {
	return f.find(func(user dto.User) bool { return user.ID == id }), nil
}

func (f fakeUsers) Create(ctx context.Context, user dto.NewUser) (*dto.User, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	for _, existing := range f.r.users {
		if existing.Email == user.Email {
			return nil, errorz.NewStoreError("users.create", errorz.NewAuthError(errorz.AlreadyRegistered, nil))
		}
	}
	if err := f.r.write(); err != nil {
		return nil, err
	}
	created := dto.User{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Role:          user.Role,
		Avatar:        user.Avatar,
		Bio:           user.Bio,
		FollowedClubs: []int64{},
		ManagedClubs:  []int64{},
	}
	f.r.users = append(f.r.users, created)
	return &created, nil
}

func (f fakeUsers) UpdateProfile(ctx context.Context, id string, profile dto.UserProfile) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return err
	}
	for i := range f.r.users {
		if f.r.users[i].ID == id {
			f.r.users[i].Name = profile.Name
			f.r.users[i].Avatar = profile.Avatar
			f.r.users[i].Bio = profile.Bio
			return nil
		}
	}
	return errorz.ErrNotFound
}

type fakePosts struct{ r *fakeRemote }

func (f fakePosts) Create(ctx context.Context, clubID int64, post dto.NewPost) (*dto.Post, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return nil, err
	}
	club := f.r.club(clubID)
	if club == nil {
		return nil, errorz.NewStoreError("posts.create", errorz.ErrNotFound)
	}
	created := dto.Post{
		ID:        f.r.id(),
		Text:      post.Text,
		Image:     post.Image,
		Timestamp: f.r.tick(),
		Comments:  []dto.Comment{},
	}
	club.Posts = append([]dto.Post{created}, club.Posts...)
	return &created, nil
}

func (f fakePosts) Delete(ctx context.Context, clubID, postID int64) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return err
	}
	if club := f.r.club(clubID); club != nil {
		posts := club.Posts[:0:0]
		for _, post := range club.Posts {
			if post.ID != postID {
				posts = append(posts, post)
			}
		}
		club.Posts = posts
	}
	return nil
}

type fakeComments struct{ r *fakeRemote }

func (f fakeComments) Create(ctx context.Context, postID int64, comment dto.NewComment) (*dto.Comment, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return nil, err
	}
	for i := range f.r.clubs {
		for j := range f.r.clubs[i].Posts {
			post := &f.r.clubs[i].Posts[j]
			if post.ID == postID {
				created := dto.Comment{ID: f.r.id(), UserID: comment.UserID, Text: comment.Text}
				post.Comments = append(post.Comments, created)
				return &created, nil
			}
		}
	}
	return nil, errorz.NewStoreError("comments.create", errorz.ErrNotFound)
}

func (f fakeComments) Delete(ctx context.Context, postID, commentID int64) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return err
	}
	for i := range f.r.clubs {
		for j := range f.r.clubs[i].Posts {
			post := &f.r.clubs[i].Posts[j]
			if post.ID != postID {
				continue
			}
			comments := post.Comments[:0:0]
			for _, c := range post.Comments {
				if c.ID != commentID {
					comments = append(comments, c)
				}
			}
			post.Comments = comments
		}
	}
	return nil
}

type fakePlayers struct{ r *fakeRemote }

func (f fakePlayers) Create(ctx context.Context, clubID int64, player dto.NewPlayer) (*dto.Player, error) {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return nil, err
	}
	club := f.r.club(clubID)
	if club == nil {
		return nil, errorz.NewStoreError("players.create", errorz.ErrNotFound)
	}
	created := dto.Player{ID: f.r.id(), Name: player.Name, Position: player.Position, Number: player.Number, Avatar: player.Avatar}
	club.Players = append(club.Players, created)
	return &created, nil
}

type fakeFollows struct{ r *fakeRemote }

func (f fakeFollows) Create(ctx context.Context, userID string, clubID int64) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return err
	}
	if f.r.follows[userID] == nil {
		f.r.follows[userID] = make(map[int64]bool)
	}
	f.r.follows[userID][clubID] = true
	return nil
}

func (f fakeFollows) Delete(ctx context.Context, userID string, clubID int64) error {
	f.r.mu.Lock()
	defer f.r.mu.Unlock()
	if err := f.r.write(); err != nil {
		return err
	}
	delete(f.r.follows[userID], clubID)
	return nil
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
