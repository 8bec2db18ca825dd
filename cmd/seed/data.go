package main

import "github.com/Badsnus/hakkon-clubs/internal/domain/dto"

const seedPassword = "password"

type seedUser struct {
	key  string
	user dto.NewUser
}

type seedComment struct {
	userKey string
	text    string
}

type seedPost struct {
	post     dto.NewPost
	comments []seedComment
}

type seedClub struct {
	creatorKey string
	club       dto.NewClub
	players    []dto.NewPlayer
	merch      []dto.NewMerch
	// posts are listed oldest first.
	posts     []seedPost
	followers []string
}

func ptr[T any](v T) *T {
	return &v
}

var seedUsers = []seedUser{
	{key: "fan", user: dto.NewUser{
		Name:   "Alex",
		Email:  "fan@example.com",
		Role:   dto.RoleFan,
		Avatar: "https://placehold.co/100x100/A78BFA/FFFFFF?text=A",
		Bio:    "Superfan of the Mountain Lions! Never miss a game.",
	}},
	{key: "creator", user: dto.NewUser{
		Name:   "Coach Taylor",
		Email:  "creator@example.com",
		Role:   dto.RoleCreator,
		Avatar: "https://placehold.co/100x100/F472B6/FFFFFF?text=C",
		Bio:    "Leading the Lions to victory.",
	}},
	{key: "hawks", user: dto.NewUser{
		Name:   "Coach Morgan",
		Email:  "hawks@example.com",
		Role:   dto.RoleCreator,
		Avatar: dto.PlaceholderAvatar("Morgan"),
	}},
	{key: "vipers", user: dto.NewUser{
		Name:   "Coach Riley",
		Email:  "vipers@example.com",
		Role:   dto.RoleCreator,
		Avatar: dto.PlaceholderAvatar("Riley"),
	}},
}

var seedClubs = []seedClub{
	{
		creatorKey: "creator",
		club: dto.NewClub{
			Name:        "Mountain Lions FC",
			Sport:       "Soccer",
			Logo:        "https://placehold.co/150x150/f0abfc/4a044e?text=🦁",
			Tagline:     "Roaring to Victory",
			Description: "The fiercest soccer club on the mountain.",
			Funding:     dto.Funding{Current: 7500, Goal: 10000},
		},
		players: []dto.NewPlayer{
			{Name: "Leo Messi", Position: "Forward", Number: ptr(10), Avatar: "https://placehold.co/100x100/3B82F6/FFFFFF?text=LM"},
			{Name: "Jane Doe", Position: "Midfielder", Number: ptr(8), Avatar: "https://placehold.co/100x100/10B981/FFFFFF?text=JD"},
		},
		merch: []dto.NewMerch{
			{Name: "Home Jersey", Price: 59.99, Image: "https://placehold.co/300x300/3B82F6/FFFFFF?text=Jersey"},
			{Name: "Team Scarf", Price: 24.99, Image: "https://placehold.co/300x300/10B981/FFFFFF?text=Scarf"},
		},
		posts: []seedPost{
			{post: dto.NewPost{Text: "Next practice is tomorrow at 5 PM. Be ready to work hard!"}},
			{
				post: dto.NewPost{
					Text:  "Big win last night! 3-1 against the Vipers. Thanks for the amazing support!",
					Image: ptr("https://placehold.co/600x400/3B82F6/FFFFFF?text=Victory!"),
				},
				comments: []seedComment{
					{userKey: "fan", text: "What a game! Incredible performance."},
					{userKey: "creator", text: "Couldn't have done it without you all!"},
				},
			},
		},
		followers: []string{"fan"},
	},
	{
		creatorKey: "hawks",
		club: dto.NewClub{
			Name:        "City Hawks Basketball",
			Sport:       "Basketball",
			Logo:        "https://placehold.co/150x150/fca5a5/7f1d1d?text=🦅",
			Tagline:     "Soaring above the competition.",
			Description: "Downtown's premier basketball team.",
			Funding:     dto.Funding{Current: 15000, Goal: 20000},
		},
		merch: []dto.NewMerch{
			{Name: "Slam Dunk Hoodie", Price: 79.99, Image: "https://placehold.co/300x300/F59E0B/FFFFFF?text=Hoodie"},
		},
		posts: []seedPost{
			{post: dto.NewPost{
				Text:  "Our new merchandise is now available!",
				Image: ptr("https://placehold.co/600x400/F59E0B/FFFFFF?text=New+Merch"),
			}},
		},
	},
	{
		creatorKey: "vipers",
		club: dto.NewClub{
			Name:        "Valley Vipers",
			Sport:       "Baseball",
			Logo:        "https://placehold.co/150x150/86efac/064e3b?text=🐍",
			Tagline:     "Striking out the competition.",
			Description: "The heart of baseball in the valley.",
			Funding:     dto.Funding{Current: 4000, Goal: 5000},
		},
		posts: []seedPost{
			{post: dto.NewPost{Text: "Tough loss, but we'll bounce back stronger. See you at the next game."}},
		},
		followers: []string{"fan"},
	},
}
