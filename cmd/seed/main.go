package main

import (
	"context"
	"log"
	"strings"

	"github.com/Badsnus/hakkon-clubs/internal/adapters/config"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/postgres"
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
	"github.com/Badsnus/hakkon-clubs/pkg/logger"
	"github.com/Badsnus/hakkon-clubs/pkg/logger/types"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()
	seedLogger, err := logger.Named("seed")
	if err != nil {
		log.Panic(err)
	}

	ctx := context.Background()
	count, err := postgres.NewUserStorage(cfg.Database).Count(ctx)
	if err != nil {
		seedLogger.Panicf("Failed to count users: %v", err)
	}
	if count > 0 {
		seedLogger.Infof("Database already has %d users, skipping seed", count)
		return
	}

	err = cfg.Database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return seed(ctx, tx, seedLogger)
	})
	if err != nil {
		seedLogger.Panicf("Failed to seed database: %v", err)
	}
	seedLogger.Info("Database seeded")
}

func seed(ctx context.Context, tx *gorm.DB, seedLogger *types.Logger) error {
	var (
		identities = postgres.NewIdentityStorage(tx)
		users      = postgres.NewUserStorage(tx)
		clubs      = postgres.NewClubStorage(tx)
		players    = postgres.NewPlayerStorage(tx)
		merch      = postgres.NewMerchStorage(tx)
		posts      = postgres.NewPostStorage(tx)
		comments   = postgres.NewCommentStorage(tx)
		follows    = postgres.NewFollowStorage(tx)
	)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ids := make(map[string]string, len(seedUsers))
	for _, seeded := range seedUsers {
		id := uuid.NewString()
		err := identities.Create(ctx, &entity.Identity{
			ID:           id,
			Email:        seeded.user.Email,
			Name:         seeded.user.Name,
			AvatarURL:    seeded.user.Avatar,
			Provider:     dto.ProviderEmail,
			PasswordHash: string(hash),
			Confirmed:    true,
		})
		if err != nil {
			return err
		}

		user := seeded.user
		user.ID = id
		if _, err := users.Create(ctx, user); err != nil {
			return err
		}
		ids[seeded.key] = id
		seedLogger.Debugf("user seeded (email=%s, role=%s)", user.Email, user.Role)
	}

	for _, seeded := range seedClubs {
		newClub := seeded.club
		newClub.CreatorID = ids[seeded.creatorKey]
		club, err := clubs.Create(ctx, newClub)
		if err != nil {
			return err
		}

		for _, player := range seeded.players {
			if _, err := players.Create(ctx, club.ID, player); err != nil {
				return err
			}
		}
		for _, item := range seeded.merch {
			if _, err := merch.Create(ctx, club.ID, item); err != nil {
				return err
			}
		}
		for _, seededPost := range seeded.posts {
			post, err := posts.Create(ctx, club.ID, seededPost.post)
			if err != nil {
				return err
			}
			for _, comment := range seededPost.comments {
				_, err := comments.Create(ctx, post.ID, dto.NewComment{UserID: ids[comment.userKey], Text: comment.text})
				if err != nil {
					return err
				}
			}
		}
		for _, follower := range seeded.followers {
			if err := follows.Create(ctx, ids[follower], club.ID); err != nil {
				return err
			}
		}
		seedLogger.Debugf("club seeded (id=%d, name=%s)", club.ID, club.Name)
	}

	seedLogger.Infof("Seeded %d users (password %q): %s", len(seedUsers), seedPassword, seededEmails())
	return nil
}

func seededEmails() string {
	emails := make([]string, 0, len(seedUsers))
	for _, seeded := range seedUsers {
		emails = append(emails, seeded.user.Email)
	}
	return strings.Join(emails, ", ")
}
