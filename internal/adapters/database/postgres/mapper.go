package postgres

import (
	"github.com/Badsnus/hakkon-clubs/internal/domain/dto"
	"github.com/Badsnus/hakkon-clubs/internal/domain/entity"
)

func userToDTO(user entity.User, managed []int64) dto.User {
	followed := make([]int64, 0, len(user.Follows))
	for _, follow := range user.Follows {
		followed = append(followed, follow.ClubID)
	}
	if managed == nil {
		managed = []int64{}
	}
	return dto.User{
		ID:            user.ID,
		Name:          user.Name,
		Email:         user.Email,
		Password:      user.Password,
		Role:          dto.Role(user.Role),
		FollowedClubs: followed,
		ManagedClubs:  managed,
		Avatar:        user.Avatar,
		Bio:           user.Bio,
	}
}

func clubToDTO(club entity.Club) dto.Club {
	posts := make([]dto.Post, 0, len(club.Posts))
	for _, post := range club.Posts {
		posts = append(posts, postToDTO(post))
	}
	players := make([]dto.Player, 0, len(club.Players))
	for _, player := range club.Players {
		players = append(players, playerToDTO(player))
	}
	merch := make([]dto.Merch, 0, len(club.Merch))
	for _, item := range club.Merch {
		merch = append(merch, merchToDTO(item))
	}
	return dto.Club{
		ID:          club.ID,
		Name:        club.Name,
		Sport:       club.Sport,
		Logo:        club.Logo,
		Tagline:     club.Tagline,
		Description: club.Description,
		CreatorID:   club.CreatorID,
		Funding: dto.Funding{
			Current: club.FundingCurrent,
			Goal:    club.FundingGoal,
		},
		Posts:     posts,
		Players:   players,
		Merch:     merch,
		CreatedAt: club.CreatedAt,
	}
}

func postToDTO(post entity.Post) dto.Post {
	comments := make([]dto.Comment, 0, len(post.Comments))
	for _, comment := range post.Comments {
		comments = append(comments, commentToDTO(comment))
	}
	return dto.Post{
		ID:        post.ID,
		Text:      post.Text,
		Image:     post.Image,
		Timestamp: post.CreatedAt,
		Likes:     post.Likes,
		Comments:  comments,
	}
}

func commentToDTO(comment entity.Comment) dto.Comment {
	return dto.Comment{
		ID:     comment.ID,
		UserID: comment.UserID,
		Text:   comment.Text,
	}
}

func playerToDTO(player entity.Player) dto.Player {
	return dto.Player{
		ID:       player.ID,
		Name:     player.Name,
		Position: player.Position,
		Number:   player.Number,
		Avatar:   player.Avatar,
	}
}

func merchToDTO(item entity.Merch) dto.Merch {
	return dto.Merch{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
		Image: item.Image,
	}
}
