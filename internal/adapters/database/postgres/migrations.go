package postgres

import "github.com/Badsnus/hakkon-clubs/internal/domain/entity"

// Migrations is a list of all gorm migrations for the database.
var Migrations = []interface{}{
	&entity.Identity{},
	&entity.User{},
	&entity.Club{},
	&entity.Post{},
	&entity.Comment{},
	&entity.Player{},
	&entity.Merch{},
	&entity.Follow{},
}
