package main

import (
	"context"
	"log"

	"github.com/Badsnus/hakkon-clubs/cmd/app"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/config"

	_ "time/tzdata"
)

func main() {
	cfg := config.Get()
	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Panic(err)
	}

	a.Start(context.Background())
}
