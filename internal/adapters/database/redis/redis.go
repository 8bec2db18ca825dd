package redis

import (
	"context"
	"fmt"

	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis/codes"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis/devices"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis/oauthstates"
	"github.com/Badsnus/hakkon-clubs/internal/adapters/database/redis/sessions"
	"github.com/redis/go-redis/v9"
)

// Client groups the redis-backed storages. Each one lives in its own
// database index so keys never collide.
type Client struct {
	Sessions    *sessions.Storage
	Codes       *codes.Storage
	OAuthStates *oauthstates.Storage
	Devices     *devices.Storage

	clients []*redis.Client
}

type Options struct {
	Host     string
	Port     string
	Password string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	connect := func(name string, db int) (*redis.Client, error) {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", opts.Host, opts.Port),
			Password: opts.Password,
			DB:       db,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to ping %s storage: %w", name, err)
		}
		return client, nil
	}

	c := &Client{}
	sessionStorage, err := connect("session", 0)
	if err != nil {
		return nil, err
	}
	c.clients = append(c.clients, sessionStorage)

	codeStorage, err := connect("codes", 1)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.clients = append(c.clients, codeStorage)

	stateStorage, err := connect("oauth state", 2)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.clients = append(c.clients, stateStorage)

	deviceStorage, err := connect("device", 3)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.clients = append(c.clients, deviceStorage)

	c.Sessions = sessions.NewStorage(sessionStorage)
	c.Codes = codes.NewStorage(codeStorage)
	c.OAuthStates = oauthstates.NewStorage(stateStorage)
	c.Devices = devices.NewStorage(deviceStorage)
	return c, nil
}

func (c *Client) Close() error {
	var firstErr error
	for _, client := range c.clients {
		if err := client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
