package cache

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"imagetools/config"
	"time"
)

type Dragonfly struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDragonfly(conf config.Dragonfly, ttl time.Duration) *Dragonfly {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})

	return NewDragonflyFromClient(client, ttl)
}

func NewDragonflyFromClient(client *redis.Client, ttl time.Duration) *Dragonfly {
	return &Dragonfly{client: client, ttl: ttl}
}

func (d *Dragonfly) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := d.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get error: %w", err)
	}
	return data, true, nil
}

func (d *Dragonfly) Set(ctx context.Context, key string, data []byte) error {
	return d.client.Set(ctx, key, data, d.ttl).Err()
}

func (d *Dragonfly) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}

func (d *Dragonfly) Close() error {
	return d.client.Close()
}
