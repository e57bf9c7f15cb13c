package cache

import (
	"context"
	"fmt"
	"imagetools/config"
	"io"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func New(conf config.Cache) (Cache, error) {
	switch conf.Backend {
	case "", BackendNone:
		return Noop{}, nil
	case BackendDragonfly:
		return NewDragonfly(conf.Dragonfly, conf.TTL), nil
	case BackendS3:
		s3Cache, err := NewS3(conf.S3)
		if err != nil {
			return nil, err
		}
		return s3Cache, nil
	}

	return nil, fmt.Errorf("unknown cache backend: %s", conf.Backend)
}

// Check pings backends that hold a connection. Others always pass.
func Check(ctx context.Context, c Cache) error {
	if p, ok := c.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("cache ping: %w", err)
		}
	}
	return nil
}

// Close releases the backend's connection if it has one.
func Close(c Cache) error {
	if closer, ok := c.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
