package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Ping reports whether the backend behind s is reachable. Stores without a
// remote backend are always reachable.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis unreachable: %w", err)
	}
	return nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return fmt.Errorf("mongo unreachable: %w", err)
	}
	return nil
}

// Ping checks that the session directory, if it exists, is a directory.
func (s *FileStore) Ping(context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("session directory unreadable: %w", err)
	case !info.IsDir():
		return fmt.Errorf("session directory %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}
