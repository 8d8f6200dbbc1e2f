package session

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"roomrental/models"
	"roomrental/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore keeps the session in one Redis hash named after the namespace.
// Save replaces the hash inside MULTI/EXEC; reads use a single HGETALL.
type RedisStore struct {
	reader
	client *redis.Client
	key    string
	logger *zap.Logger
}

func NewRedisStore(client *redis.Client, namespace string, logger *zap.Logger) *RedisStore {
	s := &RedisStore{client: client, key: namespace, logger: utils.OrNop(logger)}
	s.reader = reader{load: s.load}
	return s
}

func (s *RedisStore) load(ctx context.Context) *record {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		s.logger.Warn("session read failed", zap.String("key", s.key), zap.Error(err))
		return nil
	}
	if len(fields) == 0 {
		return nil
	}

	rec := &record{Token: fields[KeyAuthToken]}
	rec.IsLoggedIn, _ = strconv.ParseBool(fields[KeyIsLoggedIn])
	if raw := fields[KeyUser]; raw != "" {
		var u models.UserProfile
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			s.logger.Warn("cached user corrupt", zap.String("key", s.key), zap.Error(err))
			return nil
		}
		rec.User = &u
	}
	return rec
}

func (s *RedisStore) SaveSession(ctx context.Context, token string, user models.UserProfile) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key,
			KeyAuthToken, token,
			KeyUser, string(userJSON),
			KeyIsLoggedIn, "true",
		)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
