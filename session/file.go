package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"roomrental/models"
	"roomrental/utils"

	"go.uber.org/zap"
)

// FileStore persists the session as a JSON file so it survives process restarts.
// Writes go to a temp file that is renamed over the target.
type FileStore struct {
	reader
	path   string
	mu     sync.RWMutex
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	s := &FileStore{path: path, logger: utils.OrNop(logger)}
	s.reader = reader{load: s.load}
	return s
}

func (s *FileStore) load(context.Context) *record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("session file unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return nil
	}
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("session file corrupt", zap.String("path", s.path), zap.Error(err))
		return nil
	}
	return &rec
}

func (s *FileStore) SaveSession(_ context.Context, token string, user models.UserProfile) error {
	data, err := json.Marshal(record{Token: token, User: &user, IsLoggedIn: true})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*")
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
