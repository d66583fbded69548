package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
)

var _ models.Storage = (*SessionStorage)(nil)

// SessionStorage is a [models.Storage] for a single session id, backed by [SessionEntryRepository].
type SessionStorage struct {
	repo      *SessionEntryRepository
	sessionID string
	ttl       time.Duration
	now       func() time.Time
}

// NewSessionStorage opens the store for sessionID and purges expired entries.
func NewSessionStorage(db *sql.DB, sessionID string, ttl time.Duration) (*SessionStorage, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", shared.ErrInvalidInput)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("%w: session ttl must be positive", shared.ErrInvalidInput)
	}

	s := &SessionStorage{
		repo:      NewSessionEntryRepository(db),
		sessionID: sessionID,
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
	}

	if _, err := s.repo.PurgeExpired(s.now()); err != nil {
		return nil, err
	}
	return s, nil
}

// SessionID returns the session this store is scoped to.
func (s *SessionStorage) SessionID() string { return s.sessionID }

// Get returns the live value for key.
func (s *SessionStorage) Get(key string) (string, bool, error) {
	entry, err := s.repo.GetByKey(s.sessionID, key, s.now())
	if errors.Is(err, shared.ErrSessionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value(), true, nil
}

// Set upserts key, renewing its expiry.
func (s *SessionStorage) Set(key, value string) error {
	now := s.now()
	entry, err := s.repo.GetByKey(s.sessionID, key, now)
	switch {
	case errors.Is(err, shared.ErrSessionNotFound):
		if err := s.repo.Create(models.NewSessionEntry(0, s.sessionID, key, value, s.ttl)); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}

	entry.SetValue(value)
	entry.SetExpiresAt(now.Add(s.ttl))
	if err := s.repo.Update(entry); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}
	return nil
}

// Remove soft-deletes key. Removing an absent key succeeds.
func (s *SessionStorage) Remove(key string) error {
	if _, err := s.repo.DeleteByKey(s.sessionID, key); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrStorageWrite, err)
	}
	return nil
}
