package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/photoyarn/internal/shared"
)

var _ Model = (*SessionEntry)(nil)

// SessionEntry is one key/value pair in a session-scoped store.
type SessionEntry struct {
	id        string
	sequence  int
	sessionID string
	key       string
	value     string
	expiresAt time.Time
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

// NewSessionEntry creates an entry that expires ttl from now.
func NewSessionEntry(sequence int, sessionID, key, value string, ttl time.Duration) *SessionEntry {
	now := time.Now().UTC()
	return &SessionEntry{
		sequence:  sequence,
		sessionID: sessionID,
		key:       key,
		value:     value,
		expiresAt: now.Add(ttl),
		createdAt: now,
		updatedAt: now,
	}
}

func (e *SessionEntry) ID() string            { return e.id }
func (e *SessionEntry) Sequence() int         { return e.sequence }
func (e *SessionEntry) SessionID() string     { return e.sessionID }
func (e *SessionEntry) Key() string           { return e.key }
func (e *SessionEntry) Value() string         { return e.value }
func (e *SessionEntry) ExpiresAt() time.Time  { return e.expiresAt }
func (e *SessionEntry) CreatedAt() time.Time  { return e.createdAt }
func (e *SessionEntry) UpdatedAt() time.Time  { return e.updatedAt }
func (e *SessionEntry) DeletedAt() *time.Time { return e.deletedAt }

func (e *SessionEntry) SetID(id string)           { e.id = id }
func (e *SessionEntry) SetSequence(seq int)       { e.sequence = seq }
func (e *SessionEntry) SetValue(value string)     { e.value = value }
func (e *SessionEntry) SetExpiresAt(t time.Time)  { e.expiresAt = t }
func (e *SessionEntry) SetCreatedAt(t time.Time)  { e.createdAt = t }
func (e *SessionEntry) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *SessionEntry) SetDeletedAt(t *time.Time) { e.deletedAt = t }

// Expired reports whether the entry is past its lifetime at now.
func (e *SessionEntry) Expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Validate requires a session, a key and an expiry after creation.
func (e *SessionEntry) Validate() error {
	if e.sessionID == "" {
		return fmt.Errorf("%w: session id is required", shared.ErrInvalidInput)
	}
	if e.key == "" {
		return fmt.Errorf("%w: key is required", shared.ErrInvalidInput)
	}
	if !e.expiresAt.After(e.createdAt) {
		return fmt.Errorf("%w: entry must expire after it is created", shared.ErrInvalidInput)
	}
	return nil
}
