package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/photoyarn/internal/models"
	"github.com/desertthunder/photoyarn/internal/shared"
)

var _ models.Repository[*models.SessionEntry] = (*SessionEntryRepository)(nil)

const sessionEntryColumns = `id, sequence, session_id, key, value, expires_at, created_at, updated_at, deleted_at`

// SessionEntryRepository implements [models.Repository] for [models.SessionEntry] persistence.
type SessionEntryRepository struct {
	db *sql.DB
}

// NewSessionEntryRepository creates a new [SessionEntryRepository] with the given database connection
func NewSessionEntryRepository(db *sql.DB) *SessionEntryRepository {
	return &SessionEntryRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSessionEntry(row rowScanner) (*models.SessionEntry, error) {
	var (
		id        string
		sequence  int
		sessionID string
		key       string
		value     string
		expiresAt time.Time
		createdAt time.Time
		updatedAt time.Time
		deletedAt sql.NullTime
	)

	if err := row.Scan(&id, &sequence, &sessionID, &key, &value, &expiresAt, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	entry := models.NewSessionEntry(sequence, sessionID, key, value, 0)
	entry.SetID(id)
	entry.SetExpiresAt(expiresAt)
	entry.SetCreatedAt(createdAt)
	entry.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		entry.SetDeletedAt(&deletedAt.Time)
	}
	return entry, nil
}

// Create inserts a new entry into the database with generated ID and sequence
func (r *SessionEntryRepository) Create(entry *models.SessionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "session_entries")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	entry.SetID(id)
	entry.SetSequence(sequence)

	query := `
		INSERT INTO session_entries (id, sequence, session_id, key, value, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, id, sequence, entry.SessionID(), entry.Key(), entry.Value(),
		entry.ExpiresAt().UTC(), entry.CreatedAt().UTC(), entry.UpdatedAt().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert session entry: %w", err)
	}

	return nil
}

// Get retrieves an entry by ID, excluding soft-deleted entries
func (r *SessionEntryRepository) Get(id string) (*models.SessionEntry, error) {
	query := `SELECT ` + sessionEntryColumns + ` FROM session_entries WHERE id = ? AND deleted_at IS NULL`

	entry, err := scanSessionEntry(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session entry: %w", err)
	}
	return entry, nil
}

// GetByKey retrieves the live entry for key within a session, ignoring expired and deleted rows.
func (r *SessionEntryRepository) GetByKey(sessionID, key string, now time.Time) (*models.SessionEntry, error) {
	query := `
		SELECT ` + sessionEntryColumns + `
		FROM session_entries
		WHERE session_id = ? AND key = ? AND deleted_at IS NULL AND expires_at > ?
		ORDER BY sequence DESC
		LIMIT 1
	`

	entry, err := scanSessionEntry(r.db.QueryRow(query, sessionID, key, now.UTC()))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", shared.ErrSessionNotFound, sessionID, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session entry: %w", err)
	}
	return entry, nil
}

// Update modifies the value and expiry of an existing entry
func (r *SessionEntryRepository) Update(entry *models.SessionEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	entry.SetUpdatedAt(now)

	query := `
		UPDATE session_entries
		SET value = ?, expires_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, entry.Value(), entry.ExpiresAt().UTC(), now, entry.ID())
	if err != nil {
		return fmt.Errorf("failed to update session entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, entry.ID())
	}

	return nil
}

// Delete soft-deletes an entry by ID
func (r *SessionEntryRepository) Delete(id string) error {
	query := `
		UPDATE session_entries
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to delete session entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return nil
}

// DeleteByKey soft-deletes every live entry for key within a session and returns how many were removed.
func (r *SessionEntryRepository) DeleteByKey(sessionID, key string) (int64, error) {
	query := `
		UPDATE session_entries
		SET deleted_at = ?
		WHERE session_id = ? AND key = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now().UTC(), sessionID, key)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session entries: %w", err)
	}
	return result.RowsAffected()
}

// List retrieves all entries matching the given criteria, excluding soft-deleted entries.
//
// Supported criteria: "session_id" and "key" (string).
func (r *SessionEntryRepository) List(criteria map[string]any) ([]*models.SessionEntry, error) {
	query := `SELECT ` + sessionEntryColumns + ` FROM session_entries WHERE deleted_at IS NULL`
	args := []any{}

	if sessionID, ok := criteria["session_id"].(string); ok && sessionID != "" {
		query += " AND session_id = ?"
		args = append(args, sessionID)
	}
	if key, ok := criteria["key"].(string); ok && key != "" {
		query += " AND key = ?"
		args = append(args, key)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query session entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.SessionEntry
	for rows.Next() {
		entry, err := scanSessionEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// PurgeExpired hard-deletes entries that expired at or before now, and soft-deleted entries, returning the count.
func (r *SessionEntryRepository) PurgeExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM session_entries WHERE expires_at <= ? OR deleted_at IS NOT NULL`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to purge session entries: %w", err)
	}
	return result.RowsAffected()
}
