// package repositories provides persistence layer implementations for the session store.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation.
package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/photoyarn/internal/shared"
)

// sequenceTables lists the tables that own a "<table>_sequence" counter row.
var sequenceTables = map[string]bool{
	"session_entries": true,
}

// NextSequence increments and returns the insertion counter for table in a single statement.
//
// Sequence numbers order entries independently of UUIDs and timestamps.
func NextSequence(db *sql.DB, table string) (int, error) {
	if !sequenceTables[table] {
		return 0, fmt.Errorf("%w: no sequence for table %q", shared.ErrInvalidArgument, table)
	}

	var sequence int
	query := fmt.Sprintf("UPDATE %s_sequence SET value = value + 1 WHERE id = 1 RETURNING value", table)
	if err := db.QueryRow(query).Scan(&sequence); err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}
	return sequence, nil
}
