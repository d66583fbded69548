// Package repositories implements the session-scoped key/value store that carries slide data between screens.
//
// Key Implementations:
//   - [SessionEntryRepository] : SQLite CRUD for [models.SessionEntry] with soft deletes and expiry purging
//   - [SessionStorage] : [models.Storage] over the repository for one session id and lifetime
//   - [MemoryStorage] : in-process [models.Storage] for ephemeral runs and tests
//
// A session id plays the role of a browser tab: two sessions never see each other's entries,
// and entries past their TTL are invisible to reads and purged when a store is opened.
//
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
