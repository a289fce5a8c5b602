// Package repositories implements SQLite persistence for run history.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [RunRepository] : one row per `migrate run` or `migrate verify` invocation
//   - [IssueRepository] : skipped videos and halted or failed playlists, written as a run reports them
//
// The progress file stays the source of truth for what has been migrated; the database only answers
// "what went wrong, and when" across runs.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
