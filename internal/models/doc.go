// Package models defines the domain entities shared by the YouTube playlist migration CLI.
//
// The package contains two categories of types:
//
// 1. Remote DTOs: lightweight structs describing data read from or written to YouTube
//   - [Playlist] : playlist metadata in either account
//   - [PlaylistItem] : one entry of a playlist, fingerprinted by its video ID
//   - [Page] : one page of a paginated listing with its continuation token
//
// 2. Persistent Entities: database-backed run history with full lifecycle management
//   - [Run] : one `migrate run` or `migrate verify` invocation and its counters
//   - [Issue] : a skipped item or a halted/failed playlist reported by a run
//
// Persistent entities implement the [Model] interface providing IDs, timestamps, validation and soft delete support.
// The [Repository] interface defines standard CRUD operations for database access.
package models
