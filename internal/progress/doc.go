// Package progress implements the crash-consistent migration progress file.
//
// A [Store] is loaded once per run with [Load], mutated in memory through its recording methods and written back with
// [Store.Persist] after every playlist that added items. Persist rewrites the whole file through a temporary file and a
// rename, so a crash leaves either the previous file or the new one and never a half-written mix.
//
// # File Format
//
// The file is line oriented text with a global section and a per-playlist section:
//
//	# Playlist Migration Progress
//	Export Date: 2024-05-01
//	Total Playlists in Source: 2
//	Total Members in Source: 18
//	Last Import Date: 2024-05-02
//	Total Playlists Migrated: 1
//	Total Members Migrated: 12
//	Members Migrated on Last Import Date: 4
//
//	# Playlist Details
//	[PL1] Name: Music
//	[PL1] Total Members: 10
//	[PL1] Imported Members: 10
//
// Blank and unknown lines are ignored and dates are YYYY-MM-DD. A malformed value in the global section discards the
// whole file (the run starts over); a malformed playlist record is dropped alone. Files written by the older tool,
// which used "Videos" in place of "Members", load unchanged.
//
// # Records
//
// [Record.ImportedMembers] only grows: it is advanced by the number of items actually added in a batch.
// [Record.TotalMembers] follows the latest source scan and may move either way.
package progress
