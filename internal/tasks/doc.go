// Package tasks migrates playlists between two accounts and verifies the result.
//
// # Synchronization
//
// [Synchronize] brings one target playlist in line with its source:
//
//  1. Fingerprints (video IDs) of the target are collected
//  2. Source items are walked in order and each fingerprint not yet present is added
//  3. Missing or rejected videos are skipped and returned as [SkippedItem]
//  4. A quota failure halts the pass, keeping every addition made so far
//
// The engine never touches the progress store. Callers credit [SyncResult.Added]
// to the store and persist it, which is what [Migrator] does after every playlist.
//
// # Verification
//
// [Verify] compares a source playlist to the target named by [Naming.TargetName]
// and reports missing and extra videos. [VerifyAll] runs it over many playlists
// with a small worker pool, and [Summarize] totals the results.
//
// # Progress Reporting
//
// Long-running operations accept a send-only channel of [ProgressUpdate].
// Updates use select with default so a slow consumer never blocks a run.
//
// # Pacing
//
// A [Pacer] spaces out mutating calls. [NewPacer] wraps a token bucket from
// golang.org/x/time/rate with a burst of one.
package tasks
