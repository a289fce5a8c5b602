// Package ui implements an interactive progress dashboard using bubbletea's Elm architecture.
//
// The TUI has these views:
//  1. [DashboardView] : global counters and the per-playlist records of the progress file
//  2. [DetailView] : one playlist record
//  3. [ConfirmView] : confirm a migration run
//  4. [MigrateView] : real-time progress updates from the run
//  5. [ResultView] : the run summary
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the migrator; the progress file is reloaded once a run finishes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, m, y/n, r, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
