package models

import (
	"fmt"
	"time"
)

// RunKind distinguishes the commands that record history.
type RunKind string

const (
	RunMigrate RunKind = "migrate"
	RunVerify  RunKind = "verify"
)

// RunStatus is the lifecycle state of a [Run].
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunHalted    RunStatus = "halted" // quota exhausted or cancelled, remaining playlists untouched
	RunFailed    RunStatus = "failed"
)

// Run records one invocation of `migrate run` or `migrate verify`.
type Run struct {
	timestamps
	id             string
	sequence       int
	kind           RunKind
	status         RunStatus
	playlistsTotal int
	playlistsDone  int
	itemsAdded     int
	itemsSkipped   int
	errorMessage   string
	startedAt      *time.Time
	completedAt    *time.Time
}

// NewRun creates a running [Run] of the given kind started now.
func NewRun(sequence int, kind RunKind) *Run {
	now := time.Now()
	return &Run{
		timestamps: newTimestamps(),
		sequence:   sequence,
		kind:       kind,
		status:     RunRunning,
		startedAt:  &now,
	}
}

func (r *Run) ID() string { return r.id }
func (r *Run) Sequence() int { return r.sequence }
func (r *Run) Kind() RunKind { return r.kind }
func (r *Run) Status() RunStatus { return r.status }
func (r *Run) PlaylistsTotal() int { return r.playlistsTotal }
func (r *Run) PlaylistsDone() int { return r.playlistsDone }
func (r *Run) ItemsAdded() int { return r.itemsAdded }
func (r *Run) ItemsSkipped() int { return r.itemsSkipped }
func (r *Run) ErrorMessage() string { return r.errorMessage }
func (r *Run) StartedAt() *time.Time { return r.startedAt }
func (r *Run) CompletedAt() *time.Time { return r.completedAt }
func (r *Run) SetID(id string) { r.id = id }
func (r *Run) SetSequence(n int) { r.sequence = n }
func (r *Run) SetStatus(s RunStatus) { r.status = s }
func (r *Run) SetPlaylistsTotal(n int) { r.playlistsTotal = n }
func (r *Run) SetPlaylistsDone(n int) { r.playlistsDone = n }
func (r *Run) SetItemsAdded(n int) { r.itemsAdded = n }
func (r *Run) SetItemsSkipped(n int) { r.itemsSkipped = n }
func (r *Run) SetErrorMessage(m string) { r.errorMessage = m }
func (r *Run) SetStartedAt(t *time.Time) { r.startedAt = t }
func (r *Run) SetCompletedAt(t *time.Time) { r.completedAt = t }

// Finish moves the run to a terminal status and stamps its completion time.
func (r *Run) Finish(status RunStatus, err error) {
	now := time.Now()
	r.status = status
	r.completedAt = &now
	if err != nil {
		r.errorMessage = err.Error()
	}
}

// Validate checks the kind, status and counters.
func (r *Run) Validate() error {
	switch r.kind {
	case RunMigrate, RunVerify:
	default:
		return fmt.Errorf("invalid run kind %q", r.kind)
	}

	switch r.status {
	case RunRunning, RunCompleted, RunHalted, RunFailed:
	default:
		return fmt.Errorf("invalid run status %q", r.status)
	}

	if r.playlistsTotal < 0 || r.playlistsDone < 0 || r.itemsAdded < 0 || r.itemsSkipped < 0 {
		return fmt.Errorf("run counters must not be negative")
	}
	if r.playlistsDone > r.playlistsTotal {
		return fmt.Errorf("playlists done (%d) exceeds total (%d)", r.playlistsDone, r.playlistsTotal)
	}
	return nil
}
