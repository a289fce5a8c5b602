package tasks

import (
	"fmt"

	"github.com/desertthunder/ytmigrate/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ScanSource Phase = iota
	SkipPlaylist
	ResolveTarget
	FetchTarget
	AddItems
	SkipItem
	SavePlaylist
	Halt
	VerifyPlaylist
	Done
)

func (p Phase) String() string {
	switch p {
	case ScanSource:
		return "scan_source"
	case SkipPlaylist:
		return "skip_playlist"
	case ResolveTarget:
		return "resolve_target"
	case FetchTarget:
		return "fetch_target"
	case AddItems:
		return "add_items"
	case SkipItem:
		return "skip_item"
	case SavePlaylist:
		return "save_playlist"
	case Halt:
		return "halt"
	case VerifyPlaylist:
		return "verify_playlist"
	case Done:
		return "done"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func scanSourceUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ScanSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d playlist(s) in the source account", count),
	}
}

func skipPlaylistUpdate(step, total int, pl models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s already fully migrated, skipping", step, total, pl.Title),
		Data:    pl,
	}
}

func resolveTargetUpdate(step, total int, name string, created bool) ProgressUpdate {
	verb := "Found"
	if created {
		verb = "Created"
	}
	return ProgressUpdate{
		Phase:   ResolveTarget,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s target playlist %s", step, total, verb, name),
	}
}

func fetchTargetUpdate(step, total int, name string, count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTarget,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s has %d item(s)", step, total, name, count),
	}
}

func addItemUpdate(step, total int, item models.PlaylistItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddItems,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] + %s", step, total, itemLabel(item)),
		Data:    item,
	}
}

func skipItemUpdate(step, total int, skipped SkippedItem) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SkipItem,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s (%s)", step, total, itemLabel(skipped.Item), skipped.Kind),
		Data:    skipped,
	}
}

func savePlaylistUpdate(step, total int, report PlaylistReport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SavePlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s: %d added, %d skipped", step, total, report.Source.Title, report.Added, len(report.Skipped)),
		Data:    report,
	}
}

func haltUpdate(err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Halt,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Halting remaining playlists: %v", err),
	}
}

func verifyUpdate(step, total int, res VerificationResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   VerifyPlaylist,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s: %s", step, total, res.SourceName, res.Status),
		Data:    res,
	}
}

func doneUpdate(summary RunSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Done,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d added, %d skipped, %d playlist(s) halted", summary.Added, summary.Skipped, summary.Halted),
		Data:    summary,
	}
}

func itemLabel(item models.PlaylistItem) string {
	if item.Title == "" {
		return item.VideoID
	}
	return fmt.Sprintf("%s (%s)", item.Title, item.VideoID)
}
