package tasks

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/shared"
)

// AddFunc appends one video to a target playlist.
type AddFunc func(ctx context.Context, targetID, videoID string) error

// SyncRequest is one source/target pair to bring in line.
type SyncRequest struct {
	SourceID    string
	SourceItems []models.PlaylistItem
	TargetID    string
	TargetItems []models.PlaylistItem
}

// SkippedItem is a source item that could not be added.
type SkippedItem struct {
	Item models.PlaylistItem
	Kind shared.ErrorKind
	Err  error
}

// SyncResult is the outcome of one [Synchronize] call.
//
// Added counts successful additions only, which is exactly what the caller
// credits to the progress store. When Halted is set the caller must not start
// any further playlist.
type SyncResult struct {
	Added   int
	Skipped []SkippedItem
	Halted  bool
	HaltErr error
}

type syncConfig struct {
	pacer    Pacer
	logger   *log.Logger
	progress chan<- ProgressUpdate
}

// SyncOption configures [Synchronize].
type SyncOption func(*syncConfig)

// WithPacer waits on p before every add after the first.
func WithPacer(p Pacer) SyncOption {
	return func(c *syncConfig) { c.pacer = p }
}

// WithSyncLogger sets the logger used for skipped items.
func WithSyncLogger(l *log.Logger) SyncOption {
	return func(c *syncConfig) { c.logger = l }
}

// WithSyncProgress streams per-item updates to ch.
func WithSyncProgress(ch chan<- ProgressUpdate) SyncOption {
	return func(c *syncConfig) { c.progress = ch }
}

// Synchronize adds every source item whose video is not yet in the target.
//
// Source order is preserved and a video repeated in the source is added once.
// Missing and rejected videos are skipped; a quota failure or a cancelled
// context halts the pass, keeping what was added so far. Any other error is
// treated as a transport failure on that item and skipped.
func Synchronize(ctx context.Context, req SyncRequest, add AddFunc, opts ...SyncOption) SyncResult {
	cfg := syncConfig{pacer: noPacer{}, logger: log.Default()}
	for _, opt := range opts {
		opt(&cfg)
	}

	existing := make(map[string]struct{}, len(req.TargetItems))
	for _, id := range models.Fingerprints(req.TargetItems) {
		existing[id] = struct{}{}
	}

	pending := make([]models.PlaylistItem, 0, len(req.SourceItems))
	for _, item := range req.SourceItems {
		if _, ok := existing[item.VideoID]; !ok {
			pending = append(pending, item)
		}
	}

	// A fingerprint only joins existing after a successful add, so a
	// duplicate whose earlier add failed is attempted again.
	var result SyncResult
	attempts := 0
	for i, item := range pending {
		if _, ok := existing[item.VideoID]; ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return halt(result, err)
		}
		if attempts > 0 {
			if err := cfg.pacer.Wait(ctx); err != nil {
				return halt(result, err)
			}
		}
		attempts++

		err := add(ctx, req.TargetID, item.VideoID)
		if err == nil {
			result.Added++
			existing[item.VideoID] = struct{}{}
			sendProgress(cfg.progress, addItemUpdate(i+1, len(pending), item))
			continue
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return halt(result, err)
		}

		kind := shared.KindOf(err)
		if kind.Fatal() {
			cfg.logger.Error("quota exhausted, halting", "playlist", req.SourceID, "video", item.VideoID, "added", result.Added)
			return halt(result, err)
		}

		skipped := SkippedItem{Item: item, Kind: kind, Err: err}
		result.Skipped = append(result.Skipped, skipped)
		cfg.logger.Warn("skipping video", "playlist", req.SourceID, "video", item.VideoID, "kind", kind, "reason", err)
		sendProgress(cfg.progress, skipItemUpdate(i+1, len(pending), skipped))
	}
	return result
}

func halt(r SyncResult, err error) SyncResult {
	r.Halted = true
	r.HaltErr = err
	return r
}
