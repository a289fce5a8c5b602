package tasks

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
)

// IssueReporter receives every individually reported problem of a run.
type IssueReporter interface {
	Report(ctx context.Context, issue *models.Issue) error
}

// PlaylistStatus is what a run did with one selected playlist.
type PlaylistStatus string

const (
	PlaylistMigrated PlaylistStatus = "migrated"
	PlaylistUpToDate PlaylistStatus = "up_to_date"
	PlaylistSkipped  PlaylistStatus = "already_migrated"
	PlaylistHalted   PlaylistStatus = "halted"
	PlaylistFailed   PlaylistStatus = "failed"
	PlaylistDryRun   PlaylistStatus = "dry_run"
)

// PlaylistReport is the outcome for one selected playlist.
type PlaylistReport struct {
	Source   models.Playlist
	TargetID string
	Created  bool
	Status   PlaylistStatus
	Added    int
	Skipped  []SkippedItem
	Err      error
}

// RunSummary is returned from [Migrator.Run].
type RunSummary struct {
	Playlists    []PlaylistReport
	Added        int
	Skipped      int
	Halted       int
	HaltErr      error
	Verification []VerificationResult
}

// MigrateOpts selects and parameterizes one migration run.
type MigrateOpts struct {
	RunID       string
	Naming      Naming
	Privacy     models.Privacy
	Limit       int      // First N source playlists; 0 migrates all
	PlaylistIDs []string // Explicit selection; overrides Limit
	DryRun      bool     // Count what would be added without mutating anything
	Verify      bool     // Verify the selected playlists afterwards
	Pacer       Pacer
}

// Migrator copies playlists from a source account to a target account.
//
// It is the only caller of the progress store during a run: the store is
// updated and persisted after every playlist that received items.
type Migrator struct {
	source services.Service
	target services.Service
	store  *progress.Store
	issues IssueReporter
	logger *log.Logger
}

// NewMigrator creates a [Migrator]. issues may be nil.
func NewMigrator(source, target services.Service, store *progress.Store, issues IssueReporter, logger *log.Logger) *Migrator {
	if logger == nil {
		logger = log.Default()
	}
	return &Migrator{source: source, target: target, store: store, issues: issues, logger: logger}
}

// Run scans the source account, migrates the selected playlists and optionally verifies them.
//
// Per-playlist failures are reported and the run continues. A quota failure
// halts every remaining playlist. Errors are returned only when the run cannot
// proceed at all: the source cannot be listed, the selection is invalid, or
// progress cannot be persisted.
func (m *Migrator) Run(ctx context.Context, prog chan<- ProgressUpdate, opts MigrateOpts) (*RunSummary, error) {
	if m.source == nil || m.target == nil {
		return nil, fmt.Errorf("%w: source and target services are required", shared.ErrServiceUnavailable)
	}
	if opts.Pacer == nil {
		opts.Pacer = noPacer{}
	}
	if opts.Privacy == "" {
		opts.Privacy = models.PrivacyPrivate
	}

	playlists, err := services.ListPlaylists(ctx, m.source)
	if err != nil {
		return nil, fmt.Errorf("failed to list source playlists: %w", err)
	}
	sendProgress(prog, scanSourceUpdate(len(playlists)))
	m.logger.Info("scanned source account", "playlists", len(playlists))

	selected, err := selectPlaylists(playlists, opts.Limit, opts.PlaylistIDs)
	if err != nil {
		return nil, err
	}

	if !opts.DryRun {
		for _, pl := range playlists {
			m.store.RecordSourceEntity(pl.ID, pl.Title, pl.ItemCount)
		}
		m.store.SetExportDate(m.store.Today())
		if err := m.store.Persist(); err != nil {
			return nil, err
		}
	}

	summary := &RunSummary{Playlists: make([]PlaylistReport, 0, len(selected))}
	for i, pl := range selected {
		step := i + 1
		if summary.HaltErr != nil {
			report := PlaylistReport{Source: pl, Status: PlaylistHalted, Err: summary.HaltErr}
			m.report(ctx, opts.RunID, models.IssueHaltedPlaylist, pl, "", summary.HaltErr)
			summary.Playlists = append(summary.Playlists, report)
			summary.Halted++
			continue
		}

		if m.store.IsFullyMigrated(pl.ID) {
			m.logger.Info("playlist already fully migrated, skipping", "playlist", pl.ID, "title", pl.Title)
			sendProgress(prog, skipPlaylistUpdate(step, len(selected), pl))
			summary.Playlists = append(summary.Playlists, PlaylistReport{Source: pl, Status: PlaylistSkipped})
			continue
		}

		report, err := m.migratePlaylist(ctx, prog, step, len(selected), pl, opts)
		if err != nil {
			return summary, err
		}

		summary.Playlists = append(summary.Playlists, report)
		summary.Added += report.Added
		summary.Skipped += len(report.Skipped)
		if report.Status == PlaylistHalted {
			summary.Halted++
			summary.HaltErr = report.Err
			sendProgress(prog, haltUpdate(report.Err))
		}
		sendProgress(prog, savePlaylistUpdate(step, len(selected), report))
	}

	switch {
	case !opts.Verify || opts.DryRun:
	case summary.HaltErr != nil:
		m.logger.Warn("skipping verification of a halted run", "error", summary.HaltErr)
	default:
		results, err := m.Verify(ctx, prog, selected, opts.Naming)
		if err != nil {
			m.logger.Error("verification failed", "error", err)
		}
		summary.Verification = results
	}

	sendProgress(prog, doneUpdate(*summary))
	return summary, nil
}

// migratePlaylist brings one target playlist in line with its source.
//
// The returned error is reserved for failures to persist progress.
func (m *Migrator) migratePlaylist(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	step, total int,
	pl models.Playlist,
	opts MigrateOpts,
) (PlaylistReport, error) {
	report := PlaylistReport{Source: pl}
	logger := shared.WithLogger(m.logger, "playlist", pl.ID)

	fail := func(err error) PlaylistReport {
		report.Err = err
		report.Status = PlaylistFailed
		kind := models.IssueFailedPlaylist
		if shared.KindOf(err).Fatal() || ctx.Err() != nil {
			report.Status = PlaylistHalted
			kind = models.IssueHaltedPlaylist
		}
		logger.Error("playlist migration failed", "title", pl.Title, "error", err)
		m.report(ctx, opts.RunID, kind, pl, "", err)
		return report
	}

	sourceItems, err := services.ListItems(ctx, m.source, pl.ID)
	if err != nil {
		return fail(fmt.Errorf("failed to list source items: %w", err)), nil
	}
	if !opts.DryRun {
		m.store.RecordSourceEntity(pl.ID, pl.Title, len(sourceItems))
	}

	name := opts.Naming.TargetName(pl.Title)
	target, err := services.FindPlaylistByTitle(ctx, m.target, name)
	if err != nil {
		return fail(fmt.Errorf("failed to search target playlists: %w", err)), nil
	}

	var targetItems []models.PlaylistItem
	switch {
	case target != nil:
		report.TargetID = target.ID
		if targetItems, err = services.ListItems(ctx, m.target, target.ID); err != nil {
			return fail(fmt.Errorf("failed to list target items: %w", err)), nil
		}
		sendProgress(prog, resolveTargetUpdate(step, total, name, false))
	case opts.DryRun:
		report.Created = true
	default:
		if err := opts.Pacer.Wait(ctx); err != nil {
			return fail(err), nil
		}
		if target, err = m.target.CreatePlaylist(ctx, name, pl.Description, opts.Privacy); err != nil {
			return fail(fmt.Errorf("failed to create target playlist: %w", err)), nil
		}
		report.TargetID = target.ID
		report.Created = true
		logger.Info("created target playlist", "title", name, "target", target.ID)
		sendProgress(prog, resolveTargetUpdate(step, total, name, true))
	}
	sendProgress(prog, fetchTargetUpdate(step, total, name, len(targetItems)))

	add := m.target.AddItem
	if opts.DryRun {
		add = func(context.Context, string, string) error { return nil }
	}

	res := Synchronize(ctx, SyncRequest{
		SourceID:    pl.ID,
		SourceItems: sourceItems,
		TargetID:    report.TargetID,
		TargetItems: targetItems,
	}, add, WithPacer(opts.Pacer), WithSyncLogger(logger), WithSyncProgress(prog))

	report.Added = res.Added
	report.Skipped = res.Skipped
	for _, sk := range res.Skipped {
		m.report(ctx, opts.RunID, models.IssueSkippedItem, pl, sk.Item.VideoID, sk.Err)
	}

	switch {
	case opts.DryRun:
		report.Status = PlaylistDryRun
		return report, nil
	case res.Halted:
		report.Status = PlaylistHalted
		report.Err = res.HaltErr
		m.report(ctx, opts.RunID, models.IssueHaltedPlaylist, pl, "", res.HaltErr)
	case res.Added > 0:
		report.Status = PlaylistMigrated
	default:
		report.Status = PlaylistUpToDate
	}

	if res.Added > 0 {
		if err := m.store.RecordMembersImported(pl.ID, res.Added); err != nil {
			logger.Warn("could not credit imported videos", "error", err)
		}
		if err := m.store.Persist(); err != nil {
			return report, err
		}
		logger.Info("progress saved", "added", res.Added, "skipped", len(res.Skipped))
	}
	return report, nil
}

// Verify re-reads both accounts and compares each playlist with its expected target.
func (m *Migrator) Verify(ctx context.Context, prog chan<- ProgressUpdate, playlists []models.Playlist, naming Naming) ([]VerificationResult, error) {
	targets, err := services.ListPlaylists(ctx, m.target)
	var resolve ResolveFunc
	if err != nil {
		m.logger.Warn("could not list target playlists", "error", err)
		resolve = func(context.Context, string) (*models.Playlist, error) { return nil, err }
	} else {
		byTitle := make(map[string]models.Playlist, len(targets))
		for _, t := range targets {
			if _, ok := byTitle[t.Title]; !ok {
				byTitle[t.Title] = t
			}
		}
		resolve = func(_ context.Context, name string) (*models.Playlist, error) {
			if t, ok := byTitle[name]; ok {
				return &t, nil
			}
			return nil, nil
		}
	}

	return VerifyAll(ctx, prog, playlists, VerifyAllOpts{
		Naming: naming,
		FetchSource: func(ctx context.Context, id string) ([]models.PlaylistItem, error) {
			return services.ListItems(ctx, m.source, id)
		},
		FetchTarget: func(ctx context.Context, id string) ([]models.PlaylistItem, error) {
			return services.ListItems(ctx, m.target, id)
		},
		Resolve: resolve,
		OnSourceError: func(pl models.Playlist, err error) {
			m.logger.Warn("could not list source playlist for verification", "playlist", pl.ID, "error", err)
		},
	})
}

// SourcePlaylists lists the source account and applies the selection rules of [MigrateOpts].
func (m *Migrator) SourcePlaylists(ctx context.Context, limit int, ids []string) ([]models.Playlist, error) {
	playlists, err := services.ListPlaylists(ctx, m.source)
	if err != nil {
		return nil, fmt.Errorf("failed to list source playlists: %w", err)
	}
	return selectPlaylists(playlists, limit, ids)
}

func (m *Migrator) report(ctx context.Context, runID string, kind models.IssueKind, pl models.Playlist, videoID string, cause error) {
	if m.issues == nil || cause == nil {
		return
	}

	issue := models.NewIssue(runID, kind, shared.KindOf(cause).String(), pl.ID, cause.Error())
	issue.SetPlaylistName(pl.Title)
	issue.SetVideoID(videoID)
	if err := m.issues.Report(context.WithoutCancel(ctx), issue); err != nil {
		m.logger.Warn("failed to record issue", "kind", kind, "playlist", pl.ID, "error", err)
	}
}

// selectPlaylists applies an explicit ID selection or a leading limit.
//
// IDs keep the order they were given in; unknown IDs are an error. A limit of 0 or beyond the count selects everything.
func selectPlaylists(playlists []models.Playlist, limit int, ids []string) ([]models.Playlist, error) {
	if len(ids) > 0 {
		byID := make(map[string]models.Playlist, len(playlists))
		for _, pl := range playlists {
			byID[pl.ID] = pl
		}

		selected := make([]models.Playlist, 0, len(ids))
		seen := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			pl, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: %s is not a source playlist", shared.ErrPlaylistNotFound, id)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			selected = append(selected, pl)
		}
		return selected, nil
	}

	if limit < 0 {
		return nil, fmt.Errorf("%w: limit must not be negative", shared.ErrInvalidArgument)
	}
	if limit == 0 || limit >= len(playlists) {
		return playlists, nil
	}
	return playlists[:limit], nil
}
