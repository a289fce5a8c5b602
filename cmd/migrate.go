package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/ytmigrate/internal/formatter"
	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/repositories"
	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/desertthunder/ytmigrate/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MigrateRun migrates the selected source playlists into the target account.
func (r *Runner) MigrateRun(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.migrateOpts(cmd.Int("limit"), cmd.StringSlice("playlist"))
	if err != nil {
		return err
	}
	opts.DryRun = cmd.Bool("dry-run")
	opts.Verify = !cmd.Bool("no-verify")

	r.logger.Info("starting migration", "limit", opts.Limit, "playlists", len(opts.PlaylistIDs), "dry_run", opts.DryRun)
	if opts.DryRun {
		r.writePlain("Dry run: nothing will be created or added.\n\n")
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for update := range progressCh {
			r.printUpdate(update)
		}
	}()

	summary, files, err := r.migrate(ctx, progressCh, opts)
	close(progressCh)
	<-printed

	if err != nil {
		return err
	}

	r.writePlainln("")
	r.writePlainHeader("Migration Complete!")
	r.writeBytes(formatter.RunText(summary))

	if len(summary.Verification) > 0 {
		r.writePlainln("")
		r.writeBytes(formatter.SummaryText(tasks.Summarize(summary.Verification), r.now()))
	}
	r.printReportFiles(files)
	return nil
}

// MigrateVerify compares the selected source playlists with their targets and writes a report.
func (r *Runner) MigrateVerify(ctx context.Context, cmd *cli.Command) error {
	opts, err := r.migrateOpts(cmd.Int("limit"), cmd.StringSlice("playlist"))
	if err != nil {
		return err
	}

	results, files, err := r.verify(ctx, nil, opts)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, cmd.Bool("pretty"))
	}

	r.writeBytes(formatter.SummaryText(tasks.Summarize(results), r.now()))
	r.writePlain("\n")
	for _, res := range results {
		r.writePlain("%-26s %s (%d/%d)\n", res.Status, res.SourceName, res.TargetCount, res.SourceCount)
		if res.Notes != "" {
			r.writePlain("    %s\n", res.Notes)
		}
	}
	r.printReportFiles(files)
	return nil
}

func (r *Runner) migrateOpts(limit int, ids []string) (tasks.MigrateOpts, error) {
	privacy, err := models.ParsePrivacy(r.config.Migration.Privacy)
	if err != nil {
		return tasks.MigrateOpts{}, err
	}
	if limit < 0 {
		return tasks.MigrateOpts{}, fmt.Errorf("%w: --limit must not be negative", shared.ErrInvalidArgument)
	}

	return tasks.MigrateOpts{
		Naming:      tasks.Naming{Prefix: r.config.Migration.Prefix},
		Privacy:     privacy,
		Limit:       limit,
		PlaylistIDs: ids,
		Verify:      true,
		Pacer:       tasks.NewPacer(r.config.Migration.Delay()),
	}, nil
}

// migrate runs one recorded migration and writes its verification report.
//
// Shared by `migrate run` and the progress dashboard.
func (r *Runner) migrate(ctx context.Context, prog chan<- tasks.ProgressUpdate, opts tasks.MigrateOpts) (*tasks.RunSummary, *formatter.ReportFiles, error) {
	source, err := r.service(ctx, services.AccountSource)
	if err != nil {
		return nil, nil, err
	}
	target, err := r.service(ctx, services.AccountTarget)
	if err != nil {
		return nil, nil, err
	}
	store, err := r.loadStore()
	if err != nil {
		return nil, nil, err
	}
	db, err := r.history()
	if err != nil {
		return nil, nil, err
	}

	runs := repositories.NewRunRepository(db)
	run := models.NewRun(0, models.RunMigrate)
	if err := runs.Create(run); err != nil {
		return nil, nil, err
	}
	opts.RunID = run.ID()

	logger := shared.WithLogger(r.logger, "run", run.Sequence())
	migrator := tasks.NewMigrator(source, target, store, repositories.NewIssueRepository(db), logger)

	summary, err := migrator.Run(ctx, prog, opts)
	r.finishRun(runs, run, summary, err)
	if err != nil {
		return nil, nil, err
	}

	if len(summary.Verification) == 0 {
		return summary, nil, nil
	}

	files, err := formatter.WriteVerificationReport(summary.Verification, r.config.Migration.ReportDir, r.now())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("verification report written", "details", files.Details)
	return summary, files, nil
}

// verify runs one recorded verification of the selected playlists and writes its report.
func (r *Runner) verify(ctx context.Context, prog chan<- tasks.ProgressUpdate, opts tasks.MigrateOpts) ([]tasks.VerificationResult, *formatter.ReportFiles, error) {
	source, err := r.service(ctx, services.AccountSource)
	if err != nil {
		return nil, nil, err
	}
	target, err := r.service(ctx, services.AccountTarget)
	if err != nil {
		return nil, nil, err
	}
	db, err := r.history()
	if err != nil {
		return nil, nil, err
	}

	runs := repositories.NewRunRepository(db)
	run := models.NewRun(0, models.RunVerify)
	if err := runs.Create(run); err != nil {
		return nil, nil, err
	}

	migrator := tasks.NewMigrator(source, target, nil, nil, shared.WithLogger(r.logger, "run", run.Sequence()))

	playlists, err := migrator.SourcePlaylists(ctx, opts.Limit, opts.PlaylistIDs)
	if err != nil {
		r.finishRun(runs, run, nil, err)
		return nil, nil, err
	}
	run.SetPlaylistsTotal(len(playlists))

	results, err := migrator.Verify(ctx, prog, playlists, opts.Naming)
	if err != nil {
		r.finishRun(runs, run, nil, err)
		return nil, nil, err
	}
	run.SetPlaylistsDone(len(results))
	r.finishRun(runs, run, &tasks.RunSummary{}, nil)

	files, err := formatter.WriteVerificationReport(results, r.config.Migration.ReportDir, r.now())
	if err != nil {
		return nil, nil, err
	}
	return results, files, nil
}

// finishRun records the outcome of a run. Failures to record are logged only.
func (r *Runner) finishRun(runs *repositories.RunRepository, run *models.Run, summary *tasks.RunSummary, err error) {
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		run.Finish(models.RunHalted, err)
	case err != nil:
		run.Finish(models.RunFailed, err)
	case summary.HaltErr != nil:
		run.Finish(models.RunHalted, summary.HaltErr)
	default:
		run.Finish(models.RunCompleted, nil)
	}

	if summary != nil && run.Kind() == models.RunMigrate {
		done := 0
		for _, p := range summary.Playlists {
			if p.Status != tasks.PlaylistHalted {
				done++
			}
		}
		run.SetPlaylistsTotal(len(summary.Playlists))
		run.SetPlaylistsDone(done)
		run.SetItemsAdded(summary.Added)
		run.SetItemsSkipped(summary.Skipped)
	}

	if err := runs.Update(run); err != nil {
		r.logger.Warn("failed to record run", "run", run.ID(), "error", err)
	}
}

func (r *Runner) printUpdate(update tasks.ProgressUpdate) {
	switch update.Phase {
	case tasks.ScanSource, tasks.VerifyPlaylist:
		r.writePlain("📥 %s\n", update.Message)
	case tasks.SkipPlaylist:
		r.writePlain("⏭  %s\n", update.Message)
	case tasks.ResolveTarget:
		r.writePlain("\n📝 %s\n", update.Message)
	case tasks.FetchTarget, tasks.AddItems, tasks.SkipItem, tasks.SavePlaylist:
		r.writePlain("   %s\n", update.Message)
	case tasks.Halt:
		r.writePlain("\n⚠ %s\n", update.Message)
	}
}

func (r *Runner) printReportFiles(files *formatter.ReportFiles) {
	if files == nil {
		return
	}
	r.writePlainln("Verification report:")
	for _, f := range files.All() {
		r.writePlain("  %s\n", f)
	}
}
