package main

import (
	"context"
	"time"

	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/repositories"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/urfave/cli/v3"
)

// issueView is the JSON shape of a reported [models.Issue].
type issueView struct {
	ID           string    `json:"id"`
	RunID        string    `json:"run_id"`
	Kind         string    `json:"kind"`
	Reason       string    `json:"reason"`
	PlaylistID   string    `json:"playlist_id"`
	PlaylistName string    `json:"playlist_name,omitempty"`
	VideoID      string    `json:"video_id,omitempty"`
	WatchURL     string    `json:"watch_url,omitempty"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// runView is the JSON shape of a recorded [models.Run].
type runView struct {
	ID             string     `json:"id"`
	Sequence       int        `json:"sequence"`
	Kind           string     `json:"kind"`
	Status         string     `json:"status"`
	PlaylistsTotal int        `json:"playlists_total"`
	PlaylistsDone  int        `json:"playlists_done"`
	ItemsAdded     int        `json:"items_added"`
	ItemsSkipped   int        `json:"items_skipped"`
	Error          string     `json:"error,omitempty"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func newIssueView(i *models.Issue) issueView {
	v := issueView{
		ID:           i.ID(),
		RunID:        i.RunID(),
		Kind:         string(i.Kind()),
		Reason:       i.Reason(),
		PlaylistID:   i.PlaylistID(),
		PlaylistName: i.PlaylistName(),
		VideoID:      i.VideoID(),
		Message:      i.Message(),
		CreatedAt:    i.CreatedAt(),
	}
	if v.VideoID != "" {
		v.WatchURL = shared.WatchURL(v.VideoID)
	}
	return v
}

func newRunView(run *models.Run) runView {
	return runView{
		ID:             run.ID(),
		Sequence:       run.Sequence(),
		Kind:           string(run.Kind()),
		Status:         string(run.Status()),
		PlaylistsTotal: run.PlaylistsTotal(),
		PlaylistsDone:  run.PlaylistsDone(),
		ItemsAdded:     run.ItemsAdded(),
		ItemsSkipped:   run.ItemsSkipped(),
		Error:          run.ErrorMessage(),
		StartedAt:      run.StartedAt(),
		CompletedAt:    run.CompletedAt(),
	}
}

// IssuesList lists reported issues, by default those of the latest migrate run.
func (r *Runner) IssuesList(ctx context.Context, cmd *cli.Command) error {
	db, err := r.history()
	if err != nil {
		return err
	}

	runID := cmd.String("run")
	if runID == "" && !cmd.Bool("all") {
		latest, err := repositories.NewRunRepository(db).Latest(models.RunMigrate)
		if err != nil {
			return err
		}
		if latest == nil {
			return r.writePlain("No migration runs recorded yet.\n")
		}
		runID = latest.ID()
	}

	issues, err := repositories.NewIssueRepository(db).List(map[string]any{
		"run_id":      runID,
		"kind":        cmd.String("kind"),
		"playlist_id": cmd.String("playlist"),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]issueView, 0, len(issues))
		for _, i := range issues {
			views = append(views, newIssueView(i))
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(issues) == 0 {
		return r.writePlain("No issues reported.\n")
	}

	r.writePlain("Found %d issues:\n\n", len(issues))
	for _, i := range issues {
		r.writePlain("%-16s [%s] %s (%s)\n", i.Kind(), i.Reason(), i.PlaylistName(), i.PlaylistID())
		if i.VideoID() != "" {
			r.writePlain("    %s %s\n", i.VideoID(), shared.WatchURL(i.VideoID()))
		}
		r.writePlain("    %s\n", i.Message())
	}
	return nil
}

// IssuesRuns lists recorded runs newest first.
func (r *Runner) IssuesRuns(ctx context.Context, cmd *cli.Command) error {
	db, err := r.history()
	if err != nil {
		return err
	}

	runs, err := repositories.NewRunRepository(db).List(map[string]any{"limit": cmd.Int("limit")})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		views := make([]runView, 0, len(runs))
		for _, run := range runs {
			views = append(views, newRunView(run))
		}
		return r.writeJSON(views, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		return r.writePlain("No runs recorded yet.\n")
	}

	for _, run := range runs {
		started := ""
		if run.StartedAt() != nil {
			started = run.StartedAt().Format("2006-01-02 15:04:05")
		}
		r.writePlain("#%-4d %-8s %-10s %s  playlists %d/%d  +%d ~%d  %s\n",
			run.Sequence(), run.Kind(), run.Status(), started,
			run.PlaylistsDone(), run.PlaylistsTotal(), run.ItemsAdded(), run.ItemsSkipped(), run.ID())
		if run.ErrorMessage() != "" {
			r.writePlain("      %s\n", run.ErrorMessage())
		}
	}
	return nil
}
