package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/shared"
)

const issueColumns = `
	id, sequence, run_id, kind, reason, playlist_id, playlist_name,
	video_id, message, created_at, updated_at, deleted_at`

// IssueRepository implements models.Repository[*models.Issue] for issues reported by runs.
//
// It also satisfies tasks.IssueReporter so a migrator can write issues as they happen.
type IssueRepository struct {
	db *sql.DB
}

var _ models.Repository[*models.Issue] = (*IssueRepository)(nil)

// NewIssueRepository creates a new IssueRepository with the given database connection
func NewIssueRepository(db *sql.DB) *IssueRepository {
	return &IssueRepository{db: db}
}

// Report records an issue; ctx bounds the insert.
func (r *IssueRepository) Report(ctx context.Context, issue *models.Issue) error {
	return r.create(ctx, issue)
}

// Create inserts a new issue with a generated ID and sequence
func (r *IssueRepository) Create(issue *models.Issue) error {
	return r.create(context.Background(), issue)
}

func (r *IssueRepository) create(ctx context.Context, issue *models.Issue) error {
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	sequence, err := NextSequence(r.db, "issues")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}
	id := shared.GenerateID()

	query := `
		INSERT INTO issues (
			id, sequence, run_id, kind, reason, playlist_id, playlist_name,
			video_id, message, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		sequence,
		issue.RunID(),
		issue.Kind(),
		issue.Reason(),
		issue.PlaylistID(),
		nullString(issue.PlaylistName()),
		nullString(issue.VideoID()),
		issue.Message(),
		issue.CreatedAt(),
		issue.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert issue: %w", err)
	}

	issue.SetID(id)
	issue.SetSequence(sequence)
	return nil
}

// Get retrieves an issue by ID, excluding soft-deleted issues
func (r *IssueRepository) Get(id string) (*models.Issue, error) {
	query := `SELECT` + issueColumns + ` FROM issues WHERE id = ? AND deleted_at IS NULL`

	issue, err := scanIssue(r.db.QueryRow(query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("issue not found: %s", id)
	}
	return issue, err
}

// Update rewrites the reason and message of an issue
func (r *IssueRepository) Update(issue *models.Issue) error {
	if err := issue.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	issue.SetUpdatedAt(now)

	result, err := r.db.Exec(
		`UPDATE issues SET reason = ?, message = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		issue.Reason(), issue.Message(), now, issue.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}
	return expectAffected(result, "issue", issue.ID())
}

// Delete soft-deletes an issue by ID
func (r *IssueRepository) Delete(id string) error {
	result, err := r.db.Exec(`UPDATE issues SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete issue: %w", err)
	}
	return expectAffected(result, "issue", id)
}

// List retrieves issues in the order they were reported.
//
// Supported criteria: "run_id", "kind" and "playlist_id" (strings).
func (r *IssueRepository) List(criteria map[string]any) ([]*models.Issue, error) {
	query := `SELECT` + issueColumns + ` FROM issues WHERE deleted_at IS NULL`
	args := []any{}

	for _, col := range []string{"run_id", "kind", "playlist_id"} {
		if v, ok := criteria[col].(string); ok && v != "" {
			query += " AND " + col + " = ?"
			args = append(args, v)
		}
	}
	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query issues: %w", err)
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return issues, nil
}

// scanIssue scans a single row from [sql.Row] or [sql.Rows] into a [models.Issue]
func scanIssue(row rowScanner) (*models.Issue, error) {
	var (
		id           string
		sequence     int
		runID        string
		kind         string
		reason       string
		playlistID   string
		playlistName sql.NullString
		videoID      sql.NullString
		message      string
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(
		&id, &sequence, &runID, &kind, &reason, &playlistID, &playlistName,
		&videoID, &message, &createdAt, &updatedAt, &deletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan issue: %w", err)
	}

	issue := models.NewIssue(runID, models.IssueKind(kind), reason, playlistID, message)
	issue.SetID(id)
	issue.SetSequence(sequence)
	issue.SetPlaylistName(playlistName.String)
	issue.SetVideoID(videoID.String)
	issue.SetCreatedAt(createdAt)
	issue.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		issue.SetDeletedAt(&deletedAt.Time)
	}
	return issue, nil
}
