package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytmigrate/internal/models"
)

// NotFound is the target ID reported when no target playlist exists.
const NotFound = "Not Found"

// Status is the verification outcome for one source playlist.
type Status string

const (
	StatusComplete       Status = "Complete"
	StatusPartial        Status = "Partial"
	StatusTargetNotFound Status = "Target Playlist Not Found"
	StatusFetchError     Status = "Fetch Error"
)

// Naming derives target playlist names from source names.
type Naming struct {
	Prefix string
}

// TargetName is the name a migrated copy of source is expected to have.
func (n Naming) TargetName(source string) string {
	return n.Prefix + source
}

// ResolveFunc finds the target playlist with the given name. It returns nil, nil when there is none.
type ResolveFunc func(ctx context.Context, name string) (*models.Playlist, error)

// FetchItemsFunc lists every item of a playlist.
type FetchItemsFunc func(ctx context.Context, playlistID string) ([]models.PlaylistItem, error)

// VerificationResult compares one source playlist with its expected target.
type VerificationResult struct {
	SourceName   string   `json:"source_name"`
	SourceID     string   `json:"source_id"`
	SourceCount  int      `json:"source_count"`
	ExpectedName string   `json:"expected_target_name"`
	TargetID     string   `json:"target_id"`
	TargetCount  int      `json:"target_count"`
	Status       Status   `json:"status"`
	Missing      []string `json:"missing"`
	Extra        []string `json:"extra"`
	Notes        string   `json:"notes,omitempty"`
}

// Verify compares the source items against the current contents of the expected target.
//
// Missing is in source order and Extra in target order, both without duplicates.
// A failure to resolve or list the target yields [StatusFetchError] with empty sets.
func Verify(
	ctx context.Context,
	source models.Playlist,
	sourceItems []models.PlaylistItem,
	resolve ResolveFunc,
	fetch FetchItemsFunc,
	naming Naming,
) VerificationResult {
	sourceIDs := models.Fingerprints(sourceItems)
	res := VerificationResult{
		SourceName:   source.Title,
		SourceID:     source.ID,
		SourceCount:  len(sourceIDs),
		ExpectedName: naming.TargetName(source.Title),
		TargetID:     NotFound,
		Missing:      []string{},
		Extra:        []string{},
	}

	target, err := resolve(ctx, res.ExpectedName)
	if err != nil {
		res.Status = StatusFetchError
		res.Notes = "API error while searching for target playlist: " + err.Error()
		return res
	}
	if target == nil {
		res.Status = StatusTargetNotFound
		res.Missing = difference(sourceIDs, nil)
		res.Notes = "Expected target playlist was not found in the target account."
		return res
	}

	res.TargetID = target.ID
	targetItems, err := fetch(ctx, target.ID)
	if err != nil {
		res.Status = StatusFetchError
		res.Notes = "Found target playlist, but could not retrieve its videos: " + err.Error()
		return res
	}

	targetIDs := models.Fingerprints(targetItems)
	res.TargetCount = len(targetIDs)
	res.Missing = difference(sourceIDs, targetIDs)
	res.Extra = difference(targetIDs, sourceIDs)

	if len(res.Missing) == 0 && len(res.Extra) == 0 && res.SourceCount == res.TargetCount {
		res.Status = StatusComplete
		return res
	}

	res.Status = StatusPartial
	var notes []string
	if n := len(res.Missing); n > 0 {
		notes = append(notes, fmt.Sprintf("%d video(s) missing from target.", n))
	}
	if n := len(res.Extra); n > 0 {
		notes = append(notes, fmt.Sprintf("%d extra video(s) in target.", n))
	}
	if len(notes) == 0 {
		notes = append(notes, fmt.Sprintf("Video counts differ (%d in source, %d in target).", res.SourceCount, res.TargetCount))
	}
	res.Notes = strings.Join(notes, " ")
	return res
}

// difference returns the distinct elements of a that are not in b, in a's order.
func difference(a, b []string) []string {
	skip := make(map[string]struct{}, len(b)+len(a))
	for _, id := range b {
		skip[id] = struct{}{}
	}

	out := []string{}
	for _, id := range a {
		if _, ok := skip[id]; ok {
			continue
		}
		skip[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Summary aggregates a verification run.
type Summary struct {
	PlaylistsAnalyzed int `json:"playlists_analyzed"`
	TotalSourceVideos int `json:"total_source_videos"`
	TotalTargetVideos int `json:"total_target_videos"`
	Complete          int `json:"complete"`
	Partial           int `json:"partial"`
	TargetNotFound    int `json:"target_not_found"`
	FetchErrors       int `json:"fetch_errors"`
}

// Summarize totals results. Target videos are only counted where the target was found and listed.
func Summarize(results []VerificationResult) Summary {
	s := Summary{PlaylistsAnalyzed: len(results)}
	for _, r := range results {
		s.TotalSourceVideos += r.SourceCount
		switch r.Status {
		case StatusComplete:
			s.Complete++
			s.TotalTargetVideos += r.TargetCount
		case StatusPartial:
			s.Partial++
			s.TotalTargetVideos += r.TargetCount
		case StatusTargetNotFound:
			s.TargetNotFound++
		case StatusFetchError:
			s.FetchErrors++
		}
	}
	return s
}
