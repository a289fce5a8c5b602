package models

import (
	"fmt"
)

// IssueKind classifies what a run could not finish.
type IssueKind string

const (
	IssueSkippedItem    IssueKind = "skipped_item"    // one video could not be added and was passed over
	IssueHaltedPlaylist IssueKind = "halted_playlist" // the run stopped before or during this playlist
	IssueFailedPlaylist IssueKind = "failed_playlist" // fetching or creating the playlist failed
)

// Issue is one individually reported problem of a [Run].
//
// Reason holds the error kind name (see shared.ErrorKind) so issues can be grouped without parsing messages.
type Issue struct {
	timestamps
	id           string
	sequence     int
	runID        string
	kind         IssueKind
	reason       string
	playlistID   string
	playlistName string
	videoID      string
	message      string
}

// NewIssue creates an [Issue] for a run.
func NewIssue(runID string, kind IssueKind, reason, playlistID, message string) *Issue {
	return &Issue{
		timestamps: newTimestamps(),
		runID:      runID,
		kind:       kind,
		reason:     reason,
		playlistID: playlistID,
		message:    message,
	}
}

func (i *Issue) ID() string { return i.id }
func (i *Issue) Sequence() int { return i.sequence }
func (i *Issue) RunID() string { return i.runID }
func (i *Issue) Kind() IssueKind { return i.kind }
func (i *Issue) Reason() string { return i.reason }
func (i *Issue) PlaylistID() string { return i.playlistID }
func (i *Issue) PlaylistName() string { return i.playlistName }
func (i *Issue) VideoID() string { return i.videoID }
func (i *Issue) Message() string { return i.message }
func (i *Issue) SetID(id string) { i.id = id }
func (i *Issue) SetSequence(n int) { i.sequence = n }
func (i *Issue) SetPlaylistName(name string) { i.playlistName = name }
func (i *Issue) SetVideoID(id string) { i.videoID = id }

// Validate checks required fields; skipped items must name their video.
func (i *Issue) Validate() error {
	if i.runID == "" {
		return fmt.Errorf("issue requires a run ID")
	}
	if i.playlistID == "" {
		return fmt.Errorf("issue requires a playlist ID")
	}
	if i.message == "" {
		return fmt.Errorf("issue requires a message")
	}

	switch i.kind {
	case IssueSkippedItem:
		if i.videoID == "" {
			return fmt.Errorf("skipped item issue requires a video ID")
		}
	case IssueHaltedPlaylist, IssueFailedPlaylist:
	default:
		return fmt.Errorf("invalid issue kind %q", i.kind)
	}
	return nil
}
