package models

import (
	"fmt"
	"strings"
)

// Privacy is the visibility of a playlist.
type Privacy string

const (
	PrivacyPrivate  Privacy = "private"
	PrivacyPublic   Privacy = "public"
	PrivacyUnlisted Privacy = "unlisted"
)

// ParsePrivacy validates a privacy name case-insensitively.
func ParsePrivacy(s string) (Privacy, error) {
	switch p := Privacy(strings.ToLower(strings.TrimSpace(s))); p {
	case PrivacyPrivate, PrivacyPublic, PrivacyUnlisted:
		return p, nil
	default:
		return "", fmt.Errorf("unknown privacy status %q", s)
	}
}

// Playlist represents a playlist in either account.
type Playlist struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Privacy     Privacy `json:"privacy,omitempty"`
	ItemCount   int     `json:"item_count"` // as reported by the remote, may lag the real listing
}

// PlaylistItem is one entry of a playlist.
//
// VideoID is the fingerprint used to compare source and target: two items are the same iff their video IDs match.
type PlaylistItem struct {
	ID         string `json:"id"`
	PlaylistID string `json:"playlist_id"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title,omitempty"`
	Position   int    `json:"position"`
}

// Page is one page of a paginated listing.
//
// An empty NextToken marks the last page.
type Page[T any] struct {
	Items     []T
	NextToken string
}

// Fingerprints returns the video IDs of items in order.
func Fingerprints(items []PlaylistItem) []string {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.VideoID)
	}
	return ids
}
