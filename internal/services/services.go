// package services defines interface Service for the remote playlist API
package services

import (
	"context"

	"github.com/desertthunder/ytmigrate/internal/models"
)

// Service is the remote playlist API for one authenticated account.
//
// Listing is exposed page by page; use [FetchAll] (or [ListPlaylists] and [ListItems]) to drain it.
type Service interface {
	// ListPlaylistsPage returns one page of the account's own playlists. An empty token requests the first page.
	ListPlaylistsPage(ctx context.Context, token string) (models.Page[models.Playlist], error)

	// ListItemsPage returns one page of a playlist's items in playlist order.
	ListItemsPage(ctx context.Context, playlistID, token string) (models.Page[models.PlaylistItem], error)

	// CreatePlaylist creates an empty playlist and returns it with its new ID.
	CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error)

	// AddItem appends a video to a playlist.
	//
	// Failures wrap shared.ErrVideoNotFound, shared.ErrPreconditionFailed or shared.ErrQuotaExceeded when classified.
	AddItem(ctx context.Context, playlistID, videoID string) error

	// DeleteItem removes a playlist item by its item ID (not its video ID).
	DeleteItem(ctx context.Context, itemID string) error

	// MoveItem moves a playlist item to a 0-based position.
	MoveItem(ctx context.Context, itemID string, position int) error

	// Name returns the account label ("source" or "target").
	Name() string
}

// ListPlaylists drains every page of the account's playlists.
func ListPlaylists(ctx context.Context, svc Service) ([]models.Playlist, error) {
	return FetchAll(ctx, svc.ListPlaylistsPage)
}

// ListItems drains every page of a playlist's items.
func ListItems(ctx context.Context, svc Service, playlistID string) ([]models.PlaylistItem, error) {
	return FetchAll(ctx, func(ctx context.Context, token string) (models.Page[models.PlaylistItem], error) {
		return svc.ListItemsPage(ctx, playlistID, token)
	})
}

// FindPlaylistByTitle returns the first playlist whose title matches exactly, or nil when there is none.
func FindPlaylistByTitle(ctx context.Context, svc Service, title string) (*models.Playlist, error) {
	playlists, err := ListPlaylists(ctx, svc)
	if err != nil {
		return nil, err
	}

	for i := range playlists {
		if playlists[i].Title == title {
			return &playlists[i], nil
		}
	}
	return nil, nil
}
