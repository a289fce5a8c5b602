// YouTube Data API v3 implementation of [Service]
//
// Uses the generated google.golang.org/api/youtube/v3 client. Listing is 50 per page, the API maximum.
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/ytmigrate/internal/models"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	defaultPageSize int64 = 50
	videoKind             = "youtube#video"
)

var (
	playlistParts = []string{"snippet", "contentDetails", "status"}
	itemParts     = []string{"snippet", "contentDetails"}
)

// YouTubeService implements [Service] for one YouTube account.
type YouTubeService struct {
	name     string
	api      *youtube.Service
	pageSize int64
}

// NewYouTubeService creates a service for the named account.
//
// Pass [option.WithHTTPClient] with an OAuth client (see [Authenticator.Client]); tests also pass [option.WithEndpoint].
func NewYouTubeService(ctx context.Context, name string, opts ...option.ClientOption) (*YouTubeService, error) {
	api, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	return &YouTubeService{name: name, api: api, pageSize: defaultPageSize}, nil
}

// Name returns the account label.
func (y *YouTubeService) Name() string {
	return y.name
}

// ListPlaylistsPage lists one page of the authenticated account's playlists.
func (y *YouTubeService) ListPlaylistsPage(ctx context.Context, token string) (models.Page[models.Playlist], error) {
	call := y.api.Playlists.List(playlistParts).Mine(true).MaxResults(y.pageSize)
	if token != "" {
		call = call.PageToken(token)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return models.Page[models.Playlist]{}, classify("list playlists", err)
	}

	page := models.Page[models.Playlist]{
		Items:     make([]models.Playlist, 0, len(resp.Items)),
		NextToken: resp.NextPageToken,
	}
	for _, p := range resp.Items {
		page.Items = append(page.Items, toPlaylist(p))
	}
	return page, nil
}

// ListItemsPage lists one page of a playlist's items.
func (y *YouTubeService) ListItemsPage(ctx context.Context, playlistID, token string) (models.Page[models.PlaylistItem], error) {
	call := y.api.PlaylistItems.List(itemParts).PlaylistId(playlistID).MaxResults(y.pageSize)
	if token != "" {
		call = call.PageToken(token)
	}

	resp, err := call.Context(ctx).Do()
	if err != nil {
		return models.Page[models.PlaylistItem]{}, classify("list playlist items", err)
	}

	page := models.Page[models.PlaylistItem]{
		Items:     make([]models.PlaylistItem, 0, len(resp.Items)),
		NextToken: resp.NextPageToken,
	}
	for _, it := range resp.Items {
		item, ok := toPlaylistItem(it)
		if !ok {
			continue
		}
		page.Items = append(page.Items, item)
	}
	return page, nil
}

// CreatePlaylist inserts a playlist with the given title, description and privacy.
func (y *YouTubeService) CreatePlaylist(ctx context.Context, title, description string, privacy models.Privacy) (*models.Playlist, error) {
	body := &youtube.Playlist{
		Snippet: &youtube.PlaylistSnippet{Title: title, Description: description},
		Status:  &youtube.PlaylistStatus{PrivacyStatus: string(privacy)},
	}

	created, err := y.api.Playlists.Insert([]string{"snippet", "status"}, body).Context(ctx).Do()
	if err != nil {
		return nil, classify("create playlist", err)
	}

	pl := toPlaylist(created)
	return &pl, nil
}

// AddItem appends videoID to the end of playlistID.
func (y *YouTubeService) AddItem(ctx context.Context, playlistID, videoID string) error {
	body := &youtube.PlaylistItem{
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &youtube.ResourceId{Kind: videoKind, VideoId: videoID},
		},
	}

	if _, err := y.api.PlaylistItems.Insert([]string{"snippet"}, body).Context(ctx).Do(); err != nil {
		return classify("add item", err)
	}
	return nil
}

// DeleteItem removes a playlist item.
func (y *YouTubeService) DeleteItem(ctx context.Context, itemID string) error {
	if err := y.api.PlaylistItems.Delete(itemID).Context(ctx).Do(); err != nil {
		return classify("delete item", err)
	}
	return nil
}

// MoveItem reads the item's snippet and rewrites it with a new position.
//
// The update call requires the playlist and resource IDs, so the item is fetched first.
func (y *YouTubeService) MoveItem(ctx context.Context, itemID string, position int) error {
	if position < 0 {
		return fmt.Errorf("position must not be negative (got %d)", position)
	}

	resp, err := y.api.PlaylistItems.List([]string{"snippet"}).Id(itemID).Context(ctx).Do()
	if err != nil {
		return classify("get item", err)
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return fmt.Errorf("playlist item %s not found", itemID)
	}

	current := resp.Items[0].Snippet
	body := &youtube.PlaylistItem{
		Id: itemID,
		Snippet: &youtube.PlaylistItemSnippet{
			PlaylistId: current.PlaylistId,
			ResourceId: current.ResourceId,
			Position:   int64(position),
		},
	}
	// Position 0 is the zero value and would be dropped from the request body otherwise.
	body.Snippet.ForceSendFields = []string{"Position"}

	if _, err := y.api.PlaylistItems.Update([]string{"snippet"}, body).Context(ctx).Do(); err != nil {
		return classify("move item", err)
	}
	return nil
}

func toPlaylist(p *youtube.Playlist) models.Playlist {
	pl := models.Playlist{ID: p.Id}
	if p.Snippet != nil {
		pl.Title = p.Snippet.Title
		pl.Description = p.Snippet.Description
	}
	if p.Status != nil {
		pl.Privacy = models.Privacy(strings.ToLower(p.Status.PrivacyStatus))
	}
	if p.ContentDetails != nil {
		pl.ItemCount = int(p.ContentDetails.ItemCount)
	}
	return pl
}

// toPlaylistItem converts an API item, reporting false when it carries no video ID.
func toPlaylistItem(it *youtube.PlaylistItem) (models.PlaylistItem, bool) {
	item := models.PlaylistItem{ID: it.Id}
	if it.Snippet != nil {
		item.PlaylistID = it.Snippet.PlaylistId
		item.Title = it.Snippet.Title
		item.Position = int(it.Snippet.Position)
		if it.Snippet.ResourceId != nil {
			item.VideoID = it.Snippet.ResourceId.VideoId
		}
	}
	if item.VideoID == "" && it.ContentDetails != nil {
		item.VideoID = it.ContentDetails.VideoId
	}
	return item, item.VideoID != ""
}
