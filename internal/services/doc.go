// Package services defines the [Service] interface for the remote playlist API and implements it on the YouTube Data API.
//
// # Service Interface
//
// Both accounts (source and target) are driven through the same abstraction. Listing is page based,
// and [FetchAll] normalizes continuation tokens into complete in-memory slices:
//   - [ListPlaylists] : every playlist of an account
//   - [ListItems] : every item of a playlist, in playlist order
//   - [FindPlaylistByTitle] : first playlist with an exact title
//
// # YouTube Implementation
//
// [YouTubeService] wraps the generated youtube/v3 client. Tests point it at an httptest server with
// [option.WithEndpoint] and [option.WithHTTPClient].
//
// # Authentication
//
// [Authenticator] loads the Google installed-app client secrets and stores one token file per [Account].
// [Authenticator.Client] returns an HTTP client that refreshes and writes back its token.
//
// # Error Handling
//
// API failures are mapped onto sentinel errors from the shared package:
//   - [shared.ErrQuotaExceeded] : quotaExceeded or dailyLimitExceeded; the migration halts
//   - [shared.ErrVideoNotFound] : 404 "video not found" or videoNotFound; the item is skipped
//   - [shared.ErrPreconditionFailed] : 400 failedPrecondition; the item is skipped
//   - [shared.ErrPlaylistNotFound] : playlistNotFound
//   - [shared.ErrNotAuthenticated] : 401 or missing token file
//   - [shared.ErrAPIRequest] : everything else
package services
