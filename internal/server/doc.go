// Package server provides the local HTTP plumbing for the OAuth installed-app flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [BasicRouter.Apply] wraps handlers so the first middleware added is the outermost and runs first.
// [RequestLogger] is the only middleware in use.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # OAuth Callback Handler
//
// [OAuthHandler] implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the authorization code for tokens,
// and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// `ytmigrate auth source` and `ytmigrate auth target` start a [NewCallbackServer] on localhost at the
// configured redirect port, open the Google consent page, wait for the callback, and shut the server down
// once the token has been received.
package server
