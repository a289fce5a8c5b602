package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// ErrBrowserUnavailable means the consent page has to be opened by hand.
	ErrBrowserUnavailable = fmt.Errorf("browser unavailable")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")

	// Classified add-item failures
	ErrVideoNotFound      = fmt.Errorf("video not found")
	ErrPreconditionFailed = fmt.Errorf("precondition failed")
	ErrQuotaExceeded      = fmt.Errorf("quota exceeded")

	// Progress store errors
	ErrUnknownPlaylist = fmt.Errorf("unknown playlist")
	ErrCorruptRecord   = fmt.Errorf("corrupt progress record")

	// Input validation errors
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)

// ErrorKind is the closed set of failure classes the migration engine acts on.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindTransport
	KindVideoNotFound
	KindPreconditionFailed
	KindQuotaExceeded
	KindCorruptRecord
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindVideoNotFound:
		return "video_not_found"
	case KindPreconditionFailed:
		return "precondition_failed"
	case KindQuotaExceeded:
		return "quota_exceeded"
	case KindCorruptRecord:
		return "corrupt_record"
	default:
		return "unknown"
	}
}

// Skippable reports whether a failure of this kind only affects the item it happened on.
func (k ErrorKind) Skippable() bool {
	return k == KindVideoNotFound || k == KindPreconditionFailed || k == KindTransport
}

// Fatal reports whether a failure of this kind must halt the whole run.
func (k ErrorKind) Fatal() bool {
	return k == KindQuotaExceeded
}

// KindOf classifies err by the sentinel it wraps.
//
// Anything not explicitly classified is a [KindTransport] failure.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrQuotaExceeded):
		return KindQuotaExceeded
	case errors.Is(err, ErrVideoNotFound):
		return KindVideoNotFound
	case errors.Is(err, ErrPreconditionFailed):
		return KindPreconditionFailed
	case errors.Is(err, ErrCorruptRecord):
		return KindCorruptRecord
	default:
		return KindTransport
	}
}
