package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/ytmigrate/internal/shared"
	"google.golang.org/api/googleapi"
)

// Error reasons reported by the YouTube Data API in error.errors[].reason.
const (
	reasonQuotaExceeded      = "quotaExceeded"
	reasonDailyLimitExceeded = "dailyLimitExceeded"
	reasonFailedPrecondition = "failedPrecondition"
	reasonVideoNotFound      = "videoNotFound"
	reasonPlaylistNotFound   = "playlistNotFound"
)

func hasReason(gerr *googleapi.Error, reason string) bool {
	for _, item := range gerr.Errors {
		if item.Reason == reason {
			return true
		}
	}
	return false
}

// classify maps a YouTube API failure onto the shared sentinel errors so callers can branch with errors.Is.
//
// The original error text is kept in the message. Errors that are not API errors are wrapped as [shared.ErrAPIRequest].
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}

	msg := strings.ToLower(gerr.Message)
	switch {
	case hasReason(gerr, reasonQuotaExceeded) || hasReason(gerr, reasonDailyLimitExceeded):
		return fmt.Errorf("%w: %s: %v", shared.ErrQuotaExceeded, op, err)
	case hasReason(gerr, reasonVideoNotFound),
		gerr.Code == http.StatusNotFound && strings.Contains(msg, "video not found"):
		return fmt.Errorf("%w: %s: %v", shared.ErrVideoNotFound, op, err)
	case gerr.Code == http.StatusBadRequest && (hasReason(gerr, reasonFailedPrecondition) || strings.Contains(msg, "precondition")):
		return fmt.Errorf("%w: %s: %v", shared.ErrPreconditionFailed, op, err)
	case hasReason(gerr, reasonPlaylistNotFound):
		return fmt.Errorf("%w: %s: %v", shared.ErrPlaylistNotFound, op, err)
	case gerr.Code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s: %v", shared.ErrNotAuthenticated, op, err)
	default:
		return fmt.Errorf("%w: %s: %v", shared.ErrAPIRequest, op, err)
	}
}
