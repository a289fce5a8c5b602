package services

import (
	"errors"
	"testing"

	"github.com/desertthunder/ytmigrate/internal/shared"
	"google.golang.org/api/googleapi"
)

func TestClassify(t *testing.T) {
	apiErr := func(code int, message string, reasons ...string) error {
		gerr := &googleapi.Error{Code: code, Message: message}
		for _, r := range reasons {
			gerr.Errors = append(gerr.Errors, googleapi.ErrorItem{Reason: r, Message: message})
		}
		return gerr
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "quota", err: apiErr(403, "The request cannot be completed because you have exceeded your quota.", "quotaExceeded"), want: shared.ErrQuotaExceeded},
		{name: "daily limit", err: apiErr(403, "Daily Limit Exceeded", "dailyLimitExceeded"), want: shared.ErrQuotaExceeded},
		{name: "video not found by message", err: apiErr(404, "Video not found."), want: shared.ErrVideoNotFound},
		{name: "video not found by reason", err: apiErr(404, "Not found", "videoNotFound"), want: shared.ErrVideoNotFound},
		{name: "failed precondition", err: apiErr(400, "Precondition check failed.", "failedPrecondition"), want: shared.ErrPreconditionFailed},
		{name: "playlist not found", err: apiErr(404, "Playlist not found", "playlistNotFound"), want: shared.ErrPlaylistNotFound},
		{name: "unauthorized", err: apiErr(401, "Invalid Credentials", "authError"), want: shared.ErrNotAuthenticated},
		{name: "server error", err: apiErr(500, "Backend Error", "backendError"), want: shared.ErrAPIRequest},
		{name: "other 404", err: apiErr(404, "Channel not found"), want: shared.ErrAPIRequest},
		{name: "non-api error", err: errors.New("connection reset"), want: shared.ErrAPIRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("add item", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify() = %v, want wrapping %v", got, tt.want)
			}
		})
	}

	t.Run("nil", func(t *testing.T) {
		if err := classify("op", nil); err != nil {
			t.Errorf("expected nil, got %v", err)
		}
	})

	t.Run("kinds", func(t *testing.T) {
		if k := shared.KindOf(classify("op", apiErr(403, "quota", "quotaExceeded"))); !k.Fatal() {
			t.Errorf("quota error should be fatal, got %s", k)
		}
		if k := shared.KindOf(classify("op", apiErr(404, "Video not found."))); !k.Skippable() {
			t.Errorf("video not found should be skippable, got %s", k)
		}
	})
}
