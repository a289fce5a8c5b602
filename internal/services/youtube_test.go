package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/shared"
	tu "github.com/desertthunder/ytmigrate/internal/testing"
	"google.golang.org/api/option"
)

// newTestService points the real YouTube client at an httptest server.
func newTestService(t *testing.T, handler http.HandlerFunc) *YouTubeService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewYouTubeService(context.Background(), "source",
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	return svc
}

func writeAPIError(w http.ResponseWriter, code int, message, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    code,
			"message": message,
			"errors":  []map[string]any{{"reason": reason, "message": message}},
		},
	})
}

func TestYouTubeService(t *testing.T) {
	t.Run("Name", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {})
		if svc.Name() != "source" {
			t.Errorf("expected name source, got %s", svc.Name())
		}
	})

	t.Run("ListPlaylistsPage", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/playlists") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Method != http.MethodGet {
				t.Errorf("expected GET method, got %s", r.Method)
			}

			q := r.URL.Query()
			if q.Get("mine") != "true" {
				t.Error("expected mine=true")
			}
			if q.Get("maxResults") != "50" {
				t.Errorf("expected maxResults=50, got %s", q.Get("maxResults"))
			}

			w.Header().Set("Content-Type", "application/json")
			if q.Get("pageToken") == "" {
				json.NewEncoder(w).Encode(map[string]any{
					"nextPageToken": "page2",
					"items": []map[string]any{{
						"id":             "PL1",
						"snippet":        map[string]any{"title": "Music", "description": "songs"},
						"status":         map[string]any{"privacyStatus": "public"},
						"contentDetails": map[string]any{"itemCount": 12},
					}},
				})
				return
			}

			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{{"id": "PL2", "snippet": map[string]any{"title": "Talks"}}},
			})
		})

		playlists, err := ListPlaylists(context.Background(), svc)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(playlists) != 2 {
			t.Fatalf("expected 2 playlists, got %d", len(playlists))
		}

		first := playlists[0]
		if first.ID != "PL1" || first.Title != "Music" || first.Description != "songs" {
			t.Errorf("unexpected first playlist %+v", first)
		}
		if first.Privacy != models.PrivacyPublic {
			t.Errorf("expected public privacy, got %s", first.Privacy)
		}
		if first.ItemCount != 12 {
			t.Errorf("expected item count 12, got %d", first.ItemCount)
		}
		if playlists[1].ID != "PL2" {
			t.Errorf("expected second playlist PL2, got %s", playlists[1].ID)
		}
	})

	t.Run("ListItems", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/playlistItems") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.URL.Query().Get("playlistId") != "PL1" {
				t.Errorf("expected playlistId=PL1, got %s", r.URL.Query().Get("playlistId"))
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"items": []map[string]any{
					{
						"id": "item1",
						"snippet": map[string]any{
							"playlistId": "PL1", "title": "First", "position": 0,
							"resourceId": map[string]any{"kind": "youtube#video", "videoId": "v1"},
						},
					},
					{
						"id":             "item2",
						"snippet":        map[string]any{"playlistId": "PL1", "title": "Second", "position": 1},
						"contentDetails": map[string]any{"videoId": "v2"},
					},
					{
						"id":      "item3",
						"snippet": map[string]any{"playlistId": "PL1", "title": "Deleted video", "position": 2},
					},
				},
			})
		})

		items, err := ListItems(context.Background(), svc, "PL1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(items) != 2 {
			t.Fatalf("expected 2 items (one without a video dropped), got %d", len(items))
		}
		if items[0].VideoID != "v1" || items[0].ID != "item1" || items[0].Position != 0 {
			t.Errorf("unexpected first item %+v", items[0])
		}
		if items[1].VideoID != "v2" || items[1].Position != 1 {
			t.Errorf("expected content details video ID fallback, got %+v", items[1])
		}
	})

	t.Run("CreatePlaylist", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}

			var body struct {
				Snippet struct {
					Title       string `json:"title"`
					Description string `json:"description"`
				} `json:"snippet"`
				Status struct {
					PrivacyStatus string `json:"privacyStatus"`
				} `json:"status"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if body.Snippet.Title != "Migrated - Music" {
				t.Errorf("unexpected title %s", body.Snippet.Title)
			}
			if body.Status.PrivacyStatus != "private" {
				t.Errorf("unexpected privacy %s", body.Status.PrivacyStatus)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"id":      "PLnew",
				"snippet": body.Snippet,
				"status":  body.Status,
			})
		})

		pl, err := svc.CreatePlaylist(context.Background(), "Migrated - Music", "copied", models.PrivacyPrivate)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if pl.ID != "PLnew" || pl.Title != "Migrated - Music" || pl.Privacy != models.PrivacyPrivate {
			t.Errorf("unexpected playlist %+v", pl)
		}
	})

	t.Run("AddItem", func(t *testing.T) {
		var gotVideo, gotPlaylist string
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Snippet struct {
					PlaylistID string `json:"playlistId"`
					ResourceID struct {
						Kind    string `json:"kind"`
						VideoID string `json:"videoId"`
					} `json:"resourceId"`
				} `json:"snippet"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			gotVideo = body.Snippet.ResourceID.VideoID
			gotPlaylist = body.Snippet.PlaylistID

			switch gotVideo {
			case "gone":
				writeAPIError(w, http.StatusNotFound, "Video not found.", "videoNotFound")
			case "blocked":
				writeAPIError(w, http.StatusBadRequest, "Precondition check failed.", "failedPrecondition")
			case "quota":
				writeAPIError(w, http.StatusForbidden, "The request cannot be completed because you have exceeded your quota.", "quotaExceeded")
			default:
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, `{"id":"newitem"}`)
			}
		})

		ctx := context.Background()
		if err := svc.AddItem(ctx, "PL1", "v1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotVideo != "v1" || gotPlaylist != "PL1" {
			t.Errorf("unexpected request video=%s playlist=%s", gotVideo, gotPlaylist)
		}

		tests := []struct {
			video string
			want  error
		}{
			{video: "gone", want: shared.ErrVideoNotFound},
			{video: "blocked", want: shared.ErrPreconditionFailed},
			{video: "quota", want: shared.ErrQuotaExceeded},
		}
		for _, tt := range tests {
			if err := svc.AddItem(ctx, "PL1", tt.video); !errors.Is(err, tt.want) {
				t.Errorf("AddItem(%s) = %v, want %v", tt.video, err, tt.want)
			}
		}
	})

	t.Run("DeleteItem", func(t *testing.T) {
		var gotID string
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE method, got %s", r.Method)
			}
			gotID = r.URL.Query().Get("id")
			w.WriteHeader(http.StatusNoContent)
		})

		if err := svc.DeleteItem(context.Background(), "item1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotID != "item1" {
			t.Errorf("expected id=item1, got %s", gotID)
		}
	})

	t.Run("MoveItem", func(t *testing.T) {
		var putBody map[string]any
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			switch r.Method {
			case http.MethodGet:
				if r.URL.Query().Get("id") != "item2" {
					t.Errorf("expected id=item2, got %s", r.URL.Query().Get("id"))
				}
				json.NewEncoder(w).Encode(map[string]any{
					"items": []map[string]any{{
						"id": "item2",
						"snippet": map[string]any{
							"playlistId": "PL1", "position": 1,
							"resourceId": map[string]any{"kind": "youtube#video", "videoId": "v2"},
						},
					}},
				})
			case http.MethodPut:
				json.NewDecoder(r.Body).Decode(&putBody)
				io.WriteString(w, `{"id":"item2"}`)
			default:
				t.Errorf("unexpected method %s", r.Method)
			}
		})

		if err := svc.MoveItem(context.Background(), "item2", 0); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		snippet, _ := putBody["snippet"].(map[string]any)
		if snippet == nil {
			t.Fatal("expected snippet in update body")
		}
		if pos, ok := snippet["position"].(float64); !ok || pos != 0 {
			t.Errorf("expected position 0 to be sent, got %v", snippet["position"])
		}
		if snippet["playlistId"] != "PL1" {
			t.Errorf("expected playlistId PL1, got %v", snippet["playlistId"])
		}
	})

	t.Run("MoveItem rejects negative position", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		})
		if err := svc.MoveItem(context.Background(), "item", -1); err == nil {
			t.Error("expected error for negative position")
		}
	})

	t.Run("MoveItem unknown item", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"items":[]}`)
		})
		if err := svc.MoveItem(context.Background(), "missing", 0); err == nil {
			t.Error("expected error for unknown item")
		}
	})

	t.Run("list error is classified", func(t *testing.T) {
		svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
			writeAPIError(w, http.StatusForbidden, "quota", "quotaExceeded")
		})

		_, err := ListItems(context.Background(), svc, "PL1")
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("expected ErrQuotaExceeded, got %v", err)
		}
	})
}

func TestFindPlaylistByTitle(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"items":[{"id":"PL1","snippet":{"title":"Music"}},{"id":"PL2","snippet":{"title":"Migrated - Music"}}]}`)
	})

	found, err := FindPlaylistByTitle(context.Background(), svc, "Migrated - Music")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if found == nil || found.ID != "PL2" {
		t.Errorf("expected PL2, got %+v", found)
	}

	missing, err := FindPlaylistByTitle(context.Background(), svc, "Nope")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing title, got %+v", missing)
	}
}

func TestYouTubeServiceTransportFailures(t *testing.T) {
	newService := func(t *testing.T, rt http.RoundTripper) *YouTubeService {
		t.Helper()
		svc, err := NewYouTubeService(context.Background(), "target",
			option.WithEndpoint("http://youtube.invalid/"),
			option.WithHTTPClient(&http.Client{Transport: rt}),
		)
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}
		return svc
	}

	t.Run("round trip error", func(t *testing.T) {
		svc := newService(t, tu.NewMockRoundTripper(nil, errors.New("connection refused")))

		err := svc.AddItem(context.Background(), "PL1", "v1")
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected ErrAPIRequest, got %v", err)
		}
		if kind := shared.KindOf(err); kind != shared.KindTransport {
			t.Errorf("expected transport kind, got %s", kind)
		}
	})

	t.Run("unreadable body", func(t *testing.T) {
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/json"}},
			Body:       &tu.FCloser{},
		}
		svc := newService(t, tu.NewMockRoundTripper(resp, nil))

		_, err := svc.ListPlaylistsPage(context.Background(), "")
		if err == nil {
			t.Fatal("expected error from unreadable body")
		}
		if !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}
