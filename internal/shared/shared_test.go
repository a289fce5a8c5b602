package shared

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseLogLevel(t *testing.T) {
	tc := []struct {
		name  string
		level string
		want  log.Level
	}{
		{name: "debug", level: "debug", want: log.DebugLevel},
		{name: "mixed case warn", level: " WARN ", want: log.WarnLevel},
		{name: "warning alias", level: "warning", want: log.WarnLevel},
		{name: "error", level: "error", want: log.ErrorLevel},
		{name: "empty defaults to info", level: "", want: log.InfoLevel},
		{name: "unknown defaults to info", level: "verbose", want: log.InfoLevel},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseLogLevel(tt.level); got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLoggers(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf)
		logger.Info("hello", "k", "v")
		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "ytmigrate.log")
		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("failed to create file logger: %v", err)
		}
		logger.Info("written")
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected log file at %s: %v", path, err)
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == "" || a == b {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a, b)
	}
}

func TestWatchURL(t *testing.T) {
	if got := WatchURL("abc123"); got != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected watch URL %s", got)
	}
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	b, _ := GenerateState()

	if a == b {
		t.Error("expected distinct state tokens")
	}
	if strings.ContainsAny(a, "+/=") {
		t.Errorf("state should be URL safe, got %q", a)
	}
}

func TestBrowserCommand(t *testing.T) {
	const consent = "https://accounts.google.com/o/oauth2/auth?client_id=abc&state=xyz"

	tests := []struct {
		name     string
		goos     string
		url      string
		wantArgs []string
		wantErr  error
	}{
		{name: "darwin", goos: "darwin", url: consent, wantArgs: []string{"open", consent}},
		{name: "linux", goos: "linux", url: consent, wantArgs: []string{"xdg-open", consent}},
		{name: "windows keeps query intact", goos: "windows", url: consent, wantArgs: []string{"rundll32", "url.dll,FileProtocolHandler", consent}},
		{name: "unsupported platform", goos: "plan9", url: consent, wantErr: ErrBrowserUnavailable},
		{name: "non-http url", goos: "linux", url: "file:///etc/passwd", wantErr: ErrInvalidArgument},
		{name: "empty url", goos: "linux", url: "", wantErr: ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := browserCommand(tt.goos, tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("browserCommand() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(cmd.Args, tt.wantArgs) {
				t.Errorf("args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

func TestOpenBrowserUnsupportedPlatform(t *testing.T) {
	orig := getRuntime
	getRuntime = func() string { return "plan9" }
	t.Cleanup(func() { getRuntime = orig })

	if err := OpenBrowser("https://accounts.google.com/o/oauth2/auth"); !errors.Is(err, ErrBrowserUnavailable) {
		t.Errorf("OpenBrowser() error = %v, want ErrBrowserUnavailable", err)
	}
}
