package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytmigrate/internal/models"
	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/repositories"
	"github.com/desertthunder/ytmigrate/internal/services"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/desertthunder/ytmigrate/internal/tasks"
	tu "github.com/desertthunder/ytmigrate/internal/testing"
	"github.com/urfave/cli/v3"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// newTestRunner wires a runner to in-memory accounts, an in-memory history database and a temp progress dir.
func newTestRunner(t *testing.T, source, target *tu.MockService) (*Runner, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()

	config := shared.DefaultConfig()
	config.Migration.ProgressFile = filepath.Join(dir, "migration_status.txt")
	config.Migration.ReportDir = filepath.Join(dir, "reports")
	config.Credentials.ClientSecrets = filepath.Join(dir, "client_secret.json")
	config.Credentials.TokenDir = filepath.Join(dir, "tokens")

	db, err := shared.OpenHistory(shared.DatabaseConfig{Path: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	output := &bytes.Buffer{}
	opts := RunnerOpts{
		Config: config,
		DB:     db,
		Logger: shared.NewLogger(io.Discard),
		Output: output,
		Now:    func() time.Time { return fixedNow },
	}
	if source != nil {
		opts.Source = source
	}
	if target != nil {
		opts.Target = target
	}
	return NewRunner(opts), output
}

func runCLI(r *Runner, args ...string) error {
	app := &cli.Command{Name: "ytmigrate", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"ytmigrate"}, args...))
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			source := tu.NewMockService("source")
			target := tu.NewMockService("target")

			runner := NewRunner(RunnerOpts{
				Config: config,
				Logger: logger,
				Output: output,
				Source: source,
				Target: target,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.source != source {
				t.Error("expected source to be set")
			}
			if runner.target != target {
				t.Error("expected target to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to stdout")
			}
			if runner.now == nil {
				t.Error("expected default clock to be set")
			}
		})
	})

	t.Run("service", func(t *testing.T) {
		t.Run("returns provided services", func(t *testing.T) {
			source := tu.NewMockService("source")
			runner := NewRunner(RunnerOpts{Source: source})

			svc, err := runner.service(context.Background(), services.AccountSource)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if svc != source {
				t.Error("expected the provided source service")
			}
		})

		t.Run("connects once per account", func(t *testing.T) {
			calls := map[services.Account]int{}
			runner := NewRunner(RunnerOpts{
				Connect: func(ctx context.Context, account services.Account) (services.Service, error) {
					calls[account]++
					return tu.NewMockService(string(account)), nil
				},
			})

			for range 2 {
				svc, err := runner.service(context.Background(), services.AccountTarget)
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if svc.Name() != "target" {
					t.Errorf("expected target service, got %s", svc.Name())
				}
			}
			if calls[services.AccountTarget] != 1 || calls[services.AccountSource] != 0 {
				t.Errorf("unexpected connect calls %v", calls)
			}
		})

		t.Run("connect error", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{
				Connect: func(ctx context.Context, account services.Account) (services.Service, error) {
					return nil, shared.ErrNotAuthenticated
				},
			})

			_, err := runner.service(context.Background(), services.AccountSource)
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
			if runner.source != nil {
				t.Error("failed connections must not be cached")
			}
		})

		t.Run("without connect func", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})
			_, err := runner.service(context.Background(), services.AccountTarget)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			if err := runner.writePlain("test"); err == nil {
				t.Fatal("expected error from failing writer")
			}
			if err := runner.writeBytes([]byte("test")); err == nil {
				t.Fatal("expected error from failing writer")
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		var names []string
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names = append(names, cmd.Name)
		}

		expected := []string{"setup", "auth", "playlists", "migrate", "progress", "issues", "item"}
		if !slices.Equal(names, expected) {
			t.Errorf("expected commands %v, got %v", expected, names)
		}
	})
}

func TestSetupCommands(t *testing.T) {
	t.Run("setup config writes defaults once", func(t *testing.T) {
		runner, output := newTestRunner(t, nil, nil)
		path := filepath.Join(t.TempDir(), "config.toml")

		if err := runCLI(runner, "setup", "config", "--config", path); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		tu.AssertFileExists(t, path)
		if !strings.Contains(tu.MustReadFile(t, path), `prefix = "Migrated - "`) {
			t.Error("expected default prefix in written config")
		}
		if !strings.Contains(output.String(), "ytmigrate auth source") {
			t.Errorf("expected next steps, got %q", output.String())
		}

		if err := runCLI(runner, "setup", "config", "--config", path); err == nil {
			t.Error("expected error when config already exists")
		}
	})

	t.Run("setup database creates config and database", func(t *testing.T) {
		dir := t.TempDir()
		wd := tu.MustGetwd(t)
		tu.MustChdir(t, dir)
		t.Cleanup(func() { tu.MustChdir(t, wd) })

		runner, output := newTestRunner(t, nil, nil)
		runner.config.Database.Path = filepath.Join("data", "history.db")

		if err := runCLI(runner, "setup", "database"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "config.toml"))
		tu.AssertDirExists(t, filepath.Join(dir, "data"))
		tu.AssertFileExists(t, filepath.Join(dir, "data", "history.db"))
		if !strings.Contains(output.String(), "schema version") {
			t.Errorf("expected schema version in output, got %q", output.String())
		}
	})
}

func TestAuth(t *testing.T) {
	runner, _ := newTestRunner(t, nil, nil)

	t.Run("rejects unknown account", func(t *testing.T) {
		err := runCLI(runner, "auth", "bogus")
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("requires client secrets", func(t *testing.T) {
		err := runCLI(runner, "auth", "source")
		if !errors.Is(err, shared.ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}
	})
}

func TestPlaylists(t *testing.T) {
	source := tu.NewMockService("source").
		WithPlaylist("PL1", "Mix", "v1", "v2").
		WithPlaylist("PL2", "Jazz", "j1")

	t.Run("plain", func(t *testing.T) {
		runner, output := newTestRunner(t, source, nil)
		if err := runCLI(runner, "playlists"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		for _, want := range []string{"Found 2 playlists in the source account", "1. Mix", "ID: PL1 • 2 videos", "2. Jazz"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		runner, output := newTestRunner(t, source, nil)
		if err := runCLI(runner, "playlists", "--json", "--pretty=false"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var playlists []models.Playlist
		if err := json.Unmarshal(output.Bytes(), &playlists); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(playlists) != 2 || playlists[1].ID != "PL2" {
			t.Errorf("unexpected playlists %+v", playlists)
		}
	})

	t.Run("invalid account", func(t *testing.T) {
		runner, _ := newTestRunner(t, source, nil)
		if err := runCLI(runner, "playlists", "--account", "other"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("list failure", func(t *testing.T) {
		broken := tu.NewMockService("target")
		broken.ListErr = errors.New("boom")
		runner, _ := newTestRunner(t, nil, broken)

		if err := runCLI(runner, "playlists", "--account", "target"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})
}

func TestMigrateRun(t *testing.T) {
	t.Run("migrates, records and verifies", func(t *testing.T) {
		source := tu.NewMockService("source").WithPlaylist("PL1", "Mix", "v1", "v2", "v3")
		target := tu.NewMockService("target")
		runner, output := newTestRunner(t, source, target)

		if err := runCLI(runner, "migrate", "run"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if got := target.VideoIDs("target-pl-1"); !slices.Equal(got, []string{"v1", "v2", "v3"}) {
			t.Errorf("expected all videos copied, got %v", got)
		}
		if !slices.Equal(target.CreateCalls, []string{"Migrated - Mix"}) {
			t.Errorf("unexpected create calls %v", target.CreateCalls)
		}

		out := output.String()
		for _, want := range []string{"Migration Complete!", "Added: 3", "Playlists Fully Migrated (Complete): 1", "Verification report:"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}

		reports := runner.config.Migration.ReportDir
		for _, suffix := range []string{"_details.csv", "_missing.csv", "_summary.txt", ".json"} {
			tu.AssertFileExists(t, filepath.Join(reports, "verification_20240501_120000"+suffix))
		}

		store, err := progress.Load(runner.config.Migration.ProgressFile)
		if err != nil {
			t.Fatalf("failed to reload progress: %v", err)
		}
		if !store.IsFullyMigrated("PL1") {
			t.Error("expected PL1 fully migrated in progress file")
		}
		if st := store.State(); st.LastImportDate.String() != "2024-05-01" || st.MembersOnLastImportDate != 3 {
			t.Errorf("unexpected import counters %+v", st)
		}

		run, err := repositories.NewRunRepository(runner.db).Latest(models.RunMigrate)
		if err != nil || run == nil {
			t.Fatalf("expected a recorded run, got %v (%v)", run, err)
		}
		if run.Status() != models.RunCompleted || run.ItemsAdded() != 3 || run.PlaylistsDone() != 1 {
			t.Errorf("unexpected run %s added=%d done=%d", run.Status(), run.ItemsAdded(), run.PlaylistsDone())
		}
	})

	t.Run("second run is idempotent", func(t *testing.T) {
		source := tu.NewMockService("source").WithPlaylist("PL1", "Mix", "v1", "v2")
		target := tu.NewMockService("target")
		runner, output := newTestRunner(t, source, target)

		for range 2 {
			if err := runCLI(runner, "migrate", "run", "--no-verify"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		if len(target.AddCalls) != 2 || len(target.CreateCalls) != 1 {
			t.Errorf("expected 2 adds and 1 create, got %v and %v", target.AddCalls, target.CreateCalls)
		}
		if !strings.Contains(output.String(), string(tasks.PlaylistSkipped)) {
			t.Errorf("expected already migrated playlist on second run:\n%s", output.String())
		}
		if strings.Contains(output.String(), "Verification report:") {
			t.Error("--no-verify must not write a report")
		}
	})

	t.Run("quota halts and is reported", func(t *testing.T) {
		source := tu.NewMockService("source").
			WithPlaylist("PL1", "Mix", "v1", "v2", "v3").
			WithPlaylist("PL2", "Jazz", "j1")
		target := tu.NewMockService("target")
		target.AddErr = func(playlistID, videoID string) error {
			if videoID == "v2" {
				return fmt.Errorf("%w: daily limit", shared.ErrQuotaExceeded)
			}
			return nil
		}
		runner, output := newTestRunner(t, source, target)

		if err := runCLI(runner, "migrate", "run"); err != nil {
			t.Fatalf("a halted run is not a command error, got %v", err)
		}
		if !slices.Equal(target.AddCalls, []string{"v1", "v2"}) {
			t.Errorf("expected adds to stop at v2, got %v", target.AddCalls)
		}
		if !strings.Contains(output.String(), "Run halted") {
			t.Errorf("expected halt in output:\n%s", output.String())
		}

		output.Reset()
		if err := runCLI(runner, "issues", "list"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		out := output.String()
		if !strings.Contains(out, "Found 2 issues") || strings.Count(out, string(models.IssueHaltedPlaylist)) != 2 {
			t.Errorf("expected two halted playlist issues:\n%s", out)
		}

		output.Reset()
		if err := runCLI(runner, "issues", "runs", "--json"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var runs []runView
		if err := json.Unmarshal(output.Bytes(), &runs); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(runs) != 1 || runs[0].Status != string(models.RunHalted) || runs[0].ItemsAdded != 1 {
			t.Errorf("unexpected runs %+v", runs)
		}
	})

	t.Run("skipped videos are listed as issues", func(t *testing.T) {
		source := tu.NewMockService("source").WithPlaylist("PL1", "Mix", "v1", "gone", "v3")
		target := tu.NewMockService("target")
		target.AddErr = func(playlistID, videoID string) error {
			if videoID == "gone" {
				return fmt.Errorf("%w: deleted", shared.ErrVideoNotFound)
			}
			return nil
		}
		runner, output := newTestRunner(t, source, target)

		if err := runCLI(runner, "migrate", "run", "--no-verify"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		output.Reset()
		if err := runCLI(runner, "issues", "list", "--json", "--kind", string(models.IssueSkippedItem)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		var issues []issueView
		if err := json.Unmarshal(output.Bytes(), &issues); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(issues) != 1 {
			t.Fatalf("expected one issue, got %+v", issues)
		}
		if issues[0].VideoID != "gone" || issues[0].Reason != "video_not_found" || issues[0].WatchURL != shared.WatchURL("gone") {
			t.Errorf("unexpected issue %+v", issues[0])
		}
	})

	t.Run("dry run changes nothing", func(t *testing.T) {
		source := tu.NewMockService("source").WithPlaylist("PL1", "Mix", "v1", "v2")
		target := tu.NewMockService("target")
		runner, output := newTestRunner(t, source, target)

		if err := runCLI(runner, "migrate", "run", "--dry-run"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(target.CreateCalls) != 0 || len(target.AddCalls) != 0 {
			t.Errorf("dry run mutated target: %v %v", target.CreateCalls, target.AddCalls)
		}
		if _, err := os.Stat(runner.config.Migration.ProgressFile); !os.IsNotExist(err) {
			t.Error("dry run must not write the progress file")
		}
		if !strings.Contains(output.String(), string(tasks.PlaylistDryRun)) {
			t.Errorf("expected dry_run status:\n%s", output.String())
		}
	})

	t.Run("invalid selection", func(t *testing.T) {
		source := tu.NewMockService("source").WithPlaylist("PL1", "Mix", "v1")
		runner, _ := newTestRunner(t, source, tu.NewMockService("target"))

		if err := runCLI(runner, "migrate", "run", "--limit=-1"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if err := runCLI(runner, "migrate", "run", "--playlist", "nope"); !errors.Is(err, shared.ErrPlaylistNotFound) {
			t.Errorf("expected ErrPlaylistNotFound, got %v", err)
		}
	})
}

func TestMigrateVerify(t *testing.T) {
	source := tu.NewMockService("source").
		WithPlaylist("PL1", "Mix", "v1", "v2", "v3").
		WithPlaylist("PL2", "Jazz", "j1")
	target := tu.NewMockService("target").WithPlaylist("T1", "Migrated - Mix", "v1")

	t.Run("json", func(t *testing.T) {
		runner, output := newTestRunner(t, source, target)

		if err := runCLI(runner, "migrate", "verify", "--json", "--pretty=false"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var results []tasks.VerificationResult
		if err := json.Unmarshal(output.Bytes(), &results); err != nil {
			t.Fatalf("expected valid JSON, got %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if results[0].Status != tasks.StatusPartial || !slices.Equal(results[0].Missing, []string{"v2", "v3"}) {
			t.Errorf("unexpected first result %+v", results[0])
		}
		if results[1].Status != tasks.StatusTargetNotFound {
			t.Errorf("expected target not found for Jazz, got %s", results[1].Status)
		}

		run, err := repositories.NewRunRepository(runner.db).Latest(models.RunVerify)
		if err != nil || run == nil {
			t.Fatalf("expected a recorded verify run, got %v (%v)", run, err)
		}
		if run.Status() != models.RunCompleted || run.PlaylistsDone() != 2 {
			t.Errorf("unexpected verify run %s done=%d", run.Status(), run.PlaylistsDone())
		}
		if len(target.AddCalls) != 0 {
			t.Error("verify must not mutate the target")
		}
	})

	t.Run("plain with selection", func(t *testing.T) {
		runner, output := newTestRunner(t, source, target)

		if err := runCLI(runner, "migrate", "verify", "--playlist", "PL2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		out := output.String()
		if !strings.Contains(out, "Total Source Playlists Analyzed: 1") || !strings.Contains(out, "Jazz") || strings.Contains(out, "Mix") {
			t.Errorf("unexpected output:\n%s", out)
		}
		tu.AssertFileExists(t, filepath.Join(runner.config.Migration.ReportDir, "verification_20240501_120000_missing.csv"))
	})
}

func TestProgressShow(t *testing.T) {
	source := tu.NewMockService("source").WithPlaylist("PL1", "Mix", "v1", "v2")
	runner, output := newTestRunner(t, source, tu.NewMockService("target"))

	if err := runCLI(runner, "progress", "show"); err != nil {
		t.Fatalf("expected no error on missing file, got %v", err)
	}
	if !strings.Contains(output.String(), "Export date:            never") {
		t.Errorf("expected empty progress:\n%s", output.String())
	}

	if err := runCLI(runner, "migrate", "run", "--no-verify"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output.Reset()
	if err := runCLI(runner, "progress", "show", "--json"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var st progress.State
	if err := json.Unmarshal(output.Bytes(), &st); err != nil {
		t.Fatalf("expected valid JSON, got %v", err)
	}
	if st.TotalMembersMigrated != 2 || st.Records["PL1"].ImportedMembers != 2 || st.ExportDate.String() != "2024-05-01" {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestItemCommands(t *testing.T) {
	t.Run("delete", func(t *testing.T) {
		target := tu.NewMockService("target").WithPlaylist("T1", "Migrated - Mix", "x1", "x2")
		runner, output := newTestRunner(t, nil, target)

		if err := runCLI(runner, "item", "delete", "target-it-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := target.VideoIDs("T1"); !slices.Equal(got, []string{"x2"}) {
			t.Errorf("expected x1 removed, got %v", got)
		}
		if !strings.Contains(output.String(), "Deleted item target-it-1") {
			t.Errorf("unexpected output %q", output.String())
		}
	})

	t.Run("move", func(t *testing.T) {
		target := tu.NewMockService("target").WithPlaylist("T1", "Migrated - Mix", "x1", "x2", "x3")
		runner, _ := newTestRunner(t, nil, target)

		if err := runCLI(runner, "item", "move", "--position", "0", "target-it-3"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := target.VideoIDs("T1"); !slices.Equal(got, []string{"x3", "x1", "x2"}) {
			t.Errorf("unexpected order %v", got)
		}
	})

	t.Run("argument errors", func(t *testing.T) {
		runner, _ := newTestRunner(t, nil, tu.NewMockService("target"))

		if err := runCLI(runner, "item", "delete"); !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
		if err := runCLI(runner, "item", "move", "--position=-2", "x"); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestIssuesListEmpty(t *testing.T) {
	runner, output := newTestRunner(t, nil, nil)

	if err := runCLI(runner, "issues", "list"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(output.String(), "No migration runs recorded yet.") {
		t.Errorf("unexpected output %q", output.String())
	}

	output.Reset()
	if err := runCLI(runner, "issues", "runs"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(output.String(), "No runs recorded yet.") {
		t.Errorf("unexpected output %q", output.String())
	}
}

func TestPrintUpdate(t *testing.T) {
	tests := []struct {
		name   string
		update tasks.ProgressUpdate
		want   string
	}{
		{
			name:   "added item is indented",
			update: tasks.ProgressUpdate{Phase: tasks.AddItems, Message: "[1/2] + v1"},
			want:   "   [1/2] + v1\n",
		},
		{
			name:   "skipped item keeps a single marker",
			update: tasks.ProgressUpdate{Phase: tasks.SkipItem, Message: "[2/2] ✗ v2 (video_not_found)"},
			want:   "   [2/2] ✗ v2 (video_not_found)\n",
		},
		{
			name:   "halt is separated",
			update: tasks.ProgressUpdate{Phase: tasks.Halt, Message: "quota exceeded"},
			want:   "\n⚠ quota exceeded\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, output := newTestRunner(t, nil, nil)
			r.printUpdate(tt.update)
			if got := output.String(); got != tt.want {
				t.Errorf("printUpdate() = %q, want %q", got, tt.want)
			}
		})
	}
}
