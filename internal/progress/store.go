package progress

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytmigrate/internal/shared"
)

// Store owns the in-memory [State] of one progress file.
//
// A Store is not safe for concurrent use; a run has a single thread of control.
type Store struct {
	path     string
	state    State
	warnings []error
	now      func() time.Time
	logger   *log.Logger
}

// Option configures a [Store].
type Option func(*Store)

// WithClock sets the clock used for import dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for load warnings and unknown playlist warnings.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Load reads the progress file at path.
//
// A missing file yields an empty state. Corrupt content degrades as described in [Decode] and each problem is logged
// as a warning. Other read errors are returned, since persisting over an unreadable file would destroy it.
func Load(path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, state: NewState(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = shared.NewLogger(nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no progress file, starting fresh", "path", path)
			return s, nil
		}
		return nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	state, warnings, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.logger.Warn("ignoring corrupt progress data", "path", path, "error", w)
	}

	s.state = state
	s.warnings = warnings
	return s, nil
}

// Path returns the progress file path.
func (s *Store) Path() string {
	return s.path
}

// Warnings returns the corruption warnings found while loading.
func (s *Store) Warnings() []error {
	return s.warnings
}

// State returns a copy of the current state.
func (s *Store) State() State {
	return s.state.Clone()
}

// Record returns the record for id.
func (s *Store) Record(id string) (Record, bool) {
	r, ok := s.state.Records[id]
	return r, ok
}

// IsFullyMigrated reports whether id is known and fully migrated.
func (s *Store) IsFullyMigrated(id string) bool {
	r, ok := s.state.Records[id]
	return ok && r.FullyMigrated()
}

// RecordSourceEntity upserts the source playlist id with its current name and item count.
//
// The imported count of an existing record is kept, so re-scanning the source never resets progress.
// Negative totals are stored as 0.
func (s *Store) RecordSourceEntity(id, name string, total int) {
	rec := s.state.Records[id]
	rec.Name = normalizeName(name)
	rec.TotalMembers = max(total, 0)
	s.state.Records[id] = rec

	s.state.recomputeSource()
	s.state.recomputeMigrated()
}

// RecordMembersImported credits count newly added items to playlist id.
//
// Counts of zero or less are ignored. An unknown id returns [shared.ErrUnknownPlaylist] and changes nothing.
func (s *Store) RecordMembersImported(id string, count int) error {
	if count <= 0 {
		return nil
	}

	rec, ok := s.state.Records[id]
	if !ok {
		s.logger.Warn("recording imported items for unknown playlist", "playlist", id, "count", count)
		return fmt.Errorf("%w: %s", shared.ErrUnknownPlaylist, id)
	}

	rec.ImportedMembers += count
	s.state.Records[id] = rec

	today := DateOf(s.now())
	if s.state.LastImportDate.Equal(today) {
		s.state.MembersOnLastImportDate += count
	} else {
		s.state.MembersOnLastImportDate = count
	}
	s.state.LastImportDate = today
	s.state.TotalMembersMigrated += count
	s.state.recomputeMigrated()
	return nil
}

// SetExportDate records the first export of the source. Once set it never changes.
func (s *Store) SetExportDate(date Date) {
	if date.IsZero() || !s.state.ExportDate.IsZero() {
		return
	}
	s.state.ExportDate = date
}

// Today returns the store clock's current date.
func (s *Store) Today() Date {
	return DateOf(s.now())
}

// Persist atomically rewrites the progress file with the full current state.
//
// The state is written to a temporary file in the same directory, synced and renamed over the old file.
// On failure the previous file is left untouched.
func (s *Store) Persist() error {
	var buf bytes.Buffer
	if err := Encode(&buf, s.state); err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create progress directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary progress file: %w", err)
	}
	tmpPath := tmp.Name()

	cleanup := func(cause error) error {
		tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			s.logger.Warn("failed to clean up temporary progress file", "path", tmpPath, "error", rmErr)
		}
		return cause
	}

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return cleanup(fmt.Errorf("failed to write temporary progress file: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("failed to sync temporary progress file: %w", err))
	}
	if err := tmp.Chmod(0644); err != nil {
		return cleanup(fmt.Errorf("failed to set progress file permissions: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return cleanup(fmt.Errorf("failed to close temporary progress file: %w", err))
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		return cleanup(fmt.Errorf("failed to replace progress file: %w", err))
	}

	s.logger.Debug("progress saved", "path", s.path, "playlists", len(s.state.Records))
	return nil
}

// normalizeName keeps a name on one line so it survives the line-oriented format.
func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return unknownName
	}
	return name
}
