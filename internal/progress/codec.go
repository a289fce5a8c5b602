package progress

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/desertthunder/ytmigrate/internal/shared"
)

const (
	headerLine  = "# Playlist Migration Progress"
	detailsLine = "# Playlist Details"

	keyExportDate        = "Export Date"
	keyPlaylistsInSource = "Total Playlists in Source"
	keyMembersInSource   = "Total Members in Source"
	keyLastImportDate    = "Last Import Date"
	keyPlaylistsMigrated = "Total Playlists Migrated"
	keyMembersMigrated   = "Total Members Migrated"
	keyMembersOnLastDate = "Members Migrated on Last Import Date"

	keyName     = "Name"
	keyTotal    = "Total Members"
	keyImported = "Imported Members"

	unknownName = "Unknown Playlist"
)

// legacyKeys maps keys written by the older tool onto the current ones.
var legacyKeys = map[string]string{
	"Total Playlists in Source Account": keyPlaylistsInSource,
	"Total Videos in Source Account":    keyMembersInSource,
	"Total Videos Migrated":             keyMembersMigrated,
	"Daily Videos Imported":             keyMembersOnLastDate,
	"Total Videos":                      keyTotal,
	"Imported Videos":                   keyImported,
}

// detailPattern matches "[id] Key: Value".
var detailPattern = regexp.MustCompile(`^\[(.*?)\]\s*(.*?):\s*(.*)$`)

func canonicalKey(k string) string {
	if c, ok := legacyKeys[k]; ok {
		return c
	}
	return k
}

// Encode writes s in the progress file format. Records are written in ID order.
func Encode(w io.Writer, s State) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, headerLine)
	if !s.ExportDate.IsZero() {
		fmt.Fprintf(bw, "%s: %s\n", keyExportDate, s.ExportDate)
	}
	fmt.Fprintf(bw, "%s: %d\n", keyPlaylistsInSource, s.TotalPlaylistsInSource)
	fmt.Fprintf(bw, "%s: %d\n", keyMembersInSource, s.TotalMembersInSource)
	if !s.LastImportDate.IsZero() {
		fmt.Fprintf(bw, "%s: %s\n", keyLastImportDate, s.LastImportDate)
	}
	fmt.Fprintf(bw, "%s: %d\n", keyPlaylistsMigrated, s.TotalPlaylistsMigrated)
	fmt.Fprintf(bw, "%s: %d\n", keyMembersMigrated, s.TotalMembersMigrated)
	fmt.Fprintf(bw, "%s: %d\n", keyMembersOnLastDate, s.MembersOnLastImportDate)

	if len(s.Records) > 0 {
		fmt.Fprintf(bw, "\n%s\n", detailsLine)
		for _, id := range s.IDs() {
			r := s.Records[id]
			fmt.Fprintf(bw, "[%s] %s: %s\n", id, keyName, r.Name)
			fmt.Fprintf(bw, "[%s] %s: %d\n", id, keyTotal, r.TotalMembers)
			fmt.Fprintf(bw, "[%s] %s: %d\n", id, keyImported, r.ImportedMembers)
		}
	}

	return bw.Flush()
}

// Decode parses the progress file format.
//
// Corruption never fails the decode. A bad value in the global section yields an empty state; a bad playlist record is
// dropped. Each problem is returned as a warning wrapping [shared.ErrCorruptRecord]. Only read errors are returned as err.
func Decode(r io.Reader) (state State, warnings []error, err error) {
	global := map[string]string{}
	details := map[string]map[string]string{}
	var order []string

	inDetails := false
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			switch line {
			case detailsLine:
				inDetails = true
			case headerLine:
				inDetails = false
			}
			continue
		}

		if inDetails {
			m := detailPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			id := strings.TrimSpace(m[1])
			if id == "" {
				continue
			}
			if _, ok := details[id]; !ok {
				details[id] = map[string]string{}
				order = append(order, id)
			}
			details[id][canonicalKey(strings.TrimSpace(m[2]))] = strings.TrimSpace(m[3])
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		global[canonicalKey(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return NewState(), nil, fmt.Errorf("failed to read progress file: %w", err)
	}

	state, gerr := decodeGlobal(global)
	if gerr != nil {
		return NewState(), []error{gerr}, nil
	}

	for _, id := range order {
		rec, rerr := decodeRecord(id, details[id])
		if rerr != nil {
			warnings = append(warnings, rerr)
			continue
		}
		state.Records[id] = rec
	}
	return state, warnings, nil
}

func decodeGlobal(kv map[string]string) (State, error) {
	s := NewState()

	dates := []struct {
		key string
		dst *Date
	}{
		{keyExportDate, &s.ExportDate},
		{keyLastImportDate, &s.LastImportDate},
	}
	for _, d := range dates {
		v, ok := kv[d.key]
		if !ok || v == "" {
			continue
		}
		parsed, err := ParseDate(v)
		if err != nil {
			return NewState(), fmt.Errorf("%w: global %q: %v", shared.ErrCorruptRecord, d.key, err)
		}
		*d.dst = parsed
	}

	counters := []struct {
		key string
		dst *int
	}{
		{keyPlaylistsInSource, &s.TotalPlaylistsInSource},
		{keyMembersInSource, &s.TotalMembersInSource},
		{keyPlaylistsMigrated, &s.TotalPlaylistsMigrated},
		{keyMembersMigrated, &s.TotalMembersMigrated},
		{keyMembersOnLastDate, &s.MembersOnLastImportDate},
	}
	for _, c := range counters {
		v, ok := kv[c.key]
		if !ok {
			continue
		}
		n, err := parseCount(v)
		if err != nil {
			return NewState(), fmt.Errorf("%w: global %q: %v", shared.ErrCorruptRecord, c.key, err)
		}
		*c.dst = n
	}
	return s, nil
}

func decodeRecord(id string, kv map[string]string) (Record, error) {
	rec := Record{Name: unknownName}
	if name, ok := kv[keyName]; ok && name != "" {
		rec.Name = name
	}

	var err error
	if v, ok := kv[keyTotal]; ok {
		if rec.TotalMembers, err = parseCount(v); err != nil {
			return Record{}, fmt.Errorf("%w: playlist %s %q: %v", shared.ErrCorruptRecord, id, keyTotal, err)
		}
	}
	if v, ok := kv[keyImported]; ok {
		if rec.ImportedMembers, err = parseCount(v); err != nil {
			return Record{}, fmt.Errorf("%w: playlist %s %q: %v", shared.ErrCorruptRecord, id, keyImported, err)
		}
	}
	return rec, nil
}

// parseCount parses a non-negative decimal integer.
func parseCount(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
