package progress

import (
	"sort"
)

// Record is the progress of one source playlist.
type Record struct {
	Name            string `json:"name"`
	TotalMembers    int    `json:"total_members"`
	ImportedMembers int    `json:"imported_members"`
}

// FullyMigrated reports whether every item of a non-empty playlist has been imported.
func (r Record) FullyMigrated() bool {
	return r.TotalMembers > 0 && r.ImportedMembers >= r.TotalMembers
}

// Remaining returns how many items are still expected, never negative.
func (r Record) Remaining() int {
	return max(r.TotalMembers-r.ImportedMembers, 0)
}

// State is the whole content of the progress file.
type State struct {
	ExportDate              Date              `json:"export_date"`
	TotalPlaylistsInSource  int               `json:"total_playlists_in_source"`
	TotalMembersInSource    int               `json:"total_members_in_source"`
	LastImportDate          Date              `json:"last_import_date"`
	TotalPlaylistsMigrated  int               `json:"total_playlists_migrated"`
	TotalMembersMigrated    int               `json:"total_members_migrated"`
	MembersOnLastImportDate int               `json:"members_on_last_import_date"`
	Records                 map[string]Record `json:"records"`
}

// NewState returns an empty state.
func NewState() State {
	return State{Records: map[string]Record{}}
}

// Clone returns a copy that shares no map with s.
func (s State) Clone() State {
	c := s
	c.Records = make(map[string]Record, len(s.Records))
	for id, r := range s.Records {
		c.Records[id] = r
	}
	return c
}

// IDs returns the record IDs in ascending order.
func (s State) IDs() []string {
	ids := make([]string, 0, len(s.Records))
	for id := range s.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// recomputeSource refreshes the source totals from the records.
func (s *State) recomputeSource() {
	total := 0
	for _, r := range s.Records {
		total += r.TotalMembers
	}
	s.TotalPlaylistsInSource = len(s.Records)
	s.TotalMembersInSource = total
}

// recomputeMigrated refreshes the fully migrated playlist count from the records.
func (s *State) recomputeMigrated() {
	n := 0
	for _, r := range s.Records {
		if r.FullyMigrated() {
			n++
		}
	}
	s.TotalPlaylistsMigrated = n
}
