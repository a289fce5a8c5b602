// package formatter renders verification reports, run summaries and progress state to CSV, plain text and JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/shared"
	"github.com/desertthunder/ytmigrate/internal/tasks"
)

// TimestampLayout is used for the generation time printed in reports.
const TimestampLayout = "2006-01-02 15:04:05"

var (
	detailHeaders = []string{
		"Source Playlist Name",
		"Source Playlist ID",
		"Source Video Count",
		"Expected Target Name",
		"Target Playlist ID",
		"Target Video Count",
		"Migration Status",
		"Missing in Target Count",
		"Extra in Target Count",
		"Notes",
	}
	missingHeaders = []string{"Source Playlist Name", "Missing Video ID", "YouTube Link"}
)

// DetailsCSV renders one row per verified playlist.
func DetailsCSV(results []tasks.VerificationResult) ([]byte, error) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			r.SourceName,
			r.SourceID,
			strconv.Itoa(r.SourceCount),
			r.ExpectedName,
			r.TargetID,
			strconv.Itoa(r.TargetCount),
			string(r.Status),
			strconv.Itoa(len(r.Missing)),
			strconv.Itoa(len(r.Extra)),
			r.Notes,
		})
	}
	return writeCSV(detailHeaders, rows)
}

// MissingCSV renders one row per video missing from its target, with a watch link for manual follow-up.
func MissingCSV(results []tasks.VerificationResult) ([]byte, error) {
	var rows [][]string
	for _, r := range results {
		for _, id := range r.Missing {
			rows = append(rows, []string{r.SourceName, id, shared.WatchURL(id)})
		}
	}
	return writeCSV(missingHeaders, rows)
}

func writeCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// SummaryText renders the aggregate of a verification run.
func SummaryText(s tasks.Summary, generated time.Time) []byte {
	var buf bytes.Buffer

	buf.WriteString("Migration Verification Summary\n")
	buf.WriteString(fmt.Sprintf("Report Generated: %s\n\n", generated.Format(TimestampLayout)))
	buf.WriteString(fmt.Sprintf("Total Source Playlists Analyzed: %d\n", s.PlaylistsAnalyzed))
	buf.WriteString(fmt.Sprintf("Total Videos in Analyzed Source Playlists: %d\n", s.TotalSourceVideos))
	buf.WriteString(fmt.Sprintf("Total Videos Found in Corresponding Target Playlists: %d\n\n", s.TotalTargetVideos))
	buf.WriteString(fmt.Sprintf("Playlists Fully Migrated (Complete): %d\n", s.Complete))
	buf.WriteString(fmt.Sprintf("Playlists Partially Migrated: %d\n", s.Partial))
	buf.WriteString(fmt.Sprintf("Playlists Where Target Was Not Found: %d\n", s.TargetNotFound))
	buf.WriteString(fmt.Sprintf("Playlists With Fetch Errors: %d\n", s.FetchErrors))

	return buf.Bytes()
}

// Report is the JSON document of a verification run.
type Report struct {
	Generated string                     `json:"generated"`
	Summary   tasks.Summary              `json:"summary"`
	Results   []tasks.VerificationResult `json:"results"`
}

// ReportJSON renders results and their summary as indented JSON.
func ReportJSON(results []tasks.VerificationResult, generated time.Time) ([]byte, error) {
	if results == nil {
		results = []tasks.VerificationResult{}
	}
	return shared.MarshalJSON(Report{
		Generated: generated.Format(time.RFC3339),
		Summary:   tasks.Summarize(results),
		Results:   results,
	}, true)
}

// ReportFiles lists the files written by [WriteVerificationReport].
type ReportFiles struct {
	Details string
	Missing string
	Summary string
	JSON    string
}

// All returns every written path.
func (f ReportFiles) All() []string {
	return []string{f.Details, f.Missing, f.Summary, f.JSON}
}

// WriteVerificationReport writes the details, missing videos, summary and JSON files into dir.
//
// Files share the prefix verification_{yyyymmdd_hhmmss} so successive runs never overwrite each other.
func WriteVerificationReport(results []tasks.VerificationResult, dir string, generated time.Time) (*ReportFiles, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	base := filepath.Join(dir, "verification_"+generated.Format("20060102_150405"))
	files := &ReportFiles{
		Details: base + "_details.csv",
		Missing: base + "_missing.csv",
		Summary: base + "_summary.txt",
		JSON:    base + ".json",
	}

	details, err := DetailsCSV(results)
	if err != nil {
		return nil, fmt.Errorf("failed to generate details CSV: %w", err)
	}
	missing, err := MissingCSV(results)
	if err != nil {
		return nil, fmt.Errorf("failed to generate missing videos CSV: %w", err)
	}
	doc, err := ReportJSON(results, generated)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JSON report: %w", err)
	}

	contents := map[string][]byte{
		files.Details: details,
		files.Missing: missing,
		files.Summary: SummaryText(tasks.Summarize(results), generated),
		files.JSON:    doc,
	}
	for _, path := range files.All() {
		if err := os.WriteFile(path, contents[path], 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return files, nil
}

// RunText renders what a migration run did, including every skipped video and halted playlist.
func RunText(s *tasks.RunSummary) []byte {
	var buf bytes.Buffer

	for _, p := range s.Playlists {
		buf.WriteString(fmt.Sprintf("%-16s %s (%s)", p.Status, p.Source.Title, p.Source.ID))
		if p.Added > 0 || len(p.Skipped) > 0 {
			buf.WriteString(fmt.Sprintf(" +%d", p.Added))
			if len(p.Skipped) > 0 {
				buf.WriteString(fmt.Sprintf(" ~%d skipped", len(p.Skipped)))
			}
		}
		if p.Err != nil {
			buf.WriteString(fmt.Sprintf(": %v", p.Err))
		}
		buf.WriteString("\n")

		for _, sk := range p.Skipped {
			buf.WriteString(fmt.Sprintf("    ✗ %s [%s] %s\n", sk.Item.VideoID, sk.Kind, shared.WatchURL(sk.Item.VideoID)))
		}
	}

	buf.WriteString(fmt.Sprintf("\nAdded: %d  Skipped: %d  Halted playlists: %d\n", s.Added, s.Skipped, s.Halted))
	if s.HaltErr != nil {
		buf.WriteString(fmt.Sprintf("Run halted: %v\n", s.HaltErr))
	}
	return buf.Bytes()
}

// ProgressText renders a progress state for the terminal: global counters then one line per playlist.
func ProgressText(st progress.State) []byte {
	var buf bytes.Buffer

	date := func(d progress.Date) string {
		if d.IsZero() {
			return "never"
		}
		return d.String()
	}

	buf.WriteString(fmt.Sprintf("Export date:            %s\n", date(st.ExportDate)))
	buf.WriteString(fmt.Sprintf("Playlists in source:    %d\n", st.TotalPlaylistsInSource))
	buf.WriteString(fmt.Sprintf("Videos in source:       %d\n", st.TotalMembersInSource))
	buf.WriteString(fmt.Sprintf("Last import date:       %s\n", date(st.LastImportDate)))
	buf.WriteString(fmt.Sprintf("Playlists migrated:     %d\n", st.TotalPlaylistsMigrated))
	buf.WriteString(fmt.Sprintf("Videos migrated:        %d\n", st.TotalMembersMigrated))
	buf.WriteString(fmt.Sprintf("Videos on last import:  %d\n", st.MembersOnLastImportDate))

	ids := st.IDs()
	if len(ids) == 0 {
		return buf.Bytes()
	}

	buf.WriteString("\n")
	for _, id := range ids {
		rec := st.Records[id]
		mark := " "
		if rec.FullyMigrated() {
			mark = "✓"
		}
		buf.WriteString(fmt.Sprintf("%s %-36s %5d/%-5d %s\n", mark, id, rec.ImportedMembers, rec.TotalMembers, rec.Name))
	}
	return buf.Bytes()
}

// Percent formats done/total, treating an empty total as complete.
func Percent(done, total int) string {
	if total <= 0 {
		return "100%"
	}
	return strconv.Itoa(min(done*100/total, 100)) + "%"
}

// Truncate shortens s to n runes, marking the cut with an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
