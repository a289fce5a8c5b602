package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/ytmigrate/internal/formatter"
	"github.com/desertthunder/ytmigrate/internal/progress"
)

var _ list.Item = recordItem{}

// recordItem wraps one [progress.Record] to implement [list.Item].
type recordItem struct {
	id     string
	record progress.Record
}

func (i recordItem) FilterValue() string { return i.record.Name }
func (i recordItem) Title() string {
	if i.record.FullyMigrated() {
		return "✓ " + i.record.Name
	}
	return i.record.Name
}
func (i recordItem) Description() string {
	return fmt.Sprintf("%d/%d videos • %s • %s",
		i.record.ImportedMembers, i.record.TotalMembers,
		formatter.Percent(i.record.ImportedMembers, i.record.TotalMembers), i.id)
}

// recordItems lists the records of st sorted by playlist ID.
func recordItems(st progress.State) []list.Item {
	ids := st.IDs()
	items := make([]list.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, recordItem{id: id, record: st.Records[id]})
	}
	return items
}
