package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmigrate/internal/formatter"
	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	DashboardView ViewState = iota
	DetailView
	ConfirmView
	MigrateView
	ResultView
)

// maxLogLines bounds the scrolling log shown while a run is in progress.
const maxLogLines = 8

// RunFunc starts a migration run that reports through prog.
type RunFunc func(ctx context.Context, prog chan<- tasks.ProgressUpdate) (*tasks.RunSummary, error)

// Options wires the dashboard to the rest of the program. Both funcs are optional.
type Options struct {
	Reload  func() (progress.State, error) // re-read the progress file
	Migrate RunFunc                        // enables the migrate key
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	opts         Options
	state        progress.State
	width        int
	height       int
	records      list.Model
	selected     *recordItem
	progressChan chan tasks.ProgressUpdate
	done         chan runComplete
	progress     tasks.ProgressUpdate
	log          []string
	result       *tasks.RunSummary
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a dashboard over state.
func NewModel(ctx context.Context, state progress.State, opts Options) *Model {
	m := &Model{
		ctx:    ctx,
		view:   DashboardView,
		opts:   opts,
		help:   help.New(),
		keys:   newKeyMap(),
		width:  80,
		height: 24,
	}
	m.setState(state)
	return m
}

// Init does nothing; the initial state is supplied to [NewModel].
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.records.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case DashboardView:
			return m.handleDashboardKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case MigrateView:
			if key.Matches(msg, m.keys.quit) && msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	var cmd tea.Cmd
	if m.view == DashboardView {
		m.records, cmd = m.records.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgStateLoaded:
		data := msg.data.(stateLoaded)
		if data.err != nil {
			m.err = data.err
			return m, nil
		}
		m.err = nil
		m.setState(data.state)
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		m.log = append(m.log, m.progress.Message)
		if len(m.log) > maxLogLines {
			m.log = m.log[len(m.log)-maxLogLines:]
		}
		return m, m.waitForProgress()

	case MsgRunComplete:
		data := msg.data.(runComplete)
		m.result = data.summary
		m.err = data.err
		m.progressChan = nil
		m.done = nil
		m.view = ResultView
		return m, m.reload()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case DashboardView:
		return m.renderDashboard()
	case DetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case MigrateView:
		return m.renderMigrate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) setState(st progress.State) {
	m.state = st
	index := m.records.Index()
	m.records = list.New(recordItems(st), list.NewDefaultDelegate(), m.width-4, m.height-12)
	m.records.Title = "Playlists"
	m.records.SetShowHelp(false)
	if index < len(m.records.Items()) {
		m.records.Select(index)
	}
}

func (m *Model) handleDashboardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.records.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.records, cmd = m.records.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.records.SelectedItem().(recordItem); ok {
			m.selected = &item
			m.view = DetailView
		}
		return m, nil
	case key.Matches(msg, m.keys.migrate):
		if m.opts.Migrate != nil {
			m.view = ConfirmView
		}
		return m, nil
	case key.Matches(msg, m.keys.refresh):
		return m, m.reload()
	}

	var cmd tea.Cmd
	m.records, cmd = m.records.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = DashboardView
		m.selected = nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.yes):
		m.view = MigrateView
		return m, m.startRun()
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.quit):
		m.view = DashboardView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back), key.Matches(msg, m.keys.enter):
		m.view = DashboardView
		m.result = nil
		m.err = nil
		m.log = nil
	}
	return m, nil
}

func (m *Model) reload() tea.Cmd {
	if m.opts.Reload == nil {
		return nil
	}
	return func() tea.Msg {
		st, err := m.opts.Reload()
		return stateLoadedMsg(st, err)
	}
}

func (m *Model) startRun() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	m.done = make(chan runComplete, 1)
	ch, done := m.progressChan, m.done

	go func() {
		summary, err := m.opts.Migrate(m.ctx, ch)
		done <- runComplete{summary, err}
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	ch, done := m.progressChan, m.done
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			res := <-done
			return runCompleteMsg(res.summary, res.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderDashboard() string {
	st := m.state
	title := styles.title.Render("Playlist Migration Progress")

	export, last := "never", "never"
	if !st.ExportDate.IsZero() {
		export = st.ExportDate.String()
	}
	if !st.LastImportDate.IsZero() {
		last = st.LastImportDate.String()
	}

	stats := styles.box.Render(fmt.Sprintf(
		"Playlists %d/%d migrated   Videos %d/%d %s\nExported %s   Last import %s (%d videos)",
		st.TotalPlaylistsMigrated, st.TotalPlaylistsInSource,
		st.TotalMembersMigrated, st.TotalMembersInSource,
		bar(st.TotalMembersMigrated, st.TotalMembersInSource, 20),
		export, last, st.MembersOnLastImportDate,
	))

	var errLine string
	if m.err != nil {
		errLine = "\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	if m.opts.Migrate != nil {
		helpKeys = []key.Binding{m.keys.enter, m.keys.migrate, m.keys.refresh, m.keys.quit}
	}
	return fmt.Sprintf("%s\n%s%s\n\n%s\n\n%s", title, stats, errLine, m.records.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderDetail() string {
	if m.selected == nil {
		return ""
	}
	rec := m.selected.record
	title := styles.title.Render(rec.Name)

	status := styles.warn.Render(fmt.Sprintf("%d video(s) remaining", rec.Remaining()))
	if rec.FullyMigrated() {
		status = styles.ok.Render("✓ Fully migrated")
	}

	info := fmt.Sprintf("Playlist ID: %s\nImported:    %d of %d (%s)\n%s\n\n%s",
		m.selected.id, rec.ImportedMembers, rec.TotalMembers,
		formatter.Percent(rec.ImportedMembers, rec.TotalMembers),
		bar(rec.ImportedMembers, rec.TotalMembers, 30), status)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit}))
}

func (m *Model) renderConfirm() string {
	remaining := 0
	for _, r := range m.state.Records {
		if !r.FullyMigrated() {
			remaining++
		}
	}

	title := styles.title.Render("Migrate remaining playlists?")
	info := fmt.Sprintf("%d of %d recorded playlist(s) are not fully migrated.\nThe run stops at the first quota error.",
		remaining, len(m.state.Records))
	helpKeys := []key.Binding{m.keys.yes, m.keys.no}
	return fmt.Sprintf("%s\n%s\n\n%s", title, info, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderMigrate() string {
	title := styles.title.Render("Migrating")

	phase := "Starting..."
	switch m.progress.Phase {
	case tasks.ScanSource:
		phase = "Scanning source account..."
	case tasks.ResolveTarget, tasks.FetchTarget:
		phase = fmt.Sprintf("Preparing playlist %d/%d", m.progress.Step, m.progress.Total)
	case tasks.AddItems, tasks.SkipItem:
		phase = fmt.Sprintf("Adding videos %d/%d %s", m.progress.Step, m.progress.Total,
			bar(m.progress.Step, m.progress.Total, 20))
	case tasks.SavePlaylist:
		phase = "Saving progress..."
	case tasks.VerifyPlaylist:
		phase = fmt.Sprintf("Verifying %d/%d", m.progress.Step, m.progress.Total)
	case tasks.Halt:
		phase = styles.warn.Render("Halting...")
	}

	lines := make([]string, 0, len(m.log))
	for _, l := range m.log {
		lines = append(lines, styles.help.Render(formatter.Truncate(l, max(m.width-4, 10))))
	}
	return fmt.Sprintf("%s\n%s\n\n%s", title, phase, strings.Join(lines, "\n"))
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Migration failed: %v", m.err)), helpView)
	}
	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	title := styles.ok.Render("✓ Run Complete")
	if m.result.HaltErr != nil {
		title = styles.warn.Render(fmt.Sprintf("Run halted: %v", m.result.HaltErr))
	}

	body := strings.TrimRight(string(formatter.RunText(m.result)), "\n")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, helpView)
}
