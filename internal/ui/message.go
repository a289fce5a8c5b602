package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytmigrate/internal/progress"
	"github.com/desertthunder/ytmigrate/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgStateLoaded MsgKind = iota
	MsgProgressUpdate
	MsgRunComplete
)

type stateLoaded struct {
	state progress.State
	err   error
}

type runComplete struct {
	summary *tasks.RunSummary
	err     error
}

// stateLoadedMsg is the constructor for [MsgStateLoaded]
func stateLoadedMsg(state progress.State, err error) Msg {
	return Msg{kind: MsgStateLoaded, data: stateLoaded{state, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// runCompleteMsg is the constructor for [MsgRunComplete]
func runCompleteMsg(summary *tasks.RunSummary, err error) Msg {
	return Msg{kind: MsgRunComplete, data: runComplete{summary, err}}
}
