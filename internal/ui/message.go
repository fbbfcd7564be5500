package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/audiolib/internal/models"
	"github.com/desertthunder/audiolib/internal/tasks"
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
	MsgTracksLoaded MsgKind = iota
	MsgTrackDeleted
	MsgProgressUpdate
	MsgExportComplete
)

type deletedData struct {
	track models.Track
	err   error
}

type exportData struct {
	result *tasks.BulkExportResult
	err    error
}

// tracksLoadedMsg is the constructor for [MsgTracksLoaded]
func tracksLoadedMsg(tracks []models.Track) Msg {
	return Msg{kind: MsgTracksLoaded, data: tracks}
}

// trackDeletedMsg is the constructor for [MsgTrackDeleted]
func trackDeletedMsg(track models.Track, err error) Msg {
	return Msg{kind: MsgTrackDeleted, data: deletedData{track, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// exportCompleteMsg is the constructor for [MsgExportComplete]
func exportCompleteMsg(result *tasks.BulkExportResult, err error) Msg {
	return Msg{kind: MsgExportComplete, data: exportData{result, err}}
}
