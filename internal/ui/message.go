package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/tasks"
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
	MsgFileLoaded MsgKind = iota
	MsgProgressUpdate
	MsgAnalysisDone
	MsgProgressTick
	MsgStepTick
	MsgCopied
	MsgSettingsSaved
)

type fileLoaded struct {
	file models.AudioFile
	err  error
}

type analysisDone struct {
	gen    int
	result *models.AnalysisResult
	err    error
}

// fileLoadedMsg is the constructor for [MsgFileLoaded]
func fileLoadedMsg(file models.AudioFile, err error) Msg {
	return Msg{kind: MsgFileLoaded, data: fileLoaded{file, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// analysisDoneMsg is the constructor for [MsgAnalysisDone]
func analysisDoneMsg(gen int, result *models.AnalysisResult, err error) Msg {
	return Msg{kind: MsgAnalysisDone, data: analysisDone{gen, result, err}}
}

// progressTickMsg is the constructor for [MsgProgressTick]; data is the analysis generation.
func progressTickMsg(gen int) Msg {
	return Msg{kind: MsgProgressTick, data: gen}
}

// stepTickMsg is the constructor for [MsgStepTick]; data is the analysis generation.
func stepTickMsg(gen int) Msg {
	return Msg{kind: MsgStepTick, data: gen}
}

// copiedMsg is the constructor for [MsgCopied]
func copiedMsg(err error) Msg {
	return Msg{kind: MsgCopied, data: err}
}

// settingsSavedMsg is the constructor for [MsgSettingsSaved]
func settingsSavedMsg(err error) Msg {
	return Msg{kind: MsgSettingsSaved, data: err}
}
