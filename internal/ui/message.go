package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/tasks"
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
	MsgSearchDone MsgKind = iota
	MsgCommandDone
	MsgBrowserOpened
	MsgURICopied
)

type searchDone struct {
	query  string
	result models.SearchResult
	err    error
}

type uriCopied struct {
	uri string
	err error
}

type commandDone struct {
	outcome tasks.Outcome
	err     error
}

// searchDoneMsg is the constructor for [MsgSearchDone]
func searchDoneMsg(query string, result models.SearchResult, err error) Msg {
	return Msg{kind: MsgSearchDone, data: searchDone{query, result, err}}
}

// commandDoneMsg is the constructor for [MsgCommandDone]
func commandDoneMsg(outcome tasks.Outcome, err error) Msg {
	return Msg{kind: MsgCommandDone, data: commandDone{outcome, err}}
}

// browserOpenedMsg is the constructor for [MsgBrowserOpened]
func browserOpenedMsg(err error) Msg {
	return Msg{kind: MsgBrowserOpened, data: err}
}

// uriCopiedMsg is the constructor for [MsgURICopied]
func uriCopiedMsg(uri string, err error) Msg {
	return Msg{kind: MsgURICopied, data: uriCopied{uri, err}}
}
