package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/spotctl/internal/formatter"
	"github.com/desertthunder/spotctl/internal/models"
	"github.com/desertthunder/spotctl/internal/shared"
	"github.com/desertthunder/spotctl/internal/tasks"
)

// Controller is the subset of [tasks.Commands] the views drive.
type Controller interface {
	Search(ctx context.Context, query string, types ...models.SearchType) (models.SearchResult, error)
	Play(ctx context.Context, uri string) (tasks.Outcome, error)
	SetVolume(ctx context.Context, percent int) (tasks.Outcome, error)
}

// list size used until the first window size message
const (
	defaultWidth  = 80
	defaultHeight = 20
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	ResultsView
)

// SearchModel is the search browser.
type SearchModel struct {
	ctx      context.Context
	ctrl     Controller
	openURL  func(string) error
	copyText func(string) error
	view     ViewState
	width    int
	height   int
	input    textinput.Model
	results  list.Model
	query    string
	total    int
	busy     bool
	status   string
	statusOK bool
	help     help.Model
	keys     keyMap
}

// NewSearchModel creates the search browser. A non-empty query is searched immediately.
func NewSearchModel(ctx context.Context, ctrl Controller, query string) *SearchModel {
	input := textinput.New()
	input.Placeholder = "Search tracks, artists and albums"
	input.Prompt = "🔍 "
	input.SetValue(query)
	input.Focus()

	results := list.New(nil, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	results.Title = "Results"

	return &SearchModel{
		ctx:      ctx,
		ctrl:     ctrl,
		openURL:  shared.OpenBrowser,
		copyText: clipboard.WriteAll,
		view:     InputView,
		input:    input,
		results:  results,
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init starts the initial search when a query was given.
func (m *SearchModel) Init() tea.Cmd {
	if strings.TrimSpace(m.input.Value()) != "" {
		return m.search(m.input.Value())
	}
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *SearchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateView(msg)
}

func (m *SearchModel) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSearchDone:
		done := msg.data.(searchDone)
		m.busy = false
		if done.err != nil {
			m.setStatus(tasks.Failure(done.err).String(), false)
			return m, nil
		}
		m.query = done.query
		m.total = done.result.Tracks.Total + done.result.Artists.Total + done.result.Albums.Total
		m.results.Title = fmt.Sprintf("Results for %q", done.query)
		cmd := m.results.SetItems(resultItems(done.result))
		m.results.ResetSelected()
		m.status = ""
		m.view = ResultsView
		m.input.Blur()
		return m, cmd

	case MsgCommandDone:
		done := msg.data.(commandDone)
		m.busy = false
		if done.err != nil {
			m.setStatus(tasks.Failure(done.err).String(), false)
		} else {
			m.setStatus(done.outcome.String(), true)
		}
		return m, nil

	case MsgBrowserOpened:
		if err, _ := msg.data.(error); err != nil {
			m.setStatus(err.Error(), false)
		}
		return m, nil

	case MsgURICopied:
		done := msg.data.(uriCopied)
		if done.err != nil {
			m.setStatus(fmt.Sprintf("Could not copy %s: %v", done.uri, done.err), false)
		} else {
			m.setStatus(fmt.Sprintf("Copied %s", done.uri), true)
		}
		return m, nil
	}
	return m, nil
}

func (m *SearchModel) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.enter):
		if m.busy || strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		return m, m.search(m.input.Value())
	case key.Matches(msg, m.keys.back):
		if len(m.results.Items()) > 0 {
			m.view = ResultsView
			m.input.Blur()
			return m, nil
		}
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *SearchModel) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.results.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search), key.Matches(msg, m.keys.back):
		m.view = InputView
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.enter):
		item, ok := m.results.SelectedItem().(resultItem)
		if !ok || m.busy {
			return m, nil
		}
		if item.kind != models.SearchTrack {
			m.setStatus("Only tracks can be played here, press o to open in Spotify", false)
			return m, nil
		}
		return m, m.play(item)
	case key.Matches(msg, m.keys.open):
		if item, ok := m.results.SelectedItem().(resultItem); ok && item.url != "" {
			return m, m.open(item.url)
		}
		return m, nil
	case key.Matches(msg, m.keys.copy):
		if item, ok := m.results.SelectedItem().(resultItem); ok {
			return m, m.copy(item.uri)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m *SearchModel) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		m.input, cmd = m.input.Update(msg)
	case ResultsView:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *SearchModel) setStatus(s string, ok bool) {
	m.status = s
	m.statusOK = ok
}

func (m *SearchModel) search(query string) tea.Cmd {
	m.busy = true
	m.setStatus("Searching...", true)
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		result, err := ctrl.Search(ctx, query, models.AllSearchTypes...)
		return searchDoneMsg(query, result, err)
	}
}

func (m *SearchModel) play(track resultItem) tea.Cmd {
	m.busy = true
	m.setStatus(fmt.Sprintf("Starting %s...", track.name), true)
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		outcome, err := ctrl.Play(ctx, track.uri)
		if err == nil {
			outcome.Message = track.name
		}
		return commandDoneMsg(outcome, err)
	}
}

func (m *SearchModel) open(url string) tea.Cmd {
	openURL := m.openURL
	return func() tea.Msg {
		return browserOpenedMsg(openURL(url))
	}
}

func (m *SearchModel) copy(uri string) tea.Cmd {
	copyText := m.copyText
	return func() tea.Msg {
		return uriCopiedMsg(uri, copyText(uri))
	}
}

// View renders the UI based on the current view state.
func (m *SearchModel) View() string {
	var body string
	switch m.view {
	case InputView:
		title := styles.title.Render("Search Spotify")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back})
		body = fmt.Sprintf("%s\n%s\n\n%s", title, m.input.View(), helpView)
	case ResultsView:
		play := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
		helpView := m.help.ShortHelpView([]key.Binding{play, m.keys.open, m.keys.copy, m.keys.search, m.keys.quit})
		body = fmt.Sprintf("%s\n%s\n\n%s", m.results.View(), styles.help.Render(fmt.Sprintf("%d total", m.total)), helpView)
	}

	if m.status == "" {
		return body
	}
	return fmt.Sprintf("%s\n\n%s", body, m.renderStatus())
}

func (m *SearchModel) renderStatus() string {
	if m.statusOK {
		return styles.ok.Render(m.status)
	}
	return styles.err.Render(m.status)
}

// VolumeModel is the volume preset picker.
type VolumeModel struct {
	ctx     context.Context
	ctrl    Controller
	presets list.Model
	current int
	busy    bool
	done    bool
	outcome tasks.Outcome
	err     error
	help    help.Model
	keys    keyMap
}

// NewVolumeModel creates the picker. current is the device volume shown in the title, -1 when unknown.
func NewVolumeModel(ctx context.Context, ctrl Controller, current int) *VolumeModel {
	presets := VolumePresets()
	items := make([]list.Item, len(presets))
	for i, p := range presets {
		items[i] = presetItem{preset: p}
	}

	l := list.New(items, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	l.Title = "Set Volume"
	if current >= 0 {
		l.Title = fmt.Sprintf("Set Volume (now %s %d%%)", formatter.VolumeBar(current), current)
	}

	return &VolumeModel{
		ctx:     ctx,
		ctrl:    ctrl,
		presets: l,
		current: current,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m *VolumeModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *VolumeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.presets.SetSize(msg.Width-4, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		if m.presets.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit), key.Matches(msg, m.keys.back):
			return m, tea.Quit
		case key.Matches(msg, m.keys.enter):
			if item, ok := m.presets.SelectedItem().(presetItem); ok && !m.busy {
				return m, m.apply(item.preset.Percent)
			}
			return m, nil
		}

	case Msg:
		if msg.kind == MsgCommandDone {
			done := msg.data.(commandDone)
			m.busy = false
			m.done = true
			m.outcome, m.err = done.outcome, done.err
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.presets, cmd = m.presets.Update(msg)
	return m, cmd
}

func (m *VolumeModel) apply(percent int) tea.Cmd {
	m.busy = true
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		outcome, err := ctrl.SetVolume(ctx, percent)
		return commandDoneMsg(outcome, err)
	}
}

// Result returns the outcome of the applied preset once the picker has finished.
func (m *VolumeModel) Result() (tasks.Outcome, error) {
	return m.outcome, m.err
}

// View renders the picker or the final outcome.
func (m *VolumeModel) View() string {
	if m.done {
		if m.err != nil {
			return styles.err.Render(tasks.Failure(m.err).String()) + "\n"
		}
		return styles.ok.Render(m.outcome.String()) + "\n"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", m.presets.View(), helpView)
}
