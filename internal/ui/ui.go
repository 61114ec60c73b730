package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/genresense/internal/formatter"
	"github.com/desertthunder/genresense/internal/locale"
	"github.com/desertthunder/genresense/internal/models"
	"github.com/desertthunder/genresense/internal/repositories"
	"github.com/desertthunder/genresense/internal/shared"
	"github.com/desertthunder/genresense/internal/tasks"
)

const (
	progressInterval = 80 * time.Millisecond
	stepInterval     = 2500 * time.Millisecond
)

// Page is one of the two top-level screens.
type Page int

const (
	AnalyzerPage Page = iota
	CommunityPage
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	UploadView ViewState = iota
	AnalyzingView
	ResultView
	ShareView
	CommunityView
	AddEntryView
)

var _ Painter = (*Palette)(nil)

// ModelOpts contains the dependencies of [Model]. Session is required.
type ModelOpts struct {
	Session      *tasks.Session
	SaveSettings func(context.Context, models.Settings) error
	ReadFile     func(string) ([]byte, error)
	Clipboard    func(string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	session      *tasks.Session
	saveSettings func(context.Context, models.Settings) error
	readFile     func(string) ([]byte, error)
	clipboard    func(string) error

	page          Page
	analyzerView  ViewState
	communityView ViewState
	width         int
	height        int

	pathInput    textinput.Model
	historyList  list.Model
	historyFocus bool

	gen          int
	percent      int
	step         int
	bar          progress.Model
	progressChan chan tasks.ProgressUpdate
	phase        tasks.ProgressUpdate

	shareInputs   []textinput.Model
	searchInput   textinput.Model
	communityList list.Model
	entryInputs   []textinput.Model
	focusIndex    int

	status    string
	statusErr bool
	summary   string

	tr      locale.Translations
	palette *Palette
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, opts ModelOpts) *Model {
	if opts.SaveSettings == nil {
		opts.SaveSettings = func(context.Context, models.Settings) error { return nil }
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}

	snap := opts.Session.Snapshot()
	m := &Model{
		ctx:           ctx,
		session:       opts.Session,
		saveSettings:  opts.SaveSettings,
		readFile:      opts.ReadFile,
		clipboard:     opts.Clipboard,
		page:          AnalyzerPage,
		analyzerView:  UploadView,
		communityView: CommunityView,
		bar:           progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		help:          help.New(),
		keys:          newKeyMap(),
	}

	m.pathInput = newInput("", 4096)
	m.pathInput.Focus()
	m.searchInput = newInput("", 128)
	m.shareInputs = []textinput.Model{newInput("", 200), newInput("", 200)}
	m.entryInputs = []textinput.Model{
		newInput("", 200), newInput("", 200), newInput("", 64), newInput("", 64), newInput("", 64),
	}

	m.historyList = newList(historyItems(snap.History))
	m.communityList = newList(communityItems(m.session.Board().All()))
	m.applySettings(snap.Settings)

	if snap.State == tasks.Result {
		m.analyzerView = ResultView
	}
	return m
}

func newInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Prompt = "› "
	return in
}

func newList(items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return l
}

// applySettings swaps the string table and palette and relabels inputs.
func (m *Model) applySettings(settings models.Settings) {
	m.tr = locale.For(settings.Locale)
	m.palette = PaletteFor(settings.Theme)

	m.pathInput.Placeholder = m.tr.UploadPrompt
	m.searchInput.Placeholder = m.tr.SearchPlaceholder
	m.shareInputs[0].Placeholder = m.tr.MusicTitle
	m.shareInputs[1].Placeholder = m.tr.Composer
	for i, label := range []string{m.tr.MusicTitle, m.tr.Composer, m.tr.Genre1, m.tr.Genre2, m.tr.Genre3} {
		m.entryInputs[i].Placeholder = label
	}
	m.historyList.Title = m.tr.HistoryTitle
	m.communityList.Title = m.tr.CommunityTitle
	m.historyList.Styles.Title = m.palette.title
	m.communityList.Styles.Title = m.palette.title
}

// Init starts the cursor blink.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.historyList.SetSize(msg.Width-4, max(msg.Height-14, 4))
		m.communityList.SetSize(msg.Width-4, max(msg.Height-10, 4))
		m.bar.Width = min(max(msg.Width-10, 10), 60)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateFocused(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgFileLoaded:
		data := msg.data.(fileLoaded)
		if data.err != nil {
			m.setStatus(data.err.Error(), true)
			return m, nil
		}
		return m, m.startAnalysis(data.file)

	case MsgProgressUpdate:
		m.phase = msg.data.(tasks.ProgressUpdate)
		return m, waitForProgress(m.progressChan)

	case MsgAnalysisDone:
		data := msg.data.(analysisDone)
		if data.gen != m.gen {
			return m, nil
		}
		m.progressChan = nil
		m.syncSession()
		if data.err != nil {
			if errors.Is(data.err, shared.ErrSessionClosed) {
				return m, nil
			}
			m.analyzerView = UploadView
			m.setStatus(m.tr.ErrorMessage(data.err), true)
			return m, nil
		}
		m.percent = 100
		m.analyzerView = ResultView
		m.clearStatus()
		return m, nil

	case MsgProgressTick:
		if msg.data.(int) != m.gen || m.analyzerView != AnalyzingView {
			return m, nil
		}
		if m.percent >= 100 {
			return m, nil
		}
		m.percent++
		return m, progressTick(m.gen)

	case MsgStepTick:
		if msg.data.(int) != m.gen || m.analyzerView != AnalyzingView {
			return m, nil
		}
		m.step++
		return m, stepTick(m.gen)

	case MsgCopied:
		if err, _ := msg.data.(error); err != nil {
			m.setStatus(m.summary, false)
			return m, nil
		}
		m.setStatus(m.tr.Copied, false)
		return m, nil

	case MsgSettingsSaved:
		if err, _ := msg.data.(error); err != nil {
			m.setStatus(err.Error(), true)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.page):
		return m, m.switchPage()
	case key.Matches(msg, m.keys.locale):
		settings := m.session.Snapshot().Settings
		settings.Locale = settings.Locale.Toggle()
		return m, m.changeSettings(settings)
	case key.Matches(msg, m.keys.theme):
		settings := m.session.Snapshot().Settings
		settings.Theme = settings.Theme.Toggle()
		return m, m.changeSettings(settings)
	}

	if m.page == CommunityPage {
		switch m.communityView {
		case AddEntryView:
			return m.handleAddEntryKeys(msg)
		default:
			return m.handleCommunityKeys(msg)
		}
	}

	switch m.analyzerView {
	case UploadView:
		return m.handleUploadKeys(msg)
	case ResultView:
		return m.handleResultKeys(msg)
	case ShareView:
		return m.handleShareKeys(msg)
	}
	return m, nil
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.focus):
		if len(m.historyList.Items()) == 0 {
			return m, nil
		}
		m.historyFocus = !m.historyFocus
		if m.historyFocus {
			m.pathInput.Blur()
			return m, nil
		}
		return m, m.pathInput.Focus()

	case key.Matches(msg, m.keys.enter):
		if m.historyFocus {
			if it, ok := m.historyList.SelectedItem().(historyItem); ok {
				return m, m.selectHistory(it.item.ID)
			}
			return m, nil
		}
		path := strings.Trim(strings.TrimSpace(m.pathInput.Value()), `"'`)
		if path == "" {
			return m, nil
		}
		m.clearStatus()
		return m, m.loadFile(path)
	}

	var cmd tea.Cmd
	if m.historyFocus {
		m.historyList, cmd = m.historyList.Update(msg)
	} else {
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.another), key.Matches(msg, m.keys.back):
		if err := m.session.AnalyzeAnother(); err != nil {
			m.setStatus(m.tr.ErrorMessage(err), true)
			return m, nil
		}
		m.analyzerView = UploadView
		m.percent = 0
		m.pathInput.Reset()
		m.clearStatus()
		m.historyFocus = false
		return m, m.pathInput.Focus()

	case key.Matches(msg, m.keys.copy):
		result := m.session.Snapshot().Result
		if result == nil {
			return m, nil
		}
		m.summary = formatter.CopySummary(*result)
		write, text := m.clipboard, m.summary
		return m, func() tea.Msg { return copiedMsg(write(text)) }

	case key.Matches(msg, m.keys.share):
		m.analyzerView = ShareView
		m.focusIndex = 0
		for i := range m.shareInputs {
			m.shareInputs[i].Reset()
		}
		m.clearStatus()
		return m, m.focusInputs(m.shareInputs)

	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.historyList, cmd = m.historyList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.enter):
		if it, ok := m.historyList.SelectedItem().(historyItem); ok {
			return m, m.selectHistory(it.item.ID)
		}
	}
	return m, nil
}

func (m *Model) handleShareKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.analyzerView = ResultView
		m.clearStatus()
		return m, nil

	case key.Matches(msg, m.keys.focus), key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		m.moveFocus(msg, len(m.shareInputs))
		return m, m.focusInputs(m.shareInputs)

	case key.Matches(msg, m.keys.enter):
		entry, err := m.session.AddResultToCommunity(m.shareInputs[0].Value(), m.shareInputs[1].Value())
		if err != nil {
			m.setStatus(m.tr.ErrorMessage(err), true)
			return m, nil
		}
		m.analyzerView = ResultView
		m.refreshCommunity()
		m.setStatus(fmt.Sprintf("%s %s", m.tr.EntryAdded, entry.Title), false)
		return m, nil
	}

	var cmd tea.Cmd
	m.shareInputs[m.focusIndex], cmd = m.shareInputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m *Model) handleCommunityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.add):
		m.communityView = AddEntryView
		m.focusIndex = 0
		for i := range m.entryInputs {
			m.entryInputs[i].Reset()
		}
		m.searchInput.Blur()
		m.clearStatus()
		return m, m.focusInputs(m.entryInputs)

	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		m.communityList, cmd = m.communityList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.back):
		m.searchInput.Reset()
		m.refreshCommunity()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if m.searchInput.Value() != before {
		m.refreshCommunity()
	}
	return m, cmd
}

func (m *Model) handleAddEntryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		m.communityView = CommunityView
		m.clearStatus()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.focus), key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		m.moveFocus(msg, len(m.entryInputs))
		return m, m.focusInputs(m.entryInputs)

	case key.Matches(msg, m.keys.enter):
		entry := models.CommunityEntry{
			Title:    m.entryInputs[0].Value(),
			Composer: m.entryInputs[1].Value(),
			Genre1:   m.entryInputs[2].Value(),
			Genre2:   m.entryInputs[3].Value(),
			Genre3:   m.entryInputs[4].Value(),
		}
		if err := repositories.ValidateEntry(entry); err != nil {
			m.setStatus(m.tr.RequiredFields, true)
			return m, nil
		}
		m.session.Board().Add(entry)
		m.communityView = CommunityView
		m.searchInput.Reset()
		m.refreshCommunity()
		m.setStatus(m.tr.EntryAdded, false)
		return m, m.searchInput.Focus()
	}

	var cmd tea.Cmd
	m.entryInputs[m.focusIndex], cmd = m.entryInputs[m.focusIndex].Update(msg)
	return m, cmd
}

// updateFocused forwards non-key messages such as cursor blinks to the focused input.
func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.page == CommunityPage && m.communityView == AddEntryView:
		m.entryInputs[m.focusIndex], cmd = m.entryInputs[m.focusIndex].Update(msg)
	case m.page == CommunityPage:
		m.searchInput, cmd = m.searchInput.Update(msg)
	case m.analyzerView == ShareView:
		m.shareInputs[m.focusIndex], cmd = m.shareInputs[m.focusIndex].Update(msg)
	case m.analyzerView == UploadView && !m.historyFocus:
		m.pathInput, cmd = m.pathInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) moveFocus(msg tea.KeyMsg, n int) {
	switch msg.String() {
	case "shift+tab", "up":
		m.focusIndex = (m.focusIndex - 1 + n) % n
	default:
		m.focusIndex = (m.focusIndex + 1) % n
	}
}

func (m *Model) focusInputs(inputs []textinput.Model) tea.Cmd {
	var cmd tea.Cmd
	for i := range inputs {
		if i == m.focusIndex {
			cmd = inputs[i].Focus()
			continue
		}
		inputs[i].Blur()
	}
	return cmd
}

func (m *Model) switchPage() tea.Cmd {
	m.clearStatus()
	if m.page == AnalyzerPage {
		m.page = CommunityPage
		m.pathInput.Blur()
		if m.communityView == CommunityView {
			return m.searchInput.Focus()
		}
		return m.focusInputs(m.entryInputs)
	}

	m.page = AnalyzerPage
	m.searchInput.Blur()
	switch m.analyzerView {
	case UploadView:
		if !m.historyFocus {
			return m.pathInput.Focus()
		}
	case ShareView:
		return m.focusInputs(m.shareInputs)
	}
	return nil
}

func (m *Model) changeSettings(settings models.Settings) tea.Cmd {
	m.session.SetSettings(settings)
	m.applySettings(settings)
	m.clearStatus()

	save, ctx := m.saveSettings, m.ctx
	return func() tea.Msg { return settingsSavedMsg(save(ctx, settings)) }
}

func (m *Model) selectHistory(id string) tea.Cmd {
	if _, err := m.session.SelectHistory(id); err != nil {
		m.setStatus(m.tr.ErrorMessage(err), true)
		return nil
	}
	m.analyzerView = ResultView
	m.historyFocus = false
	m.pathInput.Blur()
	m.clearStatus()
	return nil
}

func (m *Model) loadFile(path string) tea.Cmd {
	read := m.readFile
	return func() tea.Msg {
		data, err := read(path)
		if err != nil {
			return fileLoadedMsg(models.AudioFile{}, err)
		}
		name := filepath.Base(path)
		return fileLoadedMsg(models.AudioFile{
			Name:     name,
			Size:     int64(len(data)),
			MimeType: tasks.DetectMimeType(name, ""),
			Data:     data,
		}, nil)
	}
}

// startAnalysis moves to the analyzing view and runs the submission in the
// background. Uploads the session would reject are reported without leaving
// the upload view.
func (m *Model) startAnalysis(file models.AudioFile) tea.Cmd {
	if m.session.Snapshot().Quota.Exhausted() {
		m.setStatus(m.tr.ErrorMessage(shared.ErrQuotaExceeded), true)
		return nil
	}
	if err := m.session.Limits().Check(file); err != nil {
		m.setStatus(m.tr.ErrorMessage(err), true)
		return nil
	}

	m.gen++
	gen := m.gen
	m.analyzerView = AnalyzingView
	m.percent = 0
	m.step = 0
	m.phase = tasks.ProgressUpdate{}
	m.pathInput.Blur()
	m.clearStatus()

	updates := make(chan tasks.ProgressUpdate, 8)
	m.progressChan = updates

	session, ctx := m.session, m.ctx
	submit := func() tea.Msg {
		result, err := session.Submit(ctx, file, updates)
		close(updates)
		return analysisDoneMsg(gen, result, err)
	}
	return tea.Batch(submit, waitForProgress(updates), progressTick(gen), stepTick(gen))
}

func waitForProgress(updates chan tasks.ProgressUpdate) tea.Cmd {
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func progressTick(gen int) tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg { return progressTickMsg(gen) })
}

func stepTick(gen int) tea.Cmd {
	return tea.Tick(stepInterval, func(time.Time) tea.Msg { return stepTickMsg(gen) })
}

// syncSession reloads the lists backed by session state.
func (m *Model) syncSession() {
	snap := m.session.Snapshot()
	m.historyList.SetItems(historyItems(snap.History))
}

func (m *Model) refreshCommunity() {
	m.communityList.SetItems(communityItems(m.session.Board().Search(m.searchInput.Value())))
	m.communityList.ResetSelected()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	if m.page == CommunityPage {
		switch m.communityView {
		case AddEntryView:
			body = m.renderAddEntry()
		default:
			body = m.renderCommunity()
		}
	} else {
		switch m.analyzerView {
		case UploadView:
			body = m.renderUpload()
		case AnalyzingView:
			body = m.renderAnalyzing()
		case ResultView:
			body = m.renderResult()
		case ShareView:
			body = m.renderShare()
		}
	}

	parts := []string{m.renderHeader(), body}
	if m.status != "" {
		if m.statusErr {
			parts = append(parts, m.palette.err.Render(m.status))
		} else {
			parts = append(parts, m.palette.ok.Render(m.status))
		}
	}
	parts = append(parts, m.help.ShortHelpView(m.helpKeys()))
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderHeader() string {
	tabs := []string{m.palette.tab.Render(m.tr.Analyzer), m.palette.tab.Render(m.tr.Community)}
	if m.page == AnalyzerPage {
		tabs[0] = m.palette.active.Render(m.tr.Analyzer)
	} else {
		tabs[1] = m.palette.active.Render(m.tr.Community)
	}

	snap := m.session.Snapshot()
	right := m.palette.help.Render(fmt.Sprintf("%s  %s · %s", m.tr.AnalysesLeft(snap.Quota.Remaining), snap.Settings.Locale, snap.Settings.Theme))
	return lipgloss.JoinHorizontal(lipgloss.Top, m.palette.As("GenreSense", m.palette.accent), "  ", tabs[0], tabs[1], "  ", right)
}

func (m *Model) renderUpload() string {
	var b strings.Builder
	b.WriteString(m.palette.title.Render(m.tr.UploadTitle))
	b.WriteString("\n")
	b.WriteString(m.palette.text.Render(m.tr.UploadSubtitle))
	b.WriteString("\n")
	b.WriteString(m.palette.help.Render(m.tr.UploadConstraints))
	b.WriteString("\n\n")
	b.WriteString(m.pathInput.View())
	b.WriteString("\n\n")
	b.WriteString(m.renderHistory())
	return b.String()
}

func (m *Model) renderHistory() string {
	if len(m.historyList.Items()) == 0 {
		return m.palette.title.Render(m.tr.HistoryTitle) + "\n" + m.palette.help.Render(m.tr.HistoryEmpty)
	}
	return m.historyList.View()
}

func (m *Model) renderAnalyzing() string {
	var b strings.Builder
	b.WriteString(m.palette.title.Render(m.tr.Analyzing))
	b.WriteString("\n")
	b.WriteString(m.palette.text.Render(m.tr.AnalyzingStep(m.step)))
	b.WriteString("\n\n")
	b.WriteString(m.bar.ViewAs(float64(m.percent) / 100))
	if m.phase.Message != "" {
		b.WriteString("\n\n")
		b.WriteString(m.palette.help.Render(m.phase.Message))
	}
	return b.String()
}

func (m *Model) renderResult() string {
	snap := m.session.Snapshot()
	if snap.Result == nil {
		return m.palette.warn.Render(m.tr.HistoryEmpty)
	}
	result := formatter.Normalize(*snap.Result)
	major := result.Major()

	var b strings.Builder
	b.WriteString(m.palette.title.Render(m.tr.ResultTitle))
	b.WriteString("\n")
	b.WriteString(m.palette.help.Render(result.File.Name))
	b.WriteString("\n\n")
	b.WriteString(m.palette.text.Render(m.tr.MajorGenre + ": "))
	b.WriteString(m.palette.ok.Render(fmt.Sprintf("%s %s", major.Genre, formatter.Percent(major.Probability))))
	b.WriteString("\n\n")
	b.WriteString(m.palette.text.Render(m.tr.Top3Genres))
	b.WriteString("\n")
	for _, g := range result.Top3 {
		fmt.Fprintf(&b, "  %-20s %s %s\n", g.Genre, m.palette.As(formatter.Bar(g.Probability, 24), m.palette.accent), formatter.Percent(g.Probability))
	}
	b.WriteString("\n")
	b.WriteString(m.renderHistory())
	return b.String()
}

func (m *Model) renderShare() string {
	snap := m.session.Snapshot()

	var b strings.Builder
	b.WriteString(m.palette.title.Render(m.tr.AddToCommunityTitle))
	b.WriteString("\n")
	b.WriteString(m.palette.text.Render(m.tr.AddToCommunitySubtitle))
	b.WriteString("\n\n")
	for _, in := range m.shareInputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	if snap.Result != nil {
		b.WriteString("\n")
		b.WriteString(m.palette.help.Render(m.tr.DetectedGenres + ": " + strings.Join(snap.Result.GenreNames(), ", ")))
	}
	return m.palette.modal.Render(b.String())
}

func (m *Model) renderCommunity() string {
	var b strings.Builder
	b.WriteString(m.palette.text.Render(m.tr.CommunitySubtitle))
	b.WriteString("\n\n")
	b.WriteString(m.searchInput.View())
	b.WriteString("\n\n")
	if len(m.communityList.Items()) == 0 {
		b.WriteString(m.palette.warn.Render(m.tr.NoResults))
	} else {
		b.WriteString(m.communityList.View())
	}
	return b.String()
}

func (m *Model) renderAddEntry() string {
	var b strings.Builder
	b.WriteString(m.palette.title.Render(m.tr.AddEntryTitle))
	b.WriteString("\n")
	for _, in := range m.entryInputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return m.palette.modal.Render(b.String())
}

func (m *Model) helpKeys() []key.Binding {
	k := m.keys
	if m.page == CommunityPage {
		if m.communityView == AddEntryView {
			return []key.Binding{k.focus, k.enter, k.back, k.quit}
		}
		return []key.Binding{k.up, k.down, k.add, k.page, k.quit}
	}

	switch m.analyzerView {
	case UploadView:
		return []key.Binding{k.enter, k.focus, k.page, k.locale, k.theme, k.quit}
	case ResultView:
		return []key.Binding{k.another, k.copy, k.share, k.page, k.quit}
	case ShareView:
		return []key.Binding{k.focus, k.enter, k.back, k.quit}
	default:
		return []key.Binding{k.page, k.quit}
	}
}
