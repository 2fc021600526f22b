package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/avrelia/mdexport/internal/tasks"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MenuView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Actions are the operations the menu can trigger, injected by the CLI layer.
type Actions struct {
	// Run executes the selected export actions, streaming progress updates,
	// and returns a printable summary.
	Run func(ctx context.Context, choices []string, progress chan<- tasks.ProgressUpdate) (string, error)
	// Logout clears the stored MangaDex session.
	Logout func() error
}

type runCompleteMsg struct {
	summary string
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	actions      Actions
	input        textinput.Model
	choices      []string
	notice       string
	progressChan chan tasks.ProgressUpdate
	done         chan runCompleteMsg
	progress     tasks.ProgressUpdate
	summary      string
	err          error
	help         help.Model
	keys         keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	enter key.Binding
	back  key.Binding
	yes   key.Binding
	no    key.Binding
	quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		quit:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.enter, k.back},
		{k.yes, k.no, k.quit},
	}
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, actions Actions) *Model {
	input := textinput.New()
	input.Placeholder = "Choice (comma separated for multiple)"
	input.Focus()
	input.CharLimit = 32

	return &Model{
		ctx:     ctx,
		view:    MenuView,
		actions: actions,
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.view {
		case MenuView:
			return m.handleMenuKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		case RunView:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			return m, nil
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case runCompleteMsg:
		m.summary = msg.summary
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case MenuView:
		return m.renderMenu()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMenuKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "enter":
		choices, err := ParseChoices(m.input.Value())
		if err != nil {
			m.notice = styles.warn.Render("Invalid choice. Please try again.")
			m.input.SetValue("")
			return m, nil
		}
		if len(choices) == 0 {
			return m, nil
		}
		m.input.SetValue("")
		m.notice = ""
		return m.dispatch(choices)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// dispatch routes a validated selection: quit wins, logout runs in place, and
// the slow AniList import asks for confirmation before anything is fetched.
func (m *Model) dispatch(choices []string) (tea.Model, tea.Cmd) {
	if HasChoice(choices, ChoiceQuit) {
		return m, tea.Quit
	}
	if HasChoice(choices, ChoiceLogout) {
		if m.actions.Logout != nil {
			if err := m.actions.Logout(); err != nil {
				m.notice = styles.err.Render(fmt.Sprintf("Logout failed: %v", err))
				return m, nil
			}
		}
		m.notice = styles.ok.Render("Logged out.")
		return m, nil
	}

	m.choices = choices
	if HasChoice(choices, ChoiceImport) {
		m.view = ConfirmView
		return m, nil
	}
	m.view = RunView
	return m, m.startRun()
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = MenuView
		m.notice = "Returning to main menu."
		return m, nil
	case "y":
		m.view = RunView
		return m, m.startRun()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter", "esc":
		m.view = MenuView
		m.summary = ""
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		return m, nil
	}
	return m, nil
}

func (m *Model) startRun() tea.Cmd {
	progressChan := make(chan tasks.ProgressUpdate, 50)
	m.progressChan = progressChan
	done := make(chan runCompleteMsg, 1)

	go func() {
		summary, err := m.actions.Run(m.ctx, m.choices, progressChan)
		done <- runCompleteMsg{summary: summary, err: err}
		close(progressChan)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return runCompleteMsg{summary: m.summary, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMenu() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Select export option:"))
	b.WriteString("\n")
	for _, line := range menuLines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	if m.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(m.notice)
	}
	b.WriteString("\n\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit}))
	return b.String()
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render("Import to AniList?")
	warning := styles.warn.Render("This requires an AniList API Client (Client ID & Secret)\nand will take a long time due to rate limits.")
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s", title, warning, helpView)
}

func (m *Model) renderRun() string {
	title := styles.title.Render("Exporting Library")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchLibrary:
		phase = "Fetching library..."
	case tasks.FetchMetadata:
		phase = fmt.Sprintf("Fetching metadata (batch %d/%d)", m.progress.Step, m.progress.Total)
	case tasks.FetchFeeds:
		phase = fmt.Sprintf("Resolving read progress (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.ImportEntries:
		phase = fmt.Sprintf("Importing to AniList (%d/%d)", m.progress.Step, m.progress.Total)
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Export failed: %v", m.err)), helpView)
	}

	title := styles.ok.Render("✓ Done")
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.summary, helpView)
}
