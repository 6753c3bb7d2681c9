// Package dashboard is the interactive terminal dashboard: a menu of pages on
// the left, the selected page on the right and a job lookup behind "/".
package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/datajobs/internal/dataset"
	"github.com/amishk599/datajobs/internal/model"
	"github.com/amishk599/datajobs/internal/page"
	"github.com/amishk599/datajobs/internal/watch"
)

const (
	menuWidth   = 30
	loadTimeout = 2 * time.Minute
)

// Loader is the dataset pipeline the dashboard reads from.
type Loader interface {
	Load(ctx context.Context) (bool, error)
	Current() *dataset.Analysis
	Source() string
}

// Options configures the dashboard.
type Options struct {
	GateCharts bool // draw charts only after g is pressed
	TableRows  int
}

type focusArea int

const (
	focusMenu focusArea = iota
	focusContent
	focusLookup
)

// loadedMsg is sent when a Load finishes.
type loadedMsg struct {
	changed bool
	err     error
}

// fileChangedMsg is sent by the file watcher.
type fileChangedMsg struct{}

// Model is the bubbletea model of the dashboard.
type Model struct {
	loader Loader
	state  model.StateStore
	opts   Options

	analysis      *dataset.Analysis
	loading       bool
	reloadPending bool // the file changed while a load was running
	loadErr       error
	spinner       spinner.Model
	stateErr      error // last failure to read or save the session

	cursor      int
	current     page.ID
	focus       focusArea
	chartsShown map[page.ID]bool
	content     viewport.Model
	rendered    string // text of the current page, before scrolling
	lookup      lookupModel

	width  int
	height int
	ready  bool
}

// New creates the dashboard, restoring the last page and lookup from state.
func New(loader Loader, state model.StateStore, opts Options) Model {
	var stateErr error
	keep := func(err error) {
		if err != nil && stateErr == nil {
			stateErr = err
		}
	}

	current := page.Explore
	last, err := state.LastPage()
	keep(err)
	if id, err := page.ParseID(last); last != "" && err == nil {
		current = id
	}
	query, err := state.LastQuery()
	keep(err)
	all, err := state.AllJobs()
	keep(err)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))

	return Model{
		loader:      loader,
		state:       state,
		opts:        opts,
		loading:     true,
		spinner:     sp,
		cursor:      current.Index(),
		current:     current,
		chartsShown: make(map[page.ID]bool),
		lookup:      newLookup(query, all),
		stateErr:    stateErr,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadCmd(m.loader))
}

func loadCmd(loader Loader) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		changed, err := loader.Load(ctx)
		return loadedMsg{changed: changed, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case loadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if a := m.loader.Current(); a != nil {
			m.analysis = a
		}
		m.lookup.refresh(m.analysis)
		m.recalcContent()
		if m.reloadPending {
			m.reloadPending = false
			return m.reload()
		}
		return m, nil

	case fileChangedMsg:
		if m.loading {
			m.reloadPending = true
			return m, nil
		}
		return m.reload()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.focus == focusLookup {
			return m.updateLookup(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m Model) reload() (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, loadCmd(m.loader))
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m.reload()
	case "tab":
		if m.focus == focusMenu {
			m.focus = focusContent
		} else {
			m.focus = focusMenu
		}
		return m, nil
	case "n":
		m.selectPage(page.Next(m.current))
		return m, nil
	case "g":
		if m.opts.GateCharts {
			m.chartsShown[m.current] = !m.chartsShown[m.current]
			m.recalcContent()
		}
		return m, nil
	case "/":
		m.focus = focusLookup
		m.lookup.refresh(m.analysis)
		cmd := m.lookup.focusInput()
		return m, cmd
	}

	if m.focus == focusMenu {
		switch msg.String() {
		case "up", "k":
			m.cursor = clamp(m.cursor-1, 0, len(page.All)-1)
			return m, nil
		case "down", "j":
			m.cursor = clamp(m.cursor+1, 0, len(page.All)-1)
			return m, nil
		case "enter":
			m.selectPage(page.All[m.cursor])
			return m, nil
		}
		return m, nil
	}

	// Content focus: scrolling keys go to the viewport.
	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

func (m Model) updateLookup(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	inputFocused := m.lookup.input.Focused()

	switch msg.String() {
	case "esc":
		m.focus = focusMenu
		m.lookup.input.Blur()
		m.lookup.results.Blur()
		m.remember(m.state.SetLastQuery(m.lookup.input.Value()))
		return m, nil
	case "ctrl+e":
		m.toggleScope()
		return m, nil
	case "enter", "tab":
		if inputFocused {
			m.lookup.focusResults()
			m.remember(m.state.SetLastQuery(m.lookup.input.Value()))
			return m, nil
		}
		cmd := m.lookup.focusInput()
		return m, cmd
	}

	if inputFocused {
		before := m.lookup.input.Value()
		var cmd tea.Cmd
		m.lookup.input, cmd = m.lookup.input.Update(msg)
		if m.lookup.input.Value() != before {
			m.lookup.refresh(m.analysis)
		}
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "e":
		m.toggleScope()
		return m, nil
	case "/":
		cmd := m.lookup.focusInput()
		return m, cmd
	}
	var cmd tea.Cmd
	m.lookup.results, cmd = m.lookup.results.Update(msg)
	return m, cmd
}

func (m *Model) toggleScope() {
	m.lookup.all = !m.lookup.all
	m.remember(m.state.SetAllJobs(m.lookup.all))
	m.lookup.refresh(m.analysis)
}

// remember records the outcome of a session write for the status bar. A later
// successful write clears the message.
func (m *Model) remember(err error) {
	m.stateErr = err
}

func (m *Model) selectPage(id page.ID) {
	m.current = id
	m.cursor = id.Index()
	m.remember(m.state.SetLastPage(string(id)))
	m.recalcContent()
	m.content.GotoTop()
}

func (m *Model) recalcLayout() {
	// Border chars per pane + gap, header and status bar lines.
	contentWidth := max(m.width-menuWidth-5, 20)
	contentHeight := max(m.height-4, 5)

	if !m.ready {
		m.content = viewport.New(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.content.Width = contentWidth
		m.content.Height = contentHeight
	}
	m.lookup.resize(contentWidth, contentHeight)
	m.recalcContent()
}

func (m *Model) recalcContent() {
	if !m.ready || m.analysis == nil {
		return
	}
	p, err := page.Build(m.current, m.analysis)
	if err != nil {
		m.rendered = errorStyle.Render(fmt.Sprintf("cannot build %s: %v", m.current.Title(), err))
	} else {
		m.rendered = RenderPage(p, RenderOptions{
			Width:     m.content.Width - 2,
			TableRows: m.opts.TableRows,
			Charts:    !m.opts.GateCharts || m.chartsShown[m.current],
		})
	}
	m.content.SetContent(m.rendered)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.analysis == nil {
		if m.loading {
			return fmt.Sprintf("%s Loading dataset from %s...\n", m.spinner.View(), m.loader.Source())
		}
		return errorStyle.Render(fmt.Sprintf("Could not load dataset: %v", m.loadErr)) +
			"\n\n" + menuHintStyle.Render("r retry  q quit")
	}

	header := headerStyle.Render(page.Header)

	menuBorder, contentBorder := inactiveBorderStyle, activeBorderStyle
	if m.focus == focusMenu {
		menuBorder, contentBorder = activeBorderStyle, inactiveBorderStyle
	}
	menu := menuBorder.Width(menuWidth).Height(m.content.Height).Render(m.renderMenu())

	body := m.content.View()
	if m.focus == focusLookup {
		body = m.lookup.View()
	}
	content := contentBorder.Width(m.content.Width).Height(m.content.Height).Render(body)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, menu, " ", content)
	return header + "\n" + panes + "\n" + statusBarStyle.Width(m.width).Render(m.statusText())
}

func (m Model) renderMenu() string {
	var b strings.Builder
	for i, id := range page.All {
		label := id.Title()
		switch {
		case i == m.cursor && id == m.current:
			b.WriteString(menuCurrentStyle.Render("> " + label))
		case i == m.cursor:
			b.WriteString(menuSelectedStyle.Render("> " + label))
		case id == m.current:
			b.WriteString(menuItemStyle.Inherit(menuCurrentStyle).Render(label))
		default:
			b.WriteString(menuItemStyle.Render(label))
		}
		b.WriteByte('\n')
	}
	b.WriteString(menuHintStyle.Render("n switch page\n/ job lookup"))
	return b.String()
}

func (m Model) statusText() string {
	var parts []string
	if m.loading {
		parts = append(parts, m.spinner.View()+" reloading")
	} else if m.loadErr != nil {
		parts = append(parts, "reload failed: "+m.loadErr.Error())
	} else {
		parts = append(parts, fmt.Sprintf("%s  %d rows  loaded %s",
			m.analysis.Source, m.analysis.Raw.Nrow(), m.analysis.LoadedAt.Format("15:04:05")))
	}

	if m.stateErr != nil {
		parts = append(parts, "session not saved: "+m.stateErr.Error())
	}

	switch m.focus {
	case focusLookup:
		parts = append(parts, "enter/tab results  e/ctrl+e EU/all  / edit  esc back")
	default:
		keys := "↑/↓ menu  enter open  n next  tab focus  / lookup  r reload  q quit"
		if m.opts.GateCharts {
			keys = "g charts  " + keys
		}
		parts = append(parts, keys)
	}
	return " " + strings.Join(parts, "  |  ")
}

// Current returns the page on screen.
func (m Model) Current() page.ID {
	return m.current
}

// Run starts the dashboard in the alternate screen and blocks until the user
// quits. When w is non-nil every change of the dataset file triggers a reload.
func Run(loader Loader, state model.StateStore, opts Options, w *watch.FileWatcher) error {
	p := tea.NewProgram(New(loader, state, opts), tea.WithAltScreen())
	if w != nil {
		if err := w.Watch(func() { p.Send(fileChangedMsg{}) }); err != nil {
			return fmt.Errorf("watch dataset: %w", err)
		}
		defer w.Stop()
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
