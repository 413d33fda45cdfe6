package ui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"todoclient/internal/config"
	"todoclient/internal/todo"
	"todoclient/internal/todoapi"
	"todoclient/internal/todolist"
)

type mode int

const (
	modeList mode = iota
	modeSearch
	modeAdd
	modeConfirmDelete
)

// Deps is what the screen needs from the outside.
type Deps struct {
	Controller *todolist.Controller
	// Bootstrap serves the initial fetch and reloads.
	Bootstrap todoapi.Lister
	Keys      config.Keymap
	Logger    *log.Logger
}

type Model struct {
	ctx    context.Context
	ctrl   *todolist.Controller
	boot   todoapi.Lister
	logger *log.Logger

	keys   keyMap
	help   help.Model
	spin   spinner.Model
	search textinput.Model
	input  textinput.Model

	state      todolist.State
	mode       mode
	cursor     int
	fetching   bool
	fetchErr   error
	status     string
	dialogErr  string
	pendingDel *todo.Todo
	width      int
}

type loadedMsg struct{ initial todoapi.Initial }

type searchedMsg struct {
	query   string
	results []todo.Todo
}

type toggledMsg struct {
	id        todo.ID
	completed bool
	err       error
}

type createdMsg struct {
	todo todo.Todo
	err  error
}

type deletedMsg struct {
	task string
	err  error
}

func Run(ctx context.Context, deps Deps) error {
	program := tea.NewProgram(newModel(ctx, deps), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newModel(ctx context.Context, deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	search := textinput.New()
	search.Placeholder = "Search TODOs"
	search.CharLimit = 256
	search.Width = 40

	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 256
	input.Width = 40

	m := Model{
		ctx:      ctx,
		ctrl:     deps.Controller,
		boot:     deps.Bootstrap,
		logger:   logger,
		keys:     newKeyMap(deps.Keys),
		help:     help.New(),
		spin:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		search:   search,
		input:    input,
		mode:     modeList,
		fetching: true,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		if w := msg.Width - 12; w > 10 {
			m.search.Width = w
			m.input.Width = w
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case loadedMsg:
		m.fetching = false
		m.fetchErr = msg.initial.Err
		m.ctrl.Reseed(msg.initial.Todos)
		if msg.initial.Err != nil {
			m.logger.Error("initial fetch failed", "err", msg.initial.Err)
			m.status = ""
		} else {
			m.status = fmt.Sprintf("Loaded %d todos", len(msg.initial.Todos))
		}
		m.refresh()
		return m, nil
	case searchedMsg:
		m.refresh()
		if m.state.Searching() {
			m.status = fmt.Sprintf("%d results for %q", m.state.Results, msg.query)
		}
		m.cursor = 0
		return m, nil
	case toggledMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Failed to update todo: %v", msg.err)
		} else {
			m.status = "Marked " + humanDone(msg.completed)
		}
		m.refresh()
		return m, nil
	case createdMsg:
		if msg.err != nil {
			m.dialogErr = fmt.Sprintf("Failed to create todo: %v", msg.err)
			m.refresh()
			return m, nil
		}
		if m.mode == modeAdd {
			m.closeDialog()
		}
		m.status = fmt.Sprintf("Added %q", msg.todo.Task)
		m.refresh()
		return m, nil
	case deletedMsg:
		if msg.err != nil {
			m.dialogErr = fmt.Sprintf("Failed to delete todo: %v", msg.err)
			m.refresh()
			return m, nil
		}
		if m.mode == modeConfirmDelete {
			m.closeDialog()
		}
		m.status = fmt.Sprintf("Deleted %q", msg.task)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		switch m.mode {
		case modeSearch:
			return m.updateSearchMode(msg)
		case modeAdd:
			return m.updateAddMode(msg)
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg)
		}
		return m.updateListMode(msg)
	}
	return m, nil
}

func (m Model) updateListMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.state.Paged))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.state.Paged))
	case key.Matches(msg, m.keys.PrevPage):
		m.ctrl.PreviousPage()
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.NextPage):
		m.ctrl.NextPage()
		m.cursor = 0
		m.refresh()
	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.ClearSearch):
		m.ctrl.ClearSearch()
		m.search.SetValue("")
		m.cursor = 0
		m.status = "Search cleared"
		m.refresh()
	case key.Matches(msg, m.keys.Reload):
		if m.busy() {
			return m, nil
		}
		m.fetching = true
		m.status = "Reloading..."
		return m, m.loadCmd()
	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok || m.busy() {
			return m, nil
		}
		m.state.Loading = true
		return m, m.toggleCmd(t)
	case key.Matches(msg, m.keys.Add):
		if m.busy() {
			return m, nil
		}
		m.mode = modeAdd
		m.dialogErr = ""
		m.input.SetValue("")
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok || m.busy() {
			return m, nil
		}
		m.mode = modeConfirmDelete
		m.dialogErr = ""
		m.pendingDel = &t
	}
	return m, nil
}

func (m Model) updateSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeList
		m.search.Blur()
		if m.busy() {
			return m, nil
		}
		query := m.search.Value()
		m.ctrl.SetSearchQuery(query)
		if strings.TrimSpace(query) != "" {
			m.state.Loading = true
		}
		return m, m.searchCmd(query)
	default:
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.ctrl.SetSearchQuery(m.search.Value())
		return m, cmd
	}
}

func (m Model) updateAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeDialog()
		m.status = "Cancelled"
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		task := m.input.Value()
		if strings.TrimSpace(task) == "" {
			m.dialogErr = "Task cannot be empty"
			return m, nil
		}
		if m.busy() {
			return m, nil
		}
		m.dialogErr = ""
		m.state.Loading = true
		return m, m.createCmd(task)
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.CancelDelete):
		m.closeDialog()
		m.status = "Delete cancelled"
		return m, nil
	case key.Matches(msg, m.keys.ConfirmDelete):
		if m.pendingDel == nil {
			m.closeDialog()
			return m, nil
		}
		if m.busy() {
			return m, nil
		}
		m.dialogErr = ""
		m.state.Loading = true
		return m, m.deleteCmd(*m.pendingDel)
	}
	return m, nil
}

func (m Model) loadCmd() tea.Cmd {
	ctx, boot := m.ctx, m.boot
	return func() tea.Msg {
		return loadedMsg{initial: todoapi.LoadInitial(ctx, boot)}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return searchedMsg{query: query, results: ctrl.SearchTodos(ctx, query)}
	}
}

func (m Model) toggleCmd(t todo.Todo) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		err := ctrl.UpdateTodoStatus(ctx, t.ID, t.Task, !t.Completed)
		return toggledMsg{id: t.ID, completed: !t.Completed, err: err}
	}
}

func (m Model) createCmd(task string) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		created, err := ctrl.CreateTodo(ctx, task)
		return createdMsg{todo: created, err: err}
	}
}

func (m Model) deleteCmd(t todo.Todo) tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		return deletedMsg{task: t.Task, err: ctrl.DeleteTodo(ctx, t.ID)}
	}
}

// refresh pulls a fresh snapshot from the controller.
func (m *Model) refresh() {
	m.state = m.ctrl.Snapshot()
	m.cursor = clampCursor(m.cursor, len(m.state.Paged))
	m.keys.ClearSearch.SetEnabled(m.state.Searching())
}

func (m *Model) closeDialog() {
	m.mode = modeList
	m.dialogErr = ""
	m.pendingDel = nil
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) busy() bool {
	return m.fetching || m.state.Loading
}

func (m Model) selected() (todo.Todo, bool) {
	if len(m.state.Paged) == 0 {
		return todo.Todo{}, false
	}
	return m.state.Paged[clampCursor(m.cursor, len(m.state.Paged))], true
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "Completed"
	}
	return "Pending"
}
