package tui

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"doto/internal/categories"
	"doto/internal/model"
	"doto/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const (
	categoryCommitDelay = 100 * time.Millisecond
	checkOffDelay       = 300 * time.Millisecond
)

type pane int

const (
	paneMenu pane = iota
	paneTodos
)

func (p pane) String() string {
	if p == paneTodos {
		return "todos"
	}
	return "menu"
}

func parsePane(s string) pane {
	if strings.TrimSpace(s) == "todos" {
		return paneTodos
	}
	return paneMenu
}

type commitCategoryMsg struct {
	name  string
	color model.Color
}

type removeTodoMsg struct{ id string }

type mutationDoneMsg struct {
	op  string
	err error
}

type categoryForm struct {
	open    bool
	input   textinput.Model
	color   int
	err     string
	pending bool
}

func (f categoryForm) selectedColor() model.Color {
	return model.Colors[f.color%len(model.Colors)]
}

type appModel struct {
	cs      *categories.Store
	st      store.Store
	logger  *log.Logger
	watcher *storeWatcher

	state model.State

	width  int
	height int

	pane      pane
	cursor    int
	adding    bool
	taskInput textinput.Model
	checking  map[string]bool

	form categoryForm

	showHelp bool
	keys     keyMap
	help     help.Model

	status string
}

func newAppModel(cs *categories.Store, s store.Store, logger *log.Logger) appModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := appModel{
		cs:       cs,
		st:       s,
		logger:   logger,
		state:    cs.Snapshot(),
		checking: map[string]bool{},
		keys:     defaultKeyMap(),
		help:     help.New(),
	}

	m.taskInput = textinput.New()
	m.taskInput.Placeholder = "Add a task"
	m.taskInput.CharLimit = 500
	m.taskInput.Width = 40

	m.form.input = textinput.New()
	m.form.input.Placeholder = "Category name"
	m.form.input.CharLimit = 60
	m.form.input.Width = 30

	if ts, err := s.LoadTUIState(); err == nil && ts != nil {
		m.pane = parsePane(ts.Pane)
		for i, c := range model.Colors {
			if string(c) == ts.LastColor {
				m.form.color = i
			}
		}
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.next()
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.setState(msg.state)
		if m.watcher != nil {
			return m, m.watcher.next()
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.status = msg.op + ": " + msg.err.Error()
			m.logger.Error("mutation failed", "op", msg.op, "err", msg.err)
		} else {
			m.status = ""
		}
		m.setState(m.cs.Snapshot())
		return m, nil

	case commitCategoryMsg:
		return m.commitCategory(msg)

	case removeTodoMsg:
		delete(m.checking, msg.id)
		id := msg.id
		return m, m.mutate("remove todo", func(ctx context.Context) error {
			return m.cs.RemoveTodo(ctx, id)
		})

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m *appModel) setState(st model.State) {
	m.state = st
	n := len(m.activeTodos())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) activeTodos() []model.Todo {
	_, idx, ok := categories.ActiveCategory(m.state)
	if !ok {
		return nil
	}
	return categories.TodosIn(m.state, idx)
}

func (m appModel) mutate(op string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return mutationDoneMsg{op: op, err: fn(context.Background())}
	}
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}
	switch {
	case m.form.open:
		return m.updateForm(msg)
	case m.adding:
		return m.updateAddTask(msg)
	case m.showHelp:
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Prev):
		return m, m.move(model.DirectionPrev)

	case key.Matches(msg, m.keys.Next):
		return m, m.move(model.DirectionNext)

	case key.Matches(msg, m.keys.Jump):
		idx := int(msg.Runes[0]-'0') - 1
		if categories.ValidateIndex(m.state, idx) != nil {
			return m, nil
		}
		m.cursor = 0
		return m, m.mutate("select category", func(ctx context.Context) error {
			return m.cs.SetActiveIndex(ctx, idx)
		})

	case key.Matches(msg, m.keys.Pane):
		if m.pane == paneMenu {
			m.pane = paneTodos
		} else {
			m.pane = paneMenu
		}
		return m, nil

	case key.Matches(msg, m.keys.CursorDown):
		if m.cursor < len(m.activeTodos())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.CursorUp):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.AddTask):
		if _, _, ok := categories.ActiveCategory(m.state); !ok {
			m.status = "Select a category first."
			return m, nil
		}
		m.pane = paneTodos
		m.adding = true
		m.taskInput.SetValue("")
		return m, m.taskInput.Focus()

	case key.Matches(msg, m.keys.Check):
		if m.pane != paneTodos {
			return m, nil
		}
		todos := m.activeTodos()
		if m.cursor < 0 || m.cursor >= len(todos) {
			return m, nil
		}
		id := todos[m.cursor].ID
		if m.checking[id] {
			return m, nil
		}
		m.checking[id] = true
		return m, tea.Tick(checkOffDelay, func(time.Time) tea.Msg { return removeTodoMsg{id: id} })

	case key.Matches(msg, m.keys.NewCat):
		m.form.open = true
		m.form.err = ""
		m.form.pending = false
		m.form.input.SetValue("")
		return m, m.form.input.Focus()
	}
	return m, nil
}

func (m appModel) move(dir model.Direction) tea.Cmd {
	return m.mutate("move "+string(dir), func(ctx context.Context) error {
		return m.cs.SetActiveCategoryIndex(ctx, dir)
	})
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+n":
		m.form.open = false
		m.form.pending = false
		m.form.input.Blur()
		return m, nil
	case "tab":
		m.form.color = (m.form.color + 1) % len(model.Colors)
		return m, nil
	case "shift+tab":
		m.form.color = (m.form.color - 1 + len(model.Colors)) % len(model.Colors)
		return m, nil
	case "enter":
		if m.form.pending {
			return m, nil
		}
		name := m.form.input.Value()
		color := m.form.selectedColor()
		if err := categories.ValidateCategory(m.state, name, color); err != nil {
			m.form.err = validationMessage(err)
			return m, nil
		}
		m.form.err = ""
		m.form.pending = true
		return m, tea.Tick(categoryCommitDelay, func(time.Time) tea.Msg {
			return commitCategoryMsg{name: name, color: color}
		})
	}

	var cmd tea.Cmd
	m.form.input, cmd = m.form.input.Update(msg)
	m.form.err = ""
	return m, cmd
}

// commitCategory re-validates against the live state: another writer may have added the
// same name during the delay.
func (m appModel) commitCategory(msg commitCategoryMsg) (tea.Model, tea.Cmd) {
	if !m.form.pending {
		return m, nil
	}
	m.form.pending = false
	if err := categories.ValidateCategory(m.cs.Snapshot(), msg.name, msg.color); err != nil {
		m.form.err = validationMessage(err)
		return m, nil
	}
	m.form.open = false
	m.form.input.Blur()
	m.form.input.SetValue("")
	m.saveTUIState()
	return m, m.mutate("add category", func(ctx context.Context) error {
		return m.cs.AddCategory(ctx, msg.name, msg.color)
	})
}

func (m appModel) updateAddTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.taskInput.Blur()
		return m, nil
	case "enter":
		content := m.taskInput.Value()
		if strings.TrimSpace(content) == "" {
			return m, nil
		}
		_, idx, ok := categories.ActiveCategory(m.state)
		if !ok {
			m.adding = false
			m.taskInput.Blur()
			return m, nil
		}
		m.taskInput.SetValue("")
		m.cursor = 0
		id := newTodoID()
		return m, m.mutate("add todo", func(ctx context.Context) error {
			return m.cs.AddTodo(ctx, id, content, idx)
		})
	}
	var cmd tea.Cmd
	m.taskInput, cmd = m.taskInput.Update(msg)
	return m, cmd
}

func (m appModel) quit() tea.Cmd {
	m.saveTUIState()
	return tea.Quit
}

// saveTUIState is best effort.
func (m appModel) saveTUIState() {
	ts := &store.TUIState{Pane: m.pane.String(), LastColor: string(m.form.selectedColor())}
	if err := m.st.SaveTUIState(ts); err != nil {
		m.logger.Warn("save tui state", "err", err)
	}
}

func validationMessage(err error) string {
	var ve *categories.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return err.Error()
}
