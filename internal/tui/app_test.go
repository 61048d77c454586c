package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"doto/internal/categories"
	"doto/internal/model"
	"doto/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func newTestModel(t *testing.T, st model.State) (appModel, *categories.Store, store.Store) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.ANSI256)
	cs := categories.New(st, nil)
	s := store.Store{Dir: t.TempDir()}
	m := newAppModel(cs, s, nil)
	m.width = 100
	m.height = 30
	return m, cs, s
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m appModel, msg tea.Msg) (appModel, tea.Cmd) {
	t.Helper()
	mm, cmd := m.Update(msg)
	out, ok := mm.(appModel)
	if !ok {
		t.Fatalf("expected appModel; got %T", mm)
	}
	return out, cmd
}

// settle runs a store-mutating cmd and feeds its result back into the model.
func settle(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected a command")
	}
	msg := cmd()
	if _, ok := msg.(mutationDoneMsg); !ok {
		t.Fatalf("expected mutationDoneMsg; got %T", msg)
	}
	m, _ = send(t, m, msg)
	return m
}

func typeText(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		m, _ = send(t, m, keyRunes(string(r)))
	}
	return m
}

func activeIndex(st model.State) int {
	if st.ActiveCategoryIndex == nil {
		return -1
	}
	return *st.ActiveCategoryIndex
}

func TestApp_ArrowKeysMoveActiveCategory(t *testing.T) {
	m, _, _ := newTestModel(t, model.SeedState())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = settle(t, m, cmd)
	if got := activeIndex(m.state); got != 0 {
		t.Fatalf("down from unset: got %d, want 0", got)
	}

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = settle(t, m, cmd)
	if got := activeIndex(m.state); got != 1 {
		t.Fatalf("up from 0: got %d, want 1 (wrap to last)", got)
	}

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = settle(t, m, cmd)
	if got := activeIndex(m.state); got != 0 {
		t.Fatalf("down from last: got %d, want 0", got)
	}
}

func TestApp_UpFromUnsetSelectsFirst(t *testing.T) {
	m, _, _ := newTestModel(t, model.SeedState())

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m = settle(t, m, cmd)
	if got := activeIndex(m.state); got != 0 {
		t.Fatalf("up from unset: got %d, want 0", got)
	}
}

func TestApp_NumberKeysJumpWithinRange(t *testing.T) {
	m, _, _ := newTestModel(t, model.SeedState())

	m, cmd := send(t, m, keyRunes("2"))
	m = settle(t, m, cmd)
	if got := activeIndex(m.state); got != 1 {
		t.Fatalf("jump 2: got %d, want 1", got)
	}

	_, cmd = send(t, m, keyRunes("9"))
	if cmd != nil {
		t.Fatalf("expected out-of-range jump to be ignored")
	}
}

func TestApp_CategoryFormRejectsDuplicateName(t *testing.T) {
	m, cs, _ := newTestModel(t, model.SeedState())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	if !m.form.open {
		t.Fatalf("expected ctrl+n to open the form")
	}
	m = typeText(t, m, "Home")
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected no commit for a duplicate name")
	}
	if m.form.err != "Category already exists." {
		t.Fatalf("form error: got %q", m.form.err)
	}
	if !strings.Contains(m.View(), "Category already exists.") {
		t.Fatalf("expected inline error in view")
	}

	m = typeText(t, m, "x")
	if m.form.err != "" {
		t.Fatalf("expected typing to clear the error; got %q", m.form.err)
	}
	if n := len(cs.Snapshot().Categories); n != 2 {
		t.Fatalf("expected no category added; got %d", n)
	}
}

func TestApp_CategoryFormRejectsBlankName(t *testing.T) {
	m, _, _ := newTestModel(t, model.SeedState())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = typeText(t, m, "  ")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.form.err != "The name should not be empty." {
		t.Fatalf("form error: got %q", m.form.err)
	}
}

func TestApp_CategoryFormCommitsAfterDelay(t *testing.T) {
	m, cs, s := newTestModel(t, model.SeedState())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = typeText(t, m, "Fun")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if got := m.form.selectedColor(); got != model.ColorCyan {
		t.Fatalf("tab: got color %q, want cyan", got)
	}

	m, tick := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if tick == nil || !m.form.pending {
		t.Fatalf("expected a pending delayed commit")
	}
	if n := len(cs.Snapshot().Categories); n != 2 {
		t.Fatalf("expected no commit before the delay; got %d categories", n)
	}

	msg := tick()
	if _, ok := msg.(commitCategoryMsg); !ok {
		t.Fatalf("expected commitCategoryMsg; got %T", msg)
	}
	m, cmd := send(t, m, msg)
	m = settle(t, m, cmd)

	cats := m.state.Categories
	if len(cats) != 3 || cats[2] != (model.Category{Name: "Fun", Color: model.ColorCyan}) {
		t.Fatalf("unexpected categories: %#v", cats)
	}
	if m.form.open {
		t.Fatalf("expected the form to close after commit")
	}

	ts, err := s.LoadTUIState()
	if err != nil {
		t.Fatalf("LoadTUIState: %v", err)
	}
	if ts.LastColor != "cyan" {
		t.Fatalf("last color: got %q, want cyan", ts.LastColor)
	}
}

func TestApp_CategoryCommitRevalidates(t *testing.T) {
	m, cs, _ := newTestModel(t, model.SeedState())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	m = typeText(t, m, "Fun")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	// Another writer takes the name during the delay.
	if err := cs.AddCategory(context.Background(), "Fun", model.ColorPink); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	m, cmd := send(t, m, commitCategoryMsg{name: "Fun", color: model.ColorGreen})
	if cmd != nil {
		t.Fatalf("expected commit to be rejected")
	}
	if m.form.err != "Category already exists." || !m.form.open {
		t.Fatalf("expected the form to stay open with an error; err=%q open=%v", m.form.err, m.form.open)
	}
	if n := len(cs.Snapshot().Categories); n != 3 {
		t.Fatalf("expected exactly one Fun; got %d categories", n)
	}
}

func TestApp_LastColorPreselectsForm(t *testing.T) {
	lipgloss.SetColorProfile(termenv.ANSI256)
	s := store.Store{Dir: t.TempDir()}
	if err := s.SaveTUIState(&store.TUIState{Pane: "todos", LastColor: "purple"}); err != nil {
		t.Fatalf("SaveTUIState: %v", err)
	}
	m := newAppModel(categories.New(model.SeedState(), nil), s, nil)
	if got := m.form.selectedColor(); got != model.ColorPurple {
		t.Fatalf("got %q, want purple", got)
	}
	if m.pane != paneTodos {
		t.Fatalf("expected pane restored to todos")
	}
}

func TestApp_AddTaskAndCheckOff(t *testing.T) {
	m, cs, _ := newTestModel(t, model.SeedState())

	m, cmd := send(t, m, keyRunes("1"))
	m = settle(t, m, cmd)

	m, _ = send(t, m, keyRunes("a"))
	if !m.adding || m.pane != paneTodos {
		t.Fatalf("expected a to focus the task input")
	}

	// Blank input is ignored.
	_, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatalf("expected blank task to be ignored")
	}

	m = typeText(t, m, " buy milk ")
	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)

	// Content is kept as typed; trimming only guards against blank input.
	todos := cs.Snapshot().Todos
	if len(todos) != 2 || todos[0].Content != " buy milk " || todos[0].CategoryIndex != 0 {
		t.Fatalf("unexpected todos: %#v", todos)
	}
	newID := todos[0].ID

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.adding {
		t.Fatalf("expected esc to leave the task input")
	}

	m, tick := send(t, m, keyRunes("x"))
	if tick == nil || !m.checking[newID] {
		t.Fatalf("expected x to start checking off %s", newID)
	}
	if !strings.Contains(m.View(), "[x]") {
		t.Fatalf("expected the checked task to render as done")
	}
	if n := len(cs.Snapshot().Todos); n != 2 {
		t.Fatalf("expected removal to wait for the delay; got %d todos", n)
	}

	m, cmd = send(t, m, removeTodoMsg{id: newID})
	m = settle(t, m, cmd)
	if _, ok := categories.FindTodo(m.state, newID); ok {
		t.Fatalf("expected %s to be removed", newID)
	}
	if m.checking[newID] {
		t.Fatalf("expected checking mark to clear")
	}
}

func TestApp_AddTaskNeedsActiveCategory(t *testing.T) {
	m, _, _ := newTestModel(t, model.SeedState())

	m, _ = send(t, m, keyRunes("a"))
	if m.adding {
		t.Fatalf("expected add to be refused without an active category")
	}
	if m.status == "" {
		t.Fatalf("expected a status hint")
	}
}

func TestApp_PlaceholderWhenNoActiveCategory(t *testing.T) {
	tests := []struct {
		name  string
		index *int
	}{
		{name: "unset", index: nil},
		{name: "out of range", index: model.IntPtr(5)},
		{name: "negative", index: model.IntPtr(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := model.SeedState()
			st.ActiveCategoryIndex = tt.index
			m, _, _ := newTestModel(t, st)
			if !strings.Contains(m.View(), "No category selected") {
				t.Fatalf("expected placeholder; got:\n%s", m.View())
			}
		})
	}
}

func TestApp_MenuShowsCounts(t *testing.T) {
	st := model.SeedState()
	st.ActiveCategoryIndex = model.IntPtr(0)
	m, _, _ := newTestModel(t, st)

	view := m.View()
	for _, want := range []string{"Home", "Work", "tsest"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q; got:\n%s", want, view)
		}
	}
}

func TestApp_SubscriptionDeliversChanges(t *testing.T) {
	m, cs, _ := newTestModel(t, model.SeedState())
	m.watcher = watchStore(cs)
	defer m.watcher.stop()

	next := m.Init()
	if next == nil {
		t.Fatalf("expected Init to wait for store changes")
	}
	if err := cs.AddCategory(context.Background(), "Fun", model.ColorBlue); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}

	msg := next()
	changed, ok := msg.(stateChangedMsg)
	if !ok {
		t.Fatalf("expected stateChangedMsg; got %T", msg)
	}
	m, cmd := send(t, m, changed)
	if len(m.state.Categories) != 3 {
		t.Fatalf("expected re-render state with 3 categories; got %d", len(m.state.Categories))
	}
	if cmd == nil {
		t.Fatalf("expected the model to keep listening")
	}
}

func TestStoreWatcher_StopReleasesPendingNext(t *testing.T) {
	cs := categories.New(model.SeedState(), nil)
	w := watchStore(cs)

	done := make(chan tea.Msg, 1)
	go func() { done <- w.next()() }()

	w.stop()
	select {
	case msg := <-done:
		if msg != nil {
			t.Fatalf("expected nil msg after stop; got %T", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pending next did not return after stop")
	}

	// Late notifications and a second stop are ignored.
	w.push(model.SeedState())
	w.stop()
	if err := cs.AddCategory(context.Background(), "Fun", model.ColorBlue); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
}

func TestApp_QuitSavesPane(t *testing.T) {
	m, _, s := newTestModel(t, model.SeedState())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := send(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}

	b, err := os.ReadFile(filepath.Join(s.Dir, "tui_state.json"))
	if err != nil {
		t.Fatalf("read tui state: %v", err)
	}
	if !strings.Contains(string(b), `"pane": "todos"`) {
		t.Fatalf("expected pane saved; got:\n%s", string(b))
	}
}

func TestApp_HelpPaneRendersKeys(t *testing.T) {
	t.Setenv("DOTO_TUI_MD_STYLE", "dark")
	m, _, _ := newTestModel(t, model.SeedState())

	m, _ = send(t, m, keyRunes("?"))
	if !m.showHelp {
		t.Fatalf("expected ? to open help")
	}
	if !strings.Contains(m.View(), "ctrl+n") {
		t.Fatalf("expected help to list ctrl+n")
	}
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelp {
		t.Fatalf("expected esc to close help")
	}
}
