package tui

import (
	"doto/internal/categories"
	"doto/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func Run(cs *categories.Store, s store.Store, logger *log.Logger) error {
	applyColorProfilePreference()

	m := newAppModel(cs, s, logger)
	m.watcher = watchStore(cs)
	defer m.watcher.stop()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func newTodoID() string {
	return uuid.NewString()
}
