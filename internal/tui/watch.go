package tui

import (
	"sync"

	"doto/internal/categories"
	"doto/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

type stateChangedMsg struct{ state model.State }

// storeWatcher bridges store notifications into the tea loop. Only the newest snapshot is
// kept: a slow UI skips intermediate states rather than blocking the store.
type storeWatcher struct {
	mu          sync.Mutex
	ch          chan model.State
	closed      bool
	unsubscribe func()
}

func watchStore(cs *categories.Store) *storeWatcher {
	w := &storeWatcher{ch: make(chan model.State, 1)}
	w.unsubscribe = cs.Subscribe(w.push)
	return w
}

func (w *storeWatcher) push(st model.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case <-w.ch:
	default:
	}
	w.ch <- st
}

// next blocks until the store changes. After stop it yields nil.
func (w *storeWatcher) next() tea.Cmd {
	return func() tea.Msg {
		st, ok := <-w.ch
		if !ok {
			return nil
		}
		return stateChangedMsg{state: st}
	}
}

func (w *storeWatcher) stop() {
	if w.unsubscribe != nil {
		w.unsubscribe()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}
