// Package categories holds the category/todo state container.
//
// The Store trusts its caller: it never validates names, colors, ids or indices. Callers that
// take user input run the Validate* helpers in this package first.
package categories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"doto/internal/model"

	"github.com/charmbracelet/log"
)

// Persister is the durable storage boundary of a Store.
//
// Load returns ok=false when nothing has been persisted yet.
type Persister interface {
	Load(ctx context.Context) (st model.State, ok bool, err error)
	Save(ctx context.Context, st model.State) error
}

type Store struct {
	mu        sync.Mutex
	state     model.State
	persister Persister
	logger    *log.Logger

	nextSubID   int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(model.State)
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// Open rehydrates a Store from p, falling back to the seed state when nothing was persisted.
// The seed is not written until the first mutation.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	if p == nil {
		return nil, errors.New("open store: nil persister")
	}
	st, ok, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	if !ok {
		st = model.SeedState()
	}
	s := New(st, p, opts...)
	s.logger.Debug("state loaded", "persisted", ok, "categories", len(st.Categories), "todos", len(st.Todos))
	return s, nil
}

// New wraps st without loading. A nil persister keeps the state in memory only.
func New(st model.State, p Persister, opts ...Option) *Store {
	s := &Store{
		state:     st.Clone(),
		persister: p,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every mutation.
func (s *Store) Subscribe(fn func(model.State)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) AddCategory(ctx context.Context, name string, color model.Color) error {
	return s.mutate(ctx, "add category", func(st *model.State) {
		st.Categories = append(st.Categories, model.Category{Name: name, Color: color})
	}, "name", name, "color", color)
}

// AddTodo prepends the todo so the newest appears first.
func (s *Store) AddTodo(ctx context.Context, id, content string, categoryIndex int) error {
	return s.mutate(ctx, "add todo", func(st *model.State) {
		todos := make([]model.Todo, 0, len(st.Todos)+1)
		todos = append(todos, model.Todo{ID: id, Content: content, CategoryIndex: categoryIndex})
		st.Todos = append(todos, st.Todos...)
	}, "id", id, "category", categoryIndex)
}

// RemoveTodo drops every todo with the given id. Unknown ids are a no-op (state is still persisted).
func (s *Store) RemoveTodo(ctx context.Context, id string) error {
	return s.mutate(ctx, "remove todo", func(st *model.State) {
		kept := make([]model.Todo, 0, len(st.Todos))
		for _, t := range st.Todos {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		st.Todos = kept
	}, "id", id)
}

// SetActiveIndex sets the active category without a bounds check.
func (s *Store) SetActiveIndex(ctx context.Context, index int) error {
	return s.mutate(ctx, "set active index", func(st *model.State) {
		st.ActiveCategoryIndex = model.IntPtr(index)
	}, "index", index)
}

// SetActiveCategoryIndex moves the active category cyclically. See Step.
func (s *Store) SetActiveCategoryIndex(ctx context.Context, dir model.Direction) error {
	return s.mutate(ctx, "move active index", func(st *model.State) {
		next := Step(st.ActiveCategoryIndex, len(st.Categories), dir)
		st.ActiveCategoryIndex = &next
	}, "direction", dir)
}

func (s *Store) mutate(ctx context.Context, op string, fn func(*model.State), kv ...any) error {
	s.mu.Lock()
	fn(&s.state)
	snap := s.state.Clone()
	s.logger.Debug(op, kv...)

	// Persist under the lock so concurrent mutations reach storage in order.
	var err error
	if s.persister != nil {
		if err = s.persister.Save(ctx, snap); err != nil {
			s.logger.Error("persist state failed", "op", op, "err", err)
			err = fmt.Errorf("%s: persist: %w", op, err)
		}
	}
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(snap.Clone())
	}
	return err
}
