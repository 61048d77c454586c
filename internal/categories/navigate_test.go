package categories

import (
	"context"
	"testing"

	"doto/internal/model"
)

func TestStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		active *int
		n      int
		dir    model.Direction
		want   int
	}{
		{name: "next from unset", active: nil, n: 3, dir: model.DirectionNext, want: 0},
		{name: "next interior", active: model.IntPtr(0), n: 3, dir: model.DirectionNext, want: 1},
		{name: "next wraps at last", active: model.IntPtr(2), n: 3, dir: model.DirectionNext, want: 0},
		{name: "prev from unset lands on first", active: nil, n: 3, dir: model.DirectionPrev, want: 0},
		{name: "prev wraps at first", active: model.IntPtr(0), n: 3, dir: model.DirectionPrev, want: 2},
		{name: "prev interior", active: model.IntPtr(2), n: 3, dir: model.DirectionPrev, want: 1},
		{name: "single category next", active: model.IntPtr(0), n: 1, dir: model.DirectionNext, want: 0},
		{name: "single category prev", active: model.IntPtr(0), n: 1, dir: model.DirectionPrev, want: 0},
		{name: "no categories next from unset", active: nil, n: 0, dir: model.DirectionNext, want: 0},
		{name: "no categories prev from unset", active: nil, n: 0, dir: model.DirectionPrev, want: 0},
		{name: "no categories prev from zero", active: model.IntPtr(0), n: 0, dir: model.DirectionPrev, want: -1},
		{name: "no categories next from minus one", active: model.IntPtr(-1), n: 0, dir: model.DirectionNext, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Step(tt.active, tt.n, tt.dir); got != tt.want {
				t.Fatalf("Step(%v, %d, %s) = %d, want %d", tt.active, tt.n, tt.dir, got, tt.want)
			}
		})
	}
}

func TestSetActiveCategoryIndex_NextCyclesThroughAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := model.SeedState()
	st.Categories = append(st.Categories,
		model.Category{Name: "Fun", Color: model.ColorBlue},
		model.Category{Name: "Gym", Color: model.ColorRed},
	)
	s := New(st, nil)
	n := len(st.Categories)

	visited := map[int]int{}
	var order []int
	for i := 0; i < n; i++ {
		if err := s.SetActiveCategoryIndex(ctx, model.DirectionNext); err != nil {
			t.Fatalf("next: %v", err)
		}
		idx := *s.Snapshot().ActiveCategoryIndex
		visited[idx]++
		order = append(order, idx)
	}
	for i := 0; i < n; i++ {
		if visited[i] != 1 {
			t.Fatalf("expected index %d visited once; order=%v", i, order)
		}
	}
	if err := s.SetActiveCategoryIndex(ctx, model.DirectionNext); err != nil {
		t.Fatalf("next: %v", err)
	}
	if got := *s.Snapshot().ActiveCategoryIndex; got != 0 {
		t.Fatalf("expected wrap to 0 after %d+1 moves; got %d", n, got)
	}
}

func TestSetActiveCategoryIndex_InteriorInverse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	st := model.SeedState()
	for _, name := range []string{"A", "B", "C"} {
		st.Categories = append(st.Categories, model.Category{Name: name, Color: model.ColorZinc})
	}
	n := len(st.Categories)

	for i := 1; i < n-1; i++ {
		for _, pair := range [][2]model.Direction{
			{model.DirectionNext, model.DirectionPrev},
			{model.DirectionPrev, model.DirectionNext},
		} {
			st.ActiveCategoryIndex = model.IntPtr(i)
			s := New(st, nil)
			_ = s.SetActiveCategoryIndex(ctx, pair[0])
			_ = s.SetActiveCategoryIndex(ctx, pair[1])
			if got := *s.Snapshot().ActiveCategoryIndex; got != i {
				t.Fatalf("%s then %s from %d landed on %d", pair[0], pair[1], i, got)
			}
		}
	}
}

func TestSetActiveCategoryIndex_PrevFromUnsetIsZero(t *testing.T) {
	t.Parallel()

	s := New(model.SeedState(), nil)
	if err := s.SetActiveCategoryIndex(context.Background(), model.DirectionPrev); err != nil {
		t.Fatalf("prev: %v", err)
	}
	if got := *s.Snapshot().ActiveCategoryIndex; got != 0 {
		t.Fatalf("expected prev from unset to land on 0; got %d", got)
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]model.Direction{
		"next": model.DirectionNext,
		"down": model.DirectionNext,
		"prev": model.DirectionPrev,
		"up":   model.DirectionPrev,
	} {
		got, ok := ParseDirection(in)
		if !ok || got != want {
			t.Fatalf("ParseDirection(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
	if _, ok := ParseDirection("sideways"); ok {
		t.Fatalf("expected unknown direction to be rejected")
	}
}

func TestTodosInAndCount(t *testing.T) {
	t.Parallel()

	st := model.State{Todos: []model.Todo{
		{ID: "c", CategoryIndex: 1},
		{ID: "b", CategoryIndex: 0},
		{ID: "a", CategoryIndex: 1},
	}}
	got := TodosIn(st, 1)
	if len(got) != 2 || got[0].ID != "c" || got[1].ID != "a" {
		t.Fatalf("TodosIn(1) = %#v", got)
	}
	if CountIn(st, 1) != 2 || CountIn(st, 0) != 1 || CountIn(st, 5) != 0 {
		t.Fatalf("unexpected counts: %d %d %d", CountIn(st, 1), CountIn(st, 0), CountIn(st, 5))
	}
	if got := TodosIn(st, 7); got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice; got %#v", got)
	}
}
