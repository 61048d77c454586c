package categories

import "doto/internal/model"

// Step returns the active index after one cyclic move over n categories.
//
// next: unset or last => 0, else +1.
// prev: unset => 0 (not n-1), first => n-1, else -1.
func Step(active *int, n int, dir model.Direction) int {
	if dir == model.DirectionNext {
		if active == nil || *active == n-1 {
			return 0
		}
		return *active + 1
	}
	if active == nil {
		return 0
	}
	if *active == 0 {
		return n - 1
	}
	return *active - 1
}

// ParseDirection accepts "next"/"prev" (and the arrow aliases "down"/"up").
func ParseDirection(s string) (model.Direction, bool) {
	switch s {
	case "next", "down":
		return model.DirectionNext, true
	case "prev", "up":
		return model.DirectionPrev, true
	default:
		return "", false
	}
}

// ActiveCategory dereferences the active index. It reports false when the index is unset or
// does not point at an existing category.
func ActiveCategory(st model.State) (model.Category, int, bool) {
	if st.ActiveCategoryIndex == nil {
		return model.Category{}, 0, false
	}
	i := *st.ActiveCategoryIndex
	if i < 0 || i >= len(st.Categories) {
		return model.Category{}, i, false
	}
	return st.Categories[i], i, true
}

// TodosIn returns the todos of one category, newest first.
func TodosIn(st model.State, index int) []model.Todo {
	out := []model.Todo{}
	for _, t := range st.Todos {
		if t.CategoryIndex == index {
			out = append(out, t)
		}
	}
	return out
}

func CountIn(st model.State, index int) int {
	n := 0
	for _, t := range st.Todos {
		if t.CategoryIndex == index {
			n++
		}
	}
	return n
}

func FindTodo(st model.State, id string) (model.Todo, bool) {
	for _, t := range st.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}
