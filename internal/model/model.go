package model

// Color is one entry of the fixed category palette.
type Color string

const (
	ColorGreen  Color = "green"
	ColorCyan   Color = "cyan"
	ColorZinc   Color = "zinc"
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorAmber  Color = "amber"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
)

// Colors is the palette in display order. The first entry is the default for new categories.
var Colors = []Color{
	ColorGreen,
	ColorCyan,
	ColorZinc,
	ColorRed,
	ColorOrange,
	ColorAmber,
	ColorBlue,
	ColorPurple,
	ColorPink,
}

func (c Color) Valid() bool {
	for _, x := range Colors {
		if x == c {
			return true
		}
	}
	return false
}

type Category struct {
	Name  string `json:"name" yaml:"name" cbor:"name"`
	Color Color  `json:"color" yaml:"color" cbor:"color"`
}

// Todo references its category by position in State.Categories.
type Todo struct {
	ID            string `json:"id" yaml:"id" cbor:"id"`
	Content       string `json:"content" yaml:"content" cbor:"content"`
	CategoryIndex int    `json:"categoryIndex" yaml:"categoryIndex" cbor:"categoryIndex"`
}

// State is the full persisted record.
//
// Categories are append-only; Todos are newest-first. ActiveCategoryIndex is nil when no
// category is selected.
type State struct {
	Categories          []Category `json:"categories" yaml:"categories" cbor:"categories"`
	Todos               []Todo     `json:"todos" yaml:"todos" cbor:"todos"`
	ActiveCategoryIndex *int       `json:"activeCategoryIndex" yaml:"activeCategoryIndex" cbor:"activeCategoryIndex"`
}

// SeedState returns the state used when nothing has been persisted yet.
func SeedState() State {
	return State{
		Categories: []Category{
			{Name: "Home", Color: ColorGreen},
			{Name: "Work", Color: ColorCyan},
		},
		Todos: []Todo{
			{ID: "1", Content: "tsest", CategoryIndex: 0},
		},
		ActiveCategoryIndex: nil,
	}
}

// Clone returns a deep copy with non-nil slices.
func (s State) Clone() State {
	out := State{
		Categories: make([]Category, len(s.Categories)),
		Todos:      make([]Todo, len(s.Todos)),
	}
	copy(out.Categories, s.Categories)
	copy(out.Todos, s.Todos)
	if s.ActiveCategoryIndex != nil {
		v := *s.ActiveCategoryIndex
		out.ActiveCategoryIndex = &v
	}
	return out
}

// Direction is the argument of cyclic category navigation.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

func IntPtr(v int) *int { return &v }
