package categories

import (
	"fmt"
	"strings"

	"doto/internal/model"
)

// ValidationError is a user-facing input problem on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IndexError reports a category index outside the current category sequence.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("category index %d out of range (have %d categories)", e.Index, e.Len)
}

// ValidateCategory checks a new category the way the create form does: non-empty name,
// unique among existing categories, color from the palette.
func ValidateCategory(st model.State, name string, color model.Color) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "The name should not be empty."}
	}
	for _, c := range st.Categories {
		if c.Name == name {
			return &ValidationError{Field: "name", Message: "Category already exists."}
		}
	}
	if !color.Valid() {
		return &ValidationError{Field: "color", Message: fmt.Sprintf("Unknown color: %s", color)}
	}
	return nil
}

func ValidateTodoContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return &ValidationError{Field: "content", Message: "The task should not be empty."}
	}
	return nil
}

func ValidateIndex(st model.State, index int) error {
	if index < 0 || index >= len(st.Categories) {
		return &IndexError{Index: index, Len: len(st.Categories)}
	}
	return nil
}
