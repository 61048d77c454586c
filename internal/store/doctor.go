package store

import (
	"errors"
	"fmt"
	"strings"

	"doto/internal/model"
)

var ErrDoctorIssuesFound = errors.New("doctor found errors")

type DoctorIssueLevel string

const (
	DoctorIssueLevelError DoctorIssueLevel = "error"
	DoctorIssueLevelWarn  DoctorIssueLevel = "warn"
)

type DoctorIssue struct {
	Level   DoctorIssueLevel `json:"level"`
	Code    string           `json:"code"`
	Message string           `json:"message"`

	CategoryIndex *int   `json:"categoryIndex,omitempty"`
	TodoID        string `json:"todoId,omitempty"`
}

type DoctorReport struct {
	Issues []DoctorIssue `json:"issues"`
}

func (r DoctorReport) HasErrors() bool {
	for _, it := range r.Issues {
		if it.Level == DoctorIssueLevelError {
			return true
		}
	}
	return false
}

// Doctor checks a state record for data the mutation operations accept but the rest of
// the app cannot display sensibly. Errors are records no client should produce; warnings
// are dangling references that views already tolerate.
func Doctor(st model.State) DoctorReport {
	issues := []DoctorIssue{}

	seen := map[string]int{}
	for i, c := range st.Categories {
		i := i
		if strings.TrimSpace(c.Name) == "" {
			issues = append(issues, DoctorIssue{
				Level:         DoctorIssueLevelWarn,
				Code:          "category_name_blank",
				Message:       fmt.Sprintf("category %d has a blank name", i),
				CategoryIndex: &i,
			})
		}
		if first, ok := seen[c.Name]; ok {
			issues = append(issues, DoctorIssue{
				Level:         DoctorIssueLevelWarn,
				Code:          "category_name_duplicate",
				Message:       fmt.Sprintf("category %d repeats the name %q of category %d", i, c.Name, first),
				CategoryIndex: &i,
			})
		} else {
			seen[c.Name] = i
		}
		if !c.Color.Valid() {
			issues = append(issues, DoctorIssue{
				Level:         DoctorIssueLevelError,
				Code:          "category_color_unknown",
				Message:       fmt.Sprintf("category %d has unknown color %q", i, c.Color),
				CategoryIndex: &i,
			})
		}
	}

	if p := st.ActiveCategoryIndex; p != nil && (*p < 0 || *p >= len(st.Categories)) {
		idx := *p
		issues = append(issues, DoctorIssue{
			Level:         DoctorIssueLevelWarn,
			Code:          "active_index_out_of_range",
			Message:       fmt.Sprintf("active category index %d is outside 0..%d", idx, len(st.Categories)-1),
			CategoryIndex: &idx,
		})
	}

	ids := map[string]bool{}
	for _, t := range st.Todos {
		if ids[t.ID] {
			issues = append(issues, DoctorIssue{
				Level:   DoctorIssueLevelWarn,
				Code:    "todo_id_duplicate",
				Message: fmt.Sprintf("todo id %q appears more than once; removing it removes every copy", t.ID),
				TodoID:  t.ID,
			})
		}
		ids[t.ID] = true
		if t.CategoryIndex < 0 || t.CategoryIndex >= len(st.Categories) {
			idx := t.CategoryIndex
			issues = append(issues, DoctorIssue{
				Level:         DoctorIssueLevelWarn,
				Code:          "todo_category_missing",
				Message:       fmt.Sprintf("todo %q points at missing category %d", t.ID, idx),
				CategoryIndex: &idx,
				TodoID:        t.ID,
			})
		}
	}

	return DoctorReport{Issues: issues}
}
