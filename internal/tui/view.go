package tui

import (
	"fmt"
	"strings"

	"doto/internal/categories"
	"doto/internal/docs"
	"doto/internal/model"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	menuWidth    = 24
	defaultWidth = 80
)

func (m appModel) View() string {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	if m.showHelp {
		return m.viewHelp(width)
	}

	menu := styleFocusBorder(m.pane == paneMenu).Width(menuWidth).Render(m.viewMenu(menuWidth))
	todosWidth := width - lipgloss.Width(menu) - 4
	if todosWidth < 20 {
		todosWidth = 20
	}
	todos := styleFocusBorder(m.pane == paneTodos).Width(todosWidth).Render(m.viewTodos(todosWidth))

	var b strings.Builder
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, menu, " ", todos))
	b.WriteString("\n")
	if m.form.open {
		b.WriteString(m.viewForm(width))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(styleError().Render(truncate(m.status, width)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m appModel) viewMenu(width int) string {
	lines := []string{styleMuted().Render("Categories")}
	if len(m.state.Categories) == 0 {
		lines = append(lines, styleMuted().Render("(none)"))
	}
	for i, c := range m.state.Categories {
		count := fmt.Sprintf("%d", categories.CountIn(m.state, i))
		label := truncate(c.Name, width-lipgloss.Width(count)-5)
		gap := width - 4 - xansi.StringWidth(label) - lipgloss.Width(count)
		if gap < 1 {
			gap = 1
		}
		row := label + strings.Repeat(" ", gap) + count
		active := m.state.ActiveCategoryIndex != nil && *m.state.ActiveCategoryIndex == i
		if active {
			row = styleSelected().Render(row)
		}
		lines = append(lines, styleSwatch(c.Color).Render("● ")+row)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewTodos(width int) string {
	c, idx, ok := categories.ActiveCategory(m.state)
	if !ok {
		return styleMuted().Render("No category selected. Use ↑/↓ or 1-9.")
	}

	lines := []string{styleHeader(c.Color).Render(truncate(c.Name, width))}
	if m.adding {
		lines = append(lines, m.taskInput.View())
	}
	todos := categories.TodosIn(m.state, idx)
	if len(todos) == 0 {
		lines = append(lines, styleMuted().Render("Nothing to do."))
	}
	for i, t := range todos {
		box := "[ ] "
		text := truncate(t.Content, width-len(box)-2)
		if m.checking[t.ID] {
			box = "[x] "
			text = styleDone().Render(text)
		}
		row := box + text
		if m.pane == paneTodos && i == m.cursor && !m.adding {
			row = styleSelected().Render(row)
		}
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewForm(width int) string {
	var swatches []string
	for i, c := range model.Colors {
		mark := "○"
		if i == m.form.color%len(model.Colors) {
			mark = "●"
		}
		swatches = append(swatches, styleSwatch(c).Render(mark))
	}
	lines := []string{
		"New category",
		m.form.input.View(),
		strings.Join(swatches, " ") + "  " + styleMuted().Render(string(m.form.selectedColor())+" (tab to change)"),
	}
	if m.form.err != "" {
		lines = append(lines, styleError().Render(m.form.err))
	}
	boxWidth := width - 4
	if boxWidth > 50 {
		boxWidth = 50
	}
	return styleFocusBorder(true).Width(boxWidth).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewHelp(width int) string {
	body, ok := docs.Get("keys")
	if !ok {
		return m.help.View(m.keys)
	}
	return RenderMarkdown(body, width-2) + "\n\n" + styleMuted().Render("press ? or esc to close")
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}
