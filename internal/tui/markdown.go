package tui

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// rendererKey identifies a glamour renderer. WithAutoStyle is never used: its terminal
// background query can block, so the style is resolved up front by markdownStyle.
type rendererKey struct {
	style string
	width int
}

type rendererCache struct {
	mu sync.Mutex
	m  map[rendererKey]*glamour.TermRenderer
}

var docRenderers = &rendererCache{m: map[rendererKey]*glamour.TermRenderer{}}

func (c *rendererCache) get(k rendererKey) (*glamour.TermRenderer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.m[k]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(k.style),
		glamour.WithWordWrap(k.width),
	)
	if err != nil {
		return nil, err
	}
	c.m[k] = r
	return r, nil
}

// RenderMarkdown renders a docs topic (or any markdown) wrapped at width. If glamour
// fails the source text is shown as-is.
func RenderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := docRenderers.get(rendererKey{style: markdownStyle(), width: max(width, 10)})
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// markdownStyle picks glamour's "light" or "dark" style. DOTO_TUI_MD_STYLE wins, then
// COLORFGBG, then lipgloss's background detection.
func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("DOTO_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	// COLORFGBG is "fg;bg"; xterm palette 0-6 are dark, 7-15 light.
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil && bg >= 0 {
			if bg >= 7 {
				return "light"
			}
			return "dark"
		}
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
