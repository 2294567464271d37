package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/symdrill/internal/practice"
)

type styledRune struct {
	s     string
	width int
}

func styleFor(mark practice.Mark) lipgloss.Style {
	switch mark {
	case practice.Correct:
		return correctStyle
	case practice.Incorrect:
		return incorrectStyle
	case practice.Cursor:
		return cursorStyle
	default:
		return pendingStyle
	}
}

func buildStyledRunes(cells []practice.Cell) []styledRune {
	out := make([]styledRune, 0, len(cells))
	for _, c := range cells {
		out = append(out, styledRune{
			s:     styleFor(c.Mark).Render(string(c.Char)),
			width: runewidth.RuneWidth(c.Char),
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes hard-wraps at width. Prompts have no spaces to break on.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	lineWidth := 0
	for _, item := range runes {
		if lineWidth+item.width > width && lineWidth > 0 {
			out.WriteRune('\n')
			lineWidth = 0
		}
		out.WriteString(item.s)
		lineWidth += item.width
	}
	return out.String()
}
