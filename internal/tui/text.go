package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typist/internal/session"
	"github.com/verte-zerg/typist/internal/typing"
)

// minVisibleLines is the smallest text window: the previous line, the cursor
// line and one line ahead.
const minVisibleLines = 3

// cellWidth is the display width of a rune in the text area. Whitespace and
// control runes are drawn as a single cell.
func cellWidth(r rune) int {
	if r == ' ' || r == '\t' || r == '\n' {
		return 1
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// glyph returns what is drawn for a character. Mistyped whitespace is made
// visible so the error can be seen.
func glyph(ctx session.RenderingContext) string {
	r := ctx.Character.Rune
	switch r {
	case ' ', '\t':
		if ctx.Character.State == typing.StateWrong {
			return "•"
		}
		return " "
	case '\n':
		if ctx.HasCursor || ctx.Character.State != typing.StateNone {
			return "⏎"
		}
		return " "
	}
	return string(r)
}

// renderText draws the session text wrapped to width, keeping one line above
// the cursor line and filling the rest of the window with upcoming lines.
func renderText(s *session.Session, width, visibleLines int) string {
	visibleLines = max(visibleLines, minVisibleLines)
	cfg := session.DefaultLineRenderConfig(width)
	cfg.Width = cellWidth

	cursorWord := -1
	if w, ok := s.WordContainingIndex(s.InputLen()); ok {
		cursorWord = w.Start
	}
	lines := session.RenderLines(s, func(line session.LineContext) (string, bool) {
		if line.ActiveLineOffset < -1 || line.ActiveLineOffset > visibleLines-2 {
			return "", false
		}
		return renderLine(line, cursorWord), true
	}, cfg)
	return strings.Join(lines, "\n")
}

func renderLine(line session.LineContext, cursorWord int) string {
	var b strings.Builder
	for _, ctx := range line.Contents {
		inCursorWord := ctx.Word != nil && ctx.Word.Start == cursorWord
		b.WriteString(charStyle(ctx, inCursorWord).Render(glyph(ctx)))
	}
	return b.String()
}

// keyRunes converts a key press into the runes it types. Enter and tab type
// their whitespace so texts with line breaks and indentation can be typed.
func keyRunes(msg tea.KeyMsg) []rune {
	switch msg.Type {
	case tea.KeyRunes:
		return msg.Runes
	case tea.KeySpace:
		return []rune{' '}
	case tea.KeyEnter:
		return []rune{'\n'}
	case tea.KeyTab:
		return []rune{'\t'}
	}
	return nil
}
