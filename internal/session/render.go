package session

import (
	"iter"

	"github.com/verte-zerg/typist/internal/typing"
)

// RenderingContext describes one character for a renderer. Word is nil for
// whitespace. HasCursor marks the next character to be typed.
type RenderingContext struct {
	Character typing.Character
	Word      *typing.Word
	HasCursor bool
	Index     int
}

// LineContext is one rendered line. ActiveLineOffset is the line's distance
// from the line holding the cursor: negative above, zero on it, positive below.
type LineContext struct {
	ActiveLineOffset int
	Contents         []RenderingContext
}

// LineRenderConfig controls line breaking.
type LineRenderConfig struct {
	// LineLength is the maximum line width in cells.
	LineLength int
	// WrapWords breaks lines at whitespace so that words are not split.
	WrapWords bool
	// BreakAtNewlines ends a line after every '\n'.
	BreakAtNewlines bool
	// Width returns the display width of a rune. Nil counts one cell per rune.
	Width func(rune) int
}

// DefaultLineRenderConfig returns a word-wrapping config for the given width.
func DefaultLineRenderConfig(lineLength int) LineRenderConfig {
	return LineRenderConfig{
		LineLength:      lineLength,
		WrapWords:       true,
		BreakAtNewlines: true,
	}
}

func (c LineRenderConfig) width(r rune) int {
	if c.Width == nil {
		return 1
	}
	if w := c.Width(r); w > 0 {
		return w
	}
	return 0
}

// RenderIter yields a context for every character in index order. Each call
// starts from the beginning and reflects the current state.
func (s *Session) RenderIter() iter.Seq[RenderingContext] {
	return func(yield func(RenderingContext) bool) {
		cursor := s.handler.InputLen()
		for i := 0; i < s.buffer.TextLen(); i++ {
			if !yield(s.renderingContext(i, cursor)) {
				return
			}
		}
	}
}

func (s *Session) renderingContext(index, cursor int) RenderingContext {
	c, _ := s.buffer.Character(index)
	ctx := RenderingContext{
		Character: c,
		HasCursor: index == cursor,
		Index:     index,
	}
	if w, ok := s.buffer.WordContaining(index); ok {
		ctx.Word = &w
	}
	return ctx
}

// Render maps every character of s through fn.
func Render[T any](s *Session, fn func(RenderingContext) T) []T {
	out := make([]T, 0, s.TextLen())
	for ctx := range s.RenderIter() {
		out = append(out, fn(ctx))
	}
	return out
}

// RenderLines splits the text into lines and maps each line through fn.
// Lines for which fn returns false are omitted.
func RenderLines[T any](s *Session, fn func(LineContext) (T, bool), cfg LineRenderConfig) []T {
	lines := s.breakLines(cfg)
	cursorLine := len(lines) - 1
	for i, line := range lines {
		if containsCursor(line) {
			cursorLine = i
			break
		}
	}
	out := make([]T, 0, len(lines))
	for i, line := range lines {
		v, ok := fn(LineContext{ActiveLineOffset: i - cursorLine, Contents: line})
		if ok {
			out = append(out, v)
		}
	}
	return out
}

func containsCursor(line []RenderingContext) bool {
	for _, ctx := range line {
		if ctx.HasCursor {
			return true
		}
	}
	return false
}

func (s *Session) breakLines(cfg LineRenderConfig) [][]RenderingContext {
	var (
		lines [][]RenderingContext
		line  []RenderingContext
		used  int
	)
	flush := func() {
		lines = append(lines, line)
		line = nil
		used = 0
	}
	for ctx := range s.RenderIter() {
		r := ctx.Character.Rune
		w := cfg.width(r)

		if cfg.BreakAtNewlines && r == '\n' {
			line = append(line, ctx)
			flush()
			continue
		}

		if typing.IsASCIISpace(r) {
			// Whitespace always stays on the line it ends, even past the limit.
			line = append(line, ctx)
			used += w
			if cfg.WrapWords && cfg.LineLength > 0 && used+s.nextWordWidth(ctx.Index+1, cfg) > cfg.LineLength {
				flush()
			}
			continue
		}

		if cfg.LineLength > 0 && used > 0 && used+w > cfg.LineLength {
			flush()
		}
		line = append(line, ctx)
		used += w
	}
	if len(line) > 0 {
		flush()
	}
	return lines
}

func (s *Session) nextWordWidth(from int, cfg LineRenderConfig) int {
	width := 0
	for i := from; i < s.buffer.TextLen(); i++ {
		c, _ := s.buffer.Character(i)
		if typing.IsASCIISpace(c.Rune) {
			break
		}
		width += cfg.width(c.Rune)
	}
	return width
}
