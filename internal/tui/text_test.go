package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typist/internal/session"
	"github.com/verte-zerg/typist/internal/typing"
)

func newTestSession(t *testing.T, text string) *session.Session {
	t.Helper()
	s, ok := session.New(text)
	if !ok {
		t.Fatalf("expected session for %q", text)
	}
	return s
}

func typeRunes(t *testing.T, s *session.Session, text string) {
	t.Helper()
	for _, r := range text {
		if _, _, err := s.Input(typing.TypeKey(r)); err != nil {
			t.Fatalf("type %q: %v", r, err)
		}
	}
}

func TestCharStyleByState(t *testing.T) {
	s := newTestSession(t, "ab cd")
	typeRunes(t, s, "ax")

	ctxs := session.Render(s, func(ctx session.RenderingContext) session.RenderingContext { return ctx })
	if got := charStyle(ctxs[0], false).Render("a"); got != correctStyle.Render("a") {
		t.Fatalf("expected correct style for first rune")
	}
	if got := charStyle(ctxs[1], false).Render("b"); got != wrongStyle.Render("b") {
		t.Fatalf("expected wrong style for mistyped rune")
	}
	if got := charStyle(ctxs[2], false).Render(" "); got != pendingStyle.Underline(true).Render(" ") {
		t.Fatalf("expected cursor style for next rune")
	}
	if got := charStyle(ctxs[3], true).Render("c"); got != currentWordStyle.Render("c") {
		t.Fatalf("expected current word style")
	}
}

func TestCharStyleAfterDelete(t *testing.T) {
	s := newTestSession(t, "ab")
	typeRunes(t, s, "x")
	if _, _, err := s.Input(typing.DeleteKey()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ctxs := session.Render(s, func(ctx session.RenderingContext) session.RenderingContext { return ctx })
	if ctxs[0].Character.State != typing.StateWasWrong {
		t.Fatalf("expected was-wrong state, got %v", ctxs[0].Character.State)
	}
	if got := charStyle(ctxs[0], true).Render("a"); got != wasWrongStyle.Underline(true).Render("a") {
		t.Fatalf("expected deleted mistake to keep its mark")
	}
}

func TestGlyphShowsMistypedWhitespace(t *testing.T) {
	s := newTestSession(t, "a b\nc")
	typeRunes(t, s, "ax")
	ctxs := session.Render(s, func(ctx session.RenderingContext) session.RenderingContext { return ctx })

	if got := glyph(ctxs[0]); got != "a" {
		t.Fatalf("expected rune glyph, got %q", got)
	}
	if got := glyph(ctxs[1]); got != "•" {
		t.Fatalf("expected visible mistyped space, got %q", got)
	}
	if got := glyph(ctxs[3]); got != " " {
		t.Fatalf("expected blank pending newline, got %q", got)
	}

	typeRunes(t, s, "b")
	ctxs = session.Render(s, func(ctx session.RenderingContext) session.RenderingContext { return ctx })
	if got := glyph(ctxs[3]); got != "⏎" {
		t.Fatalf("expected newline marker under cursor, got %q", got)
	}
}

func TestCellWidth(t *testing.T) {
	cases := map[rune]int{'a': 1, ' ': 1, '\t': 1, '\n': 1, '日': 2}
	for r, want := range cases {
		if got := cellWidth(r); got != want {
			t.Fatalf("cellWidth(%q) = %d, want %d", r, got, want)
		}
	}
}

func TestRenderTextWindow(t *testing.T) {
	s := newTestSession(t, "aa bb cc dd ee ff gg")
	if got := strings.Count(renderText(s, 3, 3), "\n") + 1; got != 2 {
		t.Fatalf("expected cursor line and one ahead, got %d lines", got)
	}

	typeRunes(t, s, "aa bb cc ")
	if got := strings.Count(renderText(s, 3, 3), "\n") + 1; got != 3 {
		t.Fatalf("expected previous, cursor and next line, got %d lines", got)
	}
	if got := strings.Count(renderText(s, 3, 1), "\n") + 1; got != 3 {
		t.Fatalf("expected window to be clamped to %d lines, got %d", minVisibleLines, got)
	}
}

func TestKeyRunes(t *testing.T) {
	cases := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, "ab"},
		{tea.KeyMsg{Type: tea.KeySpace}, " "},
		{tea.KeyMsg{Type: tea.KeyEnter}, "\n"},
		{tea.KeyMsg{Type: tea.KeyTab}, "\t"},
		{tea.KeyMsg{Type: tea.KeyUp}, ""},
	}
	for _, tc := range cases {
		if got := string(keyRunes(tc.msg)); got != tc.want {
			t.Fatalf("keyRunes(%v) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}
