package session

import (
	"strings"
	"testing"

	"github.com/verte-zerg/typist/internal/typing"
)

func lineText(line LineContext) (string, bool) {
	var b strings.Builder
	for _, ctx := range line.Contents {
		b.WriteRune(ctx.Character.Rune)
	}
	return b.String(), true
}

func TestRenderMarksCursor(t *testing.T) {
	s, _ := New("ab c")
	_, _, _ = s.Input(typing.TypeKey('a'))

	got := Render(s, func(ctx RenderingContext) string {
		out := string(ctx.Character.Rune)
		if ctx.HasCursor {
			out = "[" + out + "]"
		}
		return out
	})
	if strings.Join(got, "") != "a[b] c" {
		t.Fatalf("unexpected render: %q", strings.Join(got, ""))
	}
}

func TestRenderIterWordAndIndex(t *testing.T) {
	s, _ := New("ab c")
	i := 0
	for ctx := range s.RenderIter() {
		if ctx.Index != i {
			t.Fatalf("expected index %d, got %d", i, ctx.Index)
		}
		if (ctx.Word == nil) != (i == 2) {
			t.Fatalf("unexpected word presence at %d", i)
		}
		i++
	}
	if i != 4 {
		t.Fatalf("expected 4 contexts, got %d", i)
	}
}

func TestRenderIterRestartsWithCurrentState(t *testing.T) {
	s, _ := New("ab")
	seq := s.RenderIter()

	for ctx := range seq {
		if ctx.Character.State != typing.StateNone {
			t.Fatalf("expected untyped state")
		}
		break
	}

	_, _, _ = s.Input(typing.TypeKey('x'))
	var first RenderingContext
	for ctx := range seq {
		first = ctx
		break
	}
	if first.Index != 0 || first.Character.State != typing.StateWrong {
		t.Fatalf("expected fresh iteration to see wrong state, got %+v", first)
	}
	if first.Word == nil || first.Word.State != typing.StateWrong {
		t.Fatalf("expected word state to follow character")
	}
}

func TestRenderLinesWrapsWords(t *testing.T) {
	s, _ := New("hello world this is a test")
	for _, r := range "hello w" {
		_, _, _ = s.Input(typing.TypeKey(r))
	}

	var offsets []int
	lines := RenderLines(s, func(line LineContext) (string, bool) {
		offsets = append(offsets, line.ActiveLineOffset)
		return lineText(line)
	}, DefaultLineRenderConfig(10))

	want := []string{"hello ", "world this ", "is a test"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %q", lines)
	}
	if offsets[0] != -1 || offsets[1] != 0 || offsets[2] != 1 {
		t.Fatalf("unexpected offsets: %v", offsets)
	}
}

func TestRenderLinesHardWrap(t *testing.T) {
	s, _ := New("hello world this is a test")
	lines := RenderLines(s, lineText, LineRenderConfig{LineLength: 10})
	want := []string{"hello worl", "d this is ", "a test"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestRenderLinesNewlines(t *testing.T) {
	s, _ := New("ab\ncd")
	lines := RenderLines(s, lineText, LineRenderConfig{LineLength: 80, BreakAtNewlines: true})
	if len(lines) != 2 || lines[0] != "ab\n" || lines[1] != "cd" {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestRenderLinesUsesWidth(t *testing.T) {
	s, _ := New("日本語 abc")
	cfg := LineRenderConfig{
		LineLength: 4,
		Width: func(r rune) int {
			if r > 0x7f {
				return 2
			}
			return 1
		},
	}
	lines := RenderLines(s, lineText, cfg)
	want := []string{"日本", "語 a", "bc"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected lines: %q", lines)
	}
}

func TestRenderLinesCursorAtEndIsLastLine(t *testing.T) {
	s, _ := New("ab cd")
	for _, r := range "ab cd" {
		_, _, _ = s.Input(typing.TypeKey(r))
	}
	var offsets []int
	RenderLines(s, func(line LineContext) (int, bool) {
		offsets = append(offsets, line.ActiveLineOffset)
		return 0, false
	}, DefaultLineRenderConfig(3))
	if len(offsets) != 2 || offsets[0] != -1 || offsets[1] != 0 {
		t.Fatalf("unexpected offsets: %v", offsets)
	}
}
