package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsColumns(t *testing.T) {
	tbl := newTextTable("Char", "Accuracy", "Errors").alignRight(1, 2)
	tbl.add("a", "97.50%", "12")
	tbl.add("<space>", "8.00%", "3")

	lines := tbl.lines()
	want := []string{
		"Char    Accuracy Errors",
		"a         97.50%     12",
		"<space>    8.00%      3",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestTextTableUsesDisplayWidth(t *testing.T) {
	tbl := newTextTable("Char", "N").alignRight(1)
	tbl.add("日本", "1")
	tbl.add("ab", "2")

	var buf bytes.Buffer
	if err := tbl.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "Char N\n日本 1\nab   2\n"
	if buf.String() != want {
		t.Fatalf("expected %q, got %q", want, buf.String())
	}
}

func TestTextTableShortRows(t *testing.T) {
	tbl := newTextTable("A", "B")
	tbl.add("x")
	if lines := tbl.lines(); lines[1] != "x  " {
		t.Fatalf("expected padded short row, got %q", lines[1])
	}
}
