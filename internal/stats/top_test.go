package stats

import (
	"testing"

	"github.com/verte-zerg/typist/internal/model"
)

func TestTopCharsByFrequency(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "b", Attempts: 4, Errors: 1},
		{Char: "a", Attempts: 4, Errors: 2},
		{Char: "c", Attempts: 1, Errors: 0},
	}
	top := TopCharsByFrequency(aggs, 2)
	if len(top) != 2 {
		t.Fatalf("expected 2 chars, got %d", len(top))
	}
	if top[0] != "a" || top[1] != "b" {
		t.Fatalf("unexpected order: %v", top)
	}
}

func TestSelectWeakChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Attempts: 10, Errors: 1},
		{Char: "b", Attempts: 10, Errors: 5},
		{Char: "c", Attempts: 10, Errors: 0},
		{Char: "d", Attempts: 4, Errors: 2},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	for _, r := range []rune{'b', 'd'} {
		if _, ok := weak[r]; !ok {
			t.Fatalf("expected %q to be weak, got %v", r, weak)
		}
	}
	if all := SelectWeakChars(aggs, 0); len(all) != 3 {
		t.Fatalf("expected chars without errors to be skipped, got %v", all)
	}
}
