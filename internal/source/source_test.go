package source

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFilterEnglishASCII(t *testing.T) {
	filter := FilterForLang("en")
	if !filter("hello") {
		t.Fatalf("expected hello to pass english filter")
	}
	for _, word := range []string{"résumé", "naïve", "don’t", "co-op", ""} {
		if filter(word) {
			t.Fatalf("expected %q to be rejected", word)
		}
	}
	if !FilterForLang("de")("größe") {
		t.Fatalf("expected other languages to keep non-ascii words")
	}
}

func TestLoadWords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.txt")
	if err := os.WriteFile(path, []byte("alpha\n\n  beta \nCaps\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	words, err := LoadWords(path, FilterForLang("en"))
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	if strings.Join(words, ",") != "alpha,beta" {
		t.Fatalf("unexpected words: %v", words)
	}

	empty := filepath.Join(dir, "xx.txt")
	if err := os.WriteFile(empty, []byte("\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadWords(empty, nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	langs, err := ListLangs(dir)
	if err != nil {
		t.Fatalf("list langs: %v", err)
	}
	if strings.Join(langs, ",") != "en,xx" {
		t.Fatalf("unexpected langs: %v", langs)
	}
	if langs, err := ListLangs(filepath.Join(dir, "missing")); err != nil || langs != nil {
		t.Fatalf("expected missing dir to yield nothing, got %v %v", langs, err)
	}
}

func TestWordSourceGenerate(t *testing.T) {
	src := &WordSource{
		Gen:   NewGenerator(rand.New(rand.NewSource(1))),
		Words: []string{"one", "two", "three"},
		Count: 5,
	}
	text, err := src.Text(context.Background())
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	words := strings.Fields(text)
	if len(words) != 5 {
		t.Fatalf("expected 5 words, got %q", text)
	}
	for _, w := range words {
		if w != "one" && w != "two" && w != "three" {
			t.Fatalf("unexpected word %q", w)
		}
	}
	if src.Name() != "words" {
		t.Fatalf("unexpected name %q", src.Name())
	}
}

func TestWordSourceDecorates(t *testing.T) {
	src := &WordSource{
		Gen:     NewGenerator(rand.New(rand.NewSource(2))),
		Words:   []string{"word"},
		Count:   3,
		Options: Options{CapsPct: 1, PunctPct: 1, PunctSet: []rune{'!'}},
	}
	text, _ := src.Text(context.Background())
	if text != "Word! Word! Word!" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestWordSourceShuffle(t *testing.T) {
	src := &WordSource{
		Gen:     NewGenerator(rand.New(rand.NewSource(3))),
		Words:   []string{"a", "b", "c", "d"},
		Shuffle: true,
	}
	text, _ := src.Text(context.Background())
	words := strings.Fields(text)
	if len(words) != 4 {
		t.Fatalf("expected every word once, got %q", text)
	}
	seen := map[string]bool{}
	for _, w := range words {
		seen[w] = true
	}
	if len(seen) != 4 {
		t.Fatalf("expected a permutation, got %q", text)
	}
}

func TestGenerateWeightedPrefersWeakWords(t *testing.T) {
	gen := NewGenerator(rand.New(rand.NewSource(4)))
	words := gen.GenerateWeighted([]string{"aaa", "zzz"}, 400, Options{}, map[rune]struct{}{'z': {}}, 10)
	weak := 0
	for _, w := range words {
		if w == "zzz" {
			weak++
		}
	}
	// zzz has weight 31 against 1.
	if weak < 300 {
		t.Fatalf("expected weak word to dominate, got %d of 400", weak)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("\nfirst line  \r\nsecond\n\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	text, err := (&FileSource{Path: path}).Text(context.Background())
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if text != "first line\nsecond" {
		t.Fatalf("unexpected text %q", text)
	}

	blank := filepath.Join(t.TempDir(), "blank.txt")
	if err := os.WriteFile(blank, []byte("  \n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (&FileSource{Path: blank}).Text(context.Background()); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestParseOutput(t *testing.T) {
	cases := []struct {
		format OutputFormat
		in     string
		want   string
	}{
		{FormatText, "hello world\n", "hello world"},
		{FormatLines, "hello\nworld\n", "hello world"},
		{FormatJSONArray, `["hello", "big world"]`, "hello big world"},
	}
	for _, tc := range cases {
		got, err := parseOutput(tc.in, tc.format)
		if err != nil || got != tc.want {
			t.Fatalf("%s: expected %q, got %q (%v)", tc.format, tc.want, got, err)
		}
	}
	if _, err := parseOutput("not json", FormatJSONArray); err == nil {
		t.Fatalf("expected json error")
	}
	if _, err := parseOutput("x", "xml"); err == nil {
		t.Fatalf("expected unknown format error")
	}
}

func requireCommand(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestCommandSource(t *testing.T) {
	requireCommand(t, "echo")
	text, err := (&CommandSource{Command: "echo quick brown fox", Format: FormatLines}).Text(context.Background())
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if text != "quick brown fox" {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestCommandSourceFailures(t *testing.T) {
	requireCommand(t, "false")
	_, err := (&CommandSource{Command: "false"}).Text(context.Background())
	var cerr *CommandError
	if !errors.As(err, &cerr) || cerr.ExitCode != 1 {
		t.Fatalf("expected exit code error, got %v", err)
	}

	requireCommand(t, "true")
	if _, err := (&CommandSource{Command: "true"}).Text(context.Background()); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}

	if _, err := (&CommandSource{Command: "  "}).Text(context.Background()); err == nil {
		t.Fatalf("expected empty command error")
	}
}

func TestCommandSourceTimeout(t *testing.T) {
	requireCommand(t, "sleep")
	_, err := (&CommandSource{Command: "sleep 5", Timeout: 50 * time.Millisecond}).Text(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
}
