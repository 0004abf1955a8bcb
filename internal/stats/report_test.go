package stats

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/store"
)

func openReportStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestBuildReport(t *testing.T) {
	st := openReportStore(t)
	ctx := context.Background()
	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Minute)
		rec := model.SessionRecord{
			StartedAt:      start,
			EndedAt:        start.Add(30 * time.Second),
			Lang:           "en",
			Source:         model.SourceWords,
			TextLen:        11,
			InputLen:       11,
			WpmActual:      float64(30 + i),
			AccuracyActual: 90,
			Adds:           12,
			Errors:         1,
			DurationMs:     30000,
		}
		charStats := []model.CharStats{
			{Char: "a", Attempts: 5, Errors: 0},
			{Char: "b", Attempts: 5, Errors: 1},
		}
		id, _, err := st.InsertSession(ctx, rec, charStats, nil)
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	cfg := model.StatsConfig{
		Lang:        "en",
		Last:        2,
		CurveWindow: 2,
		Chars:       "a,b",
	}
	report, err := BuildReport(ctx, st, cfg)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(report.Sessions))
	}
	if report.Sessions[0].SessionID != ids[1] || report.Sessions[1].SessionID != ids[2] {
		t.Fatalf("unexpected session ids: %+v", report.Sessions)
	}
	if len(report.WindowSessionIDs) != 2 {
		t.Fatalf("expected 2 window session ids, got %d", len(report.WindowSessionIDs))
	}
	if len(report.CharAggsAll) != 2 {
		t.Fatalf("expected char aggregates for all sessions")
	}
	if len(report.CharAggsWindow) == 0 {
		t.Fatalf("expected char aggregates for window sessions")
	}
	if strings.Join(report.CurveChars, "") != "ab" {
		t.Fatalf("expected requested curve chars, got %v", report.CurveChars)
	}
	if got := report.PerSession[ids[2]]["b"]; got.Attempts != 5 || got.Errors != 1 {
		t.Fatalf("unexpected per-session stats: %+v", got)
	}

	var buf bytes.Buffer
	if err := RenderHistory(&buf, report.Sessions); err != nil {
		t.Fatalf("render history: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(buf.String()), "\n"); len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
}

func TestBuildReportDefaultsCurveChars(t *testing.T) {
	st := openReportStore(t)
	ctx := context.Background()
	rec := model.SessionRecord{
		StartedAt:  time.Unix(0, 0),
		EndedAt:    time.Unix(60, 0),
		Lang:       "en",
		Source:     model.SourceWords,
		DurationMs: 60000,
	}
	chars := []model.CharStats{{Char: "e", Attempts: 9}, {Char: "q", Attempts: 1}}
	if _, _, err := st.InsertSession(ctx, rec, chars, nil); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	report, err := BuildReport(ctx, st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.CurveChars) != 2 || report.CurveChars[0] != "e" {
		t.Fatalf("expected most practiced chars first, got %v", report.CurveChars)
	}
}

func TestParseChars(t *testing.T) {
	if got := strings.Join(ParseChars("abca"), ""); got != "abc" {
		t.Fatalf("expected duplicates dropped, got %q", got)
	}
	if got := strings.Join(ParseChars("a,b"), ""); got != "ab" {
		t.Fatalf("expected commas skipped, got %q", got)
	}
	if got := ParseChars(""); len(got) != 0 {
		t.Fatalf("expected no chars, got %v", got)
	}
}
