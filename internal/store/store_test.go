package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typist/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "data", "typist.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func sampleRecord(lang string, endedAt time.Time) model.SessionRecord {
	return model.SessionRecord{
		StartedAt:      endedAt.Add(-30 * time.Second),
		EndedAt:        endedAt,
		Lang:           lang,
		Source:         model.SourceWords,
		TextLen:        50,
		InputLen:       50,
		WpmRaw:         42,
		WpmActual:      40,
		AccuracyRaw:    96,
		AccuracyActual: 98,
		Consistency:    88,
		Adds:           52,
		Deletes:        2,
		Errors:         2,
		Corrections:    1,
		DurationMs:     30000,
	}
}

func TestInsertAndListSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()

	id, publicID, err := st.InsertSession(ctx, sampleRecord("en", base), []model.CharStats{
		{Char: "a", Attempts: 10, Errors: 1},
		{Char: " ", Attempts: 9, Errors: 0},
	}, []model.MeasurementRecord{
		{TimestampMs: 2000, Wpm: 38, Accuracy: 95},
		{TimestampMs: 1000, Wpm: 30, Accuracy: 90},
	})
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if _, err := uuid.Parse(publicID); err != nil {
		t.Fatalf("expected uuid public id, got %q", publicID)
	}
	if _, _, err := st.InsertSession(ctx, sampleRecord("de", base.Add(time.Minute)), nil, nil); err != nil {
		t.Fatalf("insert session: %v", err)
	}

	sessions, err := st.ListSessions(ctx, model.StatsConfig{Lang: "en"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != id || sessions[0].PublicID != publicID {
		t.Fatalf("unexpected sessions: %+v", sessions)
	}
	if sessions[0].Wpm != 40 || sessions[0].Accuracy != 98 || !sessions[0].EndedAt.Equal(base) {
		t.Fatalf("unexpected session values: %+v", sessions[0])
	}

	all, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(all) != 2 || all[1].Lang != "de" {
		t.Fatalf("expected both sessions oldest first, got %+v", all)
	}

	ms, err := st.ListMeasurements(ctx, id)
	if err != nil {
		t.Fatalf("list measurements: %v", err)
	}
	if len(ms) != 2 || ms[0].TimestampMs != 1000 || ms[1].Wpm != 38 {
		t.Fatalf("unexpected measurements: %+v", ms)
	}
}

func TestInsertSessionKeepsPublicID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := sampleRecord("en", time.Unix(0, 0).UTC())
	rec.PublicID = uuid.NewString()

	_, publicID, err := st.InsertSession(ctx, rec, nil, nil)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if publicID != rec.PublicID {
		t.Fatalf("expected %s, got %s", rec.PublicID, publicID)
	}
	got, err := st.GetSession(ctx, publicID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got.PublicID != publicID {
		t.Fatalf("unexpected session: %+v", got)
	}

	if _, _, err := st.InsertSession(ctx, rec, nil, nil); err == nil {
		t.Fatalf("expected duplicate public id to fail")
	}
}

func TestGetSessionErrors(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	if _, err := st.GetSession(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.GetSession(ctx, "not-a-uuid"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestGetWeakCharsUsesRecentWindow(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Unix(1700000000, 0).UTC()
	for i := 0; i < 3; i++ {
		chars := []model.CharStats{{Char: "a", Attempts: 10, Errors: i}}
		if _, _, err := st.InsertSession(ctx, sampleRecord("en", base.Add(time.Duration(i)*time.Minute)), chars, nil); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}

	aggs, err := st.GetWeakChars(ctx, 2, "en")
	if err != nil {
		t.Fatalf("weak chars: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Attempts != 20 || aggs[0].Errors != 3 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
	if aggs, _ := st.GetWeakChars(ctx, 0, "en"); aggs != nil {
		t.Fatalf("expected nil for empty window")
	}
}

func TestListCharStatsForSessions(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	id, _, err := st.InsertSession(ctx, sampleRecord("en", time.Unix(0, 0).UTC()), []model.CharStats{
		{Char: "a", Attempts: 4, Errors: 1},
		{Char: "b", Attempts: 2, Errors: 2},
	}, nil)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	got, err := st.ListCharStatsForSessions(ctx, []int64{id}, []string{"b"})
	if err != nil {
		t.Fatalf("list char stats: %v", err)
	}
	if len(got[id]) != 1 || got[id]["b"].Errors != 2 {
		t.Fatalf("unexpected char stats: %+v", got)
	}
}
