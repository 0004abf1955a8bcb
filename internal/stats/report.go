package stats

import (
	"context"
	"fmt"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/store"
)

// DefaultCurveChars is how many characters get their own curve when none are
// requested explicitly.
const DefaultCurveChars = 5

// Report is everything the stats views draw from one store query pass.
type Report struct {
	Sessions         []model.SessionAggregate
	WindowSessionIDs []int64
	CharAggsAll      []model.CharAggregate
	CharAggsWindow   []model.CharAggregate

	// CurveChars are the characters plotted per session, either the
	// requested ones or the most practiced.
	CurveChars []string
	PerSession map[int64]map[string]model.CharAggregate
}

// BuildReport loads sessions matching cfg along with their character
// aggregates and the per-session series for the curve characters.
func BuildReport(ctx context.Context, st *store.Store, cfg model.StatsConfig) (Report, error) {
	sessions, err := st.ListSessions(ctx, cfg)
	if err != nil {
		return Report{}, fmt.Errorf("list sessions: %w", err)
	}
	if cfg.Last > 0 && len(sessions) > cfg.Last {
		sessions = sessions[len(sessions)-cfg.Last:]
	}

	r := Report{
		Sessions:         sessions,
		WindowSessionIDs: lastSessionIDs(sessions, cfg.CurveWindow),
	}
	allIDs := sessionIDs(sessions)
	if r.CharAggsAll, err = st.ListCharAggregatesForSessions(ctx, allIDs); err != nil {
		return Report{}, fmt.Errorf("aggregate chars: %w", err)
	}
	if r.CharAggsWindow, err = st.ListCharAggregatesForSessions(ctx, r.WindowSessionIDs); err != nil {
		return Report{}, fmt.Errorf("aggregate window chars: %w", err)
	}

	r.CurveChars = ParseChars(cfg.Chars)
	if len(r.CurveChars) == 0 {
		r.CurveChars = TopCharsByFrequency(r.CharAggsAll, DefaultCurveChars)
	}
	if r.PerSession, err = st.ListCharStatsForSessions(ctx, allIDs, r.CurveChars); err != nil {
		return Report{}, fmt.Errorf("load character curves: %w", err)
	}
	return r, nil
}

// ParseChars splits a --char value into distinct characters, keeping the
// first occurrence order. Commas separate nothing and are skipped, so "a,b"
// and "ab" mean the same thing.
func ParseChars(value string) []string {
	seen := map[rune]bool{',': true}
	var out []string
	for _, r := range value {
		if seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, string(r))
	}
	return out
}

func sessionIDs(sessions []model.SessionAggregate) []int64 {
	ids := make([]int64, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.SessionID)
	}
	return ids
}

func lastSessionIDs(sessions []model.SessionAggregate, window int) []int64 {
	if window > 0 && len(sessions) > window {
		sessions = sessions[len(sessions)-window:]
	}
	return sessionIDs(sessions)
}
