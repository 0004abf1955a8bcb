// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typist/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// WpmSeries returns the actual WPM of each measurement.
func WpmSeries(measurements []Measurement) []float64 {
	out := make([]float64, len(measurements))
	for i, m := range measurements {
		out[i] = m.Wpm.Actual
	}
	return out
}

// RenderResult prints the summary of a single finished session.
func RenderResult(w io.Writer, st Statistics) error {
	lines := []string{
		fmt.Sprintf("WPM: %.1f (raw %.1f)", st.Wpm.Actual, st.Wpm.Raw),
		fmt.Sprintf("IPM: %.1f (raw %.1f)", st.Ipm.Actual, st.Ipm.Raw),
		fmt.Sprintf("Accuracy: %.1f%% (raw %.1f%%)", st.Accuracy.Actual, st.Accuracy.Raw),
		fmt.Sprintf("Consistency: %.1f%%", st.Consistency.ActualPercent),
		fmt.Sprintf("Time: %.1fs", st.Duration.Seconds()),
		fmt.Sprintf("Errors: %d  Corrections: %d  Deletes: %d",
			st.Counters.Errors, st.Counters.Corrections, st.Counters.Deletes),
	}
	if spark := Sparkline(WpmSeries(st.Measurements)); spark != "" {
		lines = append(lines, "WPM: ["+spark+"]")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderSummary prints a summary table for sessions.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalWPM, totalAcc, totalCons float64
	bestWPM := 0.0
	for _, s := range sessions {
		totalWPM += s.Wpm
		totalAcc += s.Accuracy
		totalCons += s.Consistency
		bestWPM = math.Max(bestWPM, s.Wpm)
	}
	count := float64(len(sessions))
	lines := []string{
		"Summary",
		fmt.Sprintf("Sessions: %d", len(sessions)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", totalAcc/count),
		fmt.Sprintf("Avg Consistency: %.2f%%", totalCons/count),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderHistory prints one row per session, newest last.
func RenderHistory(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	tbl := newTextTable("ID", "Ended", "Lang", "Source", "WPM", "Accuracy", "Time").alignRight(4, 5, 6)
	for _, s := range sessions {
		tbl.add(
			s.PublicID,
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Lang,
			s.Source,
			fmt.Sprintf("%.1f", s.Wpm),
			fmt.Sprintf("%.1f%%", s.Accuracy),
			fmt.Sprintf("%.1fs", float64(s.DurationMs)/1000),
		)
	}
	return tbl.write(w)
}

// RenderCurves prints learning curves for WPM and accuracy.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints learning curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	accs := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[i] = s.Wpm
		accs[i] = s.Accuracy
	}
	wpms = MovingAverage(wpms, window)
	accs = MovingAverage(accs, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Learning Curves", []Series{
		{Name: "WPM", Values: wpms},
		{Name: "Accuracy", Values: accs},
	}, width, height, useColor)
}

// RenderCharTable prints per-character aggregates, worst first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	rows := make([]model.CharAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai, aj := accuracy(rows[i]), accuracy(rows[j])
		if ai == aj {
			return rows[i].Char < rows[j].Char
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Character (Windowed)"); err != nil {
		return err
	}

	tbl := newTextTable("Char", "Accuracy", "Attempts", "Errors").alignRight(1, 2, 3)
	for _, r := range rows {
		tbl.add(
			CharLabel(r.Char),
			fmt.Sprintf("%.2f%%", accuracy(r)*100),
			fmt.Sprintf("%d", r.Attempts),
			fmt.Sprintf("%d", r.Errors),
		)
	}
	if err := tbl.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// CharLabel returns a printable label for a character.
func CharLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\t":
		return "<tab>"
	case "\n":
		return "<enter>"
	}
	return ch
}

// RenderCharCurves prints per-character learning curves.
func RenderCharCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window int) error {
	return RenderCharCurvesWithSize(w, sessions, perSession, chars, window, 0, 10, false)
}

// RenderCharCurvesWithSize prints per-character learning curves sized to a given total width.
func RenderCharCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[string]model.CharAggregate, chars []string, window, totalWidth, height int, useColor bool) error {
	if len(chars) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Character Curves"); err != nil {
		return err
	}
	for _, ch := range chars {
		accSeries := make([]float64, len(sessions))
		errSeries := make([]float64, len(sessions))
		for i, s := range sessions {
			agg, ok := perSession[s.SessionID][ch]
			if !ok {
				continue
			}
			accSeries[i] = accuracy(agg) * 100
			errSeries[i] = float64(agg.Errors)
		}
		accSeries = MovingAverage(accSeries, window)
		errSeries = MovingAverage(errSeries, window)
		width := 0
		if totalWidth > 0 {
			width = PlotWidthFor(totalWidth)
		}
		if err := PlotSeriesWithColor(w, fmt.Sprintf("Char %s", CharLabel(ch)), []Series{
			{Name: "Accuracy", Values: accSeries},
			{Name: "Errors", Values: errSeries},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}
