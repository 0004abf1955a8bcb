package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/typing"
)

func TestMovingAverage(t *testing.T) {
	assert.Equal(t, []float64{1, 1.5, 2.5, 3.5}, MovingAverage([]float64{1, 2, 3, 4}, 2))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "+++", Sparkline([]float64{5, 5, 5}))
	assert.Equal(t, " @", Sparkline([]float64{0, 10}))
}

func TestRenderResult(t *testing.T) {
	s := NewTempStatistics()
	cfg := Config{MeasurementInterval: time.Second}
	for i := 0; i < 5; i++ {
		s.Update(Event{Rune: 'a', Expected: 'a', Result: typing.ResultCorrect(), InputLen: i + 1}, time.Duration(i)*time.Second, cfg)
	}
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, s.Finalize(5*time.Second, 5)))
	out := buf.String()
	assert.Contains(t, out, "WPM: 12.0 (raw 12.0)")
	assert.Contains(t, out, "Accuracy: 100.0%")
	assert.Contains(t, out, "WPM: [")
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, nil))
	assert.Equal(t, "No sessions found.\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderSummary(&buf, []model.SessionAggregate{
		{Wpm: 40, Accuracy: 90, Consistency: 80},
		{Wpm: 60, Accuracy: 100, Consistency: 90},
	}))
	out := buf.String()
	assert.Contains(t, out, "Sessions: 2")
	assert.Contains(t, out, "Avg WPM: 50.00")
	assert.Contains(t, out, "Best WPM: 60.00")
	assert.Contains(t, out, "Avg Accuracy: 95.00%")
}

func TestRenderCharTableOrdersByAccuracy(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, RenderCharTable(&buf, []model.CharAggregate{
		{Char: "a", Attempts: 10, Errors: 1},
		{Char: " ", Attempts: 10, Errors: 5},
	}))
	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[2], "<space>"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "a "), lines[3])
}

func TestStatisticsRecords(t *testing.T) {
	s := NewTempStatistics()
	cfg := Config{MeasurementInterval: time.Second}
	s.Update(Event{Rune: 'x', Expected: 'a', Result: typing.ResultWrong(), InputLen: 1}, 0, cfg)
	s.Update(Event{Rune: 'x', Expected: 'a', Result: typing.ResultDeleted(typing.StateWrong), InputLen: 0}, 500*time.Millisecond, cfg)
	s.Update(Event{Rune: 'a', Expected: 'a', Result: typing.ResultCorrected(), InputLen: 1}, 1500*time.Millisecond, cfg)
	s.Update(Event{Rune: 'b', Expected: 'b', Result: typing.ResultCorrect(), InputLen: 2}, 2*time.Second, cfg)
	st := s.Finalize(2*time.Second, 2)

	started := time.Unix(100, 0).UTC()
	rec := st.SessionRecord(started, "en", model.SourceWords, 2)
	assert.Equal(t, started.Add(2*time.Second), rec.EndedAt)
	assert.Equal(t, 2, rec.InputLen)
	assert.Equal(t, 1, rec.Errors)
	assert.Equal(t, int64(2000), rec.DurationMs)

	assert.Equal(t, []model.CharStats{
		{Char: "a", Attempts: 2, Errors: 1},
		{Char: "b", Attempts: 1, Errors: 0},
	}, st.CharStats())

	ms := st.MeasurementRecords()
	require.Len(t, ms, 1)
	assert.Equal(t, int64(1500), ms[0].TimestampMs)
}
