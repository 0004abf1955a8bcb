package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/typist/internal/model"
)

// SessionRecord converts a finished session into its stored form.
func (s Statistics) SessionRecord(startedAt time.Time, lang, source string, textLen int) model.SessionRecord {
	inputLen := s.Counters.Adds - s.Counters.Deletes
	return model.SessionRecord{
		StartedAt:      startedAt,
		EndedAt:        startedAt.Add(s.Duration),
		Lang:           lang,
		Source:         source,
		TextLen:        textLen,
		InputLen:       inputLen,
		WpmRaw:         s.Wpm.Raw,
		WpmActual:      s.Wpm.Actual,
		AccuracyRaw:    s.Accuracy.Raw,
		AccuracyActual: s.Accuracy.Actual,
		Consistency:    s.Consistency.ActualPercent,
		Adds:           s.Counters.Adds,
		Deletes:        s.Counters.Deletes,
		Errors:         s.Counters.Errors,
		Corrections:    s.Counters.Corrections,
		WrongDeletes:   s.Counters.WrongDeletes,
		DurationMs:     s.Duration.Milliseconds(),
	}
}

// CharStats returns per-character attempts and errors ordered by character.
func (s Statistics) CharStats() []model.CharStats {
	out := make([]model.CharStats, 0, len(s.Counters.CharAdds))
	for ch, attempts := range s.Counters.CharAdds {
		out = append(out, model.CharStats{
			Char:     string(ch),
			Attempts: attempts,
			Errors:   s.Counters.CharErrors[ch],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Char < out[j].Char })
	return out
}

// MeasurementRecords returns the measurements in stored form.
func (s Statistics) MeasurementRecords() []model.MeasurementRecord {
	out := make([]model.MeasurementRecord, len(s.Measurements))
	for i, m := range s.Measurements {
		out[i] = model.MeasurementRecord{
			TimestampMs: int64(m.Timestamp * 1000),
			Wpm:         m.Wpm.Actual,
			Accuracy:    m.Accuracy.Actual,
		}
	}
	return out
}
