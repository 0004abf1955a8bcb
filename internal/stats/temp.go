// Package stats contains statistics calculations and reporting.
package stats

import (
	"sort"
	"time"

	"github.com/verte-zerg/typist/internal/typing"
)

// DefaultMeasurementInterval is the default sampling cadence.
const DefaultMeasurementInterval = time.Second

// Config tunes statistics collection.
type Config struct {
	MeasurementInterval time.Duration
}

// DefaultConfig returns the default statistics configuration.
func DefaultConfig() Config {
	return Config{MeasurementInterval: DefaultMeasurementInterval}
}

func (c Config) interval() float64 {
	if c.MeasurementInterval <= 0 {
		return DefaultMeasurementInterval.Seconds()
	}
	return c.MeasurementInterval.Seconds()
}

// Input is one logged keystroke. Timestamp is in seconds from the session start.
type Input struct {
	Timestamp float64
	Rune      rune
	Expected  rune
	Result    typing.CharacterResult
}

// Measurement is a snapshot of speed and accuracy taken at the sampling cadence.
// WindowInputs and WindowErrors cover the interval since the previous sample.
type Measurement struct {
	Timestamp    float64
	Wpm          Wpm
	Ipm          Ipm
	Accuracy     Accuracy
	Consistency  Consistency
	WindowInputs int
	WindowErrors int
}

// Counters accumulate typing events for a session.
type Counters struct {
	Adds         int
	Deletes      int
	Errors       int
	Corrects     int
	Corrections  int
	WrongDeletes int
	CharErrors   map[rune]int
	CharAdds     map[rune]int
	WordErrors   map[string]int
}

// Event is the information fed to TempStatistics for one processed keystroke.
// Expected is the target rune at the affected position and Word the text of
// its containing word, empty for whitespace.
type Event struct {
	Rune     rune
	Expected rune
	Result   typing.CharacterResult
	InputLen int
	Word     string
}

// TempStatistics accumulates statistics while a session is in progress.
type TempStatistics struct {
	Measurements []Measurement
	Inputs       []Input
	Counters     Counters

	windowInputs    int
	windowErrors    int
	lastMeasurement float64
	measured        bool
}

// NewTempStatistics returns an empty accumulator.
func NewTempStatistics() *TempStatistics {
	return &TempStatistics{
		Counters: Counters{
			CharErrors: map[rune]int{},
			CharAdds:   map[rune]int{},
			WordErrors: map[string]int{},
		},
	}
}

// WindowErrors returns the errors made since the last measurement.
func (s *TempStatistics) WindowErrors() int {
	return s.windowErrors
}

// WindowInputs returns the inputs processed since the last measurement.
func (s *TempStatistics) WindowInputs() int {
	return s.windowInputs
}

// LastMeasurement returns the most recent measurement.
func (s *TempStatistics) LastMeasurement() (Measurement, bool) {
	if len(s.Measurements) == 0 {
		return Measurement{}, false
	}
	return s.Measurements[len(s.Measurements)-1], true
}

// Update records one keystroke and takes a measurement when the sampling
// interval has elapsed since the previous one.
func (s *TempStatistics) Update(ev Event, elapsed time.Duration, cfg Config) {
	timestamp := elapsed.Seconds()
	s.record(ev, timestamp)
	if s.shouldMeasure(timestamp, cfg.interval()) {
		s.measure(timestamp, ev.InputLen)
	}
}

func (s *TempStatistics) record(ev Event, timestamp float64) {
	c := &s.Counters
	switch ev.Result.Kind {
	case typing.KindDeleted:
		c.Deletes++
		if ev.Result.Prior == typing.StateCorrect || ev.Result.Prior == typing.StateCorrected {
			c.WrongDeletes++
		}
	case typing.KindWrong:
		c.Errors++
		c.Adds++
		c.CharErrors[ev.Expected]++
		c.CharAdds[ev.Expected]++
		if ev.Word != "" {
			c.WordErrors[ev.Word]++
		}
		s.windowErrors++
	case typing.KindCorrected:
		c.Corrections++
		c.Adds++
		c.CharAdds[ev.Expected]++
	case typing.KindCorrect:
		c.Corrects++
		c.Adds++
		c.CharAdds[ev.Expected]++
	}
	s.windowInputs++
	s.Inputs = append(s.Inputs, Input{
		Timestamp: timestamp,
		Rune:      ev.Rune,
		Expected:  ev.Expected,
		Result:    ev.Result,
	})
}

func (s *TempStatistics) shouldMeasure(timestamp, interval float64) bool {
	if !s.measured {
		return timestamp >= interval
	}
	return timestamp-s.lastMeasurement >= interval
}

func (s *TempStatistics) measure(timestamp float64, inputLen int) {
	m := s.snapshot(timestamp, inputLen)
	m.WindowInputs = s.windowInputs
	m.WindowErrors = s.windowErrors
	s.Measurements = append(s.Measurements, m)
	s.lastMeasurement = timestamp
	s.measured = true
	s.windowInputs = 0
	s.windowErrors = 0
}

func (s *TempStatistics) snapshot(timestamp float64, inputLen int) Measurement {
	minutes := timestamp / 60
	c := s.Counters
	wpm := CalculateWpm(len(s.Inputs), c.Errors, c.Corrections, minutes)
	series := make([]Wpm, 0, len(s.Measurements)+1)
	for _, m := range s.Measurements {
		series = append(series, m.Wpm)
	}
	series = append(series, wpm)
	return Measurement{
		Timestamp:   timestamp,
		Wpm:         wpm,
		Ipm:         CalculateIpm(c.Adds, len(s.Inputs), minutes),
		Accuracy:    CalculateAccuracy(inputLen, c.Errors, c.Corrections),
		Consistency: CalculateConsistency(series),
	}
}

// CharError is the error tally of one target rune.
type CharError struct {
	Char     rune
	Errors   int
	Attempts int
}

// Statistics is the immutable summary of a finished session.
type Statistics struct {
	Wpm          Wpm
	Ipm          Ipm
	Accuracy     Accuracy
	Consistency  Consistency
	Duration     time.Duration
	Measurements []Measurement
	Inputs       []Input
	Counters     Counters
	CharErrors   []CharError
}

// Finalize computes the session summary over the full duration. Consistency
// is taken over the recorded measurement series only.
func (s *TempStatistics) Finalize(duration time.Duration, inputLen int) Statistics {
	minutes := duration.Minutes()
	c := s.Counters
	series := make([]Wpm, len(s.Measurements))
	for i, m := range s.Measurements {
		series[i] = m.Wpm
	}
	return Statistics{
		Wpm:          CalculateWpm(len(s.Inputs), c.Errors, c.Corrections, minutes),
		Ipm:          CalculateIpm(c.Adds, len(s.Inputs), minutes),
		Accuracy:     CalculateAccuracy(inputLen, c.Errors, c.Corrections),
		Consistency:  CalculateConsistency(series),
		Duration:     duration,
		Measurements: append([]Measurement(nil), s.Measurements...),
		Inputs:       append([]Input(nil), s.Inputs...),
		Counters:     copyCounters(c),
		CharErrors:   charErrors(c),
	}
}

func charErrors(c Counters) []CharError {
	out := make([]CharError, 0, len(c.CharErrors))
	for ch, n := range c.CharErrors {
		out = append(out, CharError{Char: ch, Errors: n, Attempts: c.CharAdds[ch]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Errors == out[j].Errors {
			return out[i].Char < out[j].Char
		}
		return out[i].Errors > out[j].Errors
	})
	return out
}

func copyCounters(c Counters) Counters {
	out := c
	out.CharErrors = make(map[rune]int, len(c.CharErrors))
	for k, v := range c.CharErrors {
		out.CharErrors[k] = v
	}
	out.CharAdds = make(map[rune]int, len(c.CharAdds))
	for k, v := range c.CharAdds {
		out.CharAdds[k] = v
	}
	out.WordErrors = make(map[string]int, len(c.WordErrors))
	for k, v := range c.WordErrors {
		out.WordErrors[k] = v
	}
	return out
}
