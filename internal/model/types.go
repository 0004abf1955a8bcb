// Package model defines shared data structures.
package model

import "time"

// Source kinds for practice text.
const (
	SourceWords   = "words"
	SourceShuffle = "shuffle"
	SourceFile    = "file"
	SourceCommand = "command"
)

// Config defines practice settings.
type Config struct {
	Lang       string
	Words      int
	CapsPct    float64
	PunctPct   float64
	PunctSet   string
	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int

	Source  string
	File    string
	Command string
	Format  string

	MeasurementInterval time.Duration
	TimeLimit           time.Duration
	WordGoal            int
	AllowDeletions      bool
	AllowErrors         bool
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
	Chars       string
}

// SessionRecord captures a completed typing session.
type SessionRecord struct {
	PublicID       string
	StartedAt      time.Time
	EndedAt        time.Time
	Lang           string
	Source         string
	TextLen        int
	InputLen       int
	WpmRaw         float64
	WpmActual      float64
	AccuracyRaw    float64
	AccuracyActual float64
	Consistency    float64
	Adds           int
	Deletes        int
	Errors         int
	Corrections    int
	WrongDeletes   int
	DurationMs     int64
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char     string
	Attempts int
	Errors   int
}

// MeasurementRecord stores one sampled measurement of a session.
type MeasurementRecord struct {
	TimestampMs int64
	Wpm         float64
	Accuracy    float64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char     string
	Attempts int
	Errors   int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID   int64
	PublicID    string
	EndedAt     time.Time
	Lang        string
	Source      string
	Wpm         float64
	Accuracy    float64
	Consistency float64
	Errors      int
	DurationMs  int64
}
