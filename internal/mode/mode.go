// Package mode decides when a practice session ends.
package mode

import (
	"fmt"
	"time"

	"github.com/verte-zerg/typist/internal/typing"
)

// Reason tells why a session ended.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonCompleted
	ReasonTimeLimit
	ReasonWordGoal
	ReasonError
)

func (r Reason) String() string {
	switch r {
	case ReasonCompleted:
		return "completed"
	case ReasonTimeLimit:
		return "time limit reached"
	case ReasonWordGoal:
		return "word goal reached"
	case ReasonError:
		return "mistake made"
	default:
		return "running"
	}
}

// MinRemainingChars is how much untyped text a timed session keeps ahead of
// the cursor.
const MinRemainingChars = 100

// Progress is the session state the conditions are checked against.
type Progress interface {
	TextLen() int
	InputLen() int
	IsFullyTyped() bool
	WordsTypedCount() int
	WordCount() int
	TimeElapsed() time.Duration
	Errors() int
}

// Conditions are the end-of-session rules. Zero values disable a rule.
type Conditions struct {
	TimeLimit      time.Duration
	WordGoal       int
	AllowDeletions bool
	AllowErrors    bool
}

// Default returns conditions that only end a session once it is fully typed.
func Default() Conditions {
	return Conditions{AllowDeletions: true, AllowErrors: true}
}

// Validate reports invalid settings.
func (c Conditions) Validate() error {
	if c.TimeLimit < 0 {
		return fmt.Errorf("time limit must be >= 0")
	}
	if c.WordGoal < 0 {
		return fmt.Errorf("word goal must be >= 0")
	}
	return nil
}

// Check returns the reason the session should end, or ReasonNone.
func (c Conditions) Check(p Progress) Reason {
	switch {
	case p.IsFullyTyped():
		return ReasonCompleted
	case c.WordGoal > 0 && p.WordsTypedCount() >= c.WordGoal:
		return ReasonWordGoal
	case c.TimeLimit > 0 && p.TimeElapsed() >= c.TimeLimit:
		return ReasonTimeLimit
	case !c.AllowErrors && p.Errors() > 0:
		return ReasonError
	}
	return ReasonNone
}

// Accepts reports whether key may be passed to the session.
func (c Conditions) Accepts(key typing.Key) bool {
	return !key.Delete || c.AllowDeletions
}

// NeedsMoreText reports whether the text is too short for the word goal, or
// whether a timed session is running low on untyped text.
func (c Conditions) NeedsMoreText(p Progress) bool {
	if c.WordGoal > 0 && p.WordCount() < c.WordGoal {
		return true
	}
	return c.TimeLimit > 0 && p.TextLen()-p.InputLen() < MinRemainingChars
}

// Remaining returns the time left before the time limit.
func (c Conditions) Remaining(p Progress) (time.Duration, bool) {
	if c.TimeLimit <= 0 {
		return 0, false
	}
	return max(c.TimeLimit-p.TimeElapsed(), 0), true
}

// Describe returns a short label such as "60s" or "25 words".
func (c Conditions) Describe() string {
	switch {
	case c.TimeLimit > 0 && c.WordGoal > 0:
		return fmt.Sprintf("%s / %d words", c.TimeLimit, c.WordGoal)
	case c.TimeLimit > 0:
		return c.TimeLimit.String()
	case c.WordGoal > 0:
		return fmt.Sprintf("%d words", c.WordGoal)
	}
	return "text"
}
