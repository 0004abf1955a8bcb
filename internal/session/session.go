// Package session composes the text buffer, input handler and statistics
// tracker into a single typing session.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/typing"
)

// ErrNotFullyTyped is returned by Finalize while text remains to be typed.
var ErrNotFullyTyped = errors.New("session is not fully typed")

// Session is a single typing session. It is not safe for concurrent use.
type Session struct {
	buffer  *typing.Buffer
	handler *typing.Handler
	tracker *stats.Tracker
	config  stats.Config
	clock   stats.Clock
}

// Option configures a Session.
type Option func(*Session)

// WithConfig sets the statistics configuration.
func WithConfig(cfg stats.Config) Option {
	return func(s *Session) {
		s.config = cfg
	}
}

// WithClock sets the clock used for timing.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.clock = now
	}
}

// New creates a session for text. It returns false when text is empty.
func New(text string, opts ...Option) (*Session, bool) {
	buf, ok := typing.NewBuffer(text)
	if !ok {
		return nil, false
	}
	s := &Session{
		buffer:  buf,
		handler: typing.NewHandler(),
		config:  stats.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracker = stats.NewTracker(s.clock)
	return s, true
}

// PushString appends text to the session. A completed session resumes timing.
func (s *Session) PushString(text string) {
	before := s.buffer.TextLen()
	s.buffer.PushString(text)
	if s.buffer.TextLen() > before {
		s.tracker.Reopen()
	}
}

// Input applies a keystroke. It returns false when the key does not apply:
// typing once fully typed or deleting with no input. A non-nil error means
// the buffer and input went out of sync and the session must be discarded.
func (s *Session) Input(key typing.Key) (typing.Keystroke, bool, error) {
	ks, ok, err := s.handler.Process(key, s.buffer)
	if err != nil || !ok {
		return ks, ok, err
	}

	index := s.handler.InputLen()
	if ks.Result.IsAdd() {
		index--
	}
	ev := stats.Event{
		Rune:     ks.Rune,
		Result:   ks.Result,
		InputLen: s.handler.InputLen(),
	}
	if c, ok := s.buffer.Character(index); ok {
		ev.Expected = c.Rune
	}
	if w, ok := s.buffer.WordContaining(index); ok {
		ev.Word = s.buffer.WordText(w)
	}
	s.tracker.Update(ev, s.config)

	if s.IsFullyTyped() {
		s.tracker.MarkCompleted()
	}
	return ks, true, nil
}

// Finalize returns the session summary. It fails with ErrNotFullyTyped until
// every character has been typed.
func (s *Session) Finalize() (stats.Statistics, error) {
	if !s.IsFullyTyped() {
		return stats.Statistics{}, fmt.Errorf("%w: %d of %d characters typed",
			ErrNotFullyTyped, s.InputLen(), s.TextLen())
	}
	s.tracker.MarkCompleted()
	return s.tracker.Finalize(s.InputLen()), nil
}

// Summary computes statistics over the input typed so far. It serves
// sessions ended early by a time limit or word goal.
func (s *Session) Summary() stats.Statistics {
	if s.IsFullyTyped() {
		s.tracker.MarkCompleted()
	}
	return s.tracker.Finalize(s.InputLen())
}

// Errors returns the number of wrong keystrokes so far.
func (s *Session) Errors() int {
	return s.tracker.Statistics().Counters.Errors
}

// Statistics returns the live statistics.
func (s *Session) Statistics() *stats.TempStatistics {
	return s.tracker.Statistics()
}

// Config returns the statistics configuration in use.
func (s *Session) Config() stats.Config {
	return s.config
}

func (s *Session) TextLen() int {
	return s.buffer.TextLen()
}

func (s *Session) InputLen() int {
	return s.handler.InputLen()
}

func (s *Session) WordCount() int {
	return s.buffer.WordCount()
}

func (s *Session) IsInputEmpty() bool {
	return s.handler.IsInputEmpty()
}

func (s *Session) IsFullyTyped() bool {
	return s.handler.IsFullyTyped(s.buffer.TextLen())
}

// CurrentCharacter returns the character under the cursor, or the last
// character once the text is fully typed.
func (s *Session) CurrentCharacter() typing.Character {
	c, _ := s.buffer.CurrentCharacter(s.handler.InputLen())
	return c
}

func (s *Session) Character(index int) (typing.Character, bool) {
	return s.buffer.Character(index)
}

func (s *Session) Word(index int) (typing.Word, bool) {
	return s.buffer.Word(index)
}

func (s *Session) WordContainingIndex(index int) (typing.Word, bool) {
	return s.buffer.WordContaining(index)
}

// WordText returns the text of w.
func (s *Session) WordText(w typing.Word) string {
	return s.buffer.WordText(w)
}

// Text returns the full target text.
func (s *Session) Text() string {
	return s.buffer.Text()
}

// CompletionPercentage returns the typed share of the text in percent.
func (s *Session) CompletionPercentage() float64 {
	textLen := s.buffer.TextLen()
	if textLen == 0 {
		return 0
	}
	return float64(s.handler.InputLen()) / float64(textLen) * 100
}

// WordsTypedCount returns how many leading words have been typed to their end.
func (s *Session) WordsTypedCount() int {
	inputLen := s.handler.InputLen()
	count := 0
	for i := 0; i < s.buffer.WordCount(); i++ {
		w, _ := s.buffer.Word(i)
		if inputLen <= w.End {
			break
		}
		count = i + 1
	}
	return count
}

// TimeElapsed returns the time since the first keystroke, frozen at completion.
func (s *Session) TimeElapsed() time.Duration {
	d, _ := s.tracker.TotalDuration()
	return d
}

// HasStarted reports whether any keystroke was processed.
func (s *Session) HasStarted() bool {
	return s.tracker.HasStarted()
}
