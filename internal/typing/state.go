// Package typing holds the per-character and per-word typing state engine.
package typing

import "fmt"

// State tags the typing lifecycle of a character or word.
type State int

const (
	StateNone State = iota
	StateCorrect
	StateCorrected
	StateWrong
	StateWasCorrect
	StateWasCorrected
	StateWasWrong
)

// stateRanks is the priority table used when aggregating character states into
// a word state. Higher rank wins. Ranks do not depend on the constant values.
var stateRanks = map[State]int{
	StateNone:         0,
	StateCorrect:      1,
	StateCorrected:    2,
	StateWrong:        3,
	StateWasCorrect:   4,
	StateWasCorrected: 5,
	StateWasWrong:     6,
}

var stateNames = map[State]string{
	StateNone:         "none",
	StateCorrect:      "correct",
	StateCorrected:    "corrected",
	StateWrong:        "wrong",
	StateWasCorrect:   "was-correct",
	StateWasCorrected: "was-corrected",
	StateWasWrong:     "was-wrong",
}

// Rank returns the aggregation priority of the state.
func (s State) Rank() int {
	if r, ok := stateRanks[s]; ok {
		return r
	}
	return -1
}

// Less reports whether s has a lower priority than o.
func (s State) Less(o State) bool {
	return s.Rank() < o.Rank()
}

// IsTyped reports whether the state belongs to a character that is currently typed.
func (s State) IsTyped() bool {
	return s == StateCorrect || s == StateCorrected || s == StateWrong
}

// IsDeleted reports whether the state belongs to a character that was typed and then deleted.
func (s State) IsDeleted() bool {
	return s == StateWasCorrect || s == StateWasCorrected || s == StateWasWrong
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// MaxState returns the higher priority of two states.
func MaxState(a, b State) State {
	if a.Less(b) {
		return b
	}
	return a
}

// Character is a single code point of the target text.
type Character struct {
	Rune  rune
	State State
}

// Word is a maximal run of non-whitespace characters. Start and End are
// inclusive character indexes.
type Word struct {
	Start int
	End   int
	State State
}

// Contains reports whether the character index lies inside the word.
func (w Word) Contains(index int) bool {
	return index >= w.Start && index <= w.End
}

// Len returns the number of characters in the word.
func (w Word) Len() int {
	return w.End - w.Start + 1
}

// ResultKind classifies the outcome of one input operation.
type ResultKind int

const (
	KindCorrect ResultKind = iota
	KindWrong
	KindCorrected
	KindDeleted
)

func (k ResultKind) String() string {
	switch k {
	case KindCorrect:
		return "correct"
	case KindWrong:
		return "wrong"
	case KindCorrected:
		return "corrected"
	case KindDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// CharacterResult is the reported outcome of an add or delete. Prior is only
// set for deletions and holds the state the character had before it.
type CharacterResult struct {
	Kind  ResultKind
	Prior State
}

func ResultCorrect() CharacterResult   { return CharacterResult{Kind: KindCorrect} }
func ResultWrong() CharacterResult     { return CharacterResult{Kind: KindWrong} }
func ResultCorrected() CharacterResult { return CharacterResult{Kind: KindCorrected} }

// ResultDeleted reports a deletion of a character that had the given state.
func ResultDeleted(prior State) CharacterResult {
	return CharacterResult{Kind: KindDeleted, Prior: prior}
}

// IsAdd reports whether the result came from typing a character.
func (r CharacterResult) IsAdd() bool {
	return r.Kind != KindDeleted
}

func (r CharacterResult) String() string {
	if r.Kind == KindDeleted {
		return fmt.Sprintf("deleted(%s)", r.Prior)
	}
	return r.Kind.String()
}

// Keystroke is what a processed input reports back: the rune that was typed
// or removed and the result of the operation.
type Keystroke struct {
	Rune   rune
	Result CharacterResult
}

// Key is one discrete input event.
type Key struct {
	Rune   rune
	Delete bool
}

// TypeKey returns an input event that types r.
func TypeKey(r rune) Key {
	return Key{Rune: r}
}

// DeleteKey returns an input event that removes the last typed rune.
func DeleteKey() Key {
	return Key{Delete: true}
}
