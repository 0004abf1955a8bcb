// Package typing holds the per-character and per-word typing state engine.
package typing

import (
	"errors"
	"fmt"
)

// ErrInvariant is matched by every protocol violation reported by Handler.
var ErrInvariant = errors.New("typing protocol violated")

// InvariantError describes a transition that the state machine does not allow,
// such as typing over a character that is already typed.
type InvariantError struct {
	Op    string
	Index int
	State State
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: cannot %s character %d in state %s", ErrInvariant, e.Op, e.Index, e.State)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }

// AddTransition returns the new state and result for typing onto a character
// in state prior. matches reports whether the typed rune equals the target.
func AddTransition(prior State, matches bool) (State, CharacterResult, error) {
	if !matches {
		return StateWrong, ResultWrong(), nil
	}
	switch prior {
	case StateNone:
		return StateCorrect, ResultCorrect(), nil
	case StateWasWrong:
		return StateCorrected, ResultCorrected(), nil
	case StateWasCorrected:
		// The keystroke itself is correct; the character keeps its corrected history.
		return StateCorrected, ResultCorrect(), nil
	case StateWasCorrect:
		return StateCorrect, ResultCorrect(), nil
	default:
		return prior, CharacterResult{}, &InvariantError{Op: "add", Index: -1, State: prior}
	}
}

// DeleteTransition returns the state a typed character moves to when deleted.
func DeleteTransition(prior State) (State, CharacterResult, error) {
	switch prior {
	case StateWrong:
		return StateWasWrong, ResultDeleted(prior), nil
	case StateCorrected:
		return StateWasCorrected, ResultDeleted(prior), nil
	case StateCorrect:
		return StateWasCorrect, ResultDeleted(prior), nil
	default:
		return prior, CharacterResult{}, &InvariantError{Op: "delete", Index: -1, State: prior}
	}
}

// Handler owns the typed input and applies keystrokes to a Buffer.
type Handler struct {
	input []rune
}

// NewHandler returns an empty input handler.
func NewHandler() *Handler {
	return &Handler{}
}

// InputLen returns the number of typed runes.
func (h *Handler) InputLen() int {
	return len(h.input)
}

// IsInputEmpty reports whether nothing is typed.
func (h *Handler) IsInputEmpty() bool {
	return len(h.input) == 0
}

// IsFullyTyped reports whether the input covers a text of textLen characters.
func (h *Handler) IsFullyTyped(textLen int) bool {
	return len(h.input) >= textLen
}

// Input returns a copy of the typed runes.
func (h *Handler) Input() []rune {
	out := make([]rune, len(h.input))
	copy(out, h.input)
	return out
}

// Process applies key to buf. ok is false when the key does not apply right
// now: typing into a fully typed buffer or deleting with no input. A non-nil
// error means the buffer and the input disagree about what is typed; nothing
// is mutated in that case.
func (h *Handler) Process(key Key, buf *Buffer) (Keystroke, bool, error) {
	if key.Delete {
		return h.delete(buf)
	}
	return h.add(key.Rune, buf)
}

func (h *Handler) add(r rune, buf *Buffer) (Keystroke, bool, error) {
	index := len(h.input)
	if h.IsFullyTyped(buf.TextLen()) {
		return Keystroke{}, false, nil
	}
	target, _ := buf.Character(index)
	state, result, err := AddTransition(target.State, target.Rune == r)
	if err != nil {
		return Keystroke{}, false, withIndex(err, index)
	}
	h.input = append(h.input, r)
	buf.setState(index, state)
	return Keystroke{Rune: r, Result: result}, true, nil
}

func (h *Handler) delete(buf *Buffer) (Keystroke, bool, error) {
	if len(h.input) == 0 {
		return Keystroke{}, false, nil
	}
	index := len(h.input) - 1
	target, ok := buf.Character(index)
	if !ok {
		return Keystroke{}, false, &InvariantError{Op: "delete", Index: index, State: StateNone}
	}
	state, result, err := DeleteTransition(target.State)
	if err != nil {
		return Keystroke{}, false, withIndex(err, index)
	}
	deleted := h.input[index]
	h.input = h.input[:index]
	buf.setState(index, state)
	return Keystroke{Rune: deleted, Result: result}, true, nil
}

func withIndex(err error, index int) error {
	var ie *InvariantError
	if errors.As(err, &ie) {
		ie.Index = index
	}
	return err
}
