// Package typing holds the per-character and per-word typing state engine.
package typing

import (
	"fmt"
	"slices"
	"strings"
)

const noWord = -1

// Buffer stores the target text as characters and word spans and keeps each
// word's state equal to the highest priority state among its characters.
type Buffer struct {
	characters []Character
	words      []Word
	charToWord []int
}

// NewBuffer parses text into a buffer. It returns false for empty text.
func NewBuffer(text string) (*Buffer, bool) {
	if text == "" {
		return nil, false
	}
	b := &Buffer{}
	b.PushString(text)
	return b, true
}

// IsASCIISpace reports whether r delimits words.
func IsASCIISpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// PushString appends text to the buffer. When the buffer ends mid-word and the
// appended text starts with a non-whitespace rune, the leading run extends the
// last word instead of starting a new one.
func (b *Buffer) PushString(text string) {
	if text == "" {
		return
	}
	runes := []rune(text)
	b.characters = slices.Grow(b.characters, len(runes))
	b.charToWord = slices.Grow(b.charToWord, len(runes))

	current := noWord
	if n := len(b.characters); n > 0 && !IsASCIISpace(b.characters[n-1].Rune) {
		current = b.charToWord[n-1]
	}

	for _, r := range runes {
		index := len(b.characters)
		b.characters = append(b.characters, Character{Rune: r, State: StateNone})
		if IsASCIISpace(r) {
			current = noWord
			b.charToWord = append(b.charToWord, noWord)
			continue
		}
		if current == noWord {
			b.words = append(b.words, Word{Start: index, End: index, State: StateNone})
			current = len(b.words) - 1
		} else {
			b.words[current].End = index
		}
		b.charToWord = append(b.charToWord, current)
	}
}

// TextLen returns the number of characters in the buffer.
func (b *Buffer) TextLen() int {
	return len(b.characters)
}

// WordCount returns the number of words in the buffer.
func (b *Buffer) WordCount() int {
	return len(b.words)
}

// Character returns the character at index.
func (b *Buffer) Character(index int) (Character, bool) {
	if index < 0 || index >= len(b.characters) {
		return Character{}, false
	}
	return b.characters[index], true
}

// CurrentCharacter returns the character awaiting input, or the last character
// once the input has reached the end of the text.
func (b *Buffer) CurrentCharacter(inputLen int) (Character, bool) {
	if c, ok := b.Character(inputLen); ok {
		return c, true
	}
	return b.Character(len(b.characters) - 1)
}

// Word returns the word at index.
func (b *Buffer) Word(index int) (Word, bool) {
	if index < 0 || index >= len(b.words) {
		return Word{}, false
	}
	return b.words[index], true
}

// WordIndexAt returns the index of the word containing the character, or false
// for whitespace and out of range indexes.
func (b *Buffer) WordIndexAt(charIndex int) (int, bool) {
	if charIndex < 0 || charIndex >= len(b.charToWord) {
		return 0, false
	}
	wi := b.charToWord[charIndex]
	if wi == noWord {
		return 0, false
	}
	return wi, true
}

// WordContaining returns the word containing the character.
func (b *Buffer) WordContaining(charIndex int) (Word, bool) {
	wi, ok := b.WordIndexAt(charIndex)
	if !ok {
		return Word{}, false
	}
	return b.words[wi], true
}

// WordText returns the glyphs of a word.
func (b *Buffer) WordText(w Word) string {
	if w.Start < 0 || w.End >= len(b.characters) || w.Start > w.End {
		return ""
	}
	var sb strings.Builder
	for _, c := range b.characters[w.Start : w.End+1] {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

// Text returns the full target text.
func (b *Buffer) Text() string {
	var sb strings.Builder
	for _, c := range b.characters {
		sb.WriteRune(c.Rune)
	}
	return sb.String()
}

func (b *Buffer) setState(index int, state State) {
	b.characters[index].State = state
	b.UpdateWordState(index, state)
}

// UpdateWordState refreshes the state of the word containing charIndex after
// that character changed to newState. Escalation is applied directly; a
// downgrade only rescans the word when no other character still holds the
// word's current state.
func (b *Buffer) UpdateWordState(charIndex int, newState State) {
	wi, ok := b.WordIndexAt(charIndex)
	if !ok {
		return
	}
	word := &b.words[wi]
	current := word.State

	if current.Less(newState) {
		word.State = newState
		return
	}
	if !newState.Less(current) {
		return
	}
	for i := word.Start; i <= word.End; i++ {
		if i != charIndex && b.characters[i].State == current {
			return
		}
	}
	b.recalculateWordState(wi)
}

func (b *Buffer) recalculateWordState(wordIndex int) {
	word := &b.words[wordIndex]
	state := StateNone
	for _, c := range b.characters[word.Start : word.End+1] {
		state = MaxState(state, c.State)
	}
	word.State = state
}

// Check verifies the structural invariants of the buffer and returns the first
// violation found.
func (b *Buffer) Check() error {
	if len(b.charToWord) != len(b.characters) {
		return fmt.Errorf("index map has %d entries for %d characters", len(b.charToWord), len(b.characters))
	}
	prevEnd := -1
	for wi, w := range b.words {
		if w.Start < 0 || w.Start > w.End || w.End >= len(b.characters) {
			return fmt.Errorf("word %d has invalid span [%d, %d]", wi, w.Start, w.End)
		}
		if w.Start <= prevEnd {
			return fmt.Errorf("word %d overlaps previous word", wi)
		}
		prevEnd = w.End
		state := StateNone
		for i := w.Start; i <= w.End; i++ {
			if b.charToWord[i] != wi {
				return fmt.Errorf("character %d maps to word %d, expected %d", i, b.charToWord[i], wi)
			}
			state = MaxState(state, b.characters[i].State)
		}
		if state != w.State {
			return fmt.Errorf("word %d state is %s, expected %s", wi, w.State, state)
		}
	}
	return nil
}
