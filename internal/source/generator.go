package source

import (
	"math/rand"
	"unicode"
)

// Generator produces randomized word sequences.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator returns a Generator drawing from rnd.
func NewGenerator(rnd *rand.Rand) *Generator {
	return &Generator{rnd: rnd}
}

// Options controls word decoration.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generate selects words uniformly and applies caps/punctuation rules.
func (g *Generator) Generate(words []string, count int, opts Options) []string {
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.decorate(words[g.rnd.Intn(len(words))], opts))
	}
	return result
}

// GenerateWeighted selects words with a bias toward weak characters. Each
// weak rune in a word adds factor to its weight of 1.
func (g *Generator) GenerateWeighted(words []string, count int, opts Options, weakSet map[rune]struct{}, factor float64) []string {
	cumulative := make([]float64, len(words))
	total := 0.0
	for i, word := range words {
		weakCount := 0
		for _, r := range word {
			if _, ok := weakSet[r]; ok {
				weakCount++
			}
		}
		total += 1.0 + float64(weakCount)*factor
		cumulative[i] = total
	}

	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		target := g.rnd.Float64() * total
		idx := len(words) - 1
		for j, c := range cumulative {
			if target <= c {
				idx = j
				break
			}
		}
		result = append(result, g.decorate(words[idx], opts))
	}
	return result
}

// Shuffle returns a random permutation of words truncated to count.
// A non-positive count keeps every word.
func (g *Generator) Shuffle(words []string, count int, opts Options) []string {
	perm := g.rnd.Perm(len(words))
	if count <= 0 || count > len(perm) {
		count = len(perm)
	}
	result := make([]string, 0, count)
	for _, idx := range perm[:count] {
		result = append(result, g.decorate(words[idx], opts))
	}
	return result
}

func (g *Generator) decorate(word string, opts Options) string {
	if opts.CapsPct > 0 && g.rnd.Float64() <= opts.CapsPct {
		runes := []rune(word)
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
			word = string(runes)
		}
	}
	if opts.PunctPct > 0 && len(opts.PunctSet) > 0 && g.rnd.Float64() <= opts.PunctPct {
		word += string(opts.PunctSet[g.rnd.Intn(len(opts.PunctSet))])
	}
	return word
}
