package stats

import (
	"cmp"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/verte-zerg/typist/internal/model"
)

// SelectWeakChars returns up to top characters that were mistyped at least
// once, worst accuracy first. A non-positive top keeps every mistyped char.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	missed := slices.DeleteFunc(slices.Clone(aggs), func(agg model.CharAggregate) bool {
		return agg.Errors <= 0
	})
	slices.SortFunc(missed, func(a, b model.CharAggregate) int {
		if c := cmp.Compare(accuracy(a), accuracy(b)); c != 0 {
			return c
		}
		return cmp.Compare(a.Char, b.Char)
	})
	if top > 0 && top < len(missed) {
		missed = missed[:top]
	}

	weak := make(map[rune]struct{}, len(missed))
	for _, agg := range missed {
		if r, _ := utf8.DecodeRuneInString(agg.Char); r != utf8.RuneError {
			weak[r] = struct{}{}
		}
	}
	return weak
}

// accuracy is the share of attempts typed right, in [0, 1].
func accuracy(agg model.CharAggregate) float64 {
	if agg.Attempts <= 0 {
		return 1
	}
	return math.Max(0, 1-float64(agg.Errors)/float64(agg.Attempts))
}
