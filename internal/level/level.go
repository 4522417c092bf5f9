// Package level assigns CEFR proficiency tiers to vocabulary entries.
package level

import (
	"strings"

	"github.com/ordforrad/api/internal/model"
)

// Tag is a proficiency tier. Persisted and exported documents use exactly
// these literals.
type Tag string

const (
	A1      Tag = "A1"
	A2      Tag = "A2"
	B1      Tag = "B1"
	B2      Tag = "B2"
	C1      Tag = "C1"
	C2      Tag = "C2"
	Unknown Tag = "Unknown"
)

// All lists every tag in display order.
var All = []Tag{A1, A2, B1, B2, C1, C2, Unknown}

var ranks = map[Tag]int{
	A1:      1,
	A2:      2,
	B1:      3,
	B2:      4,
	C1:      5,
	C2:      6,
	Unknown: 7,
}

// Rank gives the position of t in the total order A1 < ... < C2 < Unknown.
// Unrecognised tags rank with Unknown.
func Rank(t Tag) int {
	if r, ok := ranks[t]; ok {
		return r
	}
	return ranks[Unknown]
}

// Less orders tags by Rank.
func Less(a, b Tag) bool {
	return Rank(a) < Rank(b)
}

// Parse accepts a tag in any case with surrounding whitespace. The second
// return is false when s is not one of A1..C2; Unknown is never parsed from
// input since it is only ever a fallback.
func Parse(s string) (Tag, bool) {
	t := Tag(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case A1, A2, B1, B2, C1, C2:
		return t, true
	}
	return Unknown, false
}

// Classify returns the tier carried in the entry's enrichment, or Unknown
// when there is no enrichment or the hint is not a recognised tier.
func Classify(w model.Word) Tag {
	return FromEnrichment(w.Enrichment)
}

func FromEnrichment(e *model.Enrichment) Tag {
	if e == nil {
		return Unknown
	}
	t, _ := Parse(e.Level)
	return t
}
