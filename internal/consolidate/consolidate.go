// Package consolidate merges vocabulary from one or more sources, together
// with a user's progress, into a single sorted list keyed by headword.
package consolidate

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/ordforrad/api/internal/level"
	"github.com/ordforrad/api/internal/model"
)

// Entry is one merged word in an export document.
type Entry struct {
	Headword       string            `json:"headword"`
	UnifiedLevel   level.Tag         `json:"unified_level"`
	SourceIDs      []int64           `json:"source_ids"`
	Enrichment     *model.Enrichment `json:"enrichment"`
	IsLearned      bool              `json:"is_learned"`
	IsReserve      bool              `json:"is_reserve"`
	LearnedDate    *time.Time        `json:"learned_date,omitempty"`
	ReservedAt     *time.Time        `json:"reserved_at,omitempty"`
	UserMeaning    *string           `json:"user_meaning,omitempty"`
	CustomSpelling *string           `json:"custom_spelling,omitempty"`
}

// Consolidate groups words by folded headword and merges each group with its
// progress. The result does not depend on the order of either input.
func Consolidate(words []model.Word, progress []model.Progress) []Entry {
	index := IndexProgress(progress)

	groups := make(map[string][]model.Word)
	for _, w := range words {
		key := model.FoldHeadword(w.Headword)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], w)
	}

	entries := make([]Entry, 0, len(groups))
	for key, members := range groups {
		entries = append(entries, mergeGroup(key, members, index))
	}
	Sort(entries)
	return entries
}

// IndexProgress keys progress by word reference. A record with a flag set
// replaces one without; otherwise the earlier record is kept. Flags are OR-ed
// and empty fields are filled from the other record, so a true flag never
// reverts. Records are visited in progressLess order, so two sources holding
// copies of the same row merge the same way whichever is passed first.
func IndexProgress(progress []model.Progress) map[model.WordRef]model.Progress {
	sorted := make([]model.Progress, len(progress))
	copy(sorted, progress)
	sort.SliceStable(sorted, func(i, j int) bool { return progressLess(sorted[i], sorted[j]) })

	index := make(map[model.WordRef]model.Progress, len(sorted))
	for _, p := range sorted {
		p.IsLearned = model.ParseFlag(p.IsLearned)
		p.IsReserve = model.ParseFlag(p.IsReserve)

		existing, ok := index[p.WordRef]
		if !ok {
			index[p.WordRef] = p
			continue
		}
		if !existing.HasFlag() && p.HasFlag() {
			index[p.WordRef] = mergeProgress(p, existing)
		} else {
			index[p.WordRef] = mergeProgress(existing, p)
		}
	}
	return index
}

// progressLess orders records by id, then update and creation time, then by
// content, nil fields last. Records it cannot tell apart merge identically.
func progressLess(a, b model.Progress) bool {
	if a.ID != b.ID {
		return a.ID < b.ID
	}
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	if a.WordRef != b.WordRef {
		return a.WordRef < b.WordRef
	}
	if a.UserID != b.UserID {
		return a.UserID < b.UserID
	}
	// Flagged first, matching the replacement rule.
	if fa, fb := flagRank(a), flagRank(b); fa != fb {
		return fa > fb
	}
	if c := compareString(a.UserMeaning, b.UserMeaning); c != 0 {
		return c < 0
	}
	if c := compareString(a.CustomSpelling, b.CustomSpelling); c != 0 {
		return c < 0
	}
	if c := compareTime(a.LearnedDate, b.LearnedDate); c != 0 {
		return c < 0
	}
	return compareTime(a.ReservedAt, b.ReservedAt) < 0
}

func flagRank(p model.Progress) int {
	rank := 0
	if model.ParseFlag(p.IsLearned).IsSet() {
		rank += 2
	}
	if model.ParseFlag(p.IsReserve).IsSet() {
		rank++
	}
	return rank
}

func compareString(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return strings.Compare(*a, *b)
}

func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

func mergeProgress(base, other model.Progress) model.Progress {
	base.IsLearned = model.FlagOf(base.IsLearned.IsSet() || other.IsLearned.IsSet())
	base.IsReserve = model.FlagOf(base.IsReserve.IsSet() || other.IsReserve.IsSet())
	base.LearnedDate = firstTime(base.LearnedDate, other.LearnedDate)
	base.ReservedAt = firstTime(base.ReservedAt, other.ReservedAt)
	base.UserMeaning = firstString(base.UserMeaning, other.UserMeaning)
	base.CustomSpelling = firstString(base.CustomSpelling, other.CustomSpelling)
	return base
}

func mergeGroup(key string, members []model.Word, index map[model.WordRef]model.Progress) Entry {
	sort.SliceStable(members, func(i, j int) bool {
		if members[i].ID != members[j].ID {
			return members[i].ID < members[j].ID
		}
		return members[i].Enrichment != nil && members[j].Enrichment == nil
	})

	e := Entry{Headword: key, SourceIDs: make([]int64, 0, len(members))}
	for _, w := range members {
		if n := len(e.SourceIDs); n == 0 || e.SourceIDs[n-1] != w.ID {
			e.SourceIDs = append(e.SourceIDs, w.ID)
		}
		if e.Enrichment == nil && w.Enrichment != nil {
			e.Enrichment = w.Enrichment
		}

		p, ok := index[w.Ref()]
		if !ok {
			continue
		}
		e.IsLearned = e.IsLearned || p.IsLearned.IsSet()
		e.IsReserve = e.IsReserve || p.IsReserve.IsSet()
		e.LearnedDate = firstTime(e.LearnedDate, p.LearnedDate)
		e.ReservedAt = firstTime(e.ReservedAt, p.ReservedAt)
		e.UserMeaning = firstString(e.UserMeaning, p.UserMeaning)
		e.CustomSpelling = firstString(e.CustomSpelling, p.CustomSpelling)
	}
	e.UnifiedLevel = level.FromEnrichment(e.Enrichment)
	return e
}

// Sort orders entries by level and then by Swedish collation of the
// headword.
func Sort(entries []Entry) {
	col := collate.New(language.Swedish)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if ra, rb := level.Rank(a.UnifiedLevel), level.Rank(b.UnifiedLevel); ra != rb {
			return ra < rb
		}
		if c := col.CompareString(a.Headword, b.Headword); c != 0 {
			return c < 0
		}
		return a.Headword < b.Headword
	})
}

func firstString(a, b *string) *string {
	if a != nil {
		return a
	}
	return b
}

func firstTime(a, b *time.Time) *time.Time {
	if a != nil {
		return a
	}
	return b
}
