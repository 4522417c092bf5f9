// Package stats turns a vocabulary snapshot and one user's progress records
// into dashboard numbers.
package stats

import (
	"math"
	"time"

	"github.com/ordforrad/api/internal/level"
	"github.com/ordforrad/api/internal/model"
)

type LevelStats struct {
	Total    int `json:"total"`
	Learned  int `json:"learned"`
	Reserved int `json:"reserved"`
	Percent  int `json:"percent"`
}

type Proficiency struct {
	Mastered          int `json:"mastered"`
	ToStudy           int `json:"toStudy"`
	TotalUnique       int `json:"totalUnique"`
	CompletionPercent int `json:"completionPercent"`
}

// Velocity counts distinct words learned or reserved since local midnight.
type Velocity struct {
	LearnedToday  int `json:"learnedToday"`
	ReservedToday int `json:"reservedToday"`
}

type Dashboard struct {
	Levels      map[level.Tag]LevelStats `json:"levels"`
	Proficiency Proficiency              `json:"proficiency"`
	Velocity    Velocity                 `json:"velocity"`
	AsOf        time.Time                `json:"asOf"`
	// Duplicates is the number of progress rows that collided on a word
	// reference and were folded away while indexing.
	Duplicates int `json:"-"`
}

// Aggregate never fails. A word that is reserved counts toward toStudy even
// when it is also learned; only unreserved learned words count as mastered.
func Aggregate(words []model.Word, progress []model.Progress, asOf time.Time) Dashboard {
	index, dupes := IndexProgress(progress)

	d := Dashboard{
		Levels:     make(map[level.Tag]LevelStats, len(level.All)),
		AsOf:       asOf,
		Duplicates: dupes,
	}
	for _, tag := range level.All {
		d.Levels[tag] = LevelStats{}
	}

	seen := make(map[model.WordRef]struct{}, len(words))
	for _, w := range words {
		ref := w.Ref()
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}

		tag := level.Classify(w)
		ls := d.Levels[tag]
		ls.Total++

		if p, ok := index[ref]; ok {
			switch {
			case p.IsReserve.IsSet():
				ls.Reserved++
				d.Proficiency.ToStudy++
			case p.IsLearned.IsSet():
				ls.Learned++
				d.Proficiency.Mastered++
			}
		}
		d.Levels[tag] = ls
	}

	for tag, ls := range d.Levels {
		ls.Percent = percent(ls.Learned, ls.Total)
		d.Levels[tag] = ls
	}

	d.Proficiency.TotalUnique = len(seen)
	d.Proficiency.CompletionPercent = percent(d.Proficiency.Mastered, d.Proficiency.TotalUnique)
	d.Velocity = velocity(progress, asOf)
	return d
}

// IndexProgress keys progress by word reference. When two rows share a
// reference the one indexed last wins; flags are normalised either way.
func IndexProgress(progress []model.Progress) (map[model.WordRef]model.Progress, int) {
	index := make(map[model.WordRef]model.Progress, len(progress))
	dupes := 0
	for _, p := range progress {
		p.IsLearned = model.ParseFlag(p.IsLearned)
		p.IsReserve = model.ParseFlag(p.IsReserve)
		if _, ok := index[p.WordRef]; ok {
			dupes++
		}
		index[p.WordRef] = p
	}
	return index, dupes
}

func velocity(progress []model.Progress, asOf time.Time) Velocity {
	midnight := StartOfDay(asOf)
	learned := make(map[model.WordRef]struct{})
	reserved := make(map[model.WordRef]struct{})

	for _, p := range progress {
		if p.LearnedDate != nil && !p.LearnedDate.Before(midnight) {
			learned[p.WordRef] = struct{}{}
		}
		if p.ReservedAt != nil && !p.ReservedAt.Before(midnight) {
			reserved[p.WordRef] = struct{}{}
		}
	}
	return Velocity{LearnedToday: len(learned), ReservedToday: len(reserved)}
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
