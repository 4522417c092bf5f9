package quiz

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/ordforrad/api/internal/model"
)

// Generator is not safe for concurrent use; create one per request.
type Generator struct {
	rng   *rand.Rand
	newID func() string
}

// NewGenerator returns a generator drawing from rng. A nil rng is seeded
// from the clock.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng, newID: uuid.NewString}
}

// candidate is a word that passed the eligibility filter for one type.
type candidate struct {
	word    model.Word
	meaning string
	values  []string // synonyms or antonyms
	context string   // masked example
}

// Generate returns up to count questions of type t, each target used once.
// It returns an *InsufficientWordsError when fewer than MinPool words are
// usable, or when no target could be given a full set of distractors.
func (g *Generator) Generate(words []model.Word, t Type, count int) ([]Question, error) {
	if count <= 0 {
		count = DefaultCount
	}

	pool := eligible(words, t)
	if len(pool) < MinPool {
		return nil, &InsufficientWordsError{Type: t, Eligible: len(pool), Required: MinPool}
	}

	hints := meaningHints(words)
	order := g.rng.Perm(len(pool))
	if count > len(order) {
		count = len(order)
	}

	questions := make([]Question, 0, count)
	for _, idx := range order[:count] {
		q, ok := g.build(pool, idx, t, hints)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}

	if len(questions) == 0 {
		return nil, &InsufficientWordsError{Type: t, Eligible: len(pool), Required: MinPool}
	}
	return questions, nil
}

func (g *Generator) build(pool []candidate, idx int, t Type, hints map[string]string) (Question, bool) {
	target := pool[idx]
	q := Question{
		ID:            g.newID(),
		Type:          t,
		TargetWord:    target.word.Headword,
		TargetMeaning: target.meaning,
	}

	// exclude holds values that must not appear as distractors besides the
	// correct answer itself.
	var exclude []string
	distractorOf := func(c candidate) string { return c.word.Headword }

	switch t {
	case TypeSynonym, TypeAntonym:
		q.Prompt = target.word.Headword
		q.CorrectAnswer = target.values[g.rng.Intn(len(target.values))]
		exclude = append(exclude, target.values...)
		exclude = append(exclude, target.word.Headword)
	case TypeMeaning:
		q.Prompt = target.word.Headword
		q.CorrectAnswer = target.meaning
		distractorOf = func(c candidate) string { return c.meaning }
	case TypeContext:
		q.Prompt = target.context
		q.CorrectAnswer = target.word.Headword
	case TypeTranslate:
		q.Prompt = target.meaning
		q.CorrectAnswer = target.word.Headword
	case TypeRecall:
		q.Prompt = target.meaning
		q.CorrectAnswer = target.word.Headword
		q.Options = []Option{}
		return q, true
	}

	distractors := g.distractors(pool, idx, q.CorrectAnswer, exclude, distractorOf)
	if len(distractors) < OptionCount-1 {
		return Question{}, false
	}

	values := append([]string{q.CorrectAnswer}, distractors...)
	g.rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })

	q.Options = make([]Option, len(values))
	for i, v := range values {
		q.Options[i] = Option{Word: v}
	}
	// Translate and context prompts already carry the meaning, and meaning
	// options are meanings, so only synonym and antonym options get hints.
	if t == TypeSynonym || t == TypeAntonym {
		attachHints(q.Options, hints)
	}
	return q, true
}

// attachHints sets a meaning on every option, or on none when any option has
// no known meaning. A single unhinted option would single out the answer.
func attachHints(options []Option, hints map[string]string) {
	for _, o := range options {
		if hints[model.FoldHeadword(o.Word)] == "" {
			return
		}
	}
	for i := range options {
		options[i].Meaning = hints[model.FoldHeadword(options[i].Word)]
	}
}

// distractors samples up to OptionCount-1 values from other pool entries,
// skipping anything equal to the correct answer, anything in exclude and
// anything already picked.
func (g *Generator) distractors(pool []candidate, target int, correct string, exclude []string, valueOf func(candidate) string) []string {
	taken := map[string]struct{}{fold(correct): {}}
	for _, e := range exclude {
		taken[fold(e)] = struct{}{}
	}

	out := make([]string, 0, OptionCount-1)
	for _, i := range g.rng.Perm(len(pool)) {
		if i == target {
			continue
		}
		v := valueOf(pool[i])
		key := fold(v)
		if key == "" {
			continue
		}
		if _, dup := taken[key]; dup {
			continue
		}
		taken[key] = struct{}{}
		out = append(out, v)
		if len(out) == OptionCount-1 {
			break
		}
	}
	return out
}

func eligible(words []model.Word, t Type) []candidate {
	pool := make([]candidate, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w.Headword) == "" || w.Enrichment == nil {
			continue
		}
		c := candidate{word: w, meaning: strings.TrimSpace(w.Enrichment.PrimaryMeaning())}

		switch t {
		case TypeSynonym:
			c.values = nonBlank(w.Enrichment.Synonyms)
			if len(c.values) == 0 {
				continue
			}
		case TypeAntonym:
			c.values = nonBlank(w.Enrichment.Antonyms)
			if len(c.values) == 0 {
				continue
			}
		case TypeMeaning, TypeTranslate, TypeRecall:
			if c.meaning == "" {
				continue
			}
		case TypeContext:
			masked, ok := maskedExample(w)
			if !ok {
				continue
			}
			c.context = masked
		default:
			continue
		}
		pool = append(pool, c)
	}
	return pool
}

func meaningHints(words []model.Word) map[string]string {
	hints := make(map[string]string, len(words))
	for _, w := range words {
		key := model.FoldHeadword(w.Headword)
		if _, ok := hints[key]; ok {
			continue
		}
		if m := w.Enrichment.PrimaryMeaning(); m != "" {
			hints[key] = m
		}
	}
	return hints
}

// maskedExample returns the first example sentence in which the headword
// starts a token, with that whole token replaced by Mask. Inflected forms
// ("hunden" for "hund") are masked too.
func maskedExample(w model.Word) (string, bool) {
	needle := []rune(strings.ToLower(strings.TrimSpace(w.Headword)))
	if len(needle) == 0 {
		return "", false
	}
	for _, ex := range w.Enrichment.Examples {
		if masked, ok := mask(ex.Swedish, needle); ok {
			return masked, true
		}
	}
	return "", false
}

// mask replaces every token that starts with needle.
func mask(sentence string, needle []rune) (string, bool) {
	runes := []rune(sentence)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	var b strings.Builder
	masked := false
	for i := 0; i < len(runes); {
		atToken := i == 0 || !isWordRune(lower[i-1])
		if atToken && i+len(needle) <= len(lower) && hasPrefix(lower[i:], needle) {
			end := i + len(needle)
			for end < len(runes) && isWordRune(runes[end]) {
				end++
			}
			b.WriteString(Mask)
			masked = true
			i = end
			continue
		}
		b.WriteRune(runes[i])
		i++
	}
	if !masked {
		return "", false
	}
	return b.String(), true
}

func hasPrefix(s, prefix []rune) bool {
	for i, r := range prefix {
		if s[i] != r {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
