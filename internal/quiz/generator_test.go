package quiz

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/ordforrad/api/internal/model"
)

func synonymWords() []model.Word {
	return []model.Word{
		{ID: 1, Headword: "hund", Enrichment: &model.Enrichment{Synonyms: []string{"vovve"}}},
		{ID: 2, Headword: "katt", Enrichment: &model.Enrichment{Synonyms: []string{"kisse"}}},
		{ID: 3, Headword: "bil", Enrichment: &model.Enrichment{Synonyms: []string{"fordon"}}},
		{ID: 4, Headword: "hus", Enrichment: &model.Enrichment{Synonyms: []string{"byggnad"}}},
	}
}

func richWords() []model.Word {
	entries := []struct {
		headword, meaning, example string
		synonyms, antonyms         []string
	}{
		{"hund", "dog", "Hunden skäller på natten.", []string{"vovve"}, nil},
		{"katt", "cat", "Min katt sover.", []string{"kisse"}, nil},
		{"stor", "big", "Huset är stort.", []string{"väldig"}, []string{"liten"}},
		{"liten", "small", "En liten pojke.", nil, []string{"stor"}},
		{"varm", "warm", "Det är varmt i dag.", nil, []string{"kall"}},
		{"kall", "cold", "Vattnet är kallt.", nil, []string{"varm"}},
		{"glad", "happy", "Hon är glad.", []string{"lycklig"}, []string{"ledsen"}},
		{"bok", "book", "Jag läser en bok.", []string{"volym"}, nil},
		{"äta", "to eat", "Vi ska äta middag.", []string{"käka"}, nil},
		{"hus", "house", "Ett rött hus.", []string{"byggnad"}, nil},
	}
	words := make([]model.Word, len(entries))
	for i, e := range entries {
		words[i] = model.Word{
			ID:       int64(i + 1),
			Headword: e.headword,
			Enrichment: &model.Enrichment{
				Meanings: []model.Meaning{{English: e.meaning}},
				Examples: []model.Example{{Swedish: e.example}},
				Synonyms: e.synonyms,
				Antonyms: e.antonyms,
			},
		}
	}
	return words
}

func newTestGenerator(seed int64) *Generator {
	g := NewGenerator(rand.New(rand.NewSource(seed)))
	n := 0
	g.newID = func() string {
		n++
		return fmt.Sprintf("q-%d", n)
	}
	return g
}

func assertValidChoiceQuestion(t *testing.T, q Question) {
	t.Helper()
	if len(q.Options) != OptionCount {
		t.Fatalf("question %s: %d options, want %d", q.ID, len(q.Options), OptionCount)
	}
	seen := map[string]bool{}
	correct := 0
	for _, o := range q.Options {
		key := strings.ToLower(o.Word)
		if seen[key] {
			t.Fatalf("question %s: duplicate option %q in %+v", q.ID, o.Word, q.Options)
		}
		seen[key] = true
		if o.Word == q.CorrectAnswer {
			correct++
		}
	}
	if correct != 1 {
		t.Fatalf("question %s: correct answer %q appears %d times in %+v", q.ID, q.CorrectAnswer, correct, q.Options)
	}
}

func TestGenerateSynonymScenario(t *testing.T) {
	g := newTestGenerator(1)

	questions, err := g.Generate(synonymWords(), TypeSynonym, 10)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(questions) != 4 {
		t.Fatalf("got %d questions, want 4", len(questions))
	}

	targets := map[string]bool{}
	ids := map[string]bool{}
	for _, q := range questions {
		assertValidChoiceQuestion(t, q)
		if targets[q.TargetWord] {
			t.Errorf("target %q repeated", q.TargetWord)
		}
		targets[q.TargetWord] = true
		if ids[q.ID] {
			t.Errorf("id %q repeated", q.ID)
		}
		ids[q.ID] = true
	}

	want := map[string]string{"hund": "vovve", "katt": "kisse", "bil": "fordon", "hus": "byggnad"}
	for _, q := range questions {
		if want[q.TargetWord] != q.CorrectAnswer {
			t.Errorf("target %q: correct = %q, want %q", q.TargetWord, q.CorrectAnswer, want[q.TargetWord])
		}
	}
}

func TestGenerateAllTypesValid(t *testing.T) {
	for _, typ := range Types {
		t.Run(string(typ), func(t *testing.T) {
			for seed := int64(0); seed < 50; seed++ {
				g := newTestGenerator(seed)
				questions, err := g.Generate(richWords(), typ, 5)
				if err != nil {
					t.Fatalf("seed %d: Generate() error = %v", seed, err)
				}
				if len(questions) == 0 || len(questions) > 5 {
					t.Fatalf("seed %d: got %d questions", seed, len(questions))
				}
				for _, q := range questions {
					if q.Type != typ {
						t.Fatalf("question type %q, want %q", q.Type, typ)
					}
					if !typ.IsChoice() {
						if len(q.Options) != 0 {
							t.Fatalf("recall question has options: %+v", q.Options)
						}
						if q.CorrectAnswer != q.TargetWord {
							t.Fatalf("recall correct = %q, want %q", q.CorrectAnswer, q.TargetWord)
						}
						continue
					}
					assertValidChoiceQuestion(t, q)
				}
			}
		})
	}
}

func TestGenerateNotEnoughWords(t *testing.T) {
	words := synonymWords()[:3]
	words = append(words, model.Word{ID: 9, Headword: "tom", Enrichment: &model.Enrichment{}})
	words = append(words, model.Word{ID: 10, Headword: "ingen"})

	_, err := newTestGenerator(1).Generate(words, TypeSynonym, 10)
	if !errors.Is(err, ErrNotEnoughWords) {
		t.Fatalf("error = %v, want ErrNotEnoughWords", err)
	}
	var insufficient *InsufficientWordsError
	if !errors.As(err, &insufficient) || insufficient.Eligible != 3 {
		t.Fatalf("error = %#v, want Eligible=3", err)
	}
}

func TestGenerateCapsCount(t *testing.T) {
	questions, err := newTestGenerator(3).Generate(richWords(), TypeMeaning, 3)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("got %d questions, want 3", len(questions))
	}

	questions, err = newTestGenerator(3).Generate(richWords(), TypeMeaning, 0)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(questions) != DefaultCount {
		t.Errorf("got %d questions with default count, want %d", len(questions), DefaultCount)
	}
}

func TestGenerateSkipsTargetsWithoutUniqueDistractors(t *testing.T) {
	// Every other word shares the target's synonym as headword or repeats
	// the same headword, so no target can get three distinct distractors.
	words := []model.Word{
		{ID: 1, Headword: "a", Enrichment: &model.Enrichment{Synonyms: []string{"b"}}},
		{ID: 2, Headword: "b", Enrichment: &model.Enrichment{Synonyms: []string{"a"}}},
		{ID: 3, Headword: "a", Enrichment: &model.Enrichment{Synonyms: []string{"b"}}},
		{ID: 4, Headword: "b", Enrichment: &model.Enrichment{Synonyms: []string{"a"}}},
	}

	_, err := newTestGenerator(1).Generate(words, TypeSynonym, 10)
	if !errors.Is(err, ErrNotEnoughWords) {
		t.Fatalf("error = %v, want ErrNotEnoughWords", err)
	}
}

func TestGenerateMeaningExcludesEqualDistractors(t *testing.T) {
	words := []model.Word{
		{ID: 1, Headword: "bil", Enrichment: &model.Enrichment{Meanings: []model.Meaning{{English: "car"}}}},
		{ID: 2, Headword: "vagn", Enrichment: &model.Enrichment{Meanings: []model.Meaning{{English: "Car"}}}},
		{ID: 3, Headword: "hund", Enrichment: &model.Enrichment{Meanings: []model.Meaning{{English: "dog"}}}},
		{ID: 4, Headword: "katt", Enrichment: &model.Enrichment{Meanings: []model.Meaning{{English: "cat"}}}},
		{ID: 5, Headword: "hus", Enrichment: &model.Enrichment{Meanings: []model.Meaning{{English: "house"}}}},
	}

	for seed := int64(0); seed < 30; seed++ {
		questions, err := newTestGenerator(seed).Generate(words, TypeMeaning, 5)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for _, q := range questions {
			assertValidChoiceQuestion(t, q)
		}
	}
}

func TestContextQuestionMasksTarget(t *testing.T) {
	questions, err := newTestGenerator(7).Generate(richWords(), TypeContext, 10)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	for _, q := range questions {
		if !strings.Contains(q.Prompt, Mask) {
			t.Errorf("prompt %q has no mask", q.Prompt)
		}
		if strings.Contains(strings.ToLower(q.Prompt), q.TargetWord) {
			t.Errorf("prompt %q still contains %q", q.Prompt, q.TargetWord)
		}
	}
}

func TestOptionHintsDoNotSingleOutAnswer(t *testing.T) {
	for _, typ := range Types {
		if !typ.IsChoice() {
			continue
		}
		t.Run(string(typ), func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				questions, err := newTestGenerator(seed).Generate(richWords(), typ, 5)
				if err != nil {
					t.Fatalf("seed %d: Generate() error = %v", seed, err)
				}
				for _, q := range questions {
					hinted := 0
					for _, o := range q.Options {
						if o.Meaning == "" {
							continue
						}
						hinted++
						if strings.EqualFold(o.Meaning, q.Prompt) {
							t.Fatalf("seed %d: option %q hint equals prompt %q", seed, o.Word, q.Prompt)
						}
					}
					if hinted != 0 && hinted != len(q.Options) {
						t.Fatalf("seed %d: %d of %d options hinted: %+v", seed, hinted, len(q.Options), q.Options)
					}
				}
			}
		})
	}
}

func TestSynonymHintsWhenEveryOptionIsKnown(t *testing.T) {
	// Each synonym is itself a headword, so every option has a meaning.
	entries := []struct{ headword, meaning, synonym string }{
		{"stor", "big", "väldig"},
		{"väldig", "huge", "enorm"},
		{"enorm", "enormous", "jättestor"},
		{"jättestor", "gigantic", "kolossal"},
		{"kolossal", "colossal", "stor"},
	}
	var words []model.Word
	for i, e := range entries {
		words = append(words, model.Word{
			ID:       int64(i + 1),
			Headword: e.headword,
			Enrichment: &model.Enrichment{
				Meanings: []model.Meaning{{English: e.meaning}},
				Synonyms: []string{e.synonym},
			},
		})
	}

	questions, err := newTestGenerator(2).Generate(words, TypeSynonym, 5)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(questions) != 5 {
		t.Fatalf("got %d questions, want 5", len(questions))
	}
	for _, q := range questions {
		assertValidChoiceQuestion(t, q)
		for _, o := range q.Options {
			if o.Meaning == "" {
				t.Errorf("question %s: option %q has no hint", q.ID, o.Word)
			}
		}
	}
}

func TestMask(t *testing.T) {
	tests := []struct {
		sentence, word, want string
		ok                   bool
	}{
		{"Hunden skäller.", "hund", "_____ skäller.", true},
		{"Jag ser en hund.", "hund", "Jag ser en _____.", true},
		{"Vi ska äta middag.", "äta", "Vi ska _____ middag.", true},
		{"Det är varmt i dag.", "varm", "Det är _____ i dag.", true},
		{"Ett rött hus.", "ro", "", false},
		{"Kattunge.", "unge", "", false},
		{"Hunden ser en annan hund.", "hund", "_____ ser en annan _____.", true},
		{"Hund, hundar och hundens ben.", "hund", "_____, _____ och _____ ben.", true},
	}
	for _, tt := range tests {
		t.Run(tt.sentence, func(t *testing.T) {
			got, ok := mask(tt.sentence, []rune(tt.word))
			if ok != tt.ok || got != tt.want {
				t.Errorf("mask(%q, %q) = %q, %v; want %q, %v", tt.sentence, tt.word, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	if typ, ok := ParseType(" Synonym "); !ok || typ != TypeSynonym {
		t.Errorf("ParseType(Synonym) = %q, %v", typ, ok)
	}
	if _, ok := ParseType("crossword"); ok {
		t.Error("ParseType(crossword) should fail")
	}
}
