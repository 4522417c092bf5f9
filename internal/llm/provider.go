package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ordforrad/api/internal/filter"
	"github.com/ordforrad/api/internal/level"
	"github.com/ordforrad/api/internal/model"
)

// Generator is the part of Client the provider needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Provider produces enrichment for a headword.
type Provider struct {
	gen Generator
	now func() time.Time
}

func NewProvider(gen Generator) *Provider {
	return &Provider{gen: gen, now: time.Now}
}

var ErrNoMeanings = errors.New("enrichment has no meanings")

// Enrich asks the model about headword and returns the cleaned result.
func (p *Provider) Enrich(ctx context.Context, headword string) (*model.Enrichment, error) {
	headword = model.FoldHeadword(headword)
	response, err := p.gen.Generate(ctx, fmt.Sprintf(EnrichmentPrompt, headword))
	if err != nil {
		return nil, err
	}

	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return nil, fmt.Errorf("enrich %q: %w", headword, err)
	}

	return p.parse(headword, jsonStr)
}

func (p *Provider) parse(headword, jsonStr string) (*model.Enrichment, error) {
	var e model.Enrichment
	if err := json.Unmarshal([]byte(jsonStr), &e); err != nil {
		return nil, fmt.Errorf("failed to parse enrichment: %w", err)
	}

	e.WordType = strings.ToLower(strings.TrimSpace(e.WordType))
	e.Gender = strings.ToLower(strings.TrimSpace(e.Gender))
	if e.Gender != "en" && e.Gender != "ett" {
		e.Gender = ""
	}

	meanings := e.Meanings[:0]
	for _, m := range e.Meanings {
		m.English = strings.TrimSpace(m.English)
		m.Context = strings.TrimSpace(m.Context)
		if m.English != "" {
			meanings = append(meanings, m)
		}
	}
	if len(meanings) == 0 {
		return nil, ErrNoMeanings
	}
	e.Meanings = meanings

	examples := e.Examples[:0]
	for _, ex := range e.Examples {
		ex.Swedish = strings.TrimSpace(ex.Swedish)
		ex.English = strings.TrimSpace(ex.English)
		if ex.Swedish != "" {
			examples = append(examples, ex)
		}
	}
	e.Examples = examples
	e.Synonyms = filter.DropInflections(headword, cleanWords(e.Synonyms))
	e.Antonyms = filter.DropInflections(headword, cleanWords(e.Antonyms))

	if tag, ok := level.Parse(e.Level); ok {
		e.Level = string(tag)
	} else {
		e.Level = ""
	}

	generated := p.now().UTC()
	e.GeneratedAt = &generated
	return &e, nil
}

func cleanWords(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = model.FoldHeadword(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}
