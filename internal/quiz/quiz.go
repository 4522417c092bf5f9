// Package quiz builds multiple-choice and free-recall practice questions
// from a user's learned vocabulary.
package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// Type selects which part of a word's enrichment a question is built from.
type Type string

const (
	TypeSynonym   Type = "synonym"
	TypeAntonym   Type = "antonym"
	TypeMeaning   Type = "meaning"
	TypeContext   Type = "context"
	TypeTranslate Type = "translate"
	TypeRecall    Type = "recall"
)

var Types = []Type{TypeSynonym, TypeAntonym, TypeMeaning, TypeContext, TypeTranslate, TypeRecall}

func ParseType(s string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Types {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// IsChoice reports whether questions of this type carry options.
func (t Type) IsChoice() bool {
	return t != TypeRecall
}

const (
	DefaultCount = 10
	// MinPool is the smallest eligible pool a quiz can be built from.
	MinPool     = 4
	OptionCount = 4
	Mask        = "_____"
)

type Option struct {
	Word    string `json:"word"`
	Meaning string `json:"meaning,omitempty"`
}

type Question struct {
	ID            string   `json:"id"`
	Type          Type     `json:"type"`
	Prompt        string   `json:"prompt"`
	TargetWord    string   `json:"targetWord"`
	TargetMeaning string   `json:"targetMeaning,omitempty"`
	CorrectAnswer string   `json:"correctAnswer"`
	Options       []Option `json:"options"`
}

var ErrNotEnoughWords = errors.New("not enough usable words")

// InsufficientWordsError is the soft failure returned when a quiz of the
// requested type cannot be built from the given words.
type InsufficientWordsError struct {
	Type     Type
	Eligible int
	Required int
}

func (e *InsufficientWordsError) Error() string {
	return fmt.Sprintf("%s quiz needs at least %d usable words, found %d", e.Type, e.Required, e.Eligible)
}

func (e *InsufficientWordsError) Is(target error) bool {
	return target == ErrNotEnoughWords
}
