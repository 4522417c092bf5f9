package validator

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ordforrad/api/internal/model"
)

const MaxHeadwordLength = 60

var (
	ErrEmpty      = errors.New("headword is empty")
	ErrTooLong    = errors.New("headword is too long")
	ErrCharacters = errors.New("headword may only contain letters, spaces, hyphens and apostrophes")
)

// Headword folds s and checks that it looks like a Swedish word or phrase.
// It returns the folded form.
func Headword(s string) (string, error) {
	folded := strings.Join(strings.Fields(model.FoldHeadword(s)), " ")
	if folded == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(folded) > MaxHeadwordLength {
		return "", ErrTooLong
	}

	hasLetter := false
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case r == ' ', r == '-', r == '\'':
		default:
			return "", ErrCharacters
		}
	}
	if !hasLetter {
		return "", ErrCharacters
	}
	return folded, nil
}
