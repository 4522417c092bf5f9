// Package filter removes words that are only inflected forms of a headword
// from generated synonym and antonym lists.
package filter

import "strings"

// DropInflections returns words without the headword itself, its common
// Swedish inflections, and phrases that merely contain it.
func DropInflections(headword string, words []string) []string {
	headword = strings.ToLower(strings.TrimSpace(headword))
	if headword == "" {
		return words
	}
	variations := Variations(headword)

	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if !isVariation(strings.ToLower(w), variations, headword) {
			filtered = append(filtered, w)
		}
	}
	return filtered
}

// Variations generates regular inflections of a Swedish base form. It does
// not know about strong verbs or umlaut plurals (man/män).
func Variations(word string) map[string]bool {
	variations := map[string]bool{word: true}
	add := func(suffixes ...string) {
		for _, s := range suffixes {
			variations[word+s] = true
		}
	}

	// Nouns: definite and plural forms, and genitive.
	add("en", "et", "n", "t", "ar", "arna", "er", "erna", "or", "orna", "na", "s", "ens", "ets", "ns")

	// Adjectives: neuter, plural/definite, comparison.
	add("a", "are", "ast", "aste")

	switch {
	case strings.HasSuffix(word, "a"):
		// flicka -> flickor, tala -> talar/talade/talat
		stem := strings.TrimSuffix(word, "a")
		for _, s := range []string{"or", "orna", "an", "ans", "ar", "ade", "at", "ande"} {
			variations[stem+s] = true
		}
		variations[word+"r"] = true
		variations[word+"de"] = true
		variations[word+"t"] = true
	case strings.HasSuffix(word, "e"):
		// pojke -> pojkar, rike -> riken
		stem := strings.TrimSuffix(word, "e")
		for _, s := range []string{"ar", "arna", "en", "er"} {
			variations[stem+s] = true
		}
	case strings.HasSuffix(word, "el"), strings.HasSuffix(word, "er"):
		// fågel -> fåglar, vinter -> vintrar
		r := []rune(word)
		stem := string(r[:len(r)-2]) + string(r[len(r)-1])
		for _, s := range []string{"ar", "arna", "n", "na"} {
			variations[stem+s] = true
		}
	}

	// Verbs of the second conjugation: läsa is covered above, but köpa -> köpte
	if strings.HasSuffix(word, "a") {
		stem := strings.TrimSuffix(word, "a")
		variations[stem+"te"] = true
		variations[stem+"er"] = true
		variations[stem+"t"] = true
	}

	return variations
}

func isVariation(w string, variations map[string]bool, baseWord string) bool {
	if variations[w] {
		return true
	}
	// Phrases built around the headword ("stor hund" for "hund").
	if strings.Contains(w, " ") {
		for _, part := range strings.Fields(w) {
			if variations[part] {
				return true
			}
		}
	}
	return false
}
