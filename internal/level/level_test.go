package level

import (
	"sort"
	"testing"

	"github.com/ordforrad/api/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		word model.Word
		want Tag
	}{
		{"no enrichment", model.Word{ID: 1, Headword: "hund"}, Unknown},
		{"empty hint", model.Word{Enrichment: &model.Enrichment{}}, Unknown},
		{"exact tag", model.Word{Enrichment: &model.Enrichment{Level: "B2"}}, B2},
		{"lower case", model.Word{Enrichment: &model.Enrichment{Level: " a1 "}}, A1},
		{"unrecognised", model.Word{Enrichment: &model.Enrichment{Level: "D4"}}, Unknown},
		{"unknown literal", model.Word{Enrichment: &model.Enrichment{Level: "Unknown"}}, Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.word)
			if got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
			if again := Classify(tt.word); again != got {
				t.Errorf("Classify() not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestRankOrder(t *testing.T) {
	shuffled := []Tag{Unknown, C1, A2, B1, C2, A1, B2}
	sort.Slice(shuffled, func(i, j int) bool { return Less(shuffled[i], shuffled[j]) })

	for i, tag := range All {
		if shuffled[i] != tag {
			t.Fatalf("sorted[%d] = %q, want %q (got %v)", i, shuffled[i], tag, shuffled)
		}
	}
}

func TestRankUnrecognisedSortsLast(t *testing.T) {
	if Rank(Tag("X9")) != Rank(Unknown) {
		t.Errorf("Rank(X9) = %d, want %d", Rank(Tag("X9")), Rank(Unknown))
	}
	if !Less(C2, Tag("X9")) {
		t.Error("expected C2 < unrecognised tag")
	}
}
