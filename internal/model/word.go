package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Word is a vocabulary entry. Headword is stored folded (trimmed, lower case)
// and is unique across the corpus.
type Word struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Headword   string      `gorm:"uniqueIndex;not null;size:255" json:"headword"`
	Enrichment *Enrichment `json:"enrichment"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func (Word) TableName() string {
	return "words"
}

// Ref returns the key progress records use to point at this word.
func (w Word) Ref() WordRef {
	return WordRef(strconv.FormatInt(w.ID, 10))
}

// FoldHeadword produces the dedup key for a headword.
func FoldHeadword(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Meaning is one English sense of a word.
type Meaning struct {
	English string `json:"english"`
	Context string `json:"context,omitempty"`
}

type Example struct {
	Swedish string `json:"swedish"`
	English string `json:"english"`
}

// Enrichment is the generated linguistic metadata attached to a word.
// It is stored as a single JSON document.
type Enrichment struct {
	WordType    string     `json:"word_type,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Meanings    []Meaning  `json:"meanings"`
	Examples    []Example  `json:"examples,omitempty"`
	Synonyms    []string   `json:"synonyms,omitempty"`
	Antonyms    []string   `json:"antonyms,omitempty"`
	Level       string     `json:"level,omitempty"`
	GeneratedAt *time.Time `json:"generated_at,omitempty"`
}

// PrimaryMeaning returns the first English meaning, or "" when there is none.
func (e *Enrichment) PrimaryMeaning() string {
	if e == nil || len(e.Meanings) == 0 {
		return ""
	}
	return e.Meanings[0].English
}

// Value implements driver.Valuer for JSON serialization
func (e Enrichment) Value() (driver.Value, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Postgres hands back []byte, sqlite a string.
func (e *Enrichment) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*e = Enrichment{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to unmarshal Enrichment: unsupported type %T", value)
	}
	return json.Unmarshal(raw, e)
}

// GormDBDataType picks the column type per dialect.
func (Enrichment) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	default:
		return "JSON"
	}
}
