package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Flag is a 0/1 progress flag. Older rows and imported documents carry
// booleans, numbers or strings; Scan and UnmarshalJSON fold all of them to
// 0 or 1 so nothing downstream has to care.
type Flag int8

const (
	FlagOff Flag = 0
	FlagOn  Flag = 1
)

func FlagOf(b bool) Flag {
	if b {
		return FlagOn
	}
	return FlagOff
}

func (f Flag) IsSet() bool {
	return f == FlagOn
}

// ParseFlag maps a loosely typed flag value to FlagOn or FlagOff.
// Anything unrecognised is off.
func ParseFlag(value interface{}) Flag {
	switch v := value.(type) {
	case nil:
		return FlagOff
	case Flag:
		return FlagOf(v != 0)
	case bool:
		return FlagOf(v)
	case int:
		return FlagOf(v != 0)
	case int8:
		return FlagOf(v != 0)
	case int16:
		return FlagOf(v != 0)
	case int32:
		return FlagOf(v != 0)
	case int64:
		return FlagOf(v != 0)
	case float64:
		return FlagOf(v != 0)
	case []byte:
		return parseFlagString(string(v))
	case string:
		return parseFlagString(v)
	}
	return FlagOff
}

func parseFlagString(s string) Flag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return FlagOn
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return FlagOf(n != 0)
	}
	return FlagOff
}

// Value implements driver.Valuer
func (f Flag) Value() (driver.Value, error) {
	return int64(ParseFlag(f)), nil
}

// Scan implements sql.Scanner
func (f *Flag) Scan(value interface{}) error {
	*f = ParseFlag(value)
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(ParseFlag(f)))), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		*f = FlagOff
		return nil
	}
	*f = ParseFlag(v)
	return nil
}

// WordRef is the word reference held by a progress record. Sources disagree
// on whether ids are numbers or strings; both decode to the same string key.
type WordRef string

func (r *WordRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = WordRef(strings.TrimSpace(s))
		return nil
	}
	if string(data) == "null" {
		*r = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = canonicalNumberRef(n.String())
	return nil
}

// canonicalNumberRef writes integral numbers the way RefOf does, so 1, 1.0
// and 1e0 all point at word 1.
func canonicalNumberRef(s string) WordRef {
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		return RefOf(id)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err == nil && f == math.Trunc(f) && math.Abs(f) <= 1<<53 {
		return RefOf(int64(f))
	}
	return WordRef(s)
}

// WordID returns the numeric id behind the reference, if it has one.
func (r WordRef) WordID() (int64, bool) {
	id, err := strconv.ParseInt(string(r), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func RefOf(id int64) WordRef {
	return WordRef(strconv.FormatInt(id, 10))
}

// Progress is one user's state for one word. (user_id, word_ref) is unique.
type Progress struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         int64      `gorm:"not null;uniqueIndex:idx_progress_user_word,priority:1" json:"userId"`
	WordRef        WordRef    `gorm:"column:word_ref;not null;size:64;uniqueIndex:idx_progress_user_word,priority:2" json:"wordId"`
	IsLearned      Flag       `gorm:"type:smallint;not null;default:0" json:"isLearned"`
	IsReserve      Flag       `gorm:"type:smallint;not null;default:0" json:"isReserve"`
	LearnedDate    *time.Time `json:"learnedDate,omitempty"`
	ReservedAt     *time.Time `json:"reservedAt,omitempty"`
	UserMeaning    *string    `gorm:"type:text" json:"userMeaning,omitempty"`
	CustomSpelling *string    `gorm:"size:255" json:"customSpelling,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func (Progress) TableName() string {
	return "user_progress"
}

// HasFlag reports whether either flag is set.
func (p Progress) HasFlag() bool {
	return p.IsLearned.IsSet() || p.IsReserve.IsSet()
}

// ProgressUpdate carries a partial change to a progress record. Nil fields
// are left untouched.
type ProgressUpdate struct {
	IsLearned      *bool   `json:"isLearned"`
	IsReserve      *bool   `json:"isReserve"`
	UserMeaning    *string `json:"userMeaning"`
	CustomSpelling *string `json:"customSpelling"`
}

// Apply mutates p in place. learned_date and reserved_at are stamped only
// when the matching flag goes from off to on.
func (u ProgressUpdate) Apply(p *Progress, now time.Time) {
	if u.IsLearned != nil {
		if *u.IsLearned && !p.IsLearned.IsSet() {
			t := now
			p.LearnedDate = &t
		}
		p.IsLearned = FlagOf(*u.IsLearned)
	}
	if u.IsReserve != nil {
		if *u.IsReserve && !p.IsReserve.IsSet() {
			t := now
			p.ReservedAt = &t
		}
		p.IsReserve = FlagOf(*u.IsReserve)
	}
	if u.UserMeaning != nil {
		p.UserMeaning = u.UserMeaning
	}
	if u.CustomSpelling != nil {
		p.CustomSpelling = u.CustomSpelling
	}
}
