package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuizSession is one generated quiz. Questions holds the snapshot that was
// sent to the client; PracticedAt is stamped when the user finishes it.
type QuizSession struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	UserID      int64          `gorm:"not null;index" json:"userId"`
	Type        string         `gorm:"not null;size:20" json:"type"`
	Total       int            `gorm:"not null" json:"total"`
	Correct     *int           `json:"correct,omitempty"`
	Questions   datatypes.JSON `json:"questions"`
	CreatedAt   time.Time      `json:"createdAt"`
	PracticedAt *time.Time     `json:"practicedAt,omitempty"`
}

func (QuizSession) TableName() string {
	return "quiz_sessions"
}
