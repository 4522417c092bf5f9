package model

import "time"

// Submission is a user-proposed vocabulary entry awaiting admin review.
type Submission struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64       `gorm:"not null;index" json:"userId"`
	Headword   string      `gorm:"not null;size:255" json:"headword"`
	Note       string      `gorm:"type:text" json:"note,omitempty"`
	Enrichment *Enrichment `json:"enrichment,omitempty"`
	Status     string      `gorm:"default:'pending';size:20;index" json:"status"`
	WordID     *int64      `json:"wordId,omitempty"`
	ReviewedBy *int64      `json:"reviewedBy,omitempty"`
	ReviewNote string      `gorm:"type:text" json:"reviewNote,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Status constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)
