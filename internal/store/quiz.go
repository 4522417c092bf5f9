package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ordforrad/api/internal/model"
)

type QuizStore struct {
	db *gorm.DB
}

func NewQuizStore(db *gorm.DB) *QuizStore {
	return &QuizStore{db: db}
}

// Create persists a generated quiz. questions is stored as a JSON snapshot.
func (s *QuizStore) Create(ctx context.Context, id string, userID int64, quizType string, questions interface{}, total int) (*model.QuizSession, error) {
	raw, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	session := &model.QuizSession{
		ID:        id,
		UserID:    userID,
		Type:      quizType,
		Total:     total,
		Questions: datatypes.JSON(raw),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

var ErrInvalidScore = errors.New("correct count out of range")

// Complete records that the user practiced the quiz. Completing twice
// overwrites the earlier score.
func (s *QuizStore) Complete(ctx context.Context, userID int64, id string, correct int, now time.Time) (*model.QuizSession, error) {
	var session model.QuizSession
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&session).Error
	if err != nil {
		return nil, notFound(err)
	}
	if correct < 0 || correct > session.Total {
		return nil, ErrInvalidScore
	}

	session.Correct = &correct
	session.PracticedAt = &now
	if err := s.db.WithContext(ctx).Save(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *QuizStore) ListPracticed(ctx context.Context, userID int64, limit int) ([]model.QuizSession, error) {
	var sessions []model.QuizSession
	err := s.db.WithContext(ctx).
		Omit("questions").
		Where("user_id = ? AND practiced_at IS NOT NULL", userID).
		Order("practiced_at DESC").
		Limit(limit).
		Find(&sessions).Error
	return sessions, err
}
