package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/ordforrad/api/internal/model"
)

type ProgressStore struct {
	db *gorm.DB
}

func NewProgressStore(db *gorm.DB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) ListByUser(ctx context.Context, userID int64) ([]model.Progress, error) {
	var progress []model.Progress
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&progress).Error
	return progress, err
}

func (s *ProgressStore) ListByUserAndWords(ctx context.Context, userID int64, refs []model.WordRef) ([]model.Progress, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	var progress []model.Progress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND word_ref IN ?", userID, refs).
		Order("id ASC").
		Find(&progress).Error
	return progress, err
}

func (s *ProgressStore) Get(ctx context.Context, userID int64, ref model.WordRef) (*model.Progress, error) {
	var p model.Progress
	err := s.db.WithContext(ctx).Where("user_id = ? AND word_ref = ?", userID, ref).First(&p).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Upsert creates the (user, word) record on first use and applies update to
// it. Concurrent writers to the same pair race; the last one wins.
func (s *ProgressStore) Upsert(ctx context.Context, userID int64, ref model.WordRef, update model.ProgressUpdate, now time.Time) (*model.Progress, error) {
	var p model.Progress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND word_ref = ?", userID, ref).First(&p).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p = model.Progress{UserID: userID, WordRef: ref}
		}

		update.Apply(&p, now)
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// LearnedRefs lists the words the user has marked learned.
func (s *ProgressStore) LearnedRefs(ctx context.Context, userID int64) ([]model.WordRef, error) {
	var refs []model.WordRef
	err := s.db.WithContext(ctx).
		Model(&model.Progress{}).
		Where("user_id = ? AND is_learned = ?", userID, model.FlagOn).
		Order("id ASC").
		Pluck("word_ref", &refs).Error
	return refs, err
}

// DeleteByUser removes all progress for a user (account deletion).
func (s *ProgressStore) DeleteByUser(ctx context.Context, userID int64) error {
	return s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Progress{}).Error
}

// HealFlags rewrites legacy flag values (anything other than 0 or 1) to
// their canonical form and reports how many rows changed.
func (s *ProgressStore) HealFlags(ctx context.Context, userID int64) (int64, error) {
	var healed int64
	for _, column := range []string{"is_learned", "is_reserve"} {
		result := s.db.WithContext(ctx).Exec(
			"UPDATE user_progress SET "+column+" = 1 WHERE user_id = ? AND "+column+" NOT IN (0, 1)",
			userID,
		)
		if result.Error != nil {
			return healed, result.Error
		}
		healed += result.RowsAffected
	}
	return healed, nil
}
