package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ordforrad/api/internal/model"
)

var ErrInvalidStatus = errors.New("invalid submission status")

type SubmissionStore struct {
	db *gorm.DB
}

func NewSubmissionStore(db *gorm.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) Create(ctx context.Context, sub *model.Submission) error {
	sub.Headword = model.FoldHeadword(sub.Headword)
	sub.Status = model.StatusPending
	return s.db.WithContext(ctx).Create(sub).Error
}

func (s *SubmissionStore) Get(ctx context.Context, id int64) (*model.Submission, error) {
	var sub model.Submission
	if err := s.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *SubmissionStore) ListByUser(ctx context.Context, userID int64) ([]model.Submission, error) {
	var subs []model.Submission
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&subs).Error
	return subs, err
}

// List returns one page of submissions, newest first, optionally filtered by
// status.
func (s *SubmissionStore) List(ctx context.Context, status string, offset, limit int) ([]model.Submission, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Submission{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var subs []model.Submission
	err := query.Order("created_at DESC").Order("id DESC").Offset(offset).Limit(limit).Find(&subs).Error
	return subs, total, err
}

// CountByStatus returns the number of submissions per status.
func (s *SubmissionStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).
		Model(&model.Submission{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[string]int64{
		model.StatusPending:  0,
		model.StatusApproved: 0,
		model.StatusRejected: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Review moves a submission to approved, rejected or back to pending.
// Approving adds the headword to the vocabulary (reusing an existing entry
// with the same folded headword) and attaches the proposed enrichment when
// the entry has none.
func (s *SubmissionStore) Review(ctx context.Context, id, reviewerID int64, status, note string) (*model.Submission, error) {
	switch status {
	case model.StatusPending, model.StatusApproved, model.StatusRejected:
	default:
		return nil, ErrInvalidStatus
	}

	var sub model.Submission
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sub, id).Error; err != nil {
			return notFound(err)
		}

		if status == model.StatusApproved && sub.WordID == nil {
			var word model.Word
			err := tx.Where("headword = ?", sub.Headword).First(&word).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				word = model.Word{Headword: sub.Headword, Enrichment: sub.Enrichment}
				if err := tx.Create(&word).Error; err != nil {
					return err
				}
			case err != nil:
				return err
			case word.Enrichment == nil && sub.Enrichment != nil:
				if err := tx.Model(&word).Update("enrichment", sub.Enrichment).Error; err != nil {
					return err
				}
			}
			sub.WordID = &word.ID
		}

		sub.Status = status
		sub.ReviewNote = note
		sub.ReviewedBy = &reviewerID
		return tx.Save(&sub).Error
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
