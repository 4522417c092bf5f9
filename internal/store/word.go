// Package store holds the gorm-backed vocabulary, progress, quiz and
// submission stores.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/ordforrad/api/internal/model"
)

var ErrNotFound = errors.New("record not found")

const DefaultPageSize = 500

type WordStore struct {
	db *gorm.DB
}

func NewWordStore(db *gorm.DB) *WordStore {
	return &WordStore{db: db}
}

// Create inserts a word unless one with the same folded headword exists, in
// which case the existing row is returned and created is false.
func (s *WordStore) Create(ctx context.Context, headword string) (word *model.Word, created bool, err error) {
	folded := model.FoldHeadword(headword)
	if folded == "" {
		return nil, false, errors.New("empty headword")
	}

	existing, err := s.GetByHeadword(ctx, folded)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, err
	}

	w := &model.Word{Headword: folded}
	if err := s.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, false, err
	}
	return w, true, nil
}

func (s *WordStore) Get(ctx context.Context, id int64) (*model.Word, error) {
	var w model.Word
	if err := s.db.WithContext(ctx).First(&w, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

func (s *WordStore) GetByHeadword(ctx context.Context, headword string) (*model.Word, error) {
	var w model.Word
	err := s.db.WithContext(ctx).Where("headword = ?", model.FoldHeadword(headword)).First(&w).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// Page returns up to limit words with id greater than afterID, in id order.
func (s *WordStore) Page(ctx context.Context, afterID int64, limit int) ([]model.Word, error) {
	var words []model.Word
	err := s.db.WithContext(ctx).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&words).Error
	return words, err
}

// FetchAll reads every word one page at a time. Pages are requested strictly
// in sequence; if one fails, the words gathered so far are returned along
// with the error.
func (s *WordStore) FetchAll(ctx context.Context, pageSize int) ([]model.Word, error) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var all []model.Word
	var afterID int64
	for {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		page, err := s.Page(ctx, afterID, pageSize)
		if err != nil {
			return all, fmt.Errorf("fetch words after id %d: %w", afterID, err)
		}
		all = append(all, page...)
		if len(page) < pageSize {
			return all, nil
		}
		afterID = page[len(page)-1].ID
	}
}

// List pages through words for browsing, optionally filtered by headword
// prefix.
func (s *WordStore) List(ctx context.Context, prefix string, offset, limit int) ([]model.Word, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Word{})
	if prefix = model.FoldHeadword(prefix); prefix != "" {
		query = query.Where("headword LIKE ?", prefix+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var words []model.Word
	err := query.Order("headword ASC").Offset(offset).Limit(limit).Find(&words).Error
	return words, total, err
}

func (s *WordStore) ListByIDs(ctx context.Context, ids []int64) ([]model.Word, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var words []model.Word
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&words).Error
	return words, err
}

// Unenriched returns the next words still waiting for enrichment.
func (s *WordStore) Unenriched(ctx context.Context, limit int) ([]model.Word, error) {
	var words []model.Word
	err := s.db.WithContext(ctx).
		Where("enrichment IS NULL").
		Order("id ASC").
		Limit(limit).
		Find(&words).Error
	return words, err
}

func (s *WordStore) CountUnenriched(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Word{}).Where("enrichment IS NULL").Count(&n).Error
	return n, err
}

func (s *WordStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Word{}).Count(&n).Error
	return n, err
}

// SetEnrichment stores e on the word with the given id.
func (s *WordStore) SetEnrichment(ctx context.Context, id int64, e *model.Enrichment) error {
	result := s.db.WithContext(ctx).Model(&model.Word{}).Where("id = ?", id).Update("enrichment", e)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
