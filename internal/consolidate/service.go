package consolidate

import (
	"context"
	"errors"
	"fmt"

	"github.com/ordforrad/api/internal/model"
)

var ErrIdentityRequired = errors.New("user identity required to fetch progress")

// WordSource is a vocabulary store that can be read in full.
type WordSource interface {
	FetchAll(ctx context.Context, pageSize int) ([]model.Word, error)
}

// ProgressSource returns one user's progress records.
type ProgressSource interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Progress, error)
}

// Service fetches from every configured source and consolidates the result.
type Service struct {
	Words    []WordSource
	Progress []ProgressSource
	PageSize int
}

// ForUser aborts on the first fetch failure; nothing is returned for a
// partial snapshot.
func (s *Service) ForUser(ctx context.Context, userID int64) ([]Entry, error) {
	if userID <= 0 {
		return nil, ErrIdentityRequired
	}

	var words []model.Word
	for i, src := range s.Words {
		batch, err := src.FetchAll(ctx, s.PageSize)
		if err != nil {
			return nil, fmt.Errorf("fetch vocabulary from source %d: %w", i, err)
		}
		words = append(words, batch...)
	}

	var progress []model.Progress
	for i, src := range s.Progress {
		batch, err := src.ListByUser(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("fetch progress from source %d: %w", i, err)
		}
		progress = append(progress, batch...)
	}

	return Consolidate(words, progress), nil
}
