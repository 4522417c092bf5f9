package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/ordforrad/api/internal/model"
)

type WordSource interface {
	FetchAll(ctx context.Context, pageSize int) ([]model.Word, error)
}

type ProgressSource interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Progress, error)
	HealFlags(ctx context.Context, userID int64) (int64, error)
}

// Cache is a byte cache; errors are treated as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const CacheTTL = 5 * time.Minute

// Service computes dashboards from the stores, caching per user when a
// cache is configured.
type Service struct {
	words    WordSource
	progress ProgressSource
	cache    Cache
	keyFn    func(userID int64) string
	loc      *time.Location
	now      func() time.Time
}

func NewService(words WordSource, progress ProgressSource, cache Cache, keyFn func(int64) string, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		words:    words,
		progress: progress,
		cache:    cache,
		keyFn:    keyFn,
		loc:      loc,
		now:      time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context, userID int64) (*Dashboard, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, s.keyFn(userID)); err == nil {
			var d Dashboard
			if err := json.Unmarshal(data, &d); err == nil {
				return &d, nil
			}
		}
	}

	words, err := s.words.FetchAll(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("fetch vocabulary: %w", err)
	}

	if healed, err := s.progress.HealFlags(ctx, userID); err != nil {
		log.Printf("[Stats] flag heal failed for user %d: %v", userID, err)
	} else if healed > 0 {
		log.Printf("[Stats] normalised %d progress flags for user %d", healed, userID)
	}

	progress, err := s.progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch progress: %w", err)
	}

	d := Aggregate(words, progress, s.now().In(s.loc))
	if d.Duplicates > 0 {
		log.Printf("[Stats] user %d has %d duplicate progress rows", userID, d.Duplicates)
	}

	if s.cache != nil {
		if data, err := json.Marshal(d); err == nil {
			if err := s.cache.Set(ctx, s.keyFn(userID), data, s.ttl()); err != nil {
				log.Printf("[Stats] cache write failed: %v", err)
			}
		}
	}
	return &d, nil
}

// ttl keeps a cached dashboard from outliving the local day, since the
// velocity numbers reset at midnight.
func (s *Service) ttl() time.Duration {
	now := s.now().In(s.loc)
	untilMidnight := StartOfDay(now).AddDate(0, 0, 1).Sub(now)
	if untilMidnight < CacheTTL {
		return untilMidnight
	}
	return CacheTTL
}

// Invalidate drops the cached dashboard for userID.
func (s *Service) Invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, s.keyFn(userID)); err != nil {
		log.Printf("[Stats] cache invalidation failed for user %d: %v", userID, err)
	}
}
