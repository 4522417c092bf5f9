// Package enrich fills in missing enrichment for vocabulary entries, one
// word at a time.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ordforrad/api/internal/model"
)

type WordStore interface {
	Unenriched(ctx context.Context, limit int) ([]model.Word, error)
	CountUnenriched(ctx context.Context) (int64, error)
	SetEnrichment(ctx context.Context, id int64, e *model.Enrichment) error
}

type Enricher interface {
	Enrich(ctx context.Context, headword string) (*model.Enrichment, error)
}

// Throttle blocks until the next call is allowed.
type Throttle interface {
	Wait(ctx context.Context, clientID, action string) error
}

const (
	DefaultBatchSize = 50
	throttleClient   = "enrich-batch"
	throttleAction   = "enrich"
)

type Options struct {
	BatchSize int
	// Limit caps the number of words enriched in one run; 0 means no cap.
	Limit int
	// OnProgress is called after every stored word.
	OnProgress func(completed int)
}

type Result struct {
	Completed int `json:"completed"`
}

// ItemError is the failure that halted a run.
type ItemError struct {
	WordID   int64
	Headword string
	Err      error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("enrich %q (id %d): %v", e.Headword, e.WordID, e.Err)
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

type Runner struct {
	words    WordStore
	provider Enricher
	throttle Throttle
	// Observe, when set, receives the outcome of every provider call.
	Observe func(success bool, d time.Duration)
}

func NewRunner(words WordStore, provider Enricher, throttle Throttle) *Runner {
	return &Runner{words: words, provider: provider, throttle: throttle}
}

// Run enriches words that have none, in id order. Cancelling ctx pauses the
// run before the next word; the word in flight is always finished. A later
// Run starts over with the same query, so paused runs resume naturally.
//
// The first provider or store failure stops the run. Words already stored
// stay stored, and Result reports how many there were.
func (r *Runner) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		batch, err := r.words.Unenriched(ctx, batchSize)
		if err != nil {
			return res, fmt.Errorf("load unenriched words: %w", err)
		}
		if len(batch) == 0 {
			return res, nil
		}

		for _, w := range batch {
			if err := ctx.Err(); err != nil {
				return res, err
			}
			if r.throttle != nil {
				if err := r.throttle.Wait(ctx, throttleClient, throttleAction); err != nil {
					return res, err
				}
			}

			if err := r.enrichOne(context.WithoutCancel(ctx), w); err != nil {
				return res, err
			}

			res.Completed++
			if opts.OnProgress != nil {
				opts.OnProgress(res.Completed)
			}
			if opts.Limit > 0 && res.Completed >= opts.Limit {
				return res, nil
			}
		}
	}
}

func (r *Runner) enrichOne(ctx context.Context, w model.Word) error {
	start := time.Now()
	e, err := r.provider.Enrich(ctx, w.Headword)
	if r.Observe != nil {
		r.Observe(err == nil, time.Since(start))
	}
	if err != nil {
		return &ItemError{WordID: w.ID, Headword: w.Headword, Err: err}
	}

	if err := r.words.SetEnrichment(ctx, w.ID, e); err != nil {
		return &ItemError{WordID: w.ID, Headword: w.Headword, Err: fmt.Errorf("store: %w", err)}
	}
	log.Printf("[Enrich] %s (id %d) -> %s, %d meanings", w.Headword, w.ID, e.Level, len(e.Meanings))
	return nil
}

// IsPause reports whether err only means the run was cancelled.
func IsPause(err error) bool {
	return errors.Is(err, context.Canceled)
}
