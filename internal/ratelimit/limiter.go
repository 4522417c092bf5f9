// Package ratelimit is a fixed-window request limiter on top of redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

const (
	ActionQuiz       = "quiz"
	ActionEnrich     = "enrich"
	ActionExport     = "export"
	ActionSubmission = "submission"
)

var DefaultLimits = map[string]ActionConfig{
	ActionQuiz:       {Limit: 30, Window: time.Minute},
	ActionEnrich:     {Limit: 20, Window: time.Minute},
	ActionExport:     {Limit: 10, Window: time.Minute},
	ActionSubmission: {Limit: 20, Window: time.Hour},
}

var fallbackLimit = ActionConfig{Limit: 100, Window: time.Minute}

type Limiter struct {
	client *redis.Client
	limits map[string]ActionConfig
}

type CheckResult struct {
	Allowed    bool          `json:"allowed"`
	Remaining  int64         `json:"remaining"`
	ResetAt    int64         `json:"reset_at"`
	Limit      int64         `json:"limit"`
	RetryAfter time.Duration `json:"-"`
}

// NewLimiter uses DefaultLimits with any entries in overrides replacing them.
func NewLimiter(client *redis.Client, overrides map[string]ActionConfig) *Limiter {
	limits := make(map[string]ActionConfig, len(DefaultLimits)+len(overrides))
	for action, cfg := range DefaultLimits {
		limits[action] = cfg
	}
	for action, cfg := range overrides {
		limits[action] = cfg
	}
	return &Limiter{client: client, limits: limits}
}

// Config returns the limit that applies to action.
func (l *Limiter) Config(action string) ActionConfig {
	if cfg, ok := l.limits[action]; ok {
		return cfg
	}
	return fallbackLimit
}

// Check counts one request for clientID against action's window.
func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config := l.Config(action)
	key := fmt.Sprintf("rate:%s:%s", clientID, action)

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}
	// The window starts with the first request; a key without expiry (first
	// hit, or an earlier Expire that never landed) gets one now.
	if count == 1 || ttl < 0 {
		if err := l.client.Expire(ctx, key, config.Window).Err(); err != nil {
			return nil, fmt.Errorf("failed to set window: %w", err)
		}
		ttl = config.Window
	}

	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:    count <= config.Limit,
		Remaining:  remaining,
		ResetAt:    time.Now().Add(ttl).Unix(),
		Limit:      config.Limit,
		RetryAfter: ttl,
	}, nil
}

// Wait blocks until a request for action is allowed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, clientID, action string) error {
	for {
		result, err := l.Check(ctx, clientID, action)
		if err != nil {
			return err
		}
		if result.Allowed {
			return nil
		}

		wait := result.RetryAfter
		if wait <= 0 {
			wait = time.Second
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
