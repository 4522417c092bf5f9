package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestLimiter(t *testing.T, overrides map[string]ActionConfig) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewLimiter(client, overrides), mr
}

func TestLimiterCheck(t *testing.T) {
	l, mr := setupTestLimiter(t, map[string]ActionConfig{
		ActionQuiz: {Limit: 3, Window: time.Minute},
	})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		result, err := l.Check(ctx, "user-1", ActionQuiz)
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if !result.Allowed || result.Remaining != int64(3-i) {
			t.Fatalf("request %d: %+v", i, result)
		}
	}

	result, err := l.Check(ctx, "user-1", ActionQuiz)
	if err != nil {
		t.Fatal(err)
	}
	if result.Allowed || result.Remaining != 0 {
		t.Errorf("4th request should be denied: %+v", result)
	}

	other, _ := l.Check(ctx, "user-2", ActionQuiz)
	if !other.Allowed {
		t.Error("limits must be per client")
	}

	mr.FastForward(time.Minute + time.Second)
	result, _ = l.Check(ctx, "user-1", ActionQuiz)
	if !result.Allowed {
		t.Error("window should have reset")
	}
}

func TestLimiterWindowDoesNotSlide(t *testing.T) {
	l, mr := setupTestLimiter(t, map[string]ActionConfig{
		ActionExport: {Limit: 10, Window: time.Minute},
	})
	ctx := context.Background()

	l.Check(ctx, "u", ActionExport)
	mr.FastForward(40 * time.Second)
	l.Check(ctx, "u", ActionExport)

	if ttl := mr.TTL("rate:u:export"); ttl > 21*time.Second {
		t.Errorf("TTL = %v; later requests must not extend the window", ttl)
	}
}

func TestLimiterUnknownActionUsesFallback(t *testing.T) {
	l, _ := setupTestLimiter(t, nil)
	if cfg := l.Config("something"); cfg != fallbackLimit {
		t.Errorf("Config() = %+v, want %+v", cfg, fallbackLimit)
	}
	if cfg := l.Config(ActionEnrich); cfg != DefaultLimits[ActionEnrich] {
		t.Errorf("Config(enrich) = %+v", cfg)
	}
}

func TestLimiterWaitHonoursContext(t *testing.T) {
	l, _ := setupTestLimiter(t, map[string]ActionConfig{
		ActionEnrich: {Limit: 1, Window: time.Hour},
	})

	if err := l.Wait(context.Background(), "batch", ActionEnrich); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := l.Wait(ctx, "batch", ActionEnrich); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() error = %v, want deadline exceeded", err)
	}
}
