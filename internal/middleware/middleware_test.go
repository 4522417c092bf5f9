package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/ordforrad/api/internal/auth"
	"github.com/ordforrad/api/internal/model"
	"github.com/ordforrad/api/internal/ratelimit"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func bearer(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := auth.GenerateAccessToken(user, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, []string{"admin@example.se"}))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": UserID(c), "admin": IsAdmin(c)})
	})
	r.GET("/admin", AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"wrong scheme", "/me", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "/me", "Bearer abc", http.StatusUnauthorized},
		{"valid token", "/me", bearer(t, &model.User{ID: 7, Email: "anna@example.se"}), http.StatusOK},
		{"non-admin on admin route", "/admin", bearer(t, &model.User{ID: 7, Email: "anna@example.se"}), http.StatusForbidden},
		{"admin on admin route", "/admin", bearer(t, &model.User{ID: 1, Email: "ADMIN@example.se"}), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(OptionalAuthMiddleware(testSecret, nil))
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%d", UserID(c))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Body.String() != "0" {
		t.Errorf("anonymous user id = %s, want 0", w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, &model.User{ID: 9}))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "9" {
		t.Errorf("user id = %s, want 9", w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := ratelimit.NewLimiter(client, map[string]ratelimit.ActionConfig{
		"test": {Limit: 2, Window: time.Minute},
	})

	r := gin.New()
	r.GET("/", RateLimit(limiter, "test"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != want {
			t.Fatalf("request %d: status = %d, want %d", i+1, w.Code, want)
		}
		if w.Code == http.StatusTooManyRequests && w.Header().Get("Retry-After") == "" {
			t.Error("429 without Retry-After")
		}
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := ratelimit.NewLimiter(client, nil)
	mr.Close()

	r := gin.New()
	r.GET("/", RateLimit(limiter, ratelimit.ActionQuiz), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/nil", RateLimit(nil, ratelimit.ActionQuiz), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, path := range []string{"/", "/nil"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s: status = %d, want 200", path, w.Code)
		}
	}
}
