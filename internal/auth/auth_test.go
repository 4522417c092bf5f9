package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ordforrad/api/internal/model"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	user := &model.User{ID: 42, Email: "anna@example.se", Name: "Anna"}

	token, err := GenerateAccessToken(user, "secret")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	claims, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != 42 || claims.Email != "anna@example.se" {
		t.Errorf("claims = %+v", claims)
	}

	if _, err := ValidateAccessToken(token, "other-secret"); err == nil {
		t.Error("token signed with another secret must not validate")
	}
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	claims := Claims{
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ValidateAccessToken(token, "secret"); err == nil {
		t.Error("expired token must not validate")
	}
}

func TestGenerateRefreshTokenUnique(t *testing.T) {
	a, _ := GenerateRefreshToken()
	b, _ := GenerateRefreshToken()
	if a == "" || a == b {
		t.Errorf("refresh tokens should be random, got %q and %q", a, b)
	}
}

func TestFetchUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad" {
			w.Write([]byte(`{"id": ""}`))
			return
		}
		w.Write([]byte(`{"id": "g-1", "email": "erik@example.se", "name": "Erik", "picture": "https://x/p.png"}`))
	}))
	defer server.Close()

	info, err := fetchUserInfo(context.Background(), server.Client(), server.URL+"/userinfo")
	if err != nil {
		t.Fatalf("fetchUserInfo() error = %v", err)
	}
	if info.ID != "g-1" || info.Name != "Erik" {
		t.Errorf("info = %+v", info)
	}

	if _, err := fetchUserInfo(context.Background(), server.Client(), server.URL+"/bad"); err == nil {
		t.Error("expected error for incomplete profile")
	}
}

func TestIsAdmin(t *testing.T) {
	admins := []string{"Admin@Example.se", "ops@example.se"}
	if !IsAdmin("admin@example.se", admins) {
		t.Error("admin match should ignore case")
	}
	if IsAdmin("anna@example.se", admins) {
		t.Error("non-admin reported as admin")
	}
	if IsAdmin("anna@example.se", nil) {
		t.Error("empty admin list should match nobody")
	}
}
