package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/ordforrad/api/internal/auth"
	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/model"
	"github.com/ordforrad/api/internal/store"
)

const providerGoogle = "google"

type AuthHandler struct {
	users        *store.UserStore
	jwtSecret    string
	googleConfig *oauth2.Config
	frontendURL  string
}

func NewAuthHandler(users *store.UserStore, jwtSecret string, googleConfig *oauth2.Config, frontendURL string) *AuthHandler {
	return &AuthHandler{
		users:        users,
		jwtSecret:    jwtSecret,
		googleConfig: googleConfig,
		frontendURL:  frontendURL,
	}
}

type TokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken,omitempty"`
	ExpiresIn    int         `json:"expiresIn"`
	User         *model.User `json:"user,omitempty"`
}

// GoogleAuth redirects to Google OAuth authorization URL
func (h *AuthHandler) GoogleAuth(c *gin.Context) {
	state := generateState()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline))
}

// GoogleCallback finishes the OAuth flow and hands the tokens to the
// frontend in the URL fragment.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	savedState, err := c.Cookie("oauth_state")
	if err != nil || c.Query("state") != savedState {
		h.redirectError(c, "invalid_state")
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		h.redirectError(c, "no_code")
		return
	}

	ctx := c.Request.Context()
	token, err := h.googleConfig.Exchange(ctx, code)
	if err != nil {
		log.Printf("[Auth] Failed to exchange code: %v", err)
		h.redirectError(c, "exchange_failed")
		return
	}

	info, err := auth.GetGoogleUserInfo(ctx, h.googleConfig, token)
	if err != nil {
		log.Printf("[Auth] Failed to get user info: %v", err)
		h.redirectError(c, "user_info_failed")
		return
	}

	user, err := h.users.Upsert(ctx, providerGoogle, info.ID, info.Email, info.Name, info.Picture)
	if err != nil {
		log.Printf("[Auth] Failed to save user: %v", err)
		h.redirectError(c, "db_error")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		log.Printf("[Auth] Failed to issue tokens: %v", err)
		h.redirectError(c, "token_failed")
		return
	}

	fragment := url.Values{}
	fragment.Set("accessToken", tokens.AccessToken)
	fragment.Set("refreshToken", tokens.RefreshToken)
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/callback#"+fragment.Encode())
}

// RefreshToken refreshes access token using refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	ctx := c.Request.Context()
	rt, err := h.users.ValidRefreshToken(ctx, req.RefreshToken, time.Now())
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	user, err := h.users.Get(ctx, rt.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(user, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		ExpiresIn:   int(auth.AccessTokenExpiry.Seconds()),
	})
}

// Logout invalidates refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	if err := h.users.RevokeRefreshToken(c.Request.Context(), req.RefreshToken); err != nil {
		log.Printf("[Auth] Failed to revoke refresh token: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":    user,
		"isAdmin": middleware.IsAdmin(c),
	})
}

// DeleteMe removes the account and every progress record that belongs to it.
func (h *AuthHandler) DeleteMe(c *gin.Context) {
	userID := middleware.UserID(c)
	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		log.Printf("[Auth] Failed to delete user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) issueTokens(c *gin.Context, user *model.User) (*TokenResponse, error) {
	accessToken, err := auth.GenerateAccessToken(user, h.jwtSecret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	expiresAt := time.Now().Add(auth.RefreshTokenExpiry)
	if err := h.users.SaveRefreshToken(c.Request.Context(), user.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(auth.AccessTokenExpiry.Seconds()),
		User:         user,
	}, nil
}

func (h *AuthHandler) redirectError(c *gin.Context, code string) {
	c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"?error="+code)
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
