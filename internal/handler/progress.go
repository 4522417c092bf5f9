package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/model"
	"github.com/ordforrad/api/internal/stats"
	"github.com/ordforrad/api/internal/store"
)

type ProgressHandler struct {
	progress *store.ProgressStore
	words    *store.WordStore
	stats    *stats.Service
	now      func() time.Time
}

func NewProgressHandler(progress *store.ProgressStore, words *store.WordStore, statsService *stats.Service) *ProgressHandler {
	return &ProgressHandler{
		progress: progress,
		words:    words,
		stats:    statsService,
		now:      time.Now,
	}
}

func (h *ProgressHandler) List(c *gin.Context) {
	progress, err := h.progress.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch progress"})
		return
	}
	if progress == nil {
		progress = []model.Progress{}
	}
	c.JSON(http.StatusOK, gin.H{"progress": progress})
}

// Upsert applies a partial update to the caller's record for :wordId.
func (h *ProgressHandler) Upsert(c *gin.Context) {
	wordID, ok := paramID(c, "wordId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid word id"})
		return
	}

	var update model.ProgressUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.words.Get(ctx, wordID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch word"})
		return
	}

	userID := middleware.UserID(c)
	p, err := h.progress.Upsert(ctx, userID, model.RefOf(wordID), update, h.now())
	if err != nil {
		log.Printf("[Progress] Failed to save user %d word %d: %v", userID, wordID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save progress"})
		return
	}
	h.stats.Invalidate(ctx, userID)

	c.JSON(http.StatusOK, p)
}
