package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/model"
	"github.com/ordforrad/api/internal/store"
)

type AdminHandler struct {
	submissions *store.SubmissionStore
	words       *store.WordStore
}

func NewAdminHandler(submissions *store.SubmissionStore, words *store.WordStore) *AdminHandler {
	return &AdminHandler{submissions: submissions, words: words}
}

type AdminStats struct {
	Submissions     map[string]int64 `json:"submissions"`
	TotalWords      int64            `json:"totalWords"`
	EnrichedWords   int64            `json:"enrichedWords"`
	UnenrichedWords int64            `json:"unenrichedWords"`
}

// GetStats returns dashboard statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	counts, err := h.submissions.CountByStatus(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count submissions"})
		return
	}
	total, err := h.words.Count(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count words"})
		return
	}
	unenriched, err := h.words.CountUnenriched(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count words"})
		return
	}

	c.JSON(http.StatusOK, AdminStats{
		Submissions:     counts,
		TotalWords:      total,
		EnrichedWords:   total - unenriched,
		UnenrichedWords: unenriched,
	})
}

// ListSubmissions returns paginated submissions, filtered by ?status.
func (h *AdminHandler) ListSubmissions(c *gin.Context) {
	page, limit, offset := pagination(c)

	subs, total, err := h.submissions.List(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}
	if subs == nil {
		subs = []model.Submission{}
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": subs,
		"total":       total,
		"page":        page,
		"limit":       limit,
		"totalPages":  totalPages(total, limit),
	})
}

type ReviewRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note"`
}

// ReviewSubmission approves or rejects a submission.
func (h *AdminHandler) ReviewSubmission(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	sub, err := h.submissions.Review(c.Request.Context(), id, middleware.UserID(c), req.Status, req.Note)
	switch {
	case errors.Is(err, store.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Use pending, approved, or rejected"})
		return
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	case err != nil:
		log.Printf("[Admin] Failed to review submission %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to review submission"})
		return
	}

	c.JSON(http.StatusOK, sub)
}
