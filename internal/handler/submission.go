package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/model"
	"github.com/ordforrad/api/internal/store"
	"github.com/ordforrad/api/internal/validator"
)

type SubmissionHandler struct {
	submissions *store.SubmissionStore
}

func NewSubmissionHandler(submissions *store.SubmissionStore) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

type CreateSubmissionRequest struct {
	Headword   string            `json:"headword" binding:"required"`
	Note       string            `json:"note"`
	Enrichment *model.Enrichment `json:"enrichment"`
}

// Create proposes a new word for the shared vocabulary.
func (h *SubmissionHandler) Create(c *gin.Context) {
	var req CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	headword, err := validator.Headword(req.Headword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_HEADWORD"})
		return
	}
	if req.Enrichment != nil && len(req.Enrichment.Meanings) == 0 {
		req.Enrichment = nil
	}

	sub := &model.Submission{
		UserID:     middleware.UserID(c),
		Headword:   headword,
		Note:       req.Note,
		Enrichment: req.Enrichment,
	}
	if err := h.submissions.Create(c.Request.Context(), sub); err != nil {
		log.Printf("[Submission] Failed to create %q: %v", headword, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, sub)
}

func (h *SubmissionHandler) ListMine(c *gin.Context) {
	subs, err := h.submissions.ListByUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}
	if subs == nil {
		subs = []model.Submission{}
	}
	c.JSON(http.StatusOK, gin.H{"submissions": subs})
}
