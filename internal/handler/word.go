package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/enrich"
	"github.com/ordforrad/api/internal/level"
	"github.com/ordforrad/api/internal/store"
	"github.com/ordforrad/api/internal/validator"
)

type WordHandler struct {
	words    *store.WordStore
	provider enrich.Enricher
}

func NewWordHandler(words *store.WordStore, provider enrich.Enricher) *WordHandler {
	return &WordHandler{words: words, provider: provider}
}

// List pages through the vocabulary, optionally filtered by ?prefix.
func (h *WordHandler) List(c *gin.Context) {
	page, limit, offset := pagination(c)

	words, total, err := h.words.List(c.Request.Context(), c.Query("prefix"), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch words"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"words":      words,
		"total":      total,
		"page":       page,
		"limit":      limit,
		"totalPages": totalPages(total, limit),
	})
}

func (h *WordHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid word id"})
		return
	}

	word, err := h.words.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch word"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"word":  word,
		"level": level.Classify(*word),
	})
}

// Create adds a headword. An existing entry with the same folded headword is
// returned instead of a duplicate.
func (h *WordHandler) Create(c *gin.Context) {
	var req struct {
		Headword string `json:"headword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "headword is required"})
		return
	}

	headword, err := validator.Headword(req.Headword)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "INVALID_HEADWORD"})
		return
	}

	word, created, err := h.words.Create(c.Request.Context(), headword)
	if err != nil {
		log.Printf("[Word] Failed to create %q: %v", headword, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create word"})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{"word": word, "created": created})
}

// Enrich regenerates the enrichment of a single word.
func (h *WordHandler) Enrich(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid word id"})
		return
	}

	ctx := c.Request.Context()
	word, err := h.words.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "word not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch word"})
		return
	}

	enrichment, err := h.provider.Enrich(ctx, word.Headword)
	if err != nil {
		log.Printf("[Word] Enrichment failed for %q: %v", word.Headword, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment failed", "code": "ENRICHMENT_FAILED"})
		return
	}

	if err := h.words.SetEnrichment(ctx, id, enrichment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save enrichment"})
		return
	}
	word.Enrichment = enrichment

	c.JSON(http.StatusOK, gin.H{
		"word":  word,
		"level": level.Classify(*word),
	})
}
