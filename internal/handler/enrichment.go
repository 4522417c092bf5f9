package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/enrich"
)

type EnrichmentHandler struct {
	manager *enrich.Manager
}

func NewEnrichmentHandler(manager *enrich.Manager) *EnrichmentHandler {
	return &EnrichmentHandler{manager: manager}
}

// Start launches a batch enrichment job. Body: {"limit": n}, 0 for all.
func (h *EnrichmentHandler) Start(c *gin.Context) {
	var req struct {
		Limit int `json:"limit"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	if req.Limit < 0 {
		req.Limit = 0
	}

	status, err := h.manager.Start(c.Request.Context(), req.Limit)
	switch {
	case errors.Is(err, enrich.ErrJobRunning):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "jobId": status.JobID})
		return
	case err != nil:
		log.Printf("[Enrich] Failed to start job: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start enrichment"})
		return
	}

	c.JSON(http.StatusAccepted, status)
}

func (h *EnrichmentHandler) Status(c *gin.Context) {
	status, ok := h.manager.Get(c.Param("jobId"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *EnrichmentHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"jobs":    h.manager.List(),
		"running": h.manager.Running(),
	})
}

// Stop pauses the running job after its current word. Starting again picks
// up the words that are still unenriched.
func (h *EnrichmentHandler) Stop(c *gin.Context) {
	if !h.manager.Stop() {
		c.JSON(http.StatusNotFound, gin.H{"error": "No running job"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Job stopping"})
}
