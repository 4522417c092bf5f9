package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/middleware"
	"github.com/ordforrad/api/internal/stats"
)

type StatsHandler struct {
	stats *stats.Service
}

func NewStatsHandler(statsService *stats.Service) *StatsHandler {
	return &StatsHandler{stats: statsService}
}

func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID := middleware.UserID(c)
	dashboard, err := h.stats.Dashboard(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[Stats] Dashboard failed for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, dashboard)
}
