package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/consolidate"
	"github.com/ordforrad/api/internal/middleware"
)

type exportFormat struct {
	ext         string
	contentType string
	write       func(io.Writer, []consolidate.Entry) error
}

var exportFormats = map[string]exportFormat{
	"json": {"json", "application/json; charset=utf-8", consolidate.WriteJSON},
	"csv":  {"csv", "text/csv; charset=utf-8", consolidate.WriteCSV},
	"xlsx": {"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", consolidate.WriteXLSX},
}

type ExportHandler struct {
	service *consolidate.Service
	now     func() time.Time
}

func NewExportHandler(service *consolidate.Service) *ExportHandler {
	return &ExportHandler{service: service, now: time.Now}
}

// Export returns the caller's consolidated vocabulary as an attachment.
func (h *ExportHandler) Export(c *gin.Context) {
	name := c.DefaultQuery("format", "json")
	format, ok := exportFormats[name]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid format. Use json, csv, or xlsx"})
		return
	}

	userID := middleware.UserID(c)
	entries, err := h.service.ForUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, consolidate.ErrIdentityRequired) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[Export] Failed to consolidate for user %d: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch vocabulary"})
		return
	}

	var buf bytes.Buffer
	if err := format.write(&buf, entries); err != nil {
		log.Printf("[Export] Failed to render %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}
	middleware.RecordExport(name)

	filename := consolidate.Filename(h.now(), format.ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, format.contentType, buf.Bytes())
}
