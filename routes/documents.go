package routes

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"room-assistant-platform/internal/config"
	"room-assistant-platform/internal/logger"
	"room-assistant-platform/internal/rag"
	"room-assistant-platform/internal/telemetry"
	"room-assistant-platform/models"
	"room-assistant-platform/services"
	"room-assistant-platform/utils"
)

// SetupDocumentRoutes registers upload and document management endpoints.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, engine *rag.Engine, cache *services.AnswerCache, metrics *telemetry.Metrics) {
	router.POST("/upload", func(c *gin.Context) {
		start := time.Now()

		fileHeader, err := c.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", gin.H{"error": err.Error()})
			return
		}
		if fileHeader.Size > cfg.MaxFileSize {
			utils.RespondWithTooLarge(c, "File exceeds the upload limit", gin.H{
				"max_bytes": cfg.MaxFileSize,
				"got_bytes": fileHeader.Size,
			})
			return
		}
		if !extensionAllowed(cfg.AllowedTypes, fileHeader.Filename) {
			utils.RespondWithUnsupportedMedia(c, "File type is not supported")
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}
		defer file.Close()

		content, err := io.ReadAll(io.LimitReader(file, cfg.MaxFileSize+1))
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read upload", nil)
			return
		}

		result, err := engine.IngestDocument(c.Request.Context(), content, fileHeader.Filename)
		if err != nil {
			if metrics != nil {
				metrics.RecordIngest(time.Since(start).Seconds(), "error")
			}
			switch {
			case errors.Is(err, rag.ErrTooLittleText):
				// Readable file, unreadable content (likely a scanned PDF).
				// Reported as a warning, not a failure.
				c.JSON(http.StatusOK, models.UploadResponse{
					Message:  "Document could not be indexed",
					Filename: fileHeader.Filename,
					Warning:  "Very little text could be extracted. If this is a scanned document, try an OCR'd copy.",
				})
			case errors.Is(err, rag.ErrUnsupportedFormat):
				utils.RespondWithUnsupportedMedia(c, "File type is not supported")
			case errors.Is(err, rag.ErrCorruptInput), errors.Is(err, rag.ErrExtractionFailed):
				utils.RespondWithBadRequest(c, "File could not be parsed", gin.H{"error": err.Error()})
			default:
				logger.Error("upload failed", "filename", fileHeader.Filename, "error", err)
				utils.RespondWithInternalError(c, "Upload failed", nil)
			}
			return
		}

		cache.Invalidate(c.Request.Context())
		if metrics != nil {
			metrics.RecordIngest(time.Since(start).Seconds(), "success")
		}

		c.JSON(http.StatusOK, models.UploadResponse{
			Message:    "Document uploaded and processed successfully",
			DocumentID: result.DocumentID,
			Filename:   fileHeader.Filename,
			ChunkCount: result.ChunkCount,
		})
	})

	router.GET("/documents", func(c *gin.Context) {
		docs := engine.ListDocuments()
		c.JSON(http.StatusOK, models.DocumentListResponse{
			Documents: docs,
			Count:     len(docs),
		})
	})

	router.DELETE("/documents", func(c *gin.Context) {
		if err := engine.ClearAll(); err != nil {
			utils.RespondWithInternalError(c, "Failed to clear documents", nil)
			return
		}
		cache.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "All documents removed"})
	})
}

func extensionAllowed(allowed []string, filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, a := range allowed {
		if strings.ToLower(strings.TrimSpace(a)) == ext {
			return true
		}
	}
	return false
}
