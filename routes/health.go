package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room-assistant-platform/internal/rag"
	"room-assistant-platform/models"
	"room-assistant-platform/services"
)

// SetupHealthRoute registers GET /health, reporting which optional
// capabilities are live alongside the document count.
func SetupHealthRoute(router *gin.Engine, engine *rag.Engine, translator *services.Translator, voice *services.VoiceService, cache *services.AnswerCache) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "ok",
			Documents: engine.DocumentCount(),
			Services: models.ServiceStatuses{
				Completion:  engine.HasCompletion(),
				Embeddings:  engine.HasEmbedding(),
				Translation: translator.Available(),
				Voice:       voice.Available(),
				Cache:       cache.Available(),
			},
		})
	})
}
