package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"room-assistant-platform/internal/ai"
	"room-assistant-platform/internal/config"
	"room-assistant-platform/internal/logger"
	"room-assistant-platform/internal/rag"
	"room-assistant-platform/internal/telemetry"
	"room-assistant-platform/models"
	"room-assistant-platform/services"
	"room-assistant-platform/utils"
)

// ChatDeps bundles what the conversation endpoints need.
type ChatDeps struct {
	Cfg        *config.Config
	Engine     *rag.Engine
	Translator *services.Translator
	Voice      *services.VoiceService
	Cache      *services.AnswerCache
	Metrics    *telemetry.Metrics
}

// SetupChatRoutes registers the conversation endpoints.
func SetupChatRoutes(router *gin.Engine, deps ChatDeps) {
	router.POST("/chat", func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "Invalid request data", gin.H{"error": err.Error()})
			return
		}

		language := req.Language
		if language == "" {
			language = services.DetectLanguage(req.Message)
		}

		if answer, ok := deps.Cache.Get(c.Request.Context(), req.Message, language); ok {
			c.JSON(http.StatusOK, models.ChatResponse{
				Response: answer,
				Language: language,
				Cached:   true,
			})
			return
		}

		// Retrieval is English-side: a Hindi question is translated before
		// it hits the index, and the answer translated back.
		question := req.Message
		if language == "hi" {
			question = deps.Translator.Translate(c.Request.Context(), req.Message, "en")
		}

		answer, err := deps.Engine.AnswerQuery(c.Request.Context(), question, deps.Cfg.TopK)
		if err != nil {
			if errors.Is(err, rag.ErrEmptyQuery) {
				utils.RespondWithBadRequest(c, "Message must not be empty", nil)
				return
			}
			logger.Error("query failed", "error", err)
			utils.RespondWithInternalError(c, "Failed to answer", nil)
			return
		}

		if language == "hi" {
			answer = deps.Translator.Translate(c.Request.Context(), answer, "hi")
		}

		var voiceURL string
		if req.UseVoice && deps.Voice.Available() {
			voiceURL, err = deps.Voice.Synthesize(c.Request.Context(), answer, language)
			if err != nil {
				logger.Warn("voice synthesis failed", "error", err)
			}
		}

		deps.Cache.Put(c.Request.Context(), req.Message, language, answer)
		if deps.Metrics != nil {
			deps.Metrics.RecordQuery(answerTier(deps.Engine))
		}

		c.JSON(http.StatusOK, models.ChatResponse{
			Response: answer,
			Language: language,
			VoiceURL: voiceURL,
		})
	})

	router.GET("/languages", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.LanguagesResponse{
			Languages:      services.SupportedLanguages,
			VoiceAvailable: deps.Voice.Available(),
		})
	})

	router.POST("/set-api-key", func(c *gin.Context) {
		var req models.SetAPIKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "API key is required", gin.H{"error": err.Error()})
			return
		}

		client, err := ai.NewGeminiClient(req.APIKey, deps.Cfg.GeminiModel, deps.Metrics)
		if err != nil {
			utils.RespondWithBadRequest(c, "API key was rejected", gin.H{"error": err.Error()})
			return
		}

		deps.Engine.SetCompletion(client)
		deps.Translator.SetCompleter(client)
		logger.Info("completion capability reconfigured")

		c.JSON(http.StatusOK, gin.H{"message": "API key configured"})
	})
}

// answerTier labels the tier a query will resolve to given the current
// capability configuration. Used for metrics only.
func answerTier(engine *rag.Engine) string {
	switch {
	case engine.DocumentCount() == 0:
		return "empty"
	case engine.HasCompletion():
		return "generative"
	default:
		return "extractive"
	}
}
