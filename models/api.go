package models

import "room-assistant-platform/internal/rag"

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message  string `json:"message" binding:"required"`
	Language string `json:"language"`
	UseVoice bool   `json:"use_voice"`
}

// ChatResponse is the reply to POST /chat. VoiceURL is empty unless voice
// synthesis is available and was requested.
type ChatResponse struct {
	Response string `json:"response"`
	Language string `json:"language"`
	VoiceURL string `json:"voice_url,omitempty"`
	Cached   bool   `json:"cached,omitempty"`
}

// UploadResponse is the reply to POST /upload.
type UploadResponse struct {
	Message    string `json:"message"`
	DocumentID string `json:"document_id,omitempty"`
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunk_count"`
	Warning    string `json:"warning,omitempty"`
}

// DocumentListResponse is the reply to GET /documents.
type DocumentListResponse struct {
	Documents []rag.DocumentSummary `json:"documents"`
	Count     int                   `json:"count"`
}

// LanguagesResponse is the reply to GET /languages.
type LanguagesResponse struct {
	Languages      []Language `json:"languages"`
	VoiceAvailable bool       `json:"voice_available"`
}

// Language describes one supported conversation language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// SetAPIKeyRequest is the body of POST /set-api-key.
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key" binding:"required"`
}

// HealthResponse is the reply to GET /health.
type HealthResponse struct {
	Status    string          `json:"status"`
	Documents int             `json:"documents"`
	Services  ServiceStatuses `json:"services"`
}

// ServiceStatuses reports which optional capabilities are live.
type ServiceStatuses struct {
	Completion  bool `json:"completion"`
	Embeddings  bool `json:"embeddings"`
	Translation bool `json:"translation"`
	Voice       bool `json:"voice"`
	Cache       bool `json:"cache"`
}
