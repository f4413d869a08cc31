package services

import "context"

// VoiceService synthesizes spoken answers. No backend is wired up yet, so
// availability is always false and callers skip voice output entirely.
// TODO: wire a TTS backend once one is chosen; the handler already threads
// use_voice through.
type VoiceService struct{}

func NewVoiceService() *VoiceService {
	return &VoiceService{}
}

// Available reports whether synthesis can produce audio.
func (v *VoiceService) Available() bool {
	return false
}

// Synthesize returns a URL to generated audio for the text. Until a backend
// exists it always returns empty.
func (v *VoiceService) Synthesize(ctx context.Context, text, language string) (string, error) {
	return "", nil
}
