package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"room-assistant-platform/internal/rag"
	"room-assistant-platform/models"
)

const translateInstruction = "You are a translator. Translate the user's text exactly, preserving meaning and tone. Reply with the translation only, no commentary."

// SupportedLanguages lists the conversation languages the service offers.
var SupportedLanguages = []models.Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
}

// Translator converts answers between English and Hindi through the
// completion capability. With no completer configured every call passes text
// through unchanged, so language handling degrades the same way answering
// does. The completer can be swapped at runtime; the mutex guards only that
// swap, never a network call.
type Translator struct {
	mu        sync.RWMutex
	completer rag.Completer
}

func NewTranslator(completer rag.Completer) *Translator {
	return &Translator{completer: completer}
}

// Available reports whether translation can do more than pass text through.
func (t *Translator) Available() bool {
	return t.completion() != nil
}

// SetCompleter swaps the backing completion capability.
func (t *Translator) SetCompleter(c rag.Completer) {
	t.mu.Lock()
	t.completer = c
	t.mu.Unlock()
}

func (t *Translator) completion() rag.Completer {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.completer
}

// Translate converts text into the target language. Text already in the
// target language, unsupported targets, and missing capability all return
// the input unchanged.
func (t *Translator) Translate(ctx context.Context, text, target string) string {
	completer := t.completion()
	if completer == nil || !supported(target) {
		return text
	}
	if DetectLanguage(text) == target {
		return text
	}

	name := languageName(target)
	prompt := fmt.Sprintf("Translate the following text to %s:\n\n%s", name, text)
	translated, err := completer.Complete(ctx, translateInstruction, prompt, 1000, 0.1)
	if err != nil || strings.TrimSpace(translated) == "" {
		return text
	}
	return strings.TrimSpace(translated)
}

// DetectLanguage reports "hi" when the text contains Devanagari script and
// "en" otherwise.
func DetectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Devanagari, r) {
			return "hi"
		}
	}
	return "en"
}

func supported(code string) bool {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

func languageName(code string) string {
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}
