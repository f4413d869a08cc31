package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fixedCompleter struct {
	reply string
}

func (c fixedCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float32) (string, error) {
	return c.reply, nil
}

func TestDetectLanguage(t *testing.T) {
	if got := DetectLanguage("hello there"); got != "en" {
		t.Fatalf("DetectLanguage(english) = %q", got)
	}
	if got := DetectLanguage("नमस्ते दुनिया"); got != "hi" {
		t.Fatalf("DetectLanguage(hindi) = %q", got)
	}
	if got := DetectLanguage("mixed नमस्ते text"); got != "hi" {
		t.Fatalf("DetectLanguage(mixed) = %q", got)
	}
}

func TestTranslatePassThroughWithoutCompleter(t *testing.T) {
	tr := NewTranslator(nil)
	if tr.Available() {
		t.Fatal("translator without completer reports available")
	}
	if got := tr.Translate(context.Background(), "hello", "hi"); got != "hello" {
		t.Fatalf("Translate = %q, want pass-through", got)
	}
}

func TestTranslateSkipsSameLanguage(t *testing.T) {
	tr := NewTranslator(fixedCompleter{reply: "should not be used"})
	if got := tr.Translate(context.Background(), "already english", "en"); got != "already english" {
		t.Fatalf("Translate = %q, want input unchanged", got)
	}
}

func TestTranslateUsesCompleter(t *testing.T) {
	tr := NewTranslator(fixedCompleter{reply: "नमस्ते"})
	if got := tr.Translate(context.Background(), "hello", "hi"); got != "नमस्ते" {
		t.Fatalf("Translate = %q", got)
	}
}

func TestTranslateUnsupportedTarget(t *testing.T) {
	tr := NewTranslator(fixedCompleter{reply: "bonjour"})
	if got := tr.Translate(context.Background(), "hello", "fr"); got != "hello" {
		t.Fatalf("Translate(fr) = %q, want pass-through", got)
	}
}

func TestTranslatorConcurrentSwapAndTranslate(t *testing.T) {
	tr := NewTranslator(nil)
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			if i%2 == 0 {
				tr.SetCompleter(fixedCompleter{reply: "नमस्ते"})
			} else {
				tr.SetCompleter(nil)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			got := tr.Translate(context.Background(), "hello", "hi")
			if got != "hello" && got != "नमस्ते" {
				t.Errorf("Translate = %q", got)
				return
			}
		}
	}()

	time.Sleep(50 * time.Millisecond)
	close(done)
	wg.Wait()
}
