package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"room-assistant-platform/internal/rag"
)

func TestExtractPlainText(t *testing.T) {
	extractor := NewDocumentExtractor()
	text, err := extractor.ExtractText(context.Background(), []byte("hello document"), "notes.txt")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if text != "hello document" {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractUnknownExtensionFallsBackToText(t *testing.T) {
	extractor := NewDocumentExtractor()
	text, err := extractor.ExtractText(context.Background(), []byte("plain content"), "readme.unknown")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if !strings.Contains(text, "plain content") {
		t.Fatalf("text = %q", text)
	}
}

func TestExtractRejectsBinaryUnknown(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.ExtractText(context.Background(), []byte{0xff, 0xfe, 0x00, 0x81}, "image.bin")
	if !errors.Is(err, rag.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractRejectsEmptyFile(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.ExtractText(context.Background(), nil, "empty.txt")
	if !errors.Is(err, rag.ErrCorruptInput) {
		t.Fatalf("err = %v, want ErrCorruptInput", err)
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	extractor := NewDocumentExtractor()
	_, err := extractor.ExtractText(context.Background(), []byte("not a pdf at all"), "broken.pdf")
	if err == nil {
		t.Fatal("expected error for corrupt PDF")
	}
	if !errors.Is(err, rag.ErrCorruptInput) && !errors.Is(err, rag.ErrExtractionFailed) {
		t.Fatalf("err = %v, want corrupt input or extraction failure", err)
	}
}
