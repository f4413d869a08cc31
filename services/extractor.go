package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/xuri/excelize/v2"

	"room-assistant-platform/internal/logger"
	"room-assistant-platform/internal/rag"
)

// DocumentExtractor pulls plain text out of uploaded files. It is the
// engine's extraction capability: pure byte-slice in, text out, no
// filesystem access.
type DocumentExtractor struct{}

func NewDocumentExtractor() *DocumentExtractor {
	return &DocumentExtractor{}
}

// ExtractText dispatches on the filename extension. Unknown extensions that
// hold valid UTF-8 are treated as plain text.
func (e *DocumentExtractor) ExtractText(ctx context.Context, content []byte, filename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", fmt.Errorf("%q is empty: %w", filename, rag.ErrCorruptInput)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return e.extractPDF(content)
	case ".xlsx", ".xls":
		return e.extractSpreadsheet(content)
	case ".txt", ".md", ".csv":
		return e.extractPlainText(content, filename)
	default:
		if utf8.Valid(content) {
			return e.extractPlainText(content, filename)
		}
		return "", fmt.Errorf("%q: %w", filename, rag.ErrUnsupportedFormat)
	}
}

func (e *DocumentExtractor) extractPDF(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %v: %w", err, rag.ErrCorruptInput)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()

	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		fonts := make(map[string]*pdf.Font)
		text, err := page.GetPlainText(fonts)
		if err != nil {
			logger.Warn("failed to extract text from page", "page", i, "error", err)
			continue
		}

		fmt.Fprintf(&textBuilder, "Page %d: %s\n", i, text)
	}

	extracted := textBuilder.String()
	if len(extracted) == 0 {
		return "", fmt.Errorf("no text found in PDF: %w", rag.ErrExtractionFailed)
	}
	return extracted, nil
}

func (e *DocumentExtractor) extractSpreadsheet(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("failed to open spreadsheet: %v: %w", err, rag.ErrCorruptInput)
	}
	defer f.Close()

	var textBuilder strings.Builder
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			logger.Warn("failed to read sheet", "sheet", sheet, "error", err)
			continue
		}
		fmt.Fprintf(&textBuilder, "Sheet %s:\n", sheet)
		for _, row := range rows {
			textBuilder.WriteString(strings.Join(row, " "))
			textBuilder.WriteString("\n")
		}
	}

	extracted := textBuilder.String()
	if len(extracted) == 0 {
		return "", fmt.Errorf("no cells found in spreadsheet: %w", rag.ErrExtractionFailed)
	}
	return extracted, nil
}

func (e *DocumentExtractor) extractPlainText(content []byte, filename string) (string, error) {
	if !utf8.Valid(content) {
		return "", fmt.Errorf("%q is not valid UTF-8: %w", filename, rag.ErrCorruptInput)
	}
	return string(content), nil
}
