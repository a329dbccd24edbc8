package extract

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format is a supported document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrParse             = errors.New("parse failed")
	ErrEmptyContent      = errors.New("no extractable text")
)

// FormatFromPath maps a file extension (case-insensitive) to a Format.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Extractor turns a document into plain text.
type Extractor interface {
	Extract(ctx context.Context, path string, format Format) (string, error)
}

// FileExtractor reads documents from the local filesystem.
type FileExtractor struct {
	log *slog.Logger
}

// NewFileExtractor builds an extractor; a nil logger discards output.
func NewFileExtractor(log *slog.Logger) *FileExtractor {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &FileExtractor{log: log}
}

// Extract returns the trimmed text of the document at path. The result is
// never empty: a document without text yields ErrEmptyContent.
func (e *FileExtractor) Extract(ctx context.Context, path string, format Format) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if format != FormatPDF && format != FormatDOCX {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("%w: read %s: %v", ErrFileNotFound, path, err)
	}

	// Parsers are third-party code; a corrupt file must not take the process down.
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("parser panicked", "path", path, "format", format, "panic", r)
			text, err = "", fmt.Errorf("%w: %v", ErrParse, r)
		}
	}()

	switch format {
	case FormatPDF:
		text, err = e.extractPDF(data)
	case FormatDOCX:
		text, err = extractDOCX(data)
	}
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}
	e.log.Debug("extracted text", "path", path, "format", format, "chars", len(text))
	return text, nil
}
