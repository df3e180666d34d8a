// Package conversion turns uploaded document bytes into sanitized HTML.
package conversion

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Converter turns raw document bytes into HTML. The HTML may contain
// artifacts and must be passed through a Sanitizer before use.
type Converter interface {
	Convert(ctx context.Context, data []byte) (string, error)
	// Name identifies the converter in stored import metadata.
	Name() string
}

// ConversionError represents a document that could not be turned into HTML.
type ConversionError struct {
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("conversion failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("conversion failed: %s", e.Message)
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// ForFile picks a converter by file extension, falling back to sniffing the
// content when the extension is missing or unknown.
func ForFile(fileName string, data []byte) (Converter, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".docx":
		return &DocxConverter{}, nil
	case ".pdf":
		return &PDFConverter{}, nil
	}

	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return &PDFConverter{}, nil
	case isDocxArchive(data):
		return &DocxConverter{}, nil
	}
	return nil, &ConversionError{Message: fmt.Sprintf("unsupported file type %q: only .docx and .pdf are accepted", fileName)}
}

func isDocxArchive(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("PK")) {
		return false
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == documentPart {
			return true
		}
	}
	return false
}
