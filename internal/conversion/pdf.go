package conversion

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFConverter extracts the plain text of a PDF and emits one paragraph per
// non-blank line. PDFs carry no reliable structure, so headings are left to
// the style-free heuristics downstream.
type PDFConverter struct{}

// Name implements Converter.
func (c *PDFConverter) Name() string { return "pdf" }

// Convert implements Converter.
func (c *PDFConverter) Convert(ctx context.Context, data []byte) (out string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", &ConversionError{Message: "empty document"}
	}

	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &ConversionError{Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ConversionError{Message: "not a valid PDF", Cause: err}
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &ConversionError{Message: "failed to extract PDF text", Cause: err}
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &ConversionError{Message: "failed to read PDF text", Cause: err}
	}
	return linesToHTML(buf.String()), nil
}

func linesToHTML(text string) string {
	var sb strings.Builder
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sb.WriteString("<p>")
		sb.WriteString(html.EscapeString(line))
		sb.WriteString("</p>")
	}
	return sb.String()
}
