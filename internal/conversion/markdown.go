package conversion

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// MarkdownRenderer renders sanitized document HTML as Markdown for review.
type MarkdownRenderer struct {
	conv *converter.Converter
}

// NewMarkdownRenderer creates a renderer with CommonMark and table support.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Render converts html to Markdown.
func (m *MarkdownRenderer) Render(html string) (string, error) {
	md, err := m.conv.ConvertString(html)
	if err != nil {
		return "", &ConversionError{Message: "markdown rendering failed", Cause: err}
	}
	return strings.TrimSpace(md) + "\n", nil
}
