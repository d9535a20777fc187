package service

import (
	"bytes"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	markdown   = goldmark.New()
	htmlPolicy = bluemonday.UGCPolicy()
)

// renderContent converts a post's markdown to sanitized HTML for view models.
// Stored content stays raw markdown; only the rendered form is sanitized.
func renderContent(md string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(md), &buf); err != nil {
		return htmlPolicy.Sanitize(md)
	}
	return htmlPolicy.Sanitize(buf.String())
}
