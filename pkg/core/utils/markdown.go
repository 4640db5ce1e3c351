package utils

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
)

// RenderMarkdownHTML converts a markdown report to HTML for the API's
// explanation endpoint.
func RenderMarkdownHTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
