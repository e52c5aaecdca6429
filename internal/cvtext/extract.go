// Package cvtext turns CV files into plain text suitable for parsing.
package cvtext

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockTags end a line when converting html to text.
var blockTags = "p, div, li, br, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer"

// Extract returns the text content of a CV file. HTML documents are reduced to
// their visible text, anything else is treated as plain text.
func Extract(name string, data []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm":
		return fromHTML(data)
	default:
		return normalize(string(data)), nil
	}
}

func fromHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, head").Remove()
	doc.Find(blockTags).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalize(doc.Text()), nil
}

// normalize collapses runs of spaces inside lines and drops blank lines.
func normalize(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
