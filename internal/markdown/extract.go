// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package markdown

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	htmltomd "github.com/JohannesKaufmann/html-to-markdown"
)

// ErrUnsupportedFile is returned by Extract for file types it cannot
// turn into markdown.
var ErrUnsupportedFile = errors.New("unsupported file type")

// htmlConverter turns sanitized HTML into markdown for file imports.
var htmlConverter = htmltomd.NewConverter("", true, nil)

// Extract pulls markdown text out of an uploaded file, keyed by the
// file extension. Markdown and plain-text files pass through verbatim;
// HTML files are sanitized first and then converted, so a hostile
// upload cannot smuggle script markup into the editor.
func Extract(filename string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8 text", ErrUnsupportedFile, filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown", ".txt":
		return string(data), nil
	case ".html", ".htm":
		sanitized := Sanitize(string(data))
		out, err := htmlConverter.ConvertString(sanitized)
		if err != nil {
			return "", fmt.Errorf("convert html to markdown: %w", err)
		}
		return out, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFile, filepath.Ext(filename))
	}
}
