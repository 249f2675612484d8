// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts Markdown source text into sanitized HTML.
// Conversion uses goldmark with raw-HTML pass-through enabled; the
// result is then run through a bluemonday UGC policy so that scripts,
// event-handler attributes and javascript: URLs never reach storage.
// Display boundaries are expected to call Sanitize again on stored
// HTML, since the sanitizer may be upgraded after a record was saved.
package markdown

import (
	"bytes"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting( // syntax highlighting for fenced code blocks
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithRendererOptions(
		// Raw HTML passes through the converter untouched; the sanitizer
		// below is the single place where unsafe markup is removed.
		gmhtml.WithUnsafe(),
	),
)

// policy strips script-bearing tags, event-handler attributes and
// unsafe URL schemes while keeping common formatting, links, images,
// tables and code blocks.
var policy = bluemonday.UGCPolicy()

// Render converts Markdown source into sanitized HTML. The output is
// deterministic: the same source always yields byte-identical HTML.
// Malformed input never fails the save — if goldmark rejects the
// source, the escaped plain text is returned instead.
func Render(source string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "<p>" + html.EscapeString(source) + "</p>\n"
	}
	return policy.Sanitize(buf.String())
}

// Sanitize runs stored or third-party HTML through the current policy.
// Stored html_content is re-sanitized at display boundaries because the
// policy may have been tightened since the record was written.
func Sanitize(rawHTML string) string {
	return policy.Sanitize(rawHTML)
}

// SanitizeStrict strips all HTML, leaving plain text only.
func SanitizeStrict(rawHTML string) string {
	return strings.TrimSpace(bluemonday.StrictPolicy().Sanitize(rawHTML))
}
