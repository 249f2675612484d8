// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus represents the publishing state of a content item.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// ParseContentStatus maps a request value to a ContentStatus.
// Returns false for anything other than "draft" or "published".
func ParseContentStatus(v string) (ContentStatus, bool) {
	switch ContentStatus(v) {
	case ContentStatusDraft:
		return ContentStatusDraft, true
	case ContentStatusPublished:
		return ContentStatusPublished, true
	default:
		return "", false
	}
}

// Content is a publishable item attached to exactly one category.
// HTMLContent is derived: it is the sanitized render of MarkdownContent
// as of the last save and is never written directly by callers.
// PublishedAt is non-nil exactly when Status is published.
type Content struct {
	ID              uuid.UUID     `json:"id"`
	Title           string        `json:"title"`
	MarkdownContent string        `json:"markdownContent"`
	HTMLContent     string        `json:"htmlContent"`
	CategoryID      uuid.UUID     `json:"categoryId"`
	Status          ContentStatus `json:"status"`
	PublishedAt     *time.Time    `json:"publishedAt"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// IsPublished returns true if the content item is in published status.
func (c *Content) IsPublished() bool {
	return c.Status == ContentStatusPublished
}
