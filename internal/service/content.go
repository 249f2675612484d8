// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"treecms/internal/markdown"
	"treecms/internal/models"
	"treecms/internal/store"
)

// ContentService owns content items and their Draft/Published
// lifecycle. Every save renders markdown_content through the sanitizing
// pipeline; html_content is never written directly.
type ContentService struct {
	contents   *store.ContentStore
	categories *store.CategoryStore
	logger     *slog.Logger
}

// NewContentService creates a ContentService.
func NewContentService(contents *store.ContentStore, categories *store.CategoryStore, logger *slog.Logger) *ContentService {
	return &ContentService{
		contents:   contents,
		categories: categories,
		logger:     logger,
	}
}

// CreateContentRequest carries the fields for a new content item.
// Status is optional and defaults to draft.
type CreateContentRequest struct {
	Title           string    `json:"title"`
	MarkdownContent string    `json:"markdownContent"`
	CategoryID      uuid.UUID `json:"categoryId"`
	Status          string    `json:"status"`
}

// Validate checks the request fields against the schema limits.
func (r CreateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.CategoryID, validation.Required, validation.By(validUUID)),
		validation.Field(&r.Status, validation.In("", string(models.ContentStatusDraft), string(models.ContentStatusPublished))),
	)
}

// UpdateContentRequest carries a partial content edit. Nil fields are
// left untouched. Status is deliberately absent: publication state only
// changes through Publish and Unpublish.
type UpdateContentRequest struct {
	Title           *string    `json:"title"`
	MarkdownContent *string    `json:"markdownContent"`
	CategoryID      *uuid.UUID `json:"categoryId"`
}

// Validate checks the request fields that are present.
func (r UpdateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 200)),
	)
}

// validUUID rejects the zero UUID, which json decoding produces for a
// missing id field.
func validUUID(value any) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return fmt.Errorf("must be a valid id")
	}
	return nil
}

// List returns content items newest first, optionally filtered by
// status and category, with skip/limit pagination.
func (s *ContentService) List(ctx context.Context, status string, categoryID *uuid.UUID, offset, limit int) ([]models.Content, error) {
	filter := store.ListFilter{CategoryID: categoryID, Offset: offset, Limit: limit}
	if status != "" {
		st, ok := models.ParseContentStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		filter.Status = &st
	}
	return s.contents.List(filter)
}

// Get returns one content item by id.
func (s *ContentService) Get(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	c, err := s.contents.FindByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: content %s", ErrNotFound, id)
	}
	return c, nil
}

// Create adds a content item, rendering its markdown before persisting.
// Status defaults to draft; an explicit published status stamps
// publishedAt immediately.
func (s *ContentService) Create(ctx context.Context, req CreateContentRequest) (*models.Content, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if err := s.requireCategory(req.CategoryID); err != nil {
		return nil, err
	}

	status := models.ContentStatusDraft
	if req.Status != "" {
		status, _ = models.ParseContentStatus(req.Status)
	}

	c := models.Content{
		Title:           req.Title,
		MarkdownContent: req.MarkdownContent,
		HTMLContent:     markdown.Render(req.MarkdownContent),
		CategoryID:      req.CategoryID,
		Status:          status,
	}
	if status == models.ContentStatusPublished {
		now := time.Now()
		c.PublishedAt = &now
	}

	created, err := s.contents.Create(&c)
	if err != nil {
		return nil, err
	}

	s.logger.Info("content created",
		"id", created.ID,
		"title", created.Title,
		"category_id", created.CategoryID,
		"status", created.Status,
	)
	return created, nil
}

// Update applies a partial edit. Markdown changes re-render the HTML;
// status and publishedAt are never touched here.
func (s *ContentService) Update(ctx context.Context, id uuid.UUID, req UpdateContentRequest) (*models.Content, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.MarkdownContent != nil {
		c.MarkdownContent = *req.MarkdownContent
		c.HTMLContent = markdown.Render(*req.MarkdownContent)
	}
	if req.CategoryID != nil {
		if err := s.requireCategory(*req.CategoryID); err != nil {
			return nil, err
		}
		c.CategoryID = *req.CategoryID
	}

	if err := s.contents.Update(c); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Publish transitions a draft to published and stamps publishedAt.
// Publishing an already-published item is a conflict. The underlying
// update is a check-and-set on status, so racing calls cannot both win.
func (s *ContentService) Publish(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	now := time.Now()
	ok, err := s.contents.SetStatus(id, models.ContentStatusDraft, models.ContentStatusPublished, &now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// The CAS also misses when the row was deleted underneath us;
		// re-check so a gone row reports not-found, not a status clash.
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: content %s is already published", ErrConflict, id)
	}

	s.logger.Info("content published", "id", id)
	return s.Get(ctx, id)
}

// Unpublish returns a published item to draft and clears publishedAt;
// a later republish stamps a fresh timestamp. Unpublishing a draft is a
// conflict.
func (s *ContentService) Unpublish(ctx context.Context, id uuid.UUID) (*models.Content, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	ok, err := s.contents.SetStatus(id, models.ContentStatusPublished, models.ContentStatusDraft, nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: content %s is not published", ErrConflict, id)
	}

	s.logger.Info("content unpublished", "id", id)
	return s.Get(ctx, id)
}

// Delete removes a content item regardless of status.
func (s *ContentService) Delete(ctx context.Context, id uuid.UUID) error {
	ok, err := s.contents.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: content %s", ErrNotFound, id)
	}

	s.logger.Info("content deleted", "id", id)
	return nil
}

// requireCategory maps a missing category reference to ErrNotFound.
func (s *ContentService) requireCategory(id uuid.UUID) error {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return err
	}
	if cat == nil {
		return fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return nil
}
