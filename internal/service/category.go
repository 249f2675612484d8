// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"treecms/internal/cache"
	"treecms/internal/models"
	"treecms/internal/store"
)

// CategoryService owns the category hierarchy: creation, lookup, moves
// and policy-driven deletion.
//
// Structural mutations (moves and deletions) serialize behind a single
// mutex in addition to their database transaction. A per-node lock would
// not do: a move rewrites an unbounded descendant set that is only
// discovered during the operation, so two overlapping subtree mutations
// must never interleave.
type CategoryService struct {
	categories *store.CategoryStore
	trees      *cache.TreeCache // nil disables caching
	logger     *slog.Logger

	structural sync.Mutex
}

// NewCategoryService creates a CategoryService. The tree cache is
// optional; pass nil to always read from the database.
func NewCategoryService(categories *store.CategoryStore, trees *cache.TreeCache, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		categories: categories,
		trees:      trees,
		logger:     logger,
	}
}

// CreateCategoryRequest carries the fields for a new category.
type CreateCategoryRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	SortOrder   *int       `json:"sortOrder"`
}

// Validate checks the request fields. Field limits match the database
// schema.
func (r CreateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// ParentChange expresses an explicit new parent in an update request.
// A nil ID moves the category to the root level.
type ParentChange struct {
	ID *uuid.UUID
}

// UpdateCategoryRequest carries a partial category update. Nil fields
// are left untouched; a non-nil Parent requests a move.
type UpdateCategoryRequest struct {
	Name        *string
	Description *string
	SortOrder   *int
	Parent      *ParentChange
}

// Validate checks the request fields that are present.
func (r UpdateCategoryRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 2000)),
	)
}

// Tree returns the full category forest, children nested recursively.
// Results are served from the Valkey cache when possible; every
// mutation invalidates it.
func (s *CategoryService) Tree(ctx context.Context) ([]models.Category, error) {
	if s.trees != nil {
		if tree, ok := s.trees.Get(ctx); ok {
			return tree, nil
		}
	}

	tree, err := s.categories.Tree()
	if err != nil {
		return nil, err
	}

	if s.trees != nil {
		s.trees.Set(ctx, tree)
	}
	return tree, nil
}

// Flat returns all categories without nesting, same sibling ordering as
// the tree.
func (s *CategoryService) Flat(ctx context.Context) ([]models.Category, error) {
	return s.categories.List()
}

// Get returns one category by id.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	cat, err := s.categories.FindByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, id)
	}
	return cat, nil
}

// Children returns the direct children of a category.
func (s *CategoryService) Children(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.categories.Children(id)
}

// Descendants returns every transitive descendant of a category, found
// by a prefix match on the materialized path in a single pass.
func (s *CategoryService) Descendants(ctx context.Context, id uuid.UUID) ([]models.Category, error) {
	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.categories.Descendants(cat.Path)
}

// Create adds a category under the given parent (or at the root).
// Level and path are derived from the parent before insert; a category
// is never created orphaned.
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	cat := models.Category{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		Path:        "",
	}

	if req.ParentID != nil {
		parent, err := s.categories.FindByID(*req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent category %s", ErrNotFound, *req.ParentID)
		}
		cat.Level = parent.Level + 1
		cat.Path = parent.ChildPath(cat.ID)
	} else {
		cat.Level = 0
		cat.Path = cat.ID.String()
	}

	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	} else {
		next, err := s.categories.NextSortOrder(req.ParentID)
		if err != nil {
			return nil, err
		}
		cat.SortOrder = next
	}

	created, err := s.categories.Create(&cat)
	if err != nil {
		return nil, err
	}

	s.invalidateTree(ctx)
	s.logger.Info("category created",
		"id", created.ID,
		"name", created.Name,
		"parent_id", req.ParentID,
		"level", created.Level,
	)
	return created, nil
}

// Update renames, re-describes or re-orders a category in place, and
// moves it when the request carries a parent change. A move validates
// the destination against the current tree before any mutation: the new
// parent must exist and must not be the category itself or anything
// below it.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*models.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	s.structural.Lock()
	defer s.structural.Unlock()

	cat, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := false
	if req.Parent != nil {
		moved, err = s.move(cat, req.Parent.ID)
		if err != nil {
			return nil, err
		}
		if moved {
			// Reload: the move rewrote level and path.
			cat, err = s.Get(ctx, id)
			if err != nil {
				return nil, err
			}
		}
	}

	changed := false
	if req.Name != nil {
		cat.Name = *req.Name
		changed = true
	}
	if req.Description != nil {
		cat.Description = *req.Description
		changed = true
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
		changed = true
	}
	if changed {
		if err := s.categories.UpdateMeta(cat); err != nil {
			return nil, err
		}
	}

	// A request that touched nothing leaves the cached tree valid.
	if changed || moved {
		s.invalidateTree(ctx)
	}
	return s.Get(ctx, id)
}

// move re-attaches cat under newParentID (nil = root), recomputing
// level and path for the node and every descendant as one batch.
// Returns false when the destination equals the current position.
// Caller holds the structural lock.
func (s *CategoryService) move(cat *models.Category, newParentID *uuid.UUID) (bool, error) {
	var newPath string
	var newLevel int

	if newParentID == nil {
		newPath = cat.ID.String()
		newLevel = 0
	} else {
		if *newParentID == cat.ID {
			return false, fmt.Errorf("%w: category cannot be its own parent", ErrConflict)
		}
		parent, err := s.categories.FindByID(*newParentID)
		if err != nil {
			return false, err
		}
		if parent == nil {
			return false, fmt.Errorf("%w: parent category %s", ErrNotFound, *newParentID)
		}
		// Cycle check on the current tree, before anything mutates.
		if parent.IsDescendantOf(cat) {
			return false, fmt.Errorf("%w: cannot move category under its own descendant", ErrConflict)
		}
		newPath = parent.ChildPath(cat.ID)
		newLevel = parent.Level + 1
	}

	if newPath == cat.Path {
		return false, nil // no-op move
	}

	if err := s.categories.MoveSubtree(cat.ID, newParentID, cat.Path, newPath, newLevel-cat.Level); err != nil {
		return false, err
	}

	s.logger.Info("category moved",
		"id", cat.ID,
		"old_path", cat.Path,
		"new_path", newPath,
	)
	return true, nil
}

// Delete removes a category under the two deletion policy axes.
//
// The children policy resolves first, since it decides which descendants
// contribute content; the content policy then applies to content under
// the deleted node plus any cascaded descendants. Both PREVENT checks
// run before a single row is touched, and the mutations execute in one
// transaction — the deletion is all-or-nothing.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID, handleChildren, handleContent models.DeletePolicy) error {
	s.structural.Lock()
	defer s.structural.Unlock()

	cat, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	children, err := s.categories.Children(id)
	if err != nil {
		return err
	}

	plan := store.DeletePlan{Category: *cat}

	switch handleChildren {
	case models.PolicyPrevent:
		if len(children) > 0 {
			return fmt.Errorf("%w: category has %d child categories", ErrConflict, len(children))
		}
	case models.PolicyCascade:
		plan.CascadeSubtree = true
	case models.PolicyReparent:
		plan.ReparentChildren = children
	default:
		return fmt.Errorf("%w: unknown children policy %q", ErrValidation, handleChildren)
	}

	// Content in scope: just the node's own content, or the whole
	// subtree's when descendants are being cascaded away.
	var contentCount int
	if plan.CascadeSubtree {
		contentCount, err = s.categories.CountContentInSubtree(cat.Path)
	} else {
		contentCount, err = s.categories.CountContent(id)
	}
	if err != nil {
		return err
	}

	switch handleContent {
	case models.PolicyPrevent:
		if contentCount > 0 {
			return fmt.Errorf("%w: category has %d content items", ErrConflict, contentCount)
		}
	case models.PolicyCascade:
		plan.DeleteContent = true
	case models.PolicyReparent:
		if contentCount > 0 {
			if cat.ParentID == nil {
				return fmt.Errorf("%w: cannot reparent content of a root category", ErrConflict)
			}
			plan.ReparentContentTo = cat.ParentID
		}
	default:
		return fmt.Errorf("%w: unknown content policy %q", ErrValidation, handleContent)
	}

	if err := s.categories.ApplyDelete(plan); err != nil {
		return err
	}

	s.invalidateTree(ctx)
	s.logger.Info("category deleted",
		"id", id,
		"handle_children", handleChildren,
		"handle_content", handleContent,
		"cascaded", plan.CascadeSubtree,
	)
	return nil
}

func (s *CategoryService) invalidateTree(ctx context.Context) {
	if s.trees == nil {
		return
	}
	if err := s.trees.Invalidate(ctx); err != nil {
		s.logger.Warn("tree cache invalidation failed", "error", err)
	}
}
