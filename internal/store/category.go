// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all TreeCMS
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"treecms/internal/models"
)

// CategoryStore manages the category forest in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, description, parent_id, level, path, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Description, &c.ParentID,
		&c.Level, &c.Path, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// collectCategories drains rows into a slice.
func collectCategories(rows *sql.Rows) ([]models.Category, error) {
	defer rows.Close()
	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// List returns all categories as a flat list, siblings ordered by
// sort_order then id.
func (s *CategoryStore) List() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT ` + categoryColumns + ` FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return collectCategories(rows)
}

// Tree returns the full category forest with Children populated
// recursively. It is built in a single pass over the flat list: rows
// are grouped by parent id, then children are attached top-down.
func (s *CategoryStore) Tree() ([]models.Category, error) {
	flat, err := s.List()
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree assembles a nested forest from a flat category list. The
// input must already be in sibling order; the output preserves it.
func BuildTree(flat []models.Category) []models.Category {
	byParent := make(map[uuid.UUID][]models.Category, len(flat))
	var roots []models.Category
	for _, c := range flat {
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
		}
	}

	var attach func(nodes []models.Category) []models.Category
	attach = func(nodes []models.Category) []models.Category {
		for i := range nodes {
			nodes[i].Children = attach(byParent[nodes[i].ID])
		}
		return nodes
	}
	return attach(roots)
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// Children returns the direct children of a category.
func (s *CategoryStore) Children(id uuid.UUID) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE parent_id = $1
		ORDER BY sort_order, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return collectCategories(rows)
}

// Descendants returns every category strictly below the given
// materialized path, via a prefix match rather than recursive walks.
func (s *CategoryStore) Descendants(path string) ([]models.Category, error) {
	rows, err := s.db.Query(`
		SELECT `+categoryColumns+` FROM categories
		WHERE path LIKE $1
		ORDER BY path
	`, path+models.PathSeparator+"%")
	if err != nil {
		return nil, fmt.Errorf("list descendants: %w", err)
	}
	return collectCategories(rows)
}

// Create inserts a new category. The caller supplies the id, level and
// materialized path (they are derived from the parent before insert).
func (s *CategoryStore) Create(c *models.Category) (*models.Category, error) {
	row := s.db.QueryRow(`
		INSERT INTO categories (id, name, description, parent_id, level, path, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+categoryColumns,
		c.ID, c.Name, c.Description, c.ParentID, c.Level, c.Path, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return result, nil
}

// UpdateMeta modifies the non-structural fields of a category
// (name, description, sort order). Moves go through MoveSubtree.
func (s *CategoryStore) UpdateMeta(c *models.Category) error {
	_, err := s.db.Exec(`
		UPDATE categories SET
			name = $1, description = $2, sort_order = $3, updated_at = NOW()
		WHERE id = $4
	`, c.Name, c.Description, c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// MoveSubtree re-attaches a category to a new parent and rewrites the
// materialized path and level of the node and every descendant as one
// batch: the old path prefix is substituted with the new one in a
// single UPDATE over the prefix-matched set, so the subtree can never
// be left half-moved.
func (s *CategoryStore) MoveSubtree(id uuid.UUID, newParentID *uuid.UUID, oldPath, newPath string, levelDelta int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin move tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE categories SET parent_id = $1, updated_at = NOW() WHERE id = $2
	`, newParentID, id); err != nil {
		return fmt.Errorf("move category %s: %w", id, err)
	}

	if err := rewritePaths(tx, oldPath, newPath, levelDelta); err != nil {
		return err
	}

	return tx.Commit()
}

// rewritePaths substitutes oldPath for newPath across a subtree and
// shifts levels accordingly. Runs inside the caller's transaction.
func rewritePaths(tx *sql.Tx, oldPath, newPath string, levelDelta int) error {
	_, err := tx.Exec(`
		UPDATE categories SET
			path = $2 || substr(path, length($1) + 1),
			level = level + $3,
			updated_at = NOW()
		WHERE path = $1 OR path LIKE $1 || '/%'
	`, oldPath, newPath, levelDelta)
	if err != nil {
		return fmt.Errorf("rewrite subtree paths: %w", err)
	}
	return nil
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRow(`SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// CountContent returns how many content items reference the category
// directly.
func (s *CategoryStore) CountContent(id uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM contents WHERE category_id = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count content: %w", err)
	}
	return n, nil
}

// CountContentInSubtree returns how many content items reference the
// category at the given path or any of its descendants.
func (s *CategoryStore) CountContentInSubtree(path string) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM contents
		WHERE category_id IN (
			SELECT id FROM categories WHERE path = $1 OR path LIKE $1 || '/%'
		)
	`, path).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count subtree content: %w", err)
	}
	return n, nil
}

// DeletePlan describes a fully resolved category deletion. The policy
// checks have already passed by the time a plan is applied; ApplyDelete
// only executes the mutations, atomically.
type DeletePlan struct {
	// Category is the node being removed.
	Category models.Category
	// CascadeSubtree deletes every descendant along with the node.
	CascadeSubtree bool
	// ReparentChildren lists direct children to re-attach to the
	// deleted node's parent before the node is removed.
	ReparentChildren []models.Category
	// DeleteContent removes content referencing any removed category;
	// when false and ReparentContentTo is set, that content is
	// reassigned instead.
	DeleteContent     bool
	ReparentContentTo *uuid.UUID
}

// ApplyDelete executes a resolved deletion plan in one transaction.
// Content is handled first (it references categories), then children
// are re-attached, then the category rows are removed.
func (s *CategoryStore) ApplyDelete(plan DeletePlan) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer tx.Rollback()

	cat := plan.Category

	// Resolve the set of removed category ids with the same prefix
	// predicate used everywhere else.
	removedPredicate := `category_id = $1`
	removedArg := any(cat.ID)
	if plan.CascadeSubtree {
		removedPredicate = `category_id IN (SELECT id FROM categories WHERE path = $1 OR path LIKE $1 || '/%')`
		removedArg = cat.Path
	}

	if plan.DeleteContent {
		if _, err := tx.Exec(`DELETE FROM contents WHERE `+removedPredicate, removedArg); err != nil {
			return fmt.Errorf("delete content under category: %w", err)
		}
	} else if plan.ReparentContentTo != nil {
		if _, err := tx.Exec(`
			UPDATE contents SET category_id = $2, updated_at = NOW()
			WHERE `+removedPredicate, removedArg, *plan.ReparentContentTo,
		); err != nil {
			return fmt.Errorf("reparent content: %w", err)
		}
	}

	for _, child := range plan.ReparentChildren {
		newPath := child.ID.String()
		if cat.ParentID != nil {
			// The deleted node's own path minus its trailing segment is
			// the parent's path.
			parentPath := cat.Path[:len(cat.Path)-len(cat.ID.String())-1]
			newPath = parentPath + models.PathSeparator + child.ID.String()
		}
		if _, err := tx.Exec(`
			UPDATE categories SET parent_id = $1, updated_at = NOW() WHERE id = $2
		`, cat.ParentID, child.ID); err != nil {
			return fmt.Errorf("reparent child %s: %w", child.ID, err)
		}
		if err := rewritePaths(tx, child.Path, newPath, -1); err != nil {
			return err
		}
	}

	if plan.CascadeSubtree {
		if _, err := tx.Exec(`
			DELETE FROM categories WHERE path = $1 OR path LIKE $1 || '/%'
		`, cat.Path); err != nil {
			return fmt.Errorf("delete category subtree: %w", err)
		}
	} else {
		if _, err := tx.Exec(`DELETE FROM categories WHERE id = $1`, cat.ID); err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
	}

	return tx.Commit()
}
