// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"treecms/internal/models"
)

// ContentStore handles all content-related database operations.
type ContentStore struct {
	db *sql.DB
}

// NewContentStore creates a new ContentStore with the given database connection.
func NewContentStore(db *sql.DB) *ContentStore {
	return &ContentStore{db: db}
}

const contentColumns = `id, title, markdown_content, html_content, category_id, status, published_at, created_at, updated_at`

// scanContent scans a row into a Content struct.
func scanContent(scanner interface{ Scan(...any) error }) (*models.Content, error) {
	var c models.Content
	err := scanner.Scan(
		&c.ID, &c.Title, &c.MarkdownContent, &c.HTMLContent,
		&c.CategoryID, &c.Status, &c.PublishedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListFilter narrows and paginates content listings.
type ListFilter struct {
	Status     *models.ContentStatus
	CategoryID *uuid.UUID
	Offset     int
	Limit      int // 0 means the default page size
}

const defaultListLimit = 100

// List returns content items newest first, optionally filtered by
// status and category.
func (s *ContentStore) List(f ListFilter) ([]models.Content, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `SELECT ` + contentColumns + ` FROM contents WHERE 1=1`
	args := []any{}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contents: %w", err)
	}
	defer rows.Close()

	var items []models.Content
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a content item by its UUID. Returns nil if not found.
func (s *ContentStore) FindByID(id uuid.UUID) (*models.Content, error) {
	row := s.db.QueryRow(`SELECT `+contentColumns+` FROM contents WHERE id = $1`, id)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// Create inserts a new content item and returns it with generated fields.
func (s *ContentStore) Create(c *models.Content) (*models.Content, error) {
	row := s.db.QueryRow(`
		INSERT INTO contents (title, markdown_content, html_content, category_id, status, published_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+contentColumns,
		c.Title, c.MarkdownContent, c.HTMLContent, c.CategoryID, c.Status, c.PublishedAt,
	)
	result, err := scanContent(row)
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return result, nil
}

// Update modifies the editable fields of a content item. Status and
// published_at are only changed through SetStatus.
func (s *ContentStore) Update(c *models.Content) error {
	_, err := s.db.Exec(`
		UPDATE contents SET
			title = $1, markdown_content = $2, html_content = $3,
			category_id = $4, updated_at = NOW()
		WHERE id = $5
	`, c.Title, c.MarkdownContent, c.HTMLContent, c.CategoryID, c.ID)
	if err != nil {
		return fmt.Errorf("update content: %w", err)
	}
	return nil
}

// SetStatus flips a content item between draft and published, but only
// if it is currently in the expected status. The conditional WHERE makes
// the transition a check-and-set: two racing publishes cannot both
// succeed. Returns false when the row was not in the expected status.
func (s *ContentStore) SetStatus(id uuid.UUID, from, to models.ContentStatus, publishedAt *time.Time) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE contents SET status = $1, published_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, to, publishedAt, id, from)
	if err != nil {
		return false, fmt.Errorf("set content status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set content status rows: %w", err)
	}
	return n == 1, nil
}

// Delete removes a content item by ID. Returns false if no row matched.
func (s *ContentStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM contents WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete content rows: %w", err)
	}
	return n == 1, nil
}
