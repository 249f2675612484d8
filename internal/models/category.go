// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PathSeparator joins category ids in the materialized path column.
const PathSeparator = "/"

// DeletePolicy controls what happens to a deleted category's children
// and attached content. The zero value is not valid; callers default
// to PolicyPrevent.
type DeletePolicy string

const (
	// PolicyPrevent refuses the deletion while dependents exist.
	PolicyPrevent DeletePolicy = "PREVENT"
	// PolicyCascade deletes dependents along with the category.
	PolicyCascade DeletePolicy = "CASCADE"
	// PolicyReparent re-attaches dependents to the deleted category's parent.
	PolicyReparent DeletePolicy = "REPARENT"
)

// ParseDeletePolicy maps a query-parameter value to a DeletePolicy.
// An empty value defaults to PREVENT; anything unrecognized returns false.
func ParseDeletePolicy(v string) (DeletePolicy, bool) {
	switch DeletePolicy(strings.ToUpper(strings.TrimSpace(v))) {
	case "":
		return PolicyPrevent, true
	case PolicyPrevent:
		return PolicyPrevent, true
	case PolicyCascade:
		return PolicyCascade, true
	case PolicyReparent:
		return PolicyReparent, true
	default:
		return "", false
	}
}

// Category is a node in the content category forest. The hierarchy is
// materialized in Path, a PathSeparator-joined list of ancestor ids from
// the root down to (and including) this category. Level is the depth of
// the node, 0 for roots. Both are maintained together: Level always
// equals the number of separators in Path.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parentId"`
	Level       int        `json:"level"`
	Path        string     `json:"path"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Children is populated by tree queries only.
	Children []Category `json:"children,omitempty"`
}

// IsRoot returns true if the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// PathIDs splits the materialized path into its component ids,
// root first, self last. Invalid segments are skipped.
func (c *Category) PathIDs() []uuid.UUID {
	parts := strings.Split(c.Path, PathSeparator)
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(p)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// IsDescendantOf reports whether c sits strictly below other in the
// tree, using a prefix test on the materialized paths.
func (c *Category) IsDescendantOf(other *Category) bool {
	return strings.HasPrefix(c.Path, other.Path+PathSeparator)
}

// ChildPath returns the materialized path a direct child with the given
// id would have under c.
func (c *Category) ChildPath(childID uuid.UUID) string {
	return c.Path + PathSeparator + childID.String()
}
