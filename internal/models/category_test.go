package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseDeletePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want DeletePolicy
		ok   bool
	}{
		{"", PolicyPrevent, true},
		{"PREVENT", PolicyPrevent, true},
		{"CASCADE", PolicyCascade, true},
		{"REPARENT", PolicyReparent, true},
		{"cascade", PolicyCascade, true},
		{" reparent ", PolicyReparent, true},
		{"DESTROY", "", false},
		{"preventt", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseDeletePolicy(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseDeletePolicy(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCategoryPathIDs(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	cat := Category{
		ID:   c,
		Path: strings.Join([]string{a.String(), b.String(), c.String()}, PathSeparator),
	}

	ids := cat.PathIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 path ids, got %d", len(ids))
	}
	if ids[0] != a || ids[1] != b || ids[2] != c {
		t.Errorf("path ids out of order: %v", ids)
	}
}

func TestCategoryIsDescendantOf(t *testing.T) {
	root := Category{ID: uuid.New()}
	root.Path = root.ID.String()

	child := Category{ID: uuid.New(), ParentID: &root.ID, Level: 1}
	child.Path = root.ChildPath(child.ID)

	grandchild := Category{ID: uuid.New(), ParentID: &child.ID, Level: 2}
	grandchild.Path = child.ChildPath(grandchild.ID)

	if !child.IsDescendantOf(&root) {
		t.Error("child should be a descendant of root")
	}
	if !grandchild.IsDescendantOf(&root) {
		t.Error("grandchild should be a descendant of root")
	}
	if !grandchild.IsDescendantOf(&child) {
		t.Error("grandchild should be a descendant of child")
	}
	if root.IsDescendantOf(&child) {
		t.Error("root should not be a descendant of child")
	}
	if child.IsDescendantOf(&child) {
		t.Error("a category is not its own descendant")
	}

	// A sibling whose id happens to share no prefix must not match.
	other := Category{ID: uuid.New()}
	other.Path = other.ID.String()
	if other.IsDescendantOf(&root) {
		t.Error("unrelated root should not be a descendant")
	}
}

func TestCategoryLevelMatchesPath(t *testing.T) {
	root := Category{ID: uuid.New(), Level: 0}
	root.Path = root.ID.String()

	child := Category{ID: uuid.New(), Level: 1}
	child.Path = root.ChildPath(child.ID)

	for _, cat := range []Category{root, child} {
		if got := strings.Count(cat.Path, PathSeparator); got != cat.Level {
			t.Errorf("level %d does not match %d separators in path %q", cat.Level, got, cat.Path)
		}
	}
}

func TestParseContentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want ContentStatus
		ok   bool
	}{
		{"draft", ContentStatusDraft, true},
		{"published", ContentStatusPublished, true},
		{"DRAFT", "", false},
		{"archived", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseContentStatus(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseContentStatus(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
