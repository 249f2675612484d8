package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestCreateContentRendersMarkdown(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "render-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	item, err := ts.contents.Create(ctx, CreateContentRequest{
		Title:           "Hello",
		MarkdownContent: "# Hello\n\nSome **bold** text.",
		CategoryID:      cat.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.Contains(item.HTMLContent, "<h1>Hello</h1>") {
		t.Errorf("heading not rendered: %q", item.HTMLContent)
	}
	if !strings.Contains(item.HTMLContent, "<strong>bold</strong>") {
		t.Errorf("bold not rendered: %q", item.HTMLContent)
	}
	if item.Status != "draft" {
		t.Errorf("status = %q, want draft default", item.Status)
	}
	if item.PublishedAt != nil {
		t.Error("draft must not carry publishedAt")
	}
}

func TestCreateContentSanitizesHTML(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "sanitize-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	item, err := ts.contents.Create(ctx, CreateContentRequest{
		Title:           "Sneaky",
		MarkdownContent: "Hi <script>alert('xss')</script> <img src=x onerror=alert(1)>",
		CategoryID:      cat.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if strings.Contains(item.HTMLContent, "<script") {
		t.Errorf("script tag survived sanitization: %q", item.HTMLContent)
	}
	if strings.Contains(item.HTMLContent, "onerror") {
		t.Errorf("event handler survived sanitization: %q", item.HTMLContent)
	}
}

func TestCreateContentValidation(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "valid-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	_, err := ts.contents.Create(ctx, CreateContentRequest{Title: "", CategoryID: cat.ID})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("empty title: err = %v, want ErrValidation", err)
	}

	_, err = ts.contents.Create(ctx, CreateContentRequest{Title: "no category"})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("zero category id: err = %v, want ErrValidation", err)
	}

	bogus := uuid.New()
	_, err = ts.contents.Create(ctx, CreateContentRequest{Title: "ghost", CategoryID: bogus})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown category: err = %v, want ErrNotFound", err)
	}

	_, err = ts.contents.Create(ctx, CreateContentRequest{
		Title:      "bad status",
		CategoryID: cat.ID,
		Status:     "archived",
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}
}

func TestPublishLifecycle(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "lifecycle-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	item, err := ts.contents.Create(ctx, CreateContentRequest{
		Title:      "lifecycle",
		CategoryID: cat.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	published, err := ts.contents.Publish(ctx, item.ID)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !published.IsPublished() {
		t.Error("item should be published")
	}
	if published.PublishedAt == nil {
		t.Fatal("publish must stamp publishedAt")
	}
	firstStamp := *published.PublishedAt

	// Publishing again is a conflict.
	if _, err := ts.contents.Publish(ctx, item.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("double publish: err = %v, want ErrConflict", err)
	}

	draft, err := ts.contents.Unpublish(ctx, item.ID)
	if err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	if draft.IsPublished() {
		t.Error("item should be back to draft")
	}
	if draft.PublishedAt != nil {
		t.Error("unpublish must clear publishedAt")
	}

	// Unpublishing a draft is a conflict.
	if _, err := ts.contents.Unpublish(ctx, item.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("double unpublish: err = %v, want ErrConflict", err)
	}

	// A republish stamps a fresh timestamp.
	republished, err := ts.contents.Publish(ctx, item.ID)
	if err != nil {
		t.Fatalf("republish: %v", err)
	}
	if republished.PublishedAt == nil {
		t.Fatal("republish must stamp publishedAt")
	}
	if !republished.PublishedAt.After(firstStamp) {
		t.Error("republish should carry a fresh timestamp")
	}
}

func TestCreatePublishedStampsTimestamp(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "direct-pub-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	item, err := ts.contents.Create(ctx, CreateContentRequest{
		Title:      "born published",
		CategoryID: cat.ID,
		Status:     "published",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !item.IsPublished() {
		t.Error("item should be published")
	}
	if item.PublishedAt == nil {
		t.Error("published creation must stamp publishedAt")
	}
}

func TestUpdateContentReRendersMarkdown(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "update-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	item, err := ts.contents.Create(ctx, CreateContentRequest{
		Title:           "before",
		MarkdownContent: "# Before",
		CategoryID:      cat.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newMarkdown := "# After"
	newTitle := "after"
	updated, err := ts.contents.Update(ctx, item.ID, UpdateContentRequest{
		Title:           &newTitle,
		MarkdownContent: &newMarkdown,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "after" {
		t.Errorf("title = %q", updated.Title)
	}
	if !strings.Contains(updated.HTMLContent, "<h1>After</h1>") {
		t.Errorf("html not re-rendered: %q", updated.HTMLContent)
	}

	// A title-only update leaves the rendered HTML alone.
	onlyTitle := "after again"
	updated, err = ts.contents.Update(ctx, item.ID, UpdateContentRequest{Title: &onlyTitle})
	if err != nil {
		t.Fatalf("title-only update: %v", err)
	}
	if !strings.Contains(updated.HTMLContent, "<h1>After</h1>") {
		t.Errorf("html changed without a markdown edit: %q", updated.HTMLContent)
	}

	// Moving content to an unknown category refuses.
	bogus := uuid.New()
	_, err = ts.contents.Update(ctx, item.ID, UpdateContentRequest{CategoryID: &bogus})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("move to unknown category: err = %v, want ErrNotFound", err)
	}
}

func TestContentListByStatus(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "list-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	draft, err := ts.contents.Create(ctx, CreateContentRequest{Title: "a draft", CategoryID: cat.ID})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}
	pub, err := ts.contents.Create(ctx, CreateContentRequest{Title: "a published", CategoryID: cat.ID, Status: "published"})
	if err != nil {
		t.Fatalf("create published: %v", err)
	}

	items, err := ts.contents.List(ctx, "published", &cat.ID, 0, 0)
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(items) != 1 || items[0].ID != pub.ID {
		t.Errorf("published filter returned %d items", len(items))
	}

	items, err = ts.contents.List(ctx, "draft", &cat.ID, 0, 0)
	if err != nil {
		t.Fatalf("list drafts: %v", err)
	}
	if len(items) != 1 || items[0].ID != draft.ID {
		t.Errorf("draft filter returned %d items", len(items))
	}

	if _, err := ts.contents.List(ctx, "archived", &cat.ID, 0, 0); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown status: err = %v, want ErrValidation", err)
	}
}

func TestPublishUnknownContentNotFound(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	if _, err := ts.contents.Publish(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("publish unknown content: err = %v, want ErrNotFound", err)
	}
	if _, err := ts.contents.Unpublish(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("unpublish unknown content: err = %v, want ErrNotFound", err)
	}
}

// TestPublishDeletedContentNotFound drives the status change against a
// row deleted out from under the service: the transition must report
// the row as gone rather than as a status clash.
func TestPublishDeletedContentNotFound(t *testing.T) {
	ts := newTestServices(t)
	ctx := context.Background()

	cat := mustCreate(t, ts, "race-cat", nil)
	t.Cleanup(func() { ts.cleanSubtree(t, cat.ID) })

	item, err := ts.contents.Create(ctx, CreateContentRequest{
		Title:      "short-lived",
		CategoryID: cat.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Remove the row behind the service's back.
	if _, err := ts.db.Exec(`DELETE FROM contents WHERE id = $1`, item.ID); err != nil {
		t.Fatalf("delete row: %v", err)
	}

	if _, err := ts.contents.Publish(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("publish deleted content: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteContentNotFound(t *testing.T) {
	ts := newTestServices(t)

	err := ts.contents.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("delete unknown content: err = %v, want ErrNotFound", err)
	}
}
