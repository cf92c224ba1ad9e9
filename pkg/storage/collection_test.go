package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/maniraj0007/task-management-app-sub004/pkg/core"
)

func testCollection(t *testing.T) *Collection {
	t.Helper()
	c, err := NewCollection(filepath.Join(t.TempDir(), "task.db"), "task")
	if err != nil {
		t.Fatalf("NewCollection: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return c
}

func TestPutAndGetRoundTrip(t *testing.T) {
	c := testCollection(t)
	ctx := context.Background()

	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rec := core.Record{
		ID:          "task-1",
		Title:       "Fix login flow",
		Description: "OAuth redirect loops on mobile",
		Tags:        []string{"auth", "mobile"},
		OwnerID:     "user-1",
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
		Metadata:    map[string]any{"priority": "high", "status": "open"},
	}
	if err := c.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("record not found")
	}
	if got.Title != rec.Title || got.Description != rec.Description {
		t.Errorf("text fields differ: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "auth" {
		t.Errorf("tags differ: %v", got.Tags)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("created_at differs: %v", got.CreatedAt)
	}
	if got.Metadata["priority"] != "high" {
		t.Errorf("metadata differs: %v", got.Metadata)
	}
}

func TestGetMissingRecord(t *testing.T) {
	c := testCollection(t)

	_, ok, err := c.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected ok=false for missing record")
	}
}

func TestPutIsUpsert(t *testing.T) {
	c := testCollection(t)
	ctx := context.Background()

	if err := c.Put(ctx, core.Record{ID: "task-1", Title: "Old title"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(ctx, core.Record{ID: "task-1", Title: "New title"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, err := c.Get(ctx, "task-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "New title" {
		t.Errorf("expected upsert, got %q", got.Title)
	}

	n, err := c.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}
}

func TestScanPrefix(t *testing.T) {
	c := testCollection(t)
	ctx := context.Background()

	recs := []core.Record{
		{ID: "t1", Title: "Urgent deploy"},
		{ID: "t2", Title: "urgent: billing bug"},
		{ID: "t3", Title: "Weekly report"},
		{ID: "t4", Title: "URGENTLY needed cleanup"},
	}
	if err := c.PutAll(ctx, recs); err != nil {
		t.Fatalf("PutAll: %v", err)
	}

	got, err := c.ScanPrefix(ctx, "title", "urgent", 10)
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 prefix matches, got %d: %+v", len(got), got)
	}
	for _, rec := range got {
		if rec.ID == "t3" {
			t.Error("non-matching record returned")
		}
	}
}

func TestScanPrefixRespectsLimit(t *testing.T) {
	c := testCollection(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		if err := c.Put(ctx, core.Record{ID: id, Title: "task " + id}); err != nil {
			t.Fatalf("Put: %v", err)
		}
	}

	got, err := c.ScanPrefix(ctx, "title", "task", 2)
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
}

func TestScanPrefixSecondaryField(t *testing.T) {
	c := testCollection(t)
	ctx := context.Background()

	if err := c.Put(ctx, core.Record{ID: "t1", Title: "Deploy", Description: "urgent hotfix"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.ScanPrefix(ctx, "description", "urgent", 10)
	if err != nil {
		t.Fatalf("ScanPrefix: %v", err)
	}
	if len(got) != 1 || got[0].ID != "t1" {
		t.Errorf("expected description match, got %+v", got)
	}
}

func TestScanPrefixRejectsUnknownField(t *testing.T) {
	c := testCollection(t)

	if _, err := c.ScanPrefix(context.Background(), "metadata", "x", 10); err == nil {
		t.Error("expected error for non-scannable field")
	}
}

func TestScanTag(t *testing.T) {
	c := testCollection(t)
	ctx := context.Background()

	recs := []core.Record{
		{ID: "t1", Title: "Deploy", Tags: []string{"urgent", "ops"}},
		{ID: "t2", Title: "Report", Tags: []string{"Urgent"}},
		{ID: "t3", Title: "Cleanup", Tags: []string{"urgently"}},
		{ID: "t4", Title: "Notes"},
	}
	if err := c.PutAll(ctx, recs); err != nil {
		t.Fatalf("PutAll: %v", err)
	}

	got, err := c.ScanTag(ctx, "urgent", 10)
	if err != nil {
		t.Fatalf("ScanTag: %v", err)
	}
	// Store-level containment is exact (case-insensitive): "urgently" is
	// a different tag.
	if len(got) != 2 {
		t.Fatalf("expected 2 tag matches, got %d: %+v", len(got), got)
	}
}
