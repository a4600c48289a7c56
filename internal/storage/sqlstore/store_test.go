package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mdkeep/mdkeep/internal/storage"
	"github.com/mdkeep/mdkeep/internal/storage/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		s, err := New(filepath.Join(t.TempDir(), "mdkeep.db"))
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			_ = s.Close()
		})
		return s
	})
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mdkeep.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.CreateDocument(ctx, "a.md", "hello", nil)
	if err != nil {
		t.Fatal(err)
	}
	tag, err := s.CreateTag(ctx, "t", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDocumentTag(ctx, d.ID, tag.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	again, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = again.Close()
	}()
	got, err := again.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "hello" {
		t.Fatalf("content = %q", got.Content)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != tag.ID {
		t.Fatalf("tag ids %v", got.TagIDs)
	}
}

func TestIDsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "mdkeep.db")
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	var lastID int64
	for range 3 {
		d, err := s.CreateDocument(ctx, "x.md", "", nil)
		if err != nil {
			t.Fatal(err)
		}
		lastID = d.ID
	}
	if err := s.DeleteDocument(ctx, lastID); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// AUTOINCREMENT keeps the high-water mark across restarts.
	again, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = again.Close()
	}()
	d, err := again.CreateDocument(ctx, "y.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if d.ID <= lastID {
		t.Fatalf("id %d reused after deleting %d", d.ID, lastID)
	}
}
