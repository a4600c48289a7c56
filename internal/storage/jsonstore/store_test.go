package jsonstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdkeep/mdkeep/internal/storage"
	"github.com/mdkeep/mdkeep/internal/storage/storetest"
)

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		s, err := New(t.TempDir())
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() {
			_ = s.Close()
		})
		return s
	})
}

func TestFilesOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateDocument(ctx, "a.md", "hello", nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "documents.json"))
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatalf("documents.json is not a JSON array: %v", err)
	}
	if len(rows) != 1 || rows[0]["filename"] != "a.md" {
		t.Fatalf("got %+v", rows)
	}

	// A second store over the same directory sees the data.
	again, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := again.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Content != "hello" {
		t.Fatalf("got %+v", docs)
	}
}

func TestReloadPicksUpExternalEdits(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.CreateDocument(ctx, "a.md", "before", nil)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate an edit from another process.
	path := filepath.Join(dir, "documents.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		t.Fatal(err)
	}
	rows[0]["content"] = "after"
	data, err = json.Marshal(rows)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s.Reload()
	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "after" {
		t.Fatalf("content = %q, want %q", got.Content, "after")
	}
}

func TestCorruptFileStartsEmpty(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "documents.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Fatalf("got %d documents, want 0", len(docs))
	}
	if _, err := s.CreateDocument(ctx, "fresh.md", "", nil); err != nil {
		t.Fatal(err)
	}
}
