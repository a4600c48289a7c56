// Package storetest holds the behavioral contract suite that every
// storage.Store implementation must pass. Backend test packages call Run with
// a factory producing a fresh, empty store per subtest.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mdkeep/mdkeep/internal/models"
	"github.com/mdkeep/mdkeep/internal/storage"
)

// Factory returns a fresh, empty store. Cleanup is the caller's job, usually
// via t.Cleanup around Close.
type Factory func(t *testing.T) storage.Store

// Run executes the full contract suite against stores produced by f.
func Run(t *testing.T, f Factory) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"FolderCRUD", testFolderCRUD},
		{"FolderParentValidation", testFolderParentValidation},
		{"FolderDeleteCascade", testFolderDeleteCascade},
		{"DocumentCRUD", testDocumentCRUD},
		{"DocumentPatchTriState", testDocumentPatchTriState},
		{"DocumentSave", testDocumentSave},
		{"DocumentSearch", testDocumentSearch},
		{"IDsNeverReused", testIDsNeverReused},
		{"TagLifecycle", testTagLifecycle},
		{"CategoryLifecycle", testCategoryLifecycle},
		{"Associations", testAssociations},
		{"DanglingReferences", testDanglingReferences},
		{"Recents", testRecents},
		{"RecentsCap", testRecentsCap},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, f(t))
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}

func testFolderCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()
	f, err := s.CreateFolder(ctx, "Notes", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if f.ID == 0 {
		t.Fatal("expected a nonzero id")
	}
	if f.Color != models.DefaultFolderColor || f.Icon != models.DefaultFolderIcon {
		t.Fatalf("defaults not applied: %q %q", f.Color, f.Icon)
	}
	if f.Position != 0 {
		t.Fatalf("first folder position = %d, want 0", f.Position)
	}

	f2, err := s.CreateFolder(ctx, "Work", nil, "#000000", "briefcase")
	if err != nil {
		t.Fatal(err)
	}
	if f2.Position != 1 {
		t.Fatalf("second folder position = %d, want 1", f2.Position)
	}
	if f2.Color != "#000000" || f2.Icon != "briefcase" {
		t.Fatalf("explicit color/icon lost: %q %q", f2.Color, f2.Icon)
	}

	got, err := s.GetFolder(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Notes" || got.ID != f.ID {
		t.Fatalf("got %+v", got)
	}
	if _, err := s.GetFolder(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	all, err := s.ListFolders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}

	upd, err := s.UpdateFolder(ctx, f.ID, models.FolderPatch{Name: ptr("Renamed")})
	if err != nil {
		t.Fatal(err)
	}
	if upd.Name != "Renamed" {
		t.Fatalf("name = %q", upd.Name)
	}
	if upd.Color != models.DefaultFolderColor {
		t.Fatalf("untouched field changed: %q", upd.Color)
	}
	if _, err := s.UpdateFolder(ctx, 999, models.FolderPatch{Name: ptr("x")}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if err := s.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteFolder(ctx, f.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if _, err := s.GetFolder(ctx, f.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func testFolderParentValidation(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a, err := s.CreateFolder(ctx, "a", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateFolder(ctx, "b", &a.ID, "", "")
	if err != nil {
		t.Fatal(err)
	}
	c, err := s.CreateFolder(ctx, "c", &b.ID, "", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.CreateFolder(ctx, "orphan", ptr(int64(999)), "", ""); !errors.Is(err, storage.ErrInvalidParent) {
		t.Fatalf("missing parent on create: err = %v", err)
	}
	if _, err := s.UpdateFolder(ctx, a.ID, models.FolderPatch{ParentID: models.Set(a.ID)}); !errors.Is(err, storage.ErrInvalidParent) {
		t.Fatalf("self parent: err = %v", err)
	}
	if _, err := s.UpdateFolder(ctx, a.ID, models.FolderPatch{ParentID: models.Set(c.ID)}); !errors.Is(err, storage.ErrInvalidParent) {
		t.Fatalf("descendant parent: err = %v", err)
	}
	if _, err := s.UpdateFolder(ctx, a.ID, models.FolderPatch{ParentID: models.Set(int64(999))}); !errors.Is(err, storage.ErrInvalidParent) {
		t.Fatalf("missing parent on update: err = %v", err)
	}

	// Reparenting c to the root and clearing a parent are both legal.
	upd, err := s.UpdateFolder(ctx, c.ID, models.FolderPatch{ParentID: models.Set(a.ID)})
	if err != nil {
		t.Fatal(err)
	}
	if upd.ParentID == nil || *upd.ParentID != a.ID {
		t.Fatalf("parent = %v", upd.ParentID)
	}
	upd, err = s.UpdateFolder(ctx, b.ID, models.FolderPatch{ParentID: models.Clear[int64]()})
	if err != nil {
		t.Fatal(err)
	}
	if upd.ParentID != nil {
		t.Fatalf("parent = %v, want nil", *upd.ParentID)
	}
}

func testFolderDeleteCascade(t *testing.T, s storage.Store) {
	ctx := context.Background()
	root, err := s.CreateFolder(ctx, "root", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	child, err := s.CreateFolder(ctx, "child", &root.ID, "", "")
	if err != nil {
		t.Fatal(err)
	}
	grand, err := s.CreateFolder(ctx, "grand", &child.ID, "", "")
	if err != nil {
		t.Fatal(err)
	}

	direct, err := s.CreateDocument(ctx, "direct.md", "in root", &root.ID)
	if err != nil {
		t.Fatal(err)
	}
	nested, err := s.CreateDocument(ctx, "nested.md", "in child", &child.ID)
	if err != nil {
		t.Fatal(err)
	}
	deep, err := s.CreateDocument(ctx, "deep.md", "in grand", &grand.ID)
	if err != nil {
		t.Fatal(err)
	}
	outside, err := s.CreateDocument(ctx, "outside.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}

	tag, err := s.CreateTag(ctx, "t", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDocumentTag(ctx, nested.ID, tag.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAccess(ctx, nested.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAccess(ctx, direct.ID); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteFolder(ctx, root.ID); err != nil {
		t.Fatal(err)
	}

	for _, id := range []int64{root.ID, child.ID, grand.ID} {
		if _, err := s.GetFolder(ctx, id); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("folder %d survived: err = %v", id, err)
		}
	}
	// Direct documents are detached, not deleted.
	got, err := s.GetDocument(ctx, direct.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.FolderID != nil {
		t.Fatalf("direct document still filed under %d", *got.FolderID)
	}
	// Descendant documents go with their folders.
	for _, id := range []int64{nested.ID, deep.ID} {
		if _, err := s.GetDocument(ctx, id); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("document %d survived: err = %v", id, err)
		}
	}
	if _, err := s.GetDocument(ctx, outside.ID); err != nil {
		t.Fatal(err)
	}
	// The tag itself survives; the recency log no longer mentions the
	// deleted document.
	if _, err := s.GetTag(ctx, tag.ID); err != nil {
		t.Fatal(err)
	}
	recents, err := s.ListRecent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recents {
		if r.DocumentID == nested.ID {
			t.Fatal("recency entry for deleted document survived")
		}
	}
	if len(recents) != 1 || recents[0].DocumentID != direct.ID {
		t.Fatalf("recents = %+v", recents)
	}
}

func testDocumentCRUD(t *testing.T, s storage.Store) {
	ctx := context.Background()
	folder, err := s.CreateFolder(ctx, "f", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.CreateDocument(ctx, "note.md", "# Hello", &folder.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d.ID == 0 || d.Filename != "note.md" || d.Content != "# Hello" {
		t.Fatalf("got %+v", d)
	}
	if d.TagIDs == nil || d.CategoryIDs == nil {
		t.Fatal("association slices must be non-nil")
	}
	if d.IsFavorite || d.IsPinned || d.LastOpenedAt != nil {
		t.Fatalf("unexpected defaults: %+v", d)
	}

	loose, err := s.CreateDocument(ctx, "loose.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if loose.FolderID != nil {
		t.Fatalf("folder = %v, want nil", *loose.FolderID)
	}

	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Filename != d.Filename || got.Content != d.Content {
		t.Fatalf("got %+v", got)
	}
	if _, err := s.GetDocument(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	all, err := s.ListDocuments(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
	inFolder, err := s.ListDocumentsByFolder(ctx, folder.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(inFolder) != 1 || inFolder[0].ID != d.ID {
		t.Fatalf("got %+v", inFolder)
	}

	if err := s.DeleteDocument(ctx, d.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDocument(ctx, d.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	if _, err := s.GetDocument(ctx, d.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func testDocumentPatchTriState(t *testing.T, s storage.Store) {
	ctx := context.Background()
	folder, err := s.CreateFolder(ctx, "f", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}
	d, err := s.CreateDocument(ctx, "a.md", "body", &folder.ID)
	if err != nil {
		t.Fatal(err)
	}

	// Absent fields stay untouched.
	upd, err := s.UpdateDocument(ctx, d.ID, models.DocumentPatch{IsFavorite: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if !upd.IsFavorite || upd.Content != "body" || upd.FolderID == nil {
		t.Fatalf("got %+v", upd)
	}

	// Explicit null detaches the folder.
	upd, err = s.UpdateDocument(ctx, d.ID, models.DocumentPatch{FolderID: models.Clear[int64]()})
	if err != nil {
		t.Fatal(err)
	}
	if upd.FolderID != nil {
		t.Fatalf("folder = %v, want nil", *upd.FolderID)
	}
	if !upd.IsFavorite {
		t.Fatal("favorite flag lost")
	}

	when := storage.Now()
	upd, err = s.UpdateDocument(ctx, d.ID, models.DocumentPatch{LastOpenedAt: models.Set(when)})
	if err != nil {
		t.Fatal(err)
	}
	if upd.LastOpenedAt == nil || !upd.LastOpenedAt.Equal(when) {
		t.Fatalf("last_opened_at = %v, want %v", upd.LastOpenedAt, when)
	}

	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.LastOpenedAt == nil || !got.LastOpenedAt.Equal(when) {
		t.Fatalf("persisted last_opened_at = %v", got.LastOpenedAt)
	}
}

func testDocumentSave(t *testing.T, s storage.Store) {
	ctx := context.Background()
	folder, err := s.CreateFolder(ctx, "f", nil, "", "")
	if err != nil {
		t.Fatal(err)
	}

	// No ID, no existing match: creates.
	d1, err := s.SaveDocument(ctx, storage.SaveRequest{Filename: "a.md", Content: "v1", FolderID: &folder.ID})
	if err != nil {
		t.Fatal(err)
	}

	// Same (filename, folder): rewrites content only.
	d2, err := s.SaveDocument(ctx, storage.SaveRequest{Filename: "a.md", Content: "v2", FolderID: &folder.ID})
	if err != nil {
		t.Fatal(err)
	}
	if d2.ID != d1.ID {
		t.Fatalf("save created a duplicate: %d vs %d", d2.ID, d1.ID)
	}
	if d2.Content != "v2" {
		t.Fatalf("content = %q", d2.Content)
	}

	// Same filename in a different folder is a different document.
	d3, err := s.SaveDocument(ctx, storage.SaveRequest{Filename: "a.md", Content: "root copy"})
	if err != nil {
		t.Fatal(err)
	}
	if d3.ID == d1.ID {
		t.Fatal("folder scoping ignored")
	}

	// Explicit ID: full update including a move.
	d4, err := s.SaveDocument(ctx, storage.SaveRequest{DocumentID: &d3.ID, Filename: "b.md", Content: "moved", FolderID: &folder.ID})
	if err != nil {
		t.Fatal(err)
	}
	if d4.ID != d3.ID || d4.Filename != "b.md" || d4.FolderID == nil || *d4.FolderID != folder.ID {
		t.Fatalf("got %+v", d4)
	}

	// Stale ID falls back to create.
	d5, err := s.SaveDocument(ctx, storage.SaveRequest{DocumentID: ptr(int64(999)), Filename: "c.md", Content: "fresh"})
	if err != nil {
		t.Fatal(err)
	}
	if d5.ID == 999 {
		t.Fatal("stale id was resurrected")
	}
	if d5.Filename != "c.md" || d5.Content != "fresh" {
		t.Fatalf("got %+v", d5)
	}
}

func testDocumentSearch(t *testing.T, s storage.Store) {
	ctx := context.Background()
	hello, err := s.CreateDocument(ctx, "Hello World.md", "greetings", nil)
	if err != nil {
		t.Fatal(err)
	}
	body, err := s.CreateDocument(ctx, "journal.md", "Say HELLO to everyone", nil)
	if err != nil {
		t.Fatal(err)
	}
	other, err := s.CreateDocument(ctx, "todo.md", "buy milk", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateDocument(ctx, other.ID, models.DocumentPatch{IsFavorite: ptr(true)}); err != nil {
		t.Fatal(err)
	}
	tag, err := s.CreateTag(ctx, "work", "")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDocumentTag(ctx, body.ID, tag.ID); err != nil {
		t.Fatal(err)
	}

	got, err := s.SearchDocuments(ctx, storage.SearchQuery{Text: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	ids := map[int64]bool{}
	for _, d := range got {
		ids[d.ID] = true
	}
	if len(got) != 2 || !ids[hello.ID] || !ids[body.ID] {
		t.Fatalf("text search got %v", ids)
	}

	got, err = s.SearchDocuments(ctx, storage.SearchQuery{Text: "hello", TagID: &tag.ID})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != body.ID {
		t.Fatalf("conjunctive search got %+v", got)
	}

	got, err = s.SearchDocuments(ctx, storage.SearchQuery{Favorite: ptr(true)})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != other.ID {
		t.Fatalf("favorite filter got %+v", got)
	}

	got, err = s.SearchDocuments(ctx, storage.SearchQuery{Text: "nowhere"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d results, want 0", len(got))
	}
}

func testIDsNeverReused(t *testing.T, s storage.Store) {
	ctx := context.Background()
	var last *models.Document
	for i := 0; i < 3; i++ {
		var err error
		last, err = s.CreateDocument(ctx, fmt.Sprintf("doc%d.md", i), "", nil)
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := s.DeleteDocument(ctx, last.ID); err != nil {
		t.Fatal(err)
	}
	next, err := s.CreateDocument(ctx, "next.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if next.ID <= last.ID {
		t.Fatalf("id %d reused after deleting %d", next.ID, last.ID)
	}
}

func testTagLifecycle(t *testing.T, s storage.Store) {
	ctx := context.Background()
	tag, err := s.CreateTag(ctx, "urgent", "")
	if err != nil {
		t.Fatal(err)
	}
	if tag.Color != models.DefaultTagColor {
		t.Fatalf("color = %q", tag.Color)
	}

	// Same name returns the existing tag, ignoring the new color.
	again, err := s.CreateTag(ctx, "urgent", "#ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != tag.ID || again.Color != tag.Color {
		t.Fatalf("got %+v, want %+v", again, tag)
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 1 {
		t.Fatalf("len = %d, want 1", len(tags))
	}

	d, err := s.CreateDocument(ctx, "a.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDocumentTag(ctx, d.ID, tag.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTag(ctx, tag.ID); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TagIDs) != 0 {
		t.Fatalf("stale tag ids %v", got.TagIDs)
	}
}

func testCategoryLifecycle(t *testing.T, s storage.Store) {
	ctx := context.Background()
	cat, err := s.CreateCategory(ctx, "reading", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if cat.Color != models.DefaultCategoryColor || cat.Icon != models.DefaultCategoryIcon {
		t.Fatalf("defaults not applied: %q %q", cat.Color, cat.Icon)
	}
	again, err := s.CreateCategory(ctx, "reading", "#ff0000", "star")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != cat.ID || again.Icon != cat.Icon {
		t.Fatalf("got %+v, want %+v", again, cat)
	}

	d, err := s.CreateDocument(ctx, "a.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddDocumentCategory(ctx, d.ID, cat.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.CategoryIDs) != 0 {
		t.Fatalf("stale category ids %v", got.CategoryIDs)
	}
	if _, err := s.GetCategory(ctx, cat.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func testAssociations(t *testing.T, s storage.Store) {
	ctx := context.Background()
	d, err := s.CreateDocument(ctx, "a.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	tag, err := s.CreateTag(ctx, "t", "")
	if err != nil {
		t.Fatal(err)
	}
	cat, err := s.CreateCategory(ctx, "c", "", "")
	if err != nil {
		t.Fatal(err)
	}

	// Adding twice keeps a single association.
	for i := 0; i < 2; i++ {
		if err := s.AddDocumentTag(ctx, d.ID, tag.ID); err != nil {
			t.Fatal(err)
		}
		if err := s.AddDocumentCategory(ctx, d.ID, cat.ID); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != tag.ID {
		t.Fatalf("tag ids %v", got.TagIDs)
	}
	if len(got.CategoryIDs) != 1 || got.CategoryIDs[0] != cat.ID {
		t.Fatalf("category ids %v", got.CategoryIDs)
	}

	// Removing twice is a no-op the second time.
	for i := 0; i < 2; i++ {
		if err := s.RemoveDocumentTag(ctx, d.ID, tag.ID); err != nil {
			t.Fatal(err)
		}
		if err := s.RemoveDocumentCategory(ctx, d.ID, cat.ID); err != nil {
			t.Fatal(err)
		}
	}
	got, err = s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TagIDs) != 0 || len(got.CategoryIDs) != 0 {
		t.Fatalf("got %v %v", got.TagIDs, got.CategoryIDs)
	}

	// Only a missing document is an error.
	if err := s.AddDocumentTag(ctx, 999, tag.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := s.RemoveDocumentCategory(ctx, 999, cat.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func testDanglingReferences(t *testing.T, s storage.Store) {
	ctx := context.Background()
	d, err := s.CreateDocument(ctx, "a.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}

	// A tag or category ID with no matching entity is recorded, not rejected.
	if err := s.AddDocumentTag(ctx, d.ID, 999); err != nil {
		t.Fatalf("dangling tag rejected: %v", err)
	}
	if err := s.AddDocumentCategory(ctx, d.ID, 888); err != nil {
		t.Fatalf("dangling category rejected: %v", err)
	}
	got, err := s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TagIDs) != 1 || got.TagIDs[0] != 999 {
		t.Fatalf("tag ids %v", got.TagIDs)
	}
	if len(got.CategoryIDs) != 1 || got.CategoryIDs[0] != 888 {
		t.Fatalf("category ids %v", got.CategoryIDs)
	}
	if err := s.RemoveDocumentTag(ctx, d.ID, 999); err != nil {
		t.Fatal(err)
	}
	got, err = s.GetDocument(ctx, d.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TagIDs) != 0 {
		t.Fatalf("tag ids %v", got.TagIDs)
	}

	// Same for folder references: create, update and save all accept a
	// folder ID that no longer resolves.
	stale := int64(777)
	filed, err := s.CreateDocument(ctx, "b.md", "", &stale)
	if err != nil {
		t.Fatalf("dangling folder on create rejected: %v", err)
	}
	if filed.FolderID == nil || *filed.FolderID != stale {
		t.Fatalf("folder = %v", filed.FolderID)
	}
	upd, err := s.UpdateDocument(ctx, d.ID, models.DocumentPatch{FolderID: models.Set(stale)})
	if err != nil {
		t.Fatalf("dangling folder on update rejected: %v", err)
	}
	if upd.FolderID == nil || *upd.FolderID != stale {
		t.Fatalf("folder = %v", upd.FolderID)
	}
	saved, err := s.SaveDocument(ctx, storage.SaveRequest{Filename: "c.md", Content: "", FolderID: &stale})
	if err != nil {
		t.Fatalf("dangling folder on save rejected: %v", err)
	}
	if saved.FolderID == nil || *saved.FolderID != stale {
		t.Fatalf("folder = %v", saved.FolderID)
	}
}

func testRecents(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a, err := s.CreateDocument(ctx, "a.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.CreateDocument(ctx, "b.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAccess(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAccess(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RecordAccess(ctx, 999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	got, err := s.ListRecent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	// Newest first; same-second entries break ties by insertion order.
	if got[0].DocumentID != b.ID || got[1].DocumentID != a.ID {
		t.Fatalf("order %d, %d", got[0].DocumentID, got[1].DocumentID)
	}

	got, err = s.ListRecent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].DocumentID != b.ID {
		t.Fatalf("got %+v", got)
	}

	// Deleting a document drops it from the recency view.
	if err := s.DeleteDocument(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	got, err = s.ListRecent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].DocumentID != a.ID {
		t.Fatalf("got %+v", got)
	}
}

func testRecentsCap(t *testing.T, s storage.Store) {
	ctx := context.Background()
	d, err := s.CreateDocument(ctx, "a.md", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < models.RecentLogCap+10; i++ {
		if _, err := s.RecordAccess(ctx, d.ID); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.ListRecent(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != models.RecentLogCap {
		t.Fatalf("len = %d, want %d", len(got), models.RecentLogCap)
	}
	// The survivors are the newest entries.
	for i := 1; i < len(got); i++ {
		if got[i-1].ID < got[i].ID {
			t.Fatalf("ids out of order at %d: %d then %d", i, got[i-1].ID, got[i].ID)
		}
	}
}
