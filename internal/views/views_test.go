package views

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mdkeep/mdkeep/internal/models"
)

func ptr[T any](v T) *T {
	return &v
}

func testTime() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func TestDocumentView(t *testing.T) {
	folder := &models.Folder{ID: 1, Name: "Notes"}
	tag := &models.Tag{ID: 2, Name: "work", Color: "#fff", CreatedAt: testTime()}
	cat := &models.Category{ID: 3, Name: "ideas", Color: "#000", Icon: "bulb", CreatedAt: testTime()}
	doc := &models.Document{
		ID:          10,
		Filename:    "plan.md",
		Content:     "# Plan",
		FolderID:    ptr(int64(1)),
		CreatedAt:   testTime(),
		UpdatedAt:   testTime(),
		TagIDs:      []int64{2},
		CategoryIDs: []int64{3},
	}
	b := NewBuilder([]*models.Folder{folder}, []*models.Document{doc}, []*models.Tag{tag}, []*models.Category{cat})

	v := b.Document(doc, false)
	if v.Content != nil {
		t.Fatal("content carried without the include flag")
	}
	if v.Size != len("# Plan") {
		t.Fatalf("size = %d", v.Size)
	}
	if v.FolderName == nil || *v.FolderName != "Notes" {
		t.Fatalf("folder_name = %v", v.FolderName)
	}
	if len(v.Tags) != 1 || v.Tags[0].Name != "work" || v.Tags[0].DocumentCount != 1 {
		t.Fatalf("tags = %+v", v.Tags)
	}
	if len(v.Categories) != 1 || v.Categories[0].Icon != "bulb" {
		t.Fatalf("categories = %+v", v.Categories)
	}
	if v.CreatedAt != "2025-03-14T09:26:53Z" {
		t.Fatalf("created_at = %q", v.CreatedAt)
	}
	if v.LastOpenedAt != nil {
		t.Fatalf("last_opened_at = %v", *v.LastOpenedAt)
	}

	v = b.Document(doc, true)
	if v.Content == nil || *v.Content != "# Plan" {
		t.Fatalf("content = %v", v.Content)
	}
}

func TestDocumentViewJSONShape(t *testing.T) {
	b := NewBuilder(nil, nil, nil, nil)
	doc := &models.Document{ID: 1, Filename: "a.md", CreatedAt: testTime(), UpdatedAt: testTime()}

	data, err := json.Marshal(b.Document(doc, false))
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if strings.Contains(s, `"content"`) {
		t.Fatalf("content key present: %s", s)
	}
	// Nullables serialize as null, associations as empty arrays.
	for _, want := range []string{`"folder_id":null`, `"folder_name":null`, `"last_opened_at":null`, `"tags":[]`, `"categories":[]`} {
		if !strings.Contains(s, want) {
			t.Fatalf("missing %s in %s", want, s)
		}
	}
}

func TestFolderTree(t *testing.T) {
	folders := []*models.Folder{
		{ID: 1, Name: "b-root", Position: 1},
		{ID: 2, Name: "a-root", Position: 0},
		{ID: 3, Name: "child-late", ParentID: ptr(int64(1)), Position: 5},
		{ID: 4, Name: "child-early", ParentID: ptr(int64(1)), Position: 2},
		{ID: 5, Name: "grandchild", ParentID: ptr(int64(4)), Position: 0},
	}
	docs := []*models.Document{
		{ID: 1, FolderID: ptr(int64(1))},
		{ID: 2, FolderID: ptr(int64(1))},
		{ID: 3, FolderID: ptr(int64(4))},
		{ID: 4},
	}
	b := NewBuilder(folders, docs, nil, nil)

	tree := b.FolderTree()
	if len(tree) != 2 {
		t.Fatalf("roots = %d, want 2", len(tree))
	}
	if tree[0].Name != "a-root" || tree[1].Name != "b-root" {
		t.Fatalf("root order %q, %q", tree[0].Name, tree[1].Name)
	}
	root := tree[1]
	if root.DocumentCount != 2 {
		t.Fatalf("document_count = %d, want 2 (direct only)", root.DocumentCount)
	}
	if len(root.Children) != 2 || root.Children[0].Name != "child-early" {
		t.Fatalf("children = %+v", root.Children)
	}
	if len(root.Children[0].Children) != 1 || root.Children[0].Children[0].Name != "grandchild" {
		t.Fatalf("grandchildren = %+v", root.Children[0].Children)
	}
}

func TestTagAndCategoryCounts(t *testing.T) {
	tag := &models.Tag{ID: 1, Name: "t", CreatedAt: testTime()}
	cat := &models.Category{ID: 1, Name: "c", CreatedAt: testTime()}
	docs := []*models.Document{
		{ID: 1, TagIDs: []int64{1}, CategoryIDs: []int64{1}},
		{ID: 2, TagIDs: []int64{1}},
		{ID: 3},
	}
	b := NewBuilder(nil, docs, []*models.Tag{tag}, []*models.Category{cat})
	if got := b.Tag(tag).DocumentCount; got != 2 {
		t.Fatalf("tag count = %d, want 2", got)
	}
	if got := b.Category(cat).DocumentCount; got != 1 {
		t.Fatalf("category count = %d, want 1", got)
	}
}

func TestRecentsSkipDangling(t *testing.T) {
	doc := &models.Document{ID: 1, Filename: "a.md", CreatedAt: testTime(), UpdatedAt: testTime()}
	entries := []*models.RecentFile{
		{ID: 1, DocumentID: 1, AccessedAt: testTime()},
		{ID: 2, DocumentID: 99, AccessedAt: testTime()},
	}
	b := NewBuilder(nil, []*models.Document{doc}, nil, nil)
	got := b.Recents(entries)
	if len(got) != 1 || got[0].Document.Filename != "a.md" {
		t.Fatalf("got %+v", got)
	}
}
