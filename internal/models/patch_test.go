package models

import (
	"encoding/json"
	"testing"
)

func TestOptionalTriState(t *testing.T) {
	var p DocumentPatch
	if err := json.Unmarshal([]byte(`{"content":"x"}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.FolderID.Present {
		t.Fatal("absent field marked present")
	}
	if p.Content == nil || *p.Content != "x" {
		t.Fatalf("content = %v", p.Content)
	}

	p = DocumentPatch{}
	if err := json.Unmarshal([]byte(`{"folder_id":null}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.FolderID.Present || p.FolderID.Value != nil {
		t.Fatalf("null: %+v", p.FolderID)
	}

	p = DocumentPatch{}
	if err := json.Unmarshal([]byte(`{"folder_id":7}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.FolderID.Present || p.FolderID.Value == nil || *p.FolderID.Value != 7 {
		t.Fatalf("value: %+v", p.FolderID)
	}
}

func TestPatchIsZero(t *testing.T) {
	var fp FolderPatch
	if !fp.IsZero() {
		t.Fatal("empty patch not zero")
	}
	fp.ParentID = Clear[int64]()
	if fp.IsZero() {
		t.Fatal("clearing patch reported zero")
	}

	var dp DocumentPatch
	if !dp.IsZero() {
		t.Fatal("empty patch not zero")
	}
	v := true
	dp.IsPinned = &v
	if dp.IsZero() {
		t.Fatal("non-empty patch reported zero")
	}
}

func TestDocumentCloneKeepsSlicesNonNil(t *testing.T) {
	d := &Document{ID: 1, TagIDs: []int64{}, CategoryIDs: []int64{}}
	c := d.Clone()
	if c.TagIDs == nil || c.CategoryIDs == nil {
		t.Fatal("clone turned empty association slices nil")
	}
	// Even a source with nil slices clones to empty arrays.
	c = (&Document{ID: 2}).Clone()
	if c.TagIDs == nil || c.CategoryIDs == nil {
		t.Fatal("clone of nil association slices is nil")
	}
}

func TestDocumentCloneIsolation(t *testing.T) {
	fid := int64(3)
	d := &Document{ID: 1, FolderID: &fid, TagIDs: []int64{1, 2}}
	c := d.Clone()
	*c.FolderID = 9
	c.TagIDs[0] = 9
	if *d.FolderID != 3 || d.TagIDs[0] != 1 {
		t.Fatal("clone shares memory with original")
	}
}
