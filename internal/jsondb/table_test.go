package jsondb

import (
	"os"
	"path/filepath"
	"testing"
)

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (i *item) Clone() *item {
	c := *i
	return &c
}

func (i *item) GetID() int64 {
	return i.ID
}

func newTestTable(t *testing.T) (*Table[*item], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	tbl, err := NewTable[*item](path)
	if err != nil {
		t.Fatal(err)
	}
	return tbl, path
}

func TestTableEmpty(t *testing.T) {
	tbl, _ := newTestTable(t)
	if tbl.Len() != 0 {
		t.Fatalf("len = %d, want 0", tbl.Len())
	}
	if got := tbl.Get(1); got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestTableModifyPersists(t *testing.T) {
	tbl, path := newTestTable(t)
	err := tbl.Modify(func(x *Txn[*item]) error {
		x.Rows = append(x.Rows, &item{ID: x.NextID(), Name: "one"})
		x.Rows = append(x.Rows, &item{ID: x.NextID(), Name: "two"})
		x.Dirty = true
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("len = %d, want 2", tbl.Len())
	}

	// A fresh table sees the same data.
	again, err := NewTable[*item](path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Len() != 2 {
		t.Fatalf("reloaded len = %d, want 2", again.Len())
	}
	got := again.Get(1)
	if got == nil || got.Name != "one" {
		t.Fatalf("got %+v", got)
	}
}

func TestTableModifyErrorDiscards(t *testing.T) {
	tbl, _ := newTestTable(t)
	sentinel := os.ErrInvalid
	err := tbl.Modify(func(x *Txn[*item]) error {
		x.Rows = append(x.Rows, &item{ID: x.NextID(), Name: "doomed"})
		x.Dirty = true
		return sentinel
	})
	if err != sentinel {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("len = %d, want 0", tbl.Len())
	}
}

func TestTableModifyNotDirtyDiscards(t *testing.T) {
	tbl, path := newTestTable(t)
	err := tbl.Modify(func(x *Txn[*item]) error {
		x.Rows = append(x.Rows, &item{ID: x.NextID(), Name: "unsaved"})
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("len = %d, want 0", tbl.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file was written: %v", err)
	}
}

func TestTableClonesIsolate(t *testing.T) {
	tbl, _ := newTestTable(t)
	if err := tbl.Modify(func(x *Txn[*item]) error {
		x.Rows = append(x.Rows, &item{ID: x.NextID(), Name: "original"})
		x.Dirty = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	got := tbl.Get(1)
	got.Name = "mutated"
	if tbl.Get(1).Name != "original" {
		t.Fatal("Get returned a live reference")
	}

	for it := range tbl.All() {
		it.Name = "mutated"
	}
	if tbl.Get(1).Name != "original" {
		t.Fatal("All yielded a live reference")
	}
}

func TestTableNextIDNeverReuses(t *testing.T) {
	tbl, _ := newTestTable(t)
	if err := tbl.Modify(func(x *Txn[*item]) error {
		for range 3 {
			x.Rows = append(x.Rows, &item{ID: x.NextID()})
		}
		x.Dirty = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Modify(func(x *Txn[*item]) error {
		x.Rows = x.Rows[:2]
		x.Dirty = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	var next int64
	if err := tbl.Modify(func(x *Txn[*item]) error {
		next = x.NextID()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if next != 4 {
		t.Fatalf("next id = %d, want 4", next)
	}
}

func TestTableNextIDSeenFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(`[{"id":1},{"id":2},{"id":5}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := NewTable[*item](path)
	if err != nil {
		t.Fatal(err)
	}
	var next int64
	if err := tbl.Modify(func(x *Txn[*item]) error {
		next = x.NextID()
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if next != 6 {
		t.Fatalf("next id = %d, want 6", next)
	}
}

func TestTableMalformedFileSelfHeals(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	if err := os.WriteFile(path, []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := NewTable[*item](path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("len = %d, want 0", tbl.Len())
	}
	if err := tbl.Modify(func(x *Txn[*item]) error {
		x.Rows = append(x.Rows, &item{ID: x.NextID(), Name: "healed"})
		x.Dirty = true
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	again, err := NewTable[*item](path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Len() != 1 {
		t.Fatalf("len = %d, want 1", again.Len())
	}
}

func TestTableReload(t *testing.T) {
	tbl, path := newTestTable(t)
	if err := os.WriteFile(path, []byte(`[{"id":7,"name":"external"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 {
		t.Fatal("table picked up external write without Reload")
	}
	tbl.Reload()
	got := tbl.Get(7)
	if got == nil || got.Name != "external" {
		t.Fatalf("got %+v", got)
	}
}
