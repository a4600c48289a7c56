package jsondb

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"sync"
)

// Row is implemented by types stored in a Table.
type Row[T any] interface {
	// Clone returns a deep copy of the row.
	Clone() T
	// GetID returns the row's unique identifier.
	GetID() int64
}

// Table handles storage and in-memory caching for a single collection stored
// as a JSON array file.
type Table[T Row[T]] struct {
	path string
	mu   sync.Mutex

	rows   []T
	lastID int64
}

// NewTable creates a new Table and loads all data from the file.
func NewTable[T Row[T]](path string) (*Table[T], error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	table := &Table[T]{path: path}
	table.mu.Lock()
	defer table.mu.Unlock()
	table.loadLocked()
	return table, nil
}

// loadLocked reads the backing file. A missing or malformed file is treated
// as an empty collection so a corrupted store self-heals on the next write.
func (t *Table[T]) loadLocked() {
	t.rows = nil
	data, err := os.ReadFile(t.path)
	if err != nil {
		return
	}
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return
	}
	t.rows = rows
	for _, row := range rows {
		if id := row.GetID(); id > t.lastID {
			t.lastID = id
		}
	}
}

// Reload re-reads the backing file, replacing the in-memory cache. Used when
// the file was edited outside the process.
func (t *Table[T]) Reload() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loadLocked()
}

// Len returns the number of rows.
func (t *Table[T]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// Get returns a clone of the row with the given ID, or the zero value if not
// found.
func (t *Table[T]) Get(id int64) T {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, row := range t.rows {
		if row.GetID() == id {
			return row.Clone()
		}
	}
	var zero T
	return zero
}

// All returns an iterator over clones of all rows.
//
// The table lock is held for the duration of the iteration; callers must not
// invoke other table methods from inside the loop.
func (t *Table[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		t.mu.Lock()
		defer t.mu.Unlock()
		for _, row := range t.rows {
			if !yield(row.Clone()) {
				return
			}
		}
	}
}

// Snapshot returns clones of all rows as a slice.
func (t *Table[T]) Snapshot() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, len(t.rows))
	for i, row := range t.rows {
		out[i] = row.Clone()
	}
	return out
}

// Txn is the mutable state handed to a [Table.Modify] callback.
type Txn[T Row[T]] struct {
	// Rows is the working copy of the collection. The callback may mutate
	// rows in place, append, or reslice.
	Rows []T
	// Dirty must be set for the table to persist Rows when the callback
	// returns.
	Dirty bool

	table *Table[T]
}

// NextID allocates the next row ID: one past the highest ID the table has
// ever seen, so deleted IDs are not reused.
func (x *Txn[T]) NextID() int64 {
	for _, row := range x.Rows {
		if id := row.GetID(); id > x.table.lastID {
			x.table.lastID = id
		}
	}
	x.table.lastID++
	return x.table.lastID
}

// Modify runs fn as a pessimistic read-modify-write transaction.
//
// fn receives a transaction holding clones of all rows. If fn sets Dirty and
// returns nil, the new row set replaces the collection and is written to disk
// before the lock is released; no concurrent caller ever observes a partial
// write. If fn returns an error nothing is persisted.
func (t *Table[T]) Modify(fn func(x *Txn[T]) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	x := &Txn[T]{Rows: make([]T, len(t.rows)), table: t}
	for i, row := range t.rows {
		x.Rows[i] = row.Clone()
	}
	if err := fn(x); err != nil {
		return err
	}
	if !x.Dirty {
		return nil
	}
	if err := t.persistLocked(x.Rows); err != nil {
		return err
	}
	t.rows = x.Rows
	return nil
}

// persistLocked rewrites the whole collection file atomically.
func (t *Table[T]) persistLocked(rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write table file: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("failed to replace table file: %w", err)
	}
	return nil
}
