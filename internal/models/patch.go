package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// Optional tracks presence and value for JSON merge-patch semantics. It
// expresses the tri-state a plain pointer cannot:
//   - Present=false: field absent from JSON (leave unchanged)
//   - Present=true, Value=nil: field is JSON null (clear)
//   - Present=true, Value set: field has a value
type Optional[T any] struct {
	Present bool
	Value   *T
}

// Set returns an Optional holding v.
func Set[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: &v}
}

// Clear returns an Optional that clears the field.
func Clear[T any]() Optional[T] {
	return Optional[T]{Present: true}
}

// UnmarshalJSON implements json.Unmarshaler. It is only invoked when the
// field is present in the JSON, which is what makes presence tracking work.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(bytes.TrimSpace(data)) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// FolderPatch is a partial update for a Folder. Nil pointer fields and
// non-present optionals are left unchanged.
type FolderPatch struct {
	Name     *string         `json:"name,omitempty"`
	ParentID Optional[int64] `json:"parent_id,omitzero"`
	Color    *string         `json:"color,omitempty"`
	Icon     *string         `json:"icon,omitempty"`
	Position *int            `json:"position,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p *FolderPatch) IsZero() bool {
	return p.Name == nil && !p.ParentID.Present && p.Color == nil && p.Icon == nil && p.Position == nil
}

// DocumentPatch is a partial update for a Document.
type DocumentPatch struct {
	Filename     *string             `json:"filename,omitempty"`
	Content      *string             `json:"content,omitempty"`
	FolderID     Optional[int64]     `json:"folder_id,omitzero"`
	IsFavorite   *bool               `json:"is_favorite,omitempty"`
	IsPinned     *bool               `json:"is_pinned,omitempty"`
	LastOpenedAt Optional[time.Time] `json:"last_opened_at,omitzero"`
}

// IsZero reports whether the patch changes nothing.
func (p *DocumentPatch) IsZero() bool {
	return p.Filename == nil && p.Content == nil && !p.FolderID.Present &&
		p.IsFavorite == nil && p.IsPinned == nil && !p.LastOpenedAt.Present
}
