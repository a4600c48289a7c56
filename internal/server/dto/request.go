// Defines API request types with their validation.

package dto

import (
	"github.com/mdkeep/mdkeep/internal/models"
)

// HealthRequest is the request for the health endpoint.
type HealthRequest struct{}

// Validate implements Validatable.
func (r *HealthRequest) Validate() error {
	return nil
}

// SchemaRequest is the request for the schema endpoint.
type SchemaRequest struct{}

// Validate implements Validatable.
func (r *SchemaRequest) Validate() error {
	return nil
}

// CreateFolderRequest creates a folder.
type CreateFolderRequest struct {
	Name     string `json:"name"`
	ParentID *int64 `json:"parent_id"`
	Color    string `json:"color"`
	Icon     string `json:"icon"`
}

// Validate implements Validatable.
func (r *CreateFolderRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// ListFoldersRequest lists the folder tree.
type ListFoldersRequest struct{}

// Validate implements Validatable.
func (r *ListFoldersRequest) Validate() error {
	return nil
}

// GetFolderRequest fetches a single folder subtree.
type GetFolderRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *GetFolderRequest) Validate() error {
	return nil
}

// UpdateFolderRequest partially updates a folder. Absent fields are left
// unchanged; a null parent_id moves the folder to the root.
type UpdateFolderRequest struct {
	ID int64 `path:"id" json:"-"`
	models.FolderPatch
}

// Validate implements Validatable.
func (r *UpdateFolderRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return BadRequest("name cannot be empty")
	}
	return nil
}

// DeleteFolderRequest deletes a folder and its descendants.
type DeleteFolderRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *DeleteFolderRequest) Validate() error {
	return nil
}

// CreateDocumentRequest creates a document.
type CreateDocumentRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	FolderID *int64 `json:"folder_id"`
}

// Validate implements Validatable.
func (r *CreateDocumentRequest) Validate() error {
	if r.Filename == "" {
		return MissingField("filename")
	}
	return nil
}

// ListDocumentsRequest lists documents, optionally scoped to a folder.
type ListDocumentsRequest struct {
	FolderID       int64 `query:"folder_id" json:"-"`
	IncludeContent bool  `query:"include_content" json:"-"`
}

// Validate implements Validatable.
func (r *ListDocumentsRequest) Validate() error {
	return nil
}

// GetDocumentRequest fetches a document with its content.
type GetDocumentRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *GetDocumentRequest) Validate() error {
	return nil
}

// UpdateDocumentRequest partially updates a document.
type UpdateDocumentRequest struct {
	ID int64 `path:"id" json:"-"`
	models.DocumentPatch
}

// Validate implements Validatable.
func (r *UpdateDocumentRequest) Validate() error {
	if r.Filename != nil && *r.Filename == "" {
		return BadRequest("filename cannot be empty")
	}
	return nil
}

// DeleteDocumentRequest deletes a document.
type DeleteDocumentRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *DeleteDocumentRequest) Validate() error {
	return nil
}

// SaveDocumentRequest is the editor's save: an upsert by document_id when
// given, otherwise by (filename, folder_id). A missing .md extension is
// appended.
type SaveDocumentRequest struct {
	DocumentID *int64 `json:"document_id"`
	Filename   string `json:"filename"`
	Content    string `json:"content"`
	FolderID   *int64 `json:"folder_id"`
}

// Validate implements Validatable.
func (r *SaveDocumentRequest) Validate() error {
	if r.Filename == "" {
		return MissingField("filename")
	}
	return nil
}

// OpenDocumentRequest opens a document: returns it with content, stamps
// last_opened_at and records the access.
type OpenDocumentRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *OpenDocumentRequest) Validate() error {
	return nil
}

// SearchRequest filters documents. Favorite and Pinned are tri-state query
// flags: empty means "don't filter".
type SearchRequest struct {
	Q          string `query:"q" json:"-"`
	TagID      int64  `query:"tag_id" json:"-"`
	CategoryID int64  `query:"category_id" json:"-"`
	Favorite   string `query:"favorite" json:"-"`
	Pinned     string `query:"pinned" json:"-"`
}

// Validate implements Validatable.
func (r *SearchRequest) Validate() error {
	for _, v := range []string{r.Favorite, r.Pinned} {
		if v != "" && v != "true" && v != "false" {
			return BadRequest("favorite and pinned must be true or false")
		}
	}
	return nil
}

// CreateTagRequest creates a tag, or returns the existing one by name.
type CreateTagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Validate implements Validatable.
func (r *CreateTagRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// ListTagsRequest lists all tags.
type ListTagsRequest struct{}

// Validate implements Validatable.
func (r *ListTagsRequest) Validate() error {
	return nil
}

// DeleteTagRequest deletes a tag everywhere.
type DeleteTagRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *DeleteTagRequest) Validate() error {
	return nil
}

// TagDocumentRequest adds or removes a tag on a document.
type TagDocumentRequest struct {
	DocumentID int64 `path:"id" json:"-"`
	TagID      int64 `path:"tagID" json:"-"`
}

// Validate implements Validatable.
func (r *TagDocumentRequest) Validate() error {
	return nil
}

// CreateCategoryRequest creates a category, or returns the existing one by
// name.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Validate implements Validatable.
func (r *CreateCategoryRequest) Validate() error {
	if r.Name == "" {
		return MissingField("name")
	}
	return nil
}

// ListCategoriesRequest lists all categories.
type ListCategoriesRequest struct{}

// Validate implements Validatable.
func (r *ListCategoriesRequest) Validate() error {
	return nil
}

// DeleteCategoryRequest deletes a category everywhere.
type DeleteCategoryRequest struct {
	ID int64 `path:"id" json:"-"`
}

// Validate implements Validatable.
func (r *DeleteCategoryRequest) Validate() error {
	return nil
}

// CategorizeDocumentRequest adds or removes a category on a document.
type CategorizeDocumentRequest struct {
	DocumentID int64 `path:"id" json:"-"`
	CategoryID int64 `path:"categoryID" json:"-"`
}

// Validate implements Validatable.
func (r *CategorizeDocumentRequest) Validate() error {
	return nil
}

// ListRecentRequest lists recently opened documents.
type ListRecentRequest struct {
	Limit int `query:"limit" json:"-"`
}

// Validate implements Validatable.
func (r *ListRecentRequest) Validate() error {
	if r.Limit < 0 {
		return BadRequest("limit cannot be negative")
	}
	return nil
}
