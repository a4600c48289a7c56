package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/mdkeep/mdkeep/internal/server/dto"
	"github.com/mdkeep/mdkeep/internal/storage/jsonstore"
	"github.com/mdkeep/mdkeep/internal/views"
)

type testEnv struct {
	server *httptest.Server
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tempDir := t.TempDir()
	store, err := jsonstore.New(filepath.Join(tempDir, "data"))
	if err != nil {
		t.Fatalf("jsonstore.New: %v", err)
	}
	srv := httptest.NewServer(NewRouter(store, filepath.Join(tempDir, "exports"), "test", 10))
	t.Cleanup(srv.Close)
	return &testEnv{server: srv}
}

// do issues a request and decodes the JSON response into out when the status
// matches.
func (e *testEnv) do(t *testing.T, method, path string, body, out any, wantStatus int) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := e.server.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d; body: %s", method, path, resp.StatusCode, wantStatus, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("%s %s: decode: %v; body: %s", method, path, err, data)
		}
	}
}

func TestHealth(t *testing.T) {
	e := setupTestEnv(t)
	var resp dto.HealthResponse
	e.do(t, http.MethodGet, "/api/health", nil, &resp, http.StatusOK)
	if resp.Status != "ok" || resp.Version != "test" {
		t.Fatalf("got %+v", resp)
	}
}

func TestSaveOpenRecentFlow(t *testing.T) {
	e := setupTestEnv(t)

	// Save without extension appends .md and creates the document.
	var doc views.DocumentView
	e.do(t, http.MethodPost, "/api/save", map[string]any{
		"filename": "ideas",
		"content":  "# Ideas",
	}, &doc, http.StatusOK)
	if doc.Filename != "ideas.md" {
		t.Fatalf("filename = %q", doc.Filename)
	}
	if doc.Content == nil || *doc.Content != "# Ideas" {
		t.Fatalf("content = %v", doc.Content)
	}

	// Saving the same name again updates content instead of duplicating.
	var again views.DocumentView
	e.do(t, http.MethodPost, "/api/save", map[string]any{
		"filename": "ideas.md",
		"content":  "# Ideas v2",
	}, &again, http.StatusOK)
	if again.ID != doc.ID {
		t.Fatalf("save duplicated: %d vs %d", again.ID, doc.ID)
	}

	// Opening stamps last_opened_at and records the access.
	var opened views.DocumentView
	e.do(t, http.MethodPost, fmt.Sprintf("/api/open/%d", doc.ID), nil, &opened, http.StatusOK)
	if opened.LastOpenedAt == nil {
		t.Fatal("last_opened_at not stamped")
	}

	var recent dto.RecentListResponse
	e.do(t, http.MethodGet, "/api/recent", nil, &recent, http.StatusOK)
	if len(recent.Recent) != 1 || recent.Recent[0].Document.ID != doc.ID {
		t.Fatalf("recent = %+v", recent.Recent)
	}

	// Listing omits content; size is still reported.
	var list dto.DocumentListResponse
	e.do(t, http.MethodGet, "/api/files", nil, &list, http.StatusOK)
	if list.Total != 1 {
		t.Fatalf("total = %d", list.Total)
	}
	if list.Documents[0].Content != nil {
		t.Fatal("list carried content")
	}
	if list.Documents[0].Size != len("# Ideas v2") {
		t.Fatalf("size = %d", list.Documents[0].Size)
	}
}

func TestFolderEndpoints(t *testing.T) {
	e := setupTestEnv(t)

	var root views.FolderView
	e.do(t, http.MethodPost, "/api/folders", map[string]any{"name": "Work"}, &root, http.StatusOK)
	if root.Color != "#6366f1" || root.Icon != "folder" {
		t.Fatalf("defaults not applied: %+v", root)
	}

	var child views.FolderView
	e.do(t, http.MethodPost, "/api/folders", map[string]any{"name": "Projects", "parent_id": root.ID}, &child, http.StatusOK)

	var tree dto.FolderListResponse
	e.do(t, http.MethodGet, "/api/folders", nil, &tree, http.StatusOK)
	if len(tree.Folders) != 1 || len(tree.Folders[0].Children) != 1 {
		t.Fatalf("tree = %+v", tree.Folders)
	}
	if tree.Folders[0].Children[0].Name != "Projects" {
		t.Fatalf("child = %+v", tree.Folders[0].Children[0])
	}

	// A cycle-producing update is rejected with the dedicated code.
	var errResp dto.ErrorResponse
	e.do(t, http.MethodPut, fmt.Sprintf("/api/folders/%d", root.ID),
		map[string]any{"parent_id": child.ID}, &errResp, http.StatusBadRequest)
	if errResp.Error.Code != dto.ErrorCodeInvalidParent {
		t.Fatalf("code = %q", errResp.Error.Code)
	}

	// Renaming leaves other fields alone.
	var renamed views.FolderView
	e.do(t, http.MethodPut, fmt.Sprintf("/api/folders/%d", root.ID),
		map[string]any{"name": "Work 2"}, &renamed, http.StatusOK)
	if renamed.Name != "Work 2" || renamed.Color != "#6366f1" {
		t.Fatalf("got %+v", renamed)
	}

	e.do(t, http.MethodDelete, fmt.Sprintf("/api/folders/%d", root.ID), nil, nil, http.StatusOK)
	e.do(t, http.MethodGet, fmt.Sprintf("/api/folders/%d", child.ID), nil, &errResp, http.StatusNotFound)
}

func TestDocumentNotFound(t *testing.T) {
	e := setupTestEnv(t)
	var errResp dto.ErrorResponse
	e.do(t, http.MethodGet, "/api/documents/999", nil, &errResp, http.StatusNotFound)
	if errResp.Error.Code != dto.ErrorCodeNotFound {
		t.Fatalf("code = %q", errResp.Error.Code)
	}
}

func TestValidationErrors(t *testing.T) {
	e := setupTestEnv(t)
	var errResp dto.ErrorResponse
	e.do(t, http.MethodPost, "/api/folders", map[string]any{}, &errResp, http.StatusBadRequest)
	if errResp.Error.Code != dto.ErrorCodeMissingField {
		t.Fatalf("code = %q", errResp.Error.Code)
	}
	e.do(t, http.MethodGet, "/api/search?favorite=maybe", nil, &errResp, http.StatusBadRequest)
	if errResp.Error.Code != dto.ErrorCodeValidationFailed {
		t.Fatalf("code = %q", errResp.Error.Code)
	}
}

func TestTagAndSearchEndpoints(t *testing.T) {
	e := setupTestEnv(t)

	var doc views.DocumentView
	e.do(t, http.MethodPost, "/api/documents", map[string]any{
		"filename": "hello.md",
		"content":  "greetings world",
	}, &doc, http.StatusOK)
	var other views.DocumentView
	e.do(t, http.MethodPost, "/api/documents", map[string]any{
		"filename": "other.md",
		"content":  "nothing here",
	}, &other, http.StatusOK)

	var tag views.TagView
	e.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "work"}, &tag, http.StatusOK)
	// Idempotent create returns the same tag.
	var tagAgain views.TagView
	e.do(t, http.MethodPost, "/api/tags", map[string]any{"name": "work", "color": "#f00"}, &tagAgain, http.StatusOK)
	if tagAgain.ID != tag.ID {
		t.Fatalf("tag recreated: %d vs %d", tagAgain.ID, tag.ID)
	}

	e.do(t, http.MethodPost, fmt.Sprintf("/api/documents/%d/tags/%d", doc.ID, tag.ID), nil, nil, http.StatusOK)

	var tags dto.TagListResponse
	e.do(t, http.MethodGet, "/api/tags", nil, &tags, http.StatusOK)
	if len(tags.Tags) != 1 || tags.Tags[0].DocumentCount != 1 {
		t.Fatalf("tags = %+v", tags.Tags)
	}

	// Text search matches filename or content, case-insensitive.
	var found dto.DocumentListResponse
	e.do(t, http.MethodGet, "/api/search?q=HELLO", nil, &found, http.StatusOK)
	if found.Total != 1 || found.Documents[0].ID != doc.ID {
		t.Fatalf("search = %+v", found)
	}

	// Tag filter is conjunctive with text.
	e.do(t, http.MethodGet, fmt.Sprintf("/api/search?q=world&tag_id=%d", tag.ID), nil, &found, http.StatusOK)
	if found.Total != 1 {
		t.Fatalf("search = %+v", found)
	}
	e.do(t, http.MethodGet, fmt.Sprintf("/api/search?q=nothing&tag_id=%d", tag.ID), nil, &found, http.StatusOK)
	if found.Total != 0 {
		t.Fatalf("search = %+v", found)
	}

	e.do(t, http.MethodDelete, fmt.Sprintf("/api/documents/%d/tags/%d", doc.ID, tag.ID), nil, nil, http.StatusOK)
	e.do(t, http.MethodGet, "/api/tags", nil, &tags, http.StatusOK)
	if tags.Tags[0].DocumentCount != 0 {
		t.Fatalf("tags = %+v", tags.Tags)
	}
}

func TestExportEndpoints(t *testing.T) {
	e := setupTestEnv(t)

	var doc views.DocumentView
	e.do(t, http.MethodPost, "/api/documents", map[string]any{
		"filename": "my note.md",
		"content":  "# Heading\n\ntext",
	}, &doc, http.StatusOK)

	resp, err := e.server.Client().Get(fmt.Sprintf("%s/api/export/%d/html", e.server.URL, doc.ID))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if got := resp.Header.Get("Content-Disposition"); got != `attachment; filename="my_note.html"` {
		t.Fatalf("disposition = %q", got)
	}
	if !bytes.Contains(body, []byte("<h1")) {
		t.Fatalf("not rendered: %s", body)
	}

	resp, err = e.server.Client().Get(fmt.Sprintf("%s/api/export/%d/txt", e.server.URL, doc.ID))
	if err != nil {
		t.Fatal(err)
	}
	body, _ = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "# Heading\n\ntext" {
		t.Fatalf("txt export = %q", body)
	}

	resp, err = e.server.Client().Get(e.server.URL + "/api/export/999/html")
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d", resp.StatusCode)
	}
}

func TestExportServedWhenExportsDirUnavailable(t *testing.T) {
	tempDir := t.TempDir()
	store, err := jsonstore.New(filepath.Join(tempDir, "data"))
	if err != nil {
		t.Fatal(err)
	}
	// A regular file where the exports directory should be makes MkdirAll
	// fail; the download must still go through.
	exports := filepath.Join(tempDir, "exports")
	if err := os.WriteFile(exports, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(NewRouter(store, exports, "test", 10))
	t.Cleanup(srv.Close)
	e := &testEnv{server: srv}

	var doc views.DocumentView
	e.do(t, http.MethodPost, "/api/documents", map[string]any{
		"filename": "note.md",
		"content":  "# Heading",
	}, &doc, http.StatusOK)

	resp, err := srv.Client().Get(fmt.Sprintf("%s/api/export/%d/html", srv.URL, doc.ID))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if !bytes.Contains(body, []byte("<h1")) {
		t.Fatalf("not rendered: %s", body)
	}
}

func TestSchema(t *testing.T) {
	e := setupTestEnv(t)
	var resp struct {
		Schemas map[string]json.RawMessage `json:"schemas"`
	}
	e.do(t, http.MethodGet, "/api/schema", nil, &resp, http.StatusOK)
	for _, name := range []string{"folder", "document", "tag", "category", "recent_file"} {
		if _, ok := resp.Schemas[name]; !ok {
			t.Fatalf("missing schema %q", name)
		}
	}
}
