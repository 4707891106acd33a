// Copyright 2025 Alibaba Group Holding Ltd.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

func createDocument(t *testing.T, svc *Services, signedIn bool, payload map[string]string) (int, []byte) {
	t.Helper()
	ctx, rec := newJSONContext(t, http.MethodPost, "/docs", payload, "")
	if signedIn {
		signIn(t, svc, ctx)
	}
	NewDocumentController(ctx, svc).Create()
	return rec.Code, rec.Body.Bytes()
}

func TestCreateDocumentRequiresSignIn(t *testing.T) {
	svc := newTestServices(t)

	code, _ := createDocument(t, svc, false, map[string]string{"new_basename": "new_file", "new_extension": "txt"})

	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NoFileExists(t, filepath.Join(svc.Catalog.Dir(storage.Document), "new_file.txt"))
}

func TestCreateDocumentValidation(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "new_file.txt", "")

	tests := []struct {
		name    string
		payload map[string]string
		want    string
	}{
		{
			name:    "blank name",
			payload: map[string]string{"new_basename": "   ", "new_extension": "txt"},
			want:    "A name is required.",
		},
		{
			name:    "blank name wins over bad extension",
			payload: map[string]string{"new_basename": "", "new_extension": "abra"},
			want:    "A name is required.",
		},
		{
			name:    "bad extension",
			payload: map[string]string{"new_basename": "smth", "new_extension": "abra"},
			want:    "Allowed file extensions are: .txt, .md.",
		},
		{
			name:    "existing name",
			payload: map[string]string{"new_basename": "new_file", "new_extension": "txt"},
			want:    "new_file.txt already exists. Please, use a unique name.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, rec := newJSONContext(t, http.MethodPost, "/docs", tt.payload, "")
			signIn(t, svc, ctx)

			NewDocumentController(ctx, svc).Create()

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			resp := decodeError(t, rec)
			assert.Equal(t, model.ErrorCodeInvalidInput, resp.Code)
			assert.Equal(t, tt.want, resp.Message)
		})
	}
}

func TestCreateDocument(t *testing.T) {
	svc := newTestServices(t)
	ctx, rec := newJSONContext(t, http.MethodPost, "/docs", map[string]string{
		"new_basename":  " about ",
		"new_extension": " md ",
		"file_text":     "# Title",
	}, "")
	signIn(t, svc, ctx)

	NewDocumentController(ctx, svc).Create()

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResult(t, rec)
	assert.Equal(t, "about.md was created.", resp.Message)
	require.NotNil(t, resp.File)
	assert.Equal(t, "about.md", resp.File.Name)
	assert.NotNil(t, resp.File.ModifiedAt)

	data, err := os.ReadFile(filepath.Join(svc.Catalog.Dir(storage.Document), "about.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Title", string(data))
}

func TestCreateDocumentRejectsBadBody(t *testing.T) {
	svc := newTestServices(t)
	ctx, rec := newTestContext(http.MethodPost, "/docs", []byte("{not json"))
	ctx.Request.Header.Set("Content-Type", "application/json")
	signIn(t, svc, ctx)

	NewDocumentController(ctx, svc).Create()

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, model.ErrorCodeInvalidRequest, decodeError(t, rec).Code)
}

func TestShowDocument(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "some_doc.txt", "hello kitty!")
	writeFile(t, svc, storage.Document, "about.md", "# This is going to be a headline")

	ctx, rec := newJSONContext(t, http.MethodGet, "/docs/some_doc.txt", nil, "some_doc.txt")
	NewDocumentController(ctx, svc).Show()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "hello kitty!", rec.Body.String())

	ctx, rec = newJSONContext(t, http.MethodGet, "/docs/about.md", nil, "about.md")
	NewDocumentController(ctx, svc).Show()
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "<h1>This is going to be a headline</h1>")
}

func TestShowMissingDocument(t *testing.T) {
	svc := newTestServices(t)

	for _, name := range []string{"iamnotapage.txt", "../users.yml", ""} {
		ctx, rec := newJSONContext(t, http.MethodGet, "/docs/"+name, nil, name)
		NewDocumentController(ctx, svc).Show()

		assert.Equal(t, http.StatusNotFound, rec.Code, "name %q", name)
		resp := decodeError(t, rec)
		assert.Equal(t, model.ErrorCodeFileNotFound, resp.Code)
		assert.Equal(t, "File does not exist.", resp.Message)
	}
}

func TestUpdateDocumentRenamesAndRewrites(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "tmp.txt", "initial content")

	ctx, rec := newJSONContext(t, http.MethodPut, "/docs/tmp.txt", map[string]string{
		"new_basename":  "tmp_updated",
		"new_file_text": "new content",
	}, "tmp.txt")
	signIn(t, svc, ctx)

	NewDocumentController(ctx, svc).Update()

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResult(t, rec)
	assert.Equal(t, "tmp.txt has been updated.", resp.Message)
	require.NotNil(t, resp.File)
	assert.Equal(t, "tmp_updated.txt", resp.File.Name)

	dir := svc.Catalog.Dir(storage.Document)
	assert.NoFileExists(t, filepath.Join(dir, "tmp.txt"))
	data, err := os.ReadFile(filepath.Join(dir, "tmp_updated.txt"))
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestUpdateDocumentKeepingName(t *testing.T) {
	svc := newTestServices(t)
	path := writeFile(t, svc, storage.Document, "tmp.txt", "initial content")

	ctx, rec := newJSONContext(t, http.MethodPut, "/docs/tmp.txt", map[string]string{
		"new_basename":  "tmp",
		"new_file_text": "new content",
	}, "tmp.txt")
	signIn(t, svc, ctx)

	NewDocumentController(ctx, svc).Update()

	require.Equal(t, http.StatusOK, rec.Code)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestUpdateDocumentWithoutTextKeepsContent(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "tmp.txt", "initial content")

	ctx, rec := newJSONContext(t, http.MethodPut, "/docs/tmp.txt", map[string]string{"new_basename": "renamed"}, "tmp.txt")
	signIn(t, svc, ctx)

	NewDocumentController(ctx, svc).Update()

	require.Equal(t, http.StatusOK, rec.Code)
	data, err := os.ReadFile(filepath.Join(svc.Catalog.Dir(storage.Document), "renamed.txt"))
	require.NoError(t, err)
	assert.Equal(t, "initial content", string(data))
}

func TestUpdateDocumentValidation(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "tmp.txt", "initial content")
	writeFile(t, svc, storage.Document, "other_doc.txt", "other")

	tests := map[string]string{
		"other_doc": "other_doc.txt already exists. Please, use a unique name.",
		"  ":        "A name is required.",
		"$%^":       "A name is required.",
	}

	for basename, want := range tests {
		ctx, rec := newJSONContext(t, http.MethodPut, "/docs/tmp.txt", map[string]string{
			"new_basename":  basename,
			"new_file_text": "changed",
		}, "tmp.txt")
		signIn(t, svc, ctx)

		NewDocumentController(ctx, svc).Update()

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "basename %q", basename)
		assert.Equal(t, want, decodeError(t, rec).Message)
	}

	data, err := os.ReadFile(filepath.Join(svc.Catalog.Dir(storage.Document), "tmp.txt"))
	require.NoError(t, err)
	assert.Equal(t, "initial content", string(data))
}

func TestRenameReportsFailedWriteAfterMove(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "tmp.txt", "initial content")

	ctx, rec := newJSONContext(t, http.MethodPut, "/docs/tmp.txt", nil, "tmp.txt")
	signIn(t, svc, ctx)
	ctrl := NewDocumentController(ctx, svc)

	ctrl.rename("moved", func(*storage.Entity) error { return errors.New("disk full") })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, model.ErrorCodeRuntimeError, resp.Code)
	assert.Equal(t, "error writing file.", resp.Message)

	dir := svc.Catalog.Dir(storage.Document)
	assert.NoFileExists(t, filepath.Join(dir, "tmp.txt"))
	data, err := os.ReadFile(filepath.Join(dir, "moved.txt"))
	require.NoError(t, err)
	assert.Equal(t, "initial content", string(data))
}

func TestUpdateMissingDocument(t *testing.T) {
	svc := newTestServices(t)
	ctx, rec := newJSONContext(t, http.MethodPut, "/docs/nope.txt", map[string]string{"new_basename": "x"}, "nope.txt")
	signIn(t, svc, ctx)

	NewDocumentController(ctx, svc).Update()

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDuplicateDocument(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "tmp.txt", "content")

	ctx, rec := newJSONContext(t, http.MethodPost, "/docs/tmp.txt/duplicate", nil, "tmp.txt")
	signIn(t, svc, ctx)
	NewDocumentController(ctx, svc).Duplicate()

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "tmp.txt was duplicated.", decodeResult(t, rec).Message)

	dir := svc.Catalog.Dir(storage.Document)
	assert.FileExists(t, filepath.Join(dir, "tmp.txt"))
	data, err := os.ReadFile(filepath.Join(dir, "copy_tmp.txt"))
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestDuplicateDocumentRequiresSignIn(t *testing.T) {
	svc := newTestServices(t)
	writeFile(t, svc, storage.Document, "tmp.txt", "content")

	ctx, rec := newJSONContext(t, http.MethodPost, "/docs/tmp.txt/duplicate", nil, "tmp.txt")
	NewDocumentController(ctx, svc).Duplicate()

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NoFileExists(t, filepath.Join(svc.Catalog.Dir(storage.Document), "copy_tmp.txt"))
}

func TestDeleteDocument(t *testing.T) {
	svc := newTestServices(t)
	path := writeFile(t, svc, storage.Document, "tmp.txt", "content")

	ctx, rec := newJSONContext(t, http.MethodDelete, "/docs/tmp.txt", nil, "tmp.txt")
	signIn(t, svc, ctx)
	NewDocumentController(ctx, svc).Delete()

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tmp.txt was deleted.", decodeResult(t, rec).Message)
	assert.NoFileExists(t, path)

	ctx, rec = newJSONContext(t, http.MethodDelete, "/docs/tmp.txt", nil, "tmp.txt")
	signIn(t, svc, ctx)
	NewDocumentController(ctx, svc).Delete()
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
