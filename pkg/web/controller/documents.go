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
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/cmsd/pkg/metrics"
	"github.com/alibaba/opensandbox/cmsd/pkg/rules"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

// DocumentController handles text and Markdown documents.
type DocumentController struct {
	*fileController
}

func NewDocumentController(ctx *gin.Context, svc *Services) *DocumentController {
	return &DocumentController{fileController: newFileController(ctx, svc, storage.Document)}
}

// Create writes a new document after the name, extension and uniqueness checks.
func (c *DocumentController) Create() {
	if !c.requireSignIn() {
		return
	}

	var request model.CreateDocumentRequest
	if err := c.bind(&request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
		)
		return
	}
	if err := request.Validate(); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("invalid request. %v", err),
		)
		return
	}

	basename := rules.SanitizeBasename(request.NewBasename)
	ext := "." + strings.TrimSpace(request.NewExtension)
	name := basename + ext

	var listErr error
	msg := rules.First(
		func() string { return rules.BasenameError(basename) },
		func() string { return rules.ExtensionError(ext, storage.Document) },
		c.uniqueNameRule(name, "", &listErr),
	)
	if listErr != nil {
		c.handleFileError("listing", listErr)
		return
	}
	if msg != "" {
		c.rejectInput("create", msg)
		return
	}

	path := filepath.Join(c.svc.Catalog.Dir(storage.Document), name)
	entity, err := storage.Create(storage.Document, path, []byte(request.FileText))
	metrics.RecordFileOperation(storage.Document.String(), "create", err)
	if err != nil {
		c.handleFileError("creating", err)
		return
	}

	info := fileInfo(entity)
	c.RespondResult(http.StatusCreated, model.Result{
		Message: fmt.Sprintf("%s was created.", name),
		File:    &info,
	})
}

// Update renames the document and rewrites its content when new text is sent.
func (c *DocumentController) Update() {
	if !c.requireSignIn() {
		return
	}

	var request model.EditDocumentRequest
	if err := c.bind(&request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
		)
		return
	}
	if err := request.Validate(); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("invalid request. %v", err),
		)
		return
	}

	c.rename(request.NewBasename, func(entity *storage.Entity) error {
		if request.NewFileText == nil {
			return nil
		}
		return entity.SetContent(*request.NewFileText)
	})
}
