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
	"fmt"
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
	"github.com/alibaba/opensandbox/cmsd/pkg/metrics"
	"github.com/alibaba/opensandbox/cmsd/pkg/rules"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

const fileNotFoundMessage = "File does not exist."

// fileController holds the operations documents and images share.
type fileController struct {
	*basicController
	svc  *Services
	kind storage.Kind
}

func newFileController(ctx *gin.Context, svc *Services, kind storage.Kind) *fileController {
	return &fileController{
		basicController: newBasicController(ctx),
		svc:             svc,
		kind:            kind,
	}
}

// Show serves the file content: text, rendered Markdown or image bytes.
func (c *fileController) Show() {
	entity, ok := c.lookup()
	if !ok {
		return
	}

	body, contentType, err := entity.Read()
	if err != nil {
		c.handleFileError("reading", err)
		return
	}
	c.ctx.Data(http.StatusOK, contentType, body)
}

// Duplicate writes copy_<name> next to the file.
func (c *fileController) Duplicate() {
	if !c.requireSignIn() {
		return
	}
	entity, ok := c.lookup()
	if !ok {
		return
	}

	dup, err := entity.Duplicate()
	metrics.RecordFileOperation(c.kind.String(), "duplicate", err)
	if err != nil {
		c.handleFileError("duplicating", err)
		return
	}

	info := fileInfo(dup)
	c.RespondResult(http.StatusCreated, model.Result{
		Message: fmt.Sprintf("%s was duplicated.", entity.Name()),
		File:    &info,
	})
}

// Delete removes the file.
func (c *fileController) Delete() {
	if !c.requireSignIn() {
		return
	}
	entity, ok := c.lookup()
	if !ok {
		return
	}

	name := entity.Name()
	err := entity.Delete()
	metrics.RecordFileOperation(c.kind.String(), "delete", err)
	if err != nil {
		c.handleFileError("deleting", err)
		return
	}

	c.RespondResult(http.StatusOK, model.Result{Message: fmt.Sprintf("%s was deleted.", name)})
}

// rename checks and applies a new basename, then runs after on the renamed
// entity. The extension never changes.
func (c *fileController) rename(rawBasename string, after func(*storage.Entity) error) {
	entity, ok := c.lookup()
	if !ok {
		return
	}

	oldName := entity.Name()
	newBasename := rules.SanitizeBasename(rawBasename)
	newName := newBasename + entity.Extension()

	var listErr error
	msg := rules.First(
		func() string { return rules.BasenameError(newBasename) },
		c.uniqueNameRule(newName, oldName, &listErr),
	)
	if listErr != nil {
		c.handleFileError("listing", listErr)
		return
	}
	if msg != "" {
		c.rejectInput("rename", msg)
		return
	}

	err := entity.Rename(newBasename)
	metrics.RecordFileOperation(c.kind.String(), "rename", err)
	if err != nil {
		c.handleFileError("renaming", err)
		return
	}

	// The move is not rolled back when after fails; the file keeps its new name.
	if after != nil {
		err = after(entity)
		metrics.RecordFileOperation(c.kind.String(), "write", err)
		if err != nil {
			c.handleFileError("writing", err)
			return
		}
	}

	info := fileInfo(entity)
	c.RespondResult(http.StatusOK, model.Result{
		Message: fmt.Sprintf("%s has been updated.", oldName),
		File:    &info,
	})
}

// uniqueNameRule adapts rules.UniqueNameError to rules.First. The directory
// listing is only read when the rule runs; a listing failure lands in errp.
func (c *fileController) uniqueNameRule(candidate, current string, errp *error) func() string {
	return func() string {
		names, err := c.svc.Catalog.Names(current)
		if err != nil {
			*errp = err
			return ""
		}
		return rules.UniqueNameError(candidate, names, current)
	}
}

func (c *fileController) lookup() (*storage.Entity, bool) {
	entity, ok := c.svc.Catalog.Lookup(c.kind, c.ctx.Param("file_name"))
	if !ok || !entity.Exists() {
		c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, fileNotFoundMessage)
		return nil, false
	}
	return entity, true
}

func (c *fileController) rejectInput(operation, msg string) {
	metrics.RecordValidationRejection(operation)
	c.RespondError(http.StatusUnprocessableEntity, model.ErrorCodeInvalidInput, msg)
}

func (c *fileController) handleFileError(action string, err error) {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidated) {
		c.RespondError(http.StatusNotFound, model.ErrorCodeFileNotFound, fileNotFoundMessage)
		return
	}

	log.Error("error %s %s file: %v", action, c.kind, err)
	c.RespondError(
		http.StatusInternalServerError,
		model.ErrorCodeRuntimeError,
		fmt.Sprintf("error %s file.", action),
	)
}
