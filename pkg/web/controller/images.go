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

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/cmsd/pkg/metrics"
	"github.com/alibaba/opensandbox/cmsd/pkg/rules"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

const missingUploadMessage = "Please, select a file for upload!"

// ImageController handles uploaded pictures.
type ImageController struct {
	*fileController
}

func NewImageController(ctx *gin.Context, svc *Services) *ImageController {
	return &ImageController{fileController: newFileController(ctx, svc, storage.Image)}
}

// Upload stores the multipart "image" part under its own file name.
func (c *ImageController) Upload() {
	if !c.requireSignIn() {
		return
	}

	header, err := c.ctx.FormFile("image")
	if err != nil || header == nil || header.Filename == "" {
		c.rejectInput("upload", missingUploadMessage)
		return
	}

	name := rules.CleanFileName(header.Filename)
	if name == "" {
		c.rejectInput("upload", missingUploadMessage)
		return
	}

	var listErr error
	msg := rules.First(
		func() string { return rules.ExtensionError(filepath.Ext(name), storage.Image) },
		c.uniqueNameRule(name, "", &listErr),
	)
	if listErr != nil {
		c.handleFileError("listing", listErr)
		return
	}
	if msg != "" {
		c.rejectInput("upload", msg)
		return
	}

	file, err := header.Open()
	if err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error opening upload %s. %v", name, err),
		)
		return
	}
	defer file.Close()

	path := filepath.Join(c.svc.Catalog.Dir(storage.Image), name)
	entity, err := storage.Upload(storage.Image, path, file)
	metrics.RecordFileOperation(storage.Image.String(), "upload", err)
	if err != nil {
		c.handleFileError("uploading", err)
		return
	}

	info := fileInfo(entity)
	c.RespondResult(http.StatusCreated, model.Result{
		Message: fmt.Sprintf("%s was uploaded.", name),
		File:    &info,
	})
}

// Rename gives the image a new basename, keeping its extension.
func (c *ImageController) Rename() {
	if !c.requireSignIn() {
		return
	}

	var request model.RenameImageRequest
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

	c.rename(request.NewBasename, nil)
}
