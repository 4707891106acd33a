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

package model

import (
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// FileInfo describes one document or image.
type FileInfo struct {
	Name       string     `json:"name"`
	Basename   string     `json:"basename"`
	Extension  string     `json:"extension"`
	Kind       string     `json:"kind"`
	Size       int64      `json:"size"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// Listing is the home page payload.
type Listing struct {
	Documents []FileInfo `json:"documents"`
	Images    []FileInfo `json:"images"`
	User      string     `json:"user,omitempty"`
}

// CreateDocumentRequest creates a document named NewBasename + "." + NewExtension.
type CreateDocumentRequest struct {
	NewBasename  string `json:"new_basename" form:"new_basename" validate:"max=255"`
	NewExtension string `json:"new_extension" form:"new_extension" validate:"max=16"`
	FileText     string `json:"file_text" form:"file_text" validate:"max=1048576"`
}

func (r *CreateDocumentRequest) Validate() error {
	return validate.Struct(r)
}

// EditDocumentRequest renames a document and, when NewFileText is set,
// replaces its content.
type EditDocumentRequest struct {
	NewBasename string  `json:"new_basename" form:"new_basename" validate:"max=255"`
	NewFileText *string `json:"new_file_text" form:"new_file_text" validate:"omitempty,max=1048576"`
}

func (r *EditDocumentRequest) Validate() error {
	return validate.Struct(r)
}

// RenameImageRequest renames an image, keeping its extension.
type RenameImageRequest struct {
	NewBasename string `json:"new_basename" form:"new_basename" validate:"max=255"`
}

func (r *RenameImageRequest) Validate() error {
	return validate.Struct(r)
}

// SearchRequest filters one kind of file by a glob pattern.
type SearchRequest struct {
	Kind    string `form:"kind" validate:"required,oneof=doc img"`
	Pattern string `form:"pattern"`
}

func (r *SearchRequest) Validate() error {
	return validate.Struct(r)
}
