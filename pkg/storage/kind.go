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

package storage

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yuin/goldmark"
)

// Kind tells documents from images.
type Kind int

const (
	// Document is a text file: plain text or Markdown.
	Document Kind = iota
	// Image is a binary picture served as-is.
	Image
)

// kindSpec is the per-kind data: the extension whitelist and how Read
// presents the content.
type kindSpec struct {
	name       string
	extensions []string
	render     func(ext string, content []byte) ([]byte, string, error)
}

var kindSpecs = map[Kind]kindSpec{
	Document: {name: "doc", extensions: []string{".txt", ".md"}, render: renderDocument},
	Image:    {name: "img", extensions: []string{".jpg", ".png"}, render: renderImage},
}

// ParseKind resolves the short kind name used in routes and queries.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "doc", "docs", "document":
		return Document, true
	case "img", "images", "image":
		return Image, true
	}
	return 0, false
}

func (k Kind) String() string {
	return kindSpecs[k].name
}

// Extensions returns a copy of the whitelist, dot included, in display order.
func (k Kind) Extensions() []string {
	return slices.Clone(kindSpecs[k].extensions)
}

// Allows reports whether ext belongs to the whitelist.
func (k Kind) Allows(ext string) bool {
	return slices.Contains(kindSpecs[k].extensions, ext)
}

// IsDocument reports whether content of this kind is editable text.
func (k Kind) IsDocument() bool {
	return k == Document
}

func (k Kind) render(ext string, content []byte) ([]byte, string, error) {
	spec, ok := kindSpecs[k]
	if !ok {
		return nil, "", fmt.Errorf("%w: %d", ErrUnknownKind, int(k))
	}
	return spec.render(ext, content)
}

var markdown = goldmark.New()

func renderDocument(ext string, content []byte) ([]byte, string, error) {
	if ext != ".md" {
		return content, "text/plain; charset=utf-8", nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert(content, &buf); err != nil {
		return nil, "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), "text/html; charset=utf-8", nil
}

func renderImage(_ string, content []byte) ([]byte, string, error) {
	return content, mimetype.Detect(content).String(), nil
}
