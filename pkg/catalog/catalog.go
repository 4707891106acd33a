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

// Package catalog lists the documents and images currently on disk. Nothing
// is cached: every call scans the directories again.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/alibaba/opensandbox/cmsd/pkg/rules"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
)

// Catalog knows where each kind of file lives.
type Catalog struct {
	docsDir   string
	imagesDir string
}

// New returns a catalog over the given directories, creating them if needed.
func New(docsDir, imagesDir string) (*Catalog, error) {
	for _, dir := range []string{docsDir, imagesDir} {
		if dir == "" {
			return nil, fmt.Errorf("storage directory is required")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return &Catalog{docsDir: docsDir, imagesDir: imagesDir}, nil
}

// Dir returns the directory holding files of kind.
func (c *Catalog) Dir(kind storage.Kind) string {
	if kind.IsDocument() {
		return c.docsDir
	}
	return c.imagesDir
}

func (c *Catalog) ListDocuments() ([]*storage.Entity, error) {
	return c.List(storage.Document)
}

func (c *Catalog) ListImages() ([]*storage.Entity, error) {
	return c.List(storage.Image)
}

// List wraps every visible regular file of the kind's directory.
// The order is whatever the directory scan yields.
func (c *Catalog) List(kind storage.Kind) ([]*storage.Entity, error) {
	dir := c.Dir(kind)
	matches, err := doublestar.Glob(os.DirFS(dir), "*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	entities := make([]*storage.Entity, 0, len(matches))
	for _, name := range matches {
		if strings.HasPrefix(name, ".") {
			continue
		}
		entities = append(entities, storage.New(kind, filepath.Join(dir, name)))
	}
	return entities, nil
}

// Names returns the names of all documents and images except current.
// This is the set new names are checked against.
func (c *Catalog) Names(current string) ([]string, error) {
	var names []string
	for _, kind := range []storage.Kind{storage.Document, storage.Image} {
		entities, err := c.List(kind)
		if err != nil {
			return nil, err
		}
		for _, e := range entities {
			if current != "" && e.Name() == current {
				continue
			}
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Search keeps the files of kind whose name matches a doublestar pattern.
func (c *Catalog) Search(kind storage.Kind, pattern string) ([]*storage.Entity, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	entities, err := c.List(kind)
	if err != nil {
		return nil, err
	}

	matched := entities[:0]
	for _, e := range entities {
		ok, err := doublestar.Match(pattern, e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

// Lookup returns the entity a client-supplied file name refers to. Only the
// last path element of name is used. The file may not exist.
func (c *Catalog) Lookup(kind storage.Kind, name string) (*storage.Entity, bool) {
	clean := rules.CleanFileName(name)
	if clean == "" {
		return nil, false
	}
	return storage.New(kind, filepath.Join(c.Dir(kind), clean)), true
}
