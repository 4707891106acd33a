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

// Package storage models the files managed by cmsd. An Entity owns the
// absolute path of one document or image and performs the filesystem
// mutations on it. It never checks names against other files; callers run
// the rules package first.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	copyPrefix = "copy_"
	filePerm   = 0o644
)

var (
	// ErrInvalidated is returned by every operation on a deleted entity.
	ErrInvalidated = errors.New("file entity has been deleted")

	// ErrNotDocument is returned when text content is written to an image.
	ErrNotDocument = errors.New("content can only be replaced on documents")

	// ErrUnknownKind is returned when reading through a Kind with no whitelist.
	ErrUnknownKind = errors.New("unknown file kind")
)

// Entity is one managed file.
type Entity struct {
	kind Kind
	path string
}

// New wraps an existing path. The file is not touched.
func New(kind Kind, absPath string) *Entity {
	return &Entity{kind: kind, path: absPath}
}

// Create writes content to path, replacing whatever is there.
func Create(kind Kind, path string, content []byte) (*Entity, error) {
	if err := os.WriteFile(path, content, filePerm); err != nil {
		return nil, fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	return New(kind, path), nil
}

// Upload streams r into path, replacing whatever is there.
func Upload(kind Kind, path string, r io.Reader) (*Entity, error) {
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		dst.Close()
		return nil, fmt.Errorf("copy %s: %w", filepath.Base(path), err)
	}
	if err := dst.Sync(); err != nil {
		dst.Close()
		return nil, fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := dst.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return New(kind, path), nil
}

func (e *Entity) Kind() Kind {
	return e.kind
}

// Path returns the absolute path, or "" once the entity is deleted.
func (e *Entity) Path() string {
	return e.path
}

// Name is the file name including its extension.
func (e *Entity) Name() string {
	if e.path == "" {
		return ""
	}
	return filepath.Base(e.path)
}

// Extension is the suffix of Name starting at the last dot, or "".
func (e *Entity) Extension() string {
	return filepath.Ext(e.Name())
}

// Basename is Name without Extension.
func (e *Entity) Basename() string {
	return strings.TrimSuffix(e.Name(), e.Extension())
}

// Exists reports whether the file is still on disk.
func (e *Entity) Exists() bool {
	if e.path == "" {
		return false
	}
	info, err := os.Stat(e.path)
	return err == nil && info.Mode().IsRegular()
}

// Rename moves the file to newBasename plus the current extension, in the
// same directory. An existing file with that name is replaced.
func (e *Entity) Rename(newBasename string) error {
	if e.path == "" {
		return ErrInvalidated
	}

	target := e.sibling(newBasename + e.Extension())
	if target == e.path {
		if _, err := os.Stat(e.path); err != nil {
			return fmt.Errorf("rename %s: %w", e.Name(), err)
		}
		return nil
	}
	if err := os.Rename(e.path, target); err != nil {
		return fmt.Errorf("rename %s: %w", e.Name(), err)
	}
	e.path = target
	return nil
}

// Duplicate writes a copy named "copy_" + Name next to the file. An existing
// copy is replaced; duplicating a copy yields copy_copy_ and so on.
func (e *Entity) Duplicate() (*Entity, error) {
	content, err := e.Content()
	if err != nil {
		return nil, err
	}
	return Create(e.kind, e.sibling(copyPrefix+e.Name()), content)
}

// Delete removes the file. The entity is unusable afterwards.
func (e *Entity) Delete() error {
	if e.path == "" {
		return ErrInvalidated
	}
	if err := os.Remove(e.path); err != nil {
		return fmt.Errorf("delete %s: %w", e.Name(), err)
	}
	e.path = ""
	return nil
}

// Content returns the raw bytes on disk.
func (e *Entity) Content() ([]byte, error) {
	if e.path == "" {
		return nil, ErrInvalidated
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", e.Name(), err)
	}
	return data, nil
}

// Read returns the content as it is presented to clients along with its
// media type: raw text for .txt, HTML for .md, raw bytes for images.
func (e *Entity) Read() ([]byte, string, error) {
	content, err := e.Content()
	if err != nil {
		return nil, "", err
	}
	return e.kind.render(e.Extension(), content)
}

// SetContent overwrites a document with text.
func (e *Entity) SetContent(text string) error {
	if e.path == "" {
		return ErrInvalidated
	}
	if !e.kind.IsDocument() {
		return ErrNotDocument
	}
	if err := os.WriteFile(e.path, []byte(text), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", e.Name(), err)
	}
	return nil
}

func (e *Entity) sibling(name string) string {
	return filepath.Join(filepath.Dir(e.path), name)
}
