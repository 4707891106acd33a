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

// Package rules computes the user-facing messages that block a file
// mutation. Every function returns "" when the input is acceptable.
package rules

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
)

var unsafeBasenameChars = regexp.MustCompile(`[^0-9A-Za-z_\-. ]`)

// BasenameError rejects a basename that is blank once trimmed.
func BasenameError(basename string) string {
	if strings.TrimSpace(basename) == "" {
		return "A name is required."
	}
	return ""
}

// ExtensionError rejects ext unless kind whitelists it. The message lists
// the whitelist.
func ExtensionError(ext string, kind storage.Kind) string {
	if kind.Allows(ext) {
		return ""
	}
	return fmt.Sprintf("Allowed file extensions are: %s.", strings.Join(kind.Extensions(), ", "))
}

// UniqueNameError rejects candidate when it matches any name in existing
// other than current. Pass current = "" when nothing is being renamed.
func UniqueNameError(candidate string, existing []string, current string) string {
	if current != "" && candidate == current {
		return ""
	}
	if !slices.Contains(existing, candidate) {
		return ""
	}
	return fmt.Sprintf("%s already exists. Please, use a unique name.", candidate)
}

// First returns the first non-empty message, in argument order.
func First(messages ...func() string) string {
	for _, msg := range messages {
		if m := msg(); m != "" {
			return m
		}
	}
	return ""
}

// SanitizeBasename trims raw and drops characters outside letters, digits,
// underscore, dash, dot and space.
func SanitizeBasename(raw string) string {
	return strings.TrimSpace(unsafeBasenameChars.ReplaceAllString(strings.TrimSpace(raw), ""))
}

// CleanFileName trims raw and keeps only its last path element.
func CleanFileName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return ""
	}
	return name
}
