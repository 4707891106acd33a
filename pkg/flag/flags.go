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

package flag

import "time"

var (
	// ServerPort controls the HTTP listener port.
	ServerPort int

	// ServerLogLevel controls the server log verbosity.
	ServerLogLevel int

	// DocsDir holds one file per document.
	DocsDir string

	// ImagesDir holds one file per image.
	ImagesDir string

	// UsersFile is the YAML mapping of usernames to password hashes.
	UsersFile string

	// SessionSecret signs session cookies. A random secret is generated when empty,
	// which signs everybody out on restart.
	SessionSecret string

	// WatchInterval paces listing pushes on the catalog watch stream.
	WatchInterval time.Duration

	// ApiGracefulShutdownTimeout bounds the wait for in-flight requests on shutdown.
	ApiGracefulShutdownTimeout time.Duration
)
