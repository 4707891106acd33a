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

import (
	"flag"
	stdlog "log"
	"os"
	"path/filepath"
	"time"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
)

const (
	docsDirEnv                 = "CMSD_DOCS_DIR"
	imagesDirEnv               = "CMSD_IMAGES_DIR"
	usersFileEnv               = "CMSD_USERS_FILE"
	sessionSecretEnv           = "CMSD_SESSION_SECRET"
	gracefulShutdownTimeoutEnv = "CMSD_API_GRACE_SHUTDOWN"
)

// InitFlags registers CLI flags and env overrides.
func InitFlags() {
	ServerPort = 4567
	ServerLogLevel = 6
	DocsDir = "data"
	ImagesDir = filepath.Join("public", "images")
	UsersFile = "users.yml"
	SessionSecret = ""
	WatchInterval = 2 * time.Second
	ApiGracefulShutdownTimeout = 3 * time.Second

	// Environment first, flags override below.
	if v := os.Getenv(docsDirEnv); v != "" {
		DocsDir = v
	}
	if v := os.Getenv(imagesDirEnv); v != "" {
		ImagesDir = v
	}
	if v := os.Getenv(usersFileEnv); v != "" {
		UsersFile = v
	}
	if v := os.Getenv(sessionSecretEnv); v != "" {
		SessionSecret = v
	}
	if v := os.Getenv(gracefulShutdownTimeoutEnv); v != "" {
		duration, err := time.ParseDuration(v)
		if err != nil {
			stdlog.Panicf("Failed to parse graceful shutdown timeout from env: %v", err)
		}
		ApiGracefulShutdownTimeout = duration
	}

	flag.IntVar(&ServerPort, "port", ServerPort, "Server listening port (default: 4567)")
	flag.IntVar(&ServerLogLevel, "log-level", ServerLogLevel, "Server log level (0=LevelEmergency, 1=LevelAlert, 2=LevelCritical, 3=LevelError, 4=LevelWarning, 5=LevelNotice, 6=LevelInformational, 7=LevelDebug, default: 6)")
	flag.StringVar(&DocsDir, "docs-dir", DocsDir, "Directory holding documents")
	flag.StringVar(&ImagesDir, "images-dir", ImagesDir, "Directory holding images")
	flag.StringVar(&UsersFile, "users-file", UsersFile, "YAML file holding account credentials")
	flag.StringVar(&SessionSecret, "session-secret", SessionSecret, "Secret used to sign session cookies")
	flag.DurationVar(&WatchInterval, "watch-interval", WatchInterval, "Interval between catalog watch pushes (default: 2s)")
	flag.DurationVar(&ApiGracefulShutdownTimeout, "graceful-shutdown-timeout", ApiGracefulShutdownTimeout, "API graceful shutdown timeout duration (default: 3s)")

	flag.Parse()

	DocsDir = absOrSelf(DocsDir)
	ImagesDir = absOrSelf(ImagesDir)
	UsersFile = absOrSelf(UsersFile)

	log.Info("documents directory is: %s", DocsDir)
	log.Info("images directory is: %s", ImagesDir)
	log.Info("users file is: %s", UsersFile)
}

func absOrSelf(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
