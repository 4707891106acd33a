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

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/alibaba/opensandbox/cmsd/pkg/catalog"
	"github.com/alibaba/opensandbox/cmsd/pkg/credential"
	"github.com/alibaba/opensandbox/cmsd/pkg/flag"
	"github.com/alibaba/opensandbox/cmsd/pkg/log"
	"github.com/alibaba/opensandbox/cmsd/pkg/session"
	"github.com/alibaba/opensandbox/cmsd/pkg/util/safego"
	"github.com/alibaba/opensandbox/cmsd/pkg/web"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/controller"
)

// main initializes and starts the cmsd server.
func main() {
	flag.InitFlags()

	log.SetLevel(flag.ServerLogLevel)

	if err := run(); err != nil {
		log.Error("%v", err)
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func run() error {
	cat, err := catalog.New(flag.DocsDir, flag.ImagesDir)
	if err != nil {
		return fmt.Errorf("failed to prepare storage: %w", err)
	}
	sessions, err := session.NewManager(flag.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to prepare sessions: %w", err)
	}

	engine := web.NewRouter(&controller.Services{
		Catalog:       cat,
		Credentials:   credential.NewStore(flag.UsersFile),
		Sessions:      sessions,
		WatchInterval: flag.WatchInterval,
	})

	addr := fmt.Sprintf(":%d", flag.ServerPort)
	srv := &http.Server{Addr: addr, Handler: engine}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return serve(srv, quit, flag.ApiGracefulShutdownTimeout)
}

// serve runs srv until it fails or a signal arrives on quit, then shuts it
// down within timeout.
func serve(srv *http.Server, quit <-chan os.Signal, timeout time.Duration) error {
	serveErr := make(chan error, 1)
	safego.Go("http-server", func() {
		log.Info("cmsd listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	})

	select {
	case err := <-serveErr:
		return fmt.Errorf("failed to start cmsd server: %w", err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed: %v", err)
	}
	log.Info("cmsd stopped")
	return nil
}
