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
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
	"github.com/alibaba/opensandbox/cmsd/pkg/metrics"
	"github.com/alibaba/opensandbox/cmsd/pkg/session"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/util/safego"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

const (
	defaultWatchInterval = 2 * time.Second
	watchWriteTimeout    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// CatalogController lists what is on disk.
type CatalogController struct {
	*basicController
	svc *Services
}

func NewCatalogController(ctx *gin.Context, svc *Services) *CatalogController {
	return &CatalogController{basicController: newBasicController(ctx), svc: svc}
}

// Index returns every document and image plus the signed-in user.
func (c *CatalogController) Index() {
	listing, err := c.listing()
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			fmt.Sprintf("error listing files. %v", err),
		)
		return
	}
	c.RespondSuccess(listing)
}

// Search lists the files of one kind matching a glob pattern.
func (c *CatalogController) Search() {
	var request model.SearchRequest
	if err := c.bind(&request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing query. %v", err),
		)
		return
	}
	if err := request.Validate(); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeMissingQuery,
			fmt.Sprintf("invalid query. %v", err),
		)
		return
	}

	kind, _ := storage.ParseKind(request.Kind)
	pattern := request.Pattern
	if pattern == "" {
		pattern = "*"
	}

	entities, err := c.svc.Catalog.Search(kind, pattern)
	if err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error searching files. %v", err),
		)
		return
	}
	c.RespondSuccess(fileInfos(entities))
}

// Watch upgrades to a websocket and pushes the listing every interval until
// the client goes away.
func (c *CatalogController) Watch() {
	conn, err := upgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		log.Warn("catalog watch upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	metrics.WatchConnected()
	defer metrics.WatchDisconnected()

	// The client never sends anything useful; reading only detects the close.
	closed := make(chan struct{})
	safego.Go("catalog-watch-reader", func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	interval := c.svc.WatchInterval
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !c.push(conn) {
			return
		}
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-closed:
			return
		case <-ticker.C:
		}
	}
}

func (c *CatalogController) push(conn *websocket.Conn) bool {
	var payload any
	listing, err := c.listing()
	if err != nil {
		payload = model.ErrorResponse{Code: model.ErrorCodeRuntimeError, Message: err.Error()}
	} else {
		payload = listing
	}

	_ = conn.SetWriteDeadline(time.Now().Add(watchWriteTimeout))
	if err := conn.WriteJSON(payload); err != nil {
		log.Debug("catalog watch write failed: %v", err)
		return false
	}
	return true
}

func (c *CatalogController) listing() (*model.Listing, error) {
	docs, err := c.svc.Catalog.ListDocuments()
	if err != nil {
		return nil, err
	}
	images, err := c.svc.Catalog.ListImages()
	if err != nil {
		return nil, err
	}

	user, _ := session.User(c.ctx)
	return &model.Listing{
		Documents: fileInfos(docs),
		Images:    fileInfos(images),
		User:      user,
	}, nil
}
