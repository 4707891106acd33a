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
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/cmsd/pkg/catalog"
	"github.com/alibaba/opensandbox/cmsd/pkg/credential"
	"github.com/alibaba/opensandbox/cmsd/pkg/session"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

const signInRequiredMessage = "You must be signed in to do that."

// Services are the collaborators shared by every controller.
type Services struct {
	Catalog       *catalog.Catalog
	Credentials   *credential.Store
	Sessions      *session.Manager
	WatchInterval time.Duration
}

type basicController struct {
	ctx *gin.Context
}

func newBasicController(ctx *gin.Context) *basicController {
	return &basicController{ctx: ctx}
}

func (c *basicController) RespondError(status int, code model.ErrorCode, message ...string) {
	resp := model.ErrorResponse{
		Code:    code,
		Message: "",
	}
	if len(message) > 0 {
		resp.Message = message[0]
	}
	c.ctx.JSON(status, resp)
}

func (c *basicController) RespondSuccess(data any) {
	if data == nil {
		c.ctx.Status(http.StatusOK)
		return
	}
	c.ctx.JSON(http.StatusOK, data)
}

// RespondResult writes a Result with the given status.
func (c *basicController) RespondResult(status int, result model.Result) {
	c.ctx.JSON(status, result)
}

// requireSignIn answers 401 and returns false when nobody is signed in.
func (c *basicController) requireSignIn() bool {
	if _, ok := session.User(c.ctx); ok {
		return true
	}
	c.RespondError(http.StatusUnauthorized, model.ErrorCodeUnauthorized, signInRequiredMessage)
	return false
}

// bind decodes the body or query into target according to the content type.
func (c *basicController) bind(target any) error {
	return c.ctx.ShouldBind(target)
}

func fileInfo(e *storage.Entity) model.FileInfo {
	info := model.FileInfo{
		Name:      e.Name(),
		Basename:  e.Basename(),
		Extension: e.Extension(),
		Kind:      e.Kind().String(),
	}
	if st, err := os.Stat(e.Path()); err == nil {
		info.Size = st.Size()
		modified := st.ModTime()
		info.ModifiedAt = &modified
	}
	return info
}

func fileInfos(entities []*storage.Entity) []model.FileInfo {
	infos := make([]model.FileInfo, 0, len(entities))
	for _, e := range entities {
		infos = append(infos, fileInfo(e))
	}
	return infos
}
