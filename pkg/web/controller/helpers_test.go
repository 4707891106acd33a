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
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alibaba/opensandbox/cmsd/pkg/catalog"
	"github.com/alibaba/opensandbox/cmsd/pkg/credential"
	"github.com/alibaba/opensandbox/cmsd/pkg/session"
	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	root := t.TempDir()

	cat, err := catalog.New(filepath.Join(root, "data"), filepath.Join(root, "public", "images"))
	require.NoError(t, err)
	sessions, err := session.NewManager("test-secret")
	require.NoError(t, err)

	return &Services{
		Catalog:       cat,
		Credentials:   credential.NewStore(filepath.Join(root, "users.yml"), credential.WithCost(bcrypt.MinCost)),
		Sessions:      sessions,
		WatchInterval: 20 * time.Millisecond,
	}
}

func newTestContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	ctx.Request = req
	return ctx, w
}

func newJSONContext(t *testing.T, method, path string, payload any, fileName string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}
	ctx, rec := newTestContext(method, path, body)
	ctx.Request.Header.Set("Content-Type", "application/json")
	if fileName != "" {
		ctx.Params = gin.Params{{Key: "file_name", Value: fileName}}
	}
	return ctx, rec
}

func signIn(t *testing.T, svc *Services, ctx *gin.Context) {
	t.Helper()
	require.NoError(t, svc.Sessions.SignIn(ctx, "admin"))
}

func writeFile(t *testing.T, svc *Services, kind storage.Kind, name, content string) string {
	t.Helper()
	path := filepath.Join(svc.Catalog.Dir(kind), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) model.Result {
	t.Helper()
	var resp model.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}
