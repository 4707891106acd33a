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

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m, err := NewManager("secret")
	require.NoError(t, err)

	token, err := m.Issue("admin")
	require.NoError(t, err)

	user, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", user)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	a, err := NewManager("secret-a")
	require.NoError(t, err)
	b, err := NewManager("secret-b")
	require.NoError(t, err)

	token, err := a.Issue("admin")
	require.NoError(t, err)

	_, err = b.Parse(token)
	assert.Error(t, err)
	_, err = a.Parse("not-a-token")
	assert.Error(t, err)
}

func TestEmptySecretIsRandom(t *testing.T) {
	a, err := NewManager("")
	require.NoError(t, err)
	b, err := NewManager("")
	require.NoError(t, err)

	token, err := a.Issue("admin")
	require.NoError(t, err)
	_, err = b.Parse(token)
	assert.Error(t, err)
}

func newEngine(t *testing.T, m *Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/whoami", func(ctx *gin.Context) {
		user, ok := User(ctx)
		if !ok {
			ctx.String(http.StatusUnauthorized, "")
			return
		}
		ctx.String(http.StatusOK, user)
	})
	r.POST("/signin", func(ctx *gin.Context) {
		if err := m.SignIn(ctx, ctx.Query("user")); err != nil {
			ctx.String(http.StatusInternalServerError, err.Error())
			return
		}
		user, _ := User(ctx)
		ctx.String(http.StatusOK, user)
	})
	r.POST("/signout", func(ctx *gin.Context) {
		SignOut(ctx)
		_, ok := User(ctx)
		assert.False(t, ok)
		ctx.Status(http.StatusOK)
	})
	return r
}

func TestMiddlewareRoundTrip(t *testing.T) {
	m, err := NewManager("secret")
	require.NoError(t, err)
	r := newEngine(t, m)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/signin?user=admin", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/signout", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestMiddlewareDropsTamperedCookie(t *testing.T) {
	m, err := NewManager("secret")
	require.NoError(t, err)
	r := newEngine(t, m)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
}
