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

// Package session carries the signed-in username between requests in a
// signed cookie. Middleware decodes it into the gin context; handlers read it
// from there and never from process state.
package session

import (
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
)

const (
	CookieName = "cmsd_session"
	contextKey = "cmsd.session.user"
	issuer     = "cmsd"
	defaultTTL = 24 * time.Hour
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager returns a manager signing with secret. An empty secret is
// replaced by random bytes, so sessions do not survive a restart.
func NewManager(secret string) (*Manager, error) {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		log.Warn("no session secret configured, sessions will not survive a restart")
	}
	return &Manager{secret: key, ttl: defaultTTL}, nil
}

// Issue returns a token for username.
func (m *Manager) Issue(username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session: %w", err)
	}
	return token, nil
}

// Parse verifies token and returns the username inside.
func (m *Manager) Parse(token string) (string, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Username == "" {
		return "", fmt.Errorf("invalid session")
	}
	return claims.Username, nil
}

// Middleware loads the session cookie, if any, into the request context.
// A bad or expired cookie is dropped and the request continues signed out.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(CookieName)
		if err == nil && token != "" {
			username, err := m.Parse(token)
			if err != nil {
				log.Debug("dropping session cookie: %v", err)
				clearCookie(ctx)
			} else {
				ctx.Set(contextKey, username)
			}
		}
		ctx.Next()
	}
}

// SignIn issues a cookie for username and marks the current request as signed in.
func (m *Manager) SignIn(ctx *gin.Context, username string) error {
	token, err := m.Issue(username)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, token, int(m.ttl.Seconds()), "/", "", false, true)
	ctx.Set(contextKey, username)
	return nil
}

// SignOut clears the cookie.
func SignOut(ctx *gin.Context) {
	clearCookie(ctx)
	ctx.Set(contextKey, "")
}

// User returns the signed-in username of the request.
func User(ctx *gin.Context) (string, bool) {
	username := ctx.GetString(contextKey)
	return username, username != ""
}

func clearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, "", -1, "/", "", false, true)
}
