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

package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
	"github.com/alibaba/opensandbox/cmsd/pkg/metrics"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/controller"
)

const requestIDHeader = "X-Request-ID"

// maxUploadMemory caps the in-memory part of a multipart image upload.
const maxUploadMemory = 8 << 20

// NewRouter builds a Gin engine with all cmsd routes.
func NewRouter(svc *controller.Services) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	r.Use(gin.Recovery())
	r.Use(logMiddleware(), svc.Sessions.Middleware())

	r.GET("/ping", func(ctx *gin.Context) { ctx.String(http.StatusOK, "pong") })
	r.GET("/", withCatalog(svc, func(c *controller.CatalogController) { c.Index() }))

	docs := r.Group("/docs")
	{
		docs.POST("", withDocuments(svc, func(c *controller.DocumentController) { c.Create() }))
		docs.GET("/:file_name", withDocuments(svc, func(c *controller.DocumentController) { c.Show() }))
		docs.PUT("/:file_name", withDocuments(svc, func(c *controller.DocumentController) { c.Update() }))
		docs.DELETE("/:file_name", withDocuments(svc, func(c *controller.DocumentController) { c.Delete() }))
		docs.POST("/:file_name/duplicate", withDocuments(svc, func(c *controller.DocumentController) { c.Duplicate() }))
	}

	images := r.Group("/images")
	{
		images.POST("", withImages(svc, func(c *controller.ImageController) { c.Upload() }))
		images.GET("/:file_name", withImages(svc, func(c *controller.ImageController) { c.Show() }))
		images.PUT("/:file_name", withImages(svc, func(c *controller.ImageController) { c.Rename() }))
		images.DELETE("/:file_name", withImages(svc, func(c *controller.ImageController) { c.Delete() }))
		images.POST("/:file_name/duplicate", withImages(svc, func(c *controller.ImageController) { c.Duplicate() }))
	}

	catalog := r.Group("/catalog")
	{
		catalog.GET("/search", withCatalog(svc, func(c *controller.CatalogController) { c.Search() }))
		catalog.GET("/watch", withCatalog(svc, func(c *controller.CatalogController) { c.Watch() }))
	}

	r.POST("/signup", withAccount(svc, func(c *controller.AccountController) { c.Signup() }))
	r.POST("/signin", withAccount(svc, func(c *controller.AccountController) { c.Signin() }))
	r.POST("/signout", withAccount(svc, func(c *controller.AccountController) { c.Signout() }))

	metric := r.Group("/metrics")
	{
		metric.GET("", withMetric(svc, func(c *controller.MetricController) { c.GetMetrics() }))
		metric.GET("/prometheus", gin.WrapH(metrics.Handler()))
	}

	return r
}

func withDocuments(svc *controller.Services, fn func(*controller.DocumentController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewDocumentController(ctx, svc))
	}
}

func withImages(svc *controller.Services, fn func(*controller.ImageController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewImageController(ctx, svc))
	}
}

func withCatalog(svc *controller.Services, fn func(*controller.CatalogController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewCatalogController(ctx, svc))
	}
}

func withAccount(svc *controller.Services, fn func(*controller.AccountController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewAccountController(ctx, svc))
	}
}

func withMetric(svc *controller.Services, fn func(*controller.MetricController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewMetricController(ctx, svc))
	}
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx.Header(requestIDHeader, requestID)

		start := time.Now()
		ctx.Next()
		elapsed := time.Since(start)

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := ctx.Writer.Status()
		metrics.RecordHTTPRequest(ctx.Request.Method, route, status, elapsed)

		log.With(
			"request_id", requestID,
			"method", ctx.Request.Method,
			"path", ctx.Request.URL.Path,
			"status", status,
			"latency", elapsed,
		).Info("request served")
	}
}
