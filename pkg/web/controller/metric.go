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

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/disk"

	"github.com/alibaba/opensandbox/cmsd/pkg/storage"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

type MetricController struct {
	*basicController
	svc *Services
}

func NewMetricController(ctx *gin.Context, svc *Services) *MetricController {
	return &MetricController{basicController: newBasicController(ctx), svc: svc}
}

func (c *MetricController) GetMetrics() {
	metrics, err := c.readMetrics()
	if err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			fmt.Sprintf("error reading storage metrics. %v", err),
		)
		return
	}

	c.RespondSuccess(metrics)
}

func (c *MetricController) readMetrics() (*model.Metrics, error) {
	metric := model.NewMetrics()

	docs, err := c.svc.Catalog.ListDocuments()
	if err != nil {
		return nil, err
	}
	images, err := c.svc.Catalog.ListImages()
	if err != nil {
		return nil, err
	}

	metric.Documents = len(docs)
	metric.Images = len(images)
	for _, info := range fileInfos(docs) {
		metric.DocumentsBytes += info.Size
	}
	for _, info := range fileInfos(images) {
		metric.ImagesBytes += info.Size
	}

	usage, err := disk.Usage(c.svc.Catalog.Dir(storage.Document))
	if err != nil {
		return nil, fmt.Errorf("failed to get disk usage: %w", err)
	}
	metric.DiskTotalMiB = float64(usage.Total) / 1024 / 1024
	metric.DiskUsedMiB = float64(usage.Used) / 1024 / 1024
	metric.DiskUsedPct = usage.UsedPercent

	return metric, nil
}
