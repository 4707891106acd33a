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

package model

import "time"

// Metrics is a point-in-time view of what the service stores.
type Metrics struct {
	Documents      int     `json:"documents"`
	Images         int     `json:"images"`
	DocumentsBytes int64   `json:"documents_bytes"`
	ImagesBytes    int64   `json:"images_bytes"`
	DiskTotalMiB   float64 `json:"disk_total_mib"`
	DiskUsedMiB    float64 `json:"disk_used_mib"`
	DiskUsedPct    float64 `json:"disk_used_pct"`
	Timestamp      int64   `json:"timestamp"`
}

func NewMetrics() *Metrics {
	return &Metrics{
		Timestamp: time.Now().UnixMilli(),
	}
}
