// Copyright 2024-2025 NetCracker Technology Corporation
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

package view

import "time"

type DocumentStatus string

const (
	DocumentStatusUploaded    DocumentStatus = "uploaded"
	DocumentStatusScanning    DocumentStatus = "scanning"
	DocumentStatusScanned     DocumentStatus = "scanned"
	DocumentStatusRemediating DocumentStatus = "remediating"
	DocumentStatusError       DocumentStatus = "error"
)

type Document struct {
	Id         string         `json:"id"`
	Name       string         `json:"name"`
	Size       int            `json:"size"`
	DataHash   string         `json:"dataHash"`
	Status     DocumentStatus `json:"status"`
	UploadedAt time.Time      `json:"uploadedAt"`
}

type DocumentUploadResponse struct {
	DocumentId string `json:"documentId"`
	TaskId     string `json:"taskId"`
}

// DocumentReport couples the stored raw checker report with the checker
// status object. The report shape is not interpreted at this level, the
// compliance engine handles both the flat and the per-category form.
type DocumentReport struct {
	DocumentId    string                 `json:"documentId"`
	Report        interface{}            `json:"report"`
	CheckerStatus map[string]interface{} `json:"checkerStatus,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
}
