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

package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Netcracker/qubership-pdf-accessibility-service/exception"
	"github.com/Netcracker/qubership-pdf-accessibility-service/secctx"
	"github.com/Netcracker/qubership-pdf-accessibility-service/service"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
)

type RemediationController interface {
	RequestFixes(w http.ResponseWriter, r *http.Request)
	GetTaskStatus(w http.ResponseWriter, r *http.Request)
}

func NewRemediationController(scanService service.ScanService, authorizationService service.AuthorizationService) RemediationController {
	return &remediationControllerImpl{scanService: scanService, authorizationService: authorizationService}
}

type remediationControllerImpl struct {
	scanService          service.ScanService
	authorizationService service.AuthorizationService
}

func (c remediationControllerImpl) RequestFixes(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	documentId, err := getUnescapedStringParam(r, "documentId")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidURLEscape,
			Message: exception.InvalidURLEscapeMsg,
			Params:  map[string]interface{}{"param": "documentId"},
			Debug:   err.Error(),
		})
		return
	}

	sufficientPrivileges, err := c.authorizationService.HasRemediatePermission(ctx, documentId)
	if err != nil {
		respondWithError(w, "Failed to check user privileges", err)
		return
	}
	if !sufficientPrivileges {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
		})
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	var fixRequest view.FixRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &fixRequest); err != nil {
			RespondWithCustomError(w, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.BadRequestBody,
				Message: exception.BadRequestBodyMsg,
				Debug:   err.Error(),
			})
			return
		}
	}

	task, err := c.scanService.RequestFixes(ctx, documentId, fixRequest)
	if err != nil {
		respondWithError(w, "Failed to request fixes", err)
		return
	}
	respondWithJson(w, http.StatusAccepted, task)
}

func (c remediationControllerImpl) GetTaskStatus(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)
	taskId := getStringParam(r, "taskId")

	task, err := c.scanService.GetTaskStatus(ctx, taskId)
	if err != nil {
		respondWithError(w, "Failed to get task status", err)
		return
	}
	respondWithJson(w, http.StatusOK, task)
}
