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
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Netcracker/qubership-pdf-accessibility-service/exception"
	"github.com/Netcracker/qubership-pdf-accessibility-service/secctx"
	"github.com/Netcracker/qubership-pdf-accessibility-service/service"
)

type ComplianceController interface {
	GetReport(w http.ResponseWriter, r *http.Request)
	GetSummary(w http.ResponseWriter, r *http.Request)
	GetSnapshot(w http.ResponseWriter, r *http.Request)
	ReconcileSummary(w http.ResponseWriter, r *http.Request)
}

func NewComplianceController(scanService service.ScanService, authorizationService service.AuthorizationService) ComplianceController {
	return &complianceControllerImpl{scanService: scanService, authorizationService: authorizationService}
}

type complianceControllerImpl struct {
	scanService          service.ScanService
	authorizationService service.AuthorizationService
}

func (c complianceControllerImpl) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx, documentId, ok := c.authorizeRead(w, r)
	if !ok {
		return
	}
	report, err := c.scanService.GetReport(ctx, documentId)
	if err != nil {
		respondWithError(w, "Failed to get report", err)
		return
	}
	respondWithJson(w, http.StatusOK, report)
}

func (c complianceControllerImpl) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, documentId, ok := c.authorizeRead(w, r)
	if !ok {
		return
	}
	summary, err := c.scanService.GetSummary(ctx, documentId)
	if err != nil {
		respondWithError(w, "Failed to get compliance summary", err)
		return
	}
	respondWithJson(w, http.StatusOK, summary)
}

func (c complianceControllerImpl) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, documentId, ok := c.authorizeRead(w, r)
	if !ok {
		return
	}
	snapshot, err := c.scanService.GetSnapshot(ctx, documentId)
	if err != nil {
		respondWithError(w, "Failed to get compliance snapshot", err)
		return
	}
	respondWithJson(w, http.StatusOK, snapshot)
}

func (c complianceControllerImpl) ReconcileSummary(w http.ResponseWriter, r *http.Request) {
	ctx, documentId, ok := c.authorizeRead(w, r)
	if !ok {
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
	var known map[string]interface{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &known); err != nil {
			RespondWithCustomError(w, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.BadRequestBody,
				Message: exception.BadRequestBodyMsg,
				Debug:   err.Error(),
			})
			return
		}
	}

	summary, err := c.scanService.ReconcileSummary(ctx, documentId, known)
	if err != nil {
		respondWithError(w, "Failed to reconcile compliance summary", err)
		return
	}
	respondWithJson(w, http.StatusOK, summary)
}

func (c complianceControllerImpl) authorizeRead(w http.ResponseWriter, r *http.Request) (context.Context, string, bool) {
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
		return nil, "", false
	}

	sufficientPrivileges, err := c.authorizationService.HasReadDocumentPermission(ctx, documentId)
	if err != nil {
		respondWithError(w, "Failed to check user privileges", err)
		return nil, "", false
	}
	if !sufficientPrivileges {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
		})
		return nil, "", false
	}
	return ctx, documentId, true
}
