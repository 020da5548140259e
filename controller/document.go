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
	"io"
	"net/http"

	"github.com/Netcracker/qubership-pdf-accessibility-service/exception"
	"github.com/Netcracker/qubership-pdf-accessibility-service/secctx"
	"github.com/Netcracker/qubership-pdf-accessibility-service/service"
	log "github.com/sirupsen/logrus"
)

type DocumentController interface {
	UploadDocument(w http.ResponseWriter, r *http.Request)
	GetDocument(w http.ResponseWriter, r *http.Request)
}

func NewDocumentController(scanService service.ScanService, authorizationService service.AuthorizationService) DocumentController {
	return &documentControllerImpl{scanService: scanService, authorizationService: authorizationService}
}

type documentControllerImpl struct {
	scanService          service.ScanService
	authorizationService service.AuthorizationService
}

func (c documentControllerImpl) UploadDocument(w http.ResponseWriter, r *http.Request) {
	ctx := secctx.MakeUserContext(r)

	err := r.ParseMultipartForm(0)
	if err != nil {
		log.Error("Failed to parse multipart form: ", err.Error())
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	defer func() {
		err := r.MultipartForm.RemoveAll()
		if err != nil {
			log.Debugf("Failed to remove temporal data: %+v", err)
		}
	}()

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectMultipartFile,
			Message: exception.IncorrectMultipartFileMsg,
			Debug:   err.Error(),
		})
		return
	}
	data, err := io.ReadAll(file)
	closeErr := file.Close()
	if closeErr != nil {
		log.Debugf("Failed to close temporal file: %+v", closeErr)
	}
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.IncorrectMultipartFile,
			Message: exception.IncorrectMultipartFileMsg,
			Debug:   err.Error(),
		})
		return
	}

	result, err := c.scanService.UploadDocument(ctx, fileHeader.Filename, data)
	if err != nil {
		respondWithError(w, "Failed to upload document", err)
		return
	}
	respondWithJson(w, http.StatusCreated, result)
}

func (c documentControllerImpl) GetDocument(w http.ResponseWriter, r *http.Request) {
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

	sufficientPrivileges, err := c.authorizationService.HasReadDocumentPermission(ctx, documentId)
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

	doc, err := c.scanService.GetDocument(ctx, documentId)
	if err != nil {
		respondWithError(w, "Failed to get document", err)
		return
	}
	respondWithJson(w, http.StatusOK, doc)
}
