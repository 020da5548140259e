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
	"net/http"

	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	"github.com/invopop/jsonschema"
)

type SchemaController interface {
	GetSummarySchema(w http.ResponseWriter, r *http.Request)
}

func NewSchemaController() SchemaController {
	reflector := jsonschema.Reflector{ExpandedStruct: true}
	return &schemaControllerImpl{summarySchema: reflector.Reflect(&view.SummaryView{})}
}

type schemaControllerImpl struct {
	summarySchema *jsonschema.Schema
}

func (c schemaControllerImpl) GetSummarySchema(w http.ResponseWriter, r *http.Request) {
	respondWithJson(w, http.StatusOK, c.summarySchema)
}
