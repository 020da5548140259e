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

package service

import (
	"context"

	"github.com/Netcracker/qubership-pdf-accessibility-service/secctx"
)

type AuthorizationService interface {
	HasReadDocumentPermission(ctx context.Context, documentId string) (bool, error)
	HasRemediatePermission(ctx context.Context, documentId string) (bool, error)
}

func NewAuthorizationService() AuthorizationService {
	return &authorizationServiceImpl{}
}

type authorizationServiceImpl struct {
}

func (a authorizationServiceImpl) HasReadDocumentPermission(ctx context.Context, documentId string) (bool, error) {
	// TODO: per-document ACLs will come with workspace support, any
	// authenticated principal can read for now
	return true, nil
}

func (a authorizationServiceImpl) HasRemediatePermission(ctx context.Context, documentId string) (bool, error) {
	if secctx.IsSysadm(ctx) {
		return true, nil
	}
	// remediation rewrites the stored document, keep it off plain api keys
	return secctx.GetApiKey(ctx) == "", nil
}
