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
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/client"
	"github.com/Netcracker/qubership-pdf-accessibility-service/entity"
	"github.com/Netcracker/qubership-pdf-accessibility-service/exception"
	"github.com/Netcracker/qubership-pdf-accessibility-service/repository"
	"github.com/Netcracker/qubership-pdf-accessibility-service/utils"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	"github.com/buraksezer/olric"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const snapshotCacheName = "compliance-snapshots"
const snapshotCacheTTL = time.Second * 30

type ScanService interface {
	UploadDocument(ctx context.Context, name string, data []byte) (*view.DocumentUploadResponse, error)
	GetDocument(ctx context.Context, documentId string) (*view.Document, error)
	GetReport(ctx context.Context, documentId string) (*view.DocumentReport, error)
	GetSummary(ctx context.Context, documentId string) (*view.ComplianceSummary, error)
	GetSnapshot(ctx context.Context, documentId string) (*view.ComplianceSnapshot, error)
	ReconcileSummary(ctx context.Context, documentId string, known map[string]interface{}) (*view.ComplianceSummary, error)
	InvalidateSnapshot(documentId string)
	RequestFixes(ctx context.Context, documentId string, req view.FixRequest) (*view.RemediationTask, error)
	GetTaskStatus(ctx context.Context, taskId string) (*view.RemediationTask, error)
}

func NewScanService(
	documentRepo repository.DocumentRepository,
	taskRepo repository.RemediationTaskRepository,
	resultRepo repository.ScanResultRepository,
	engine ComplianceEngine,
	op client.OlricProvider) ScanService {
	return &scanServiceImpl{
		documentRepo: documentRepo,
		taskRepo:     taskRepo,
		resultRepo:   resultRepo,
		engine:       engine,
		op:           op,
	}
}

type scanServiceImpl struct {
	documentRepo repository.DocumentRepository
	taskRepo     repository.RemediationTaskRepository
	resultRepo   repository.ScanResultRepository
	engine       ComplianceEngine
	op           client.OlricProvider

	snapshotsMutex sync.Mutex
	snapshots      *olric.DMap
}

func (s *scanServiceImpl) UploadDocument(ctx context.Context, name string, data []byte) (*view.DocumentUploadResponse, error) {
	documentId := uuid.New().String()
	doc := entity.PdfDocument{
		Id:         documentId,
		Name:       name,
		DataHash:   utils.GetEncodedChecksum(data),
		Size:       len(data),
		Data:       data,
		Status:     view.DocumentStatusUploaded,
		UploadedAt: time.Now(),
	}
	if err := s.documentRepo.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}

	task := entity.RemediationTask{
		Id:         uuid.New().String(),
		DocumentId: documentId,
		Kind:       view.TaskKindScan,
		EventId:    uuid.New().String(),
		Status:     view.TaskStatusNotStarted,
		CreatedAt:  time.Now(),
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	log.Infof("Document %s uploaded, scan task %s created", documentId, task.Id)

	return &view.DocumentUploadResponse{DocumentId: documentId, TaskId: task.Id}, nil
}

func (s *scanServiceImpl) GetDocument(ctx context.Context, documentId string) (*view.Document, error) {
	doc, err := s.documentRepo.GetDocumentById(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentNotFound(documentId)
	}
	result := entity.MakeDocumentView(*doc)
	return &result, nil
}

func (s *scanServiceImpl) GetReport(ctx context.Context, documentId string) (*view.DocumentReport, error) {
	result, err := s.getScanResult(ctx, documentId)
	if err != nil {
		return nil, err
	}
	return &view.DocumentReport{
		DocumentId:    documentId,
		Report:        result.Report,
		CheckerStatus: result.CheckerStatus,
		CreatedAt:     result.CreatedAt,
	}, nil
}

func (s *scanServiceImpl) GetSummary(ctx context.Context, documentId string) (*view.ComplianceSummary, error) {
	result, err := s.getScanResult(ctx, documentId)
	if err != nil {
		return nil, err
	}
	summary := s.engine.ComputeSummary(result.Report, result.CheckerStatus)
	return &summary, nil
}

func (s *scanServiceImpl) GetSnapshot(ctx context.Context, documentId string) (*view.ComplianceSnapshot, error) {
	if cached := s.getCachedSnapshot(documentId); cached != nil {
		return cached, nil
	}

	doc, err := s.documentRepo.GetDocumentById(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentNotFound(documentId)
	}
	result, err := s.getScanResult(ctx, documentId)
	if err != nil {
		return nil, err
	}

	status := result.CheckerStatus
	if doc.Status == view.DocumentStatusScanning || doc.Status == view.DocumentStatusRemediating {
		status = make(map[string]interface{}, len(result.CheckerStatus)+1)
		for k, v := range result.CheckerStatus {
			status[k] = v
		}
		status["isActive"] = true
	}
	snapshot := s.engine.ComputeSnapshot(result.Report, status)

	s.putCachedSnapshot(documentId, snapshot)
	return &snapshot, nil
}

// ReconcileSummary overlays the summary the dashboard already holds on top of
// the stored scan result. Used by clients that cache summaries locally and
// need broken count fields repaired without losing unknown status fields.
func (s *scanServiceImpl) ReconcileSummary(ctx context.Context, documentId string, known map[string]interface{}) (*view.ComplianceSummary, error) {
	result, err := s.getScanResult(ctx, documentId)
	if err != nil {
		return nil, err
	}
	summary := s.engine.Reconcile(known, result.Report, result.CheckerStatus)
	return &summary, nil
}

func (s *scanServiceImpl) InvalidateSnapshot(documentId string) {
	dm, err := s.getSnapshotCache()
	if err != nil {
		log.Warnf("Failed to access snapshot cache: %s", err.Error())
		return
	}
	err = dm.Delete(documentId)
	if err != nil && !errors.Is(err, olric.ErrKeyNotFound) {
		log.Warnf("Failed to evict snapshot for document %s: %s", documentId, err.Error())
	}
}

func (s *scanServiceImpl) RequestFixes(ctx context.Context, documentId string, req view.FixRequest) (*view.RemediationTask, error) {
	doc, err := s.documentRepo.GetDocumentById(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentNotFound(documentId)
	}
	result, err := s.resultRepo.GetResultByDocumentId(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.DocumentNotScanned,
			Message: exception.DocumentNotScannedMsg,
			Params:  map[string]interface{}{"documentId": documentId},
		}
	}

	details, err := encodeFixRequest(req)
	if err != nil {
		return nil, err
	}
	task := entity.RemediationTask{
		Id:         uuid.New().String(),
		DocumentId: documentId,
		Kind:       view.TaskKindFix,
		EventId:    uuid.New().String(),
		Status:     view.TaskStatusNotStarted,
		Details:    details,
		CreatedAt:  time.Now(),
	}
	if err := s.taskRepo.SaveTask(ctx, task); err != nil {
		return nil, err
	}
	log.Infof("Fix task %s created for document %s", task.Id, documentId)

	taskView := entity.MakeTaskView(task)
	return &taskView, nil
}

func (s *scanServiceImpl) GetTaskStatus(ctx context.Context, taskId string) (*view.RemediationTask, error) {
	task, err := s.taskRepo.GetTaskById(ctx, taskId)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.EntityNotFound,
			Message: exception.EntityNotFoundMsg,
			Params:  map[string]interface{}{"entity": "task", "id": taskId},
		}
	}
	taskView := entity.MakeTaskView(*task)
	return &taskView, nil
}

func (s *scanServiceImpl) getScanResult(ctx context.Context, documentId string) (*entity.ScanResult, error) {
	doc, err := s.documentRepo.GetDocumentById(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, documentNotFound(documentId)
	}
	result, err := s.resultRepo.GetResultByDocumentId(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.DocumentNotScanned,
			Message: exception.DocumentNotScannedMsg,
			Params:  map[string]interface{}{"documentId": documentId},
		}
	}
	return result, nil
}

func (s *scanServiceImpl) getSnapshotCache() (*olric.DMap, error) {
	s.snapshotsMutex.Lock()
	defer s.snapshotsMutex.Unlock()
	if s.snapshots != nil {
		return s.snapshots, nil
	}
	dm, err := s.op.Get().NewDMap(snapshotCacheName)
	if err != nil {
		return nil, err
	}
	s.snapshots = dm
	return dm, nil
}

func (s *scanServiceImpl) getCachedSnapshot(documentId string) *view.ComplianceSnapshot {
	dm, err := s.getSnapshotCache()
	if err != nil {
		log.Warnf("Failed to access snapshot cache: %s", err.Error())
		return nil
	}
	value, err := dm.Get(documentId)
	if err != nil {
		if !errors.Is(err, olric.ErrKeyNotFound) {
			log.Warnf("Failed to read snapshot for document %s from cache: %s", documentId, err.Error())
		}
		return nil
	}
	snapshot, ok := value.(view.ComplianceSnapshot)
	if !ok {
		return nil
	}
	return &snapshot
}

func (s *scanServiceImpl) putCachedSnapshot(documentId string, snapshot view.ComplianceSnapshot) {
	dm, err := s.getSnapshotCache()
	if err != nil {
		log.Warnf("Failed to access snapshot cache: %s", err.Error())
		return
	}
	if err := dm.PutEx(documentId, snapshot, snapshotCacheTTL); err != nil {
		log.Warnf("Failed to cache snapshot for document %s: %s", documentId, err.Error())
	}
}

// Fix parameters travel to the task processor through the task details column.
func encodeFixRequest(req view.FixRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeFixRequest(details string) view.FixRequest {
	var req view.FixRequest
	if details == "" {
		return req
	}
	if err := json.Unmarshal([]byte(details), &req); err != nil {
		log.Warnf("Failed to decode fix request from task details: %s", err.Error())
	}
	return req
}

func documentNotFound(documentId string) error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.EntityNotFound,
		Message: exception.EntityNotFoundMsg,
		Params:  map[string]interface{}{"entity": "document", "id": documentId},
	}
}
