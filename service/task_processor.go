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
	"fmt"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/client"
	"github.com/Netcracker/qubership-pdf-accessibility-service/entity"
	"github.com/Netcracker/qubership-pdf-accessibility-service/repository"
	"github.com/Netcracker/qubership-pdf-accessibility-service/utils"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	"github.com/buraksezer/olric"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const ScanCompletedTopicName = "scan-completed"

// TaskProcessor pulls free remediation tasks from the queue and drives them
// against the external checker. Multiple replicas run the same loop, the
// FOR UPDATE SKIP LOCKED acquisition keeps a task on a single executor.
type TaskProcessor interface {
	Start()
}

func NewTaskProcessor(
	documentRepo repository.DocumentRepository,
	taskRepo repository.RemediationTaskRepository,
	resultRepo repository.ScanResultRepository,
	checkerClient client.CheckerClient,
	poller StatusPoller,
	engine ComplianceEngine,
	op client.OlricProvider) TaskProcessor {
	return &taskProcessorImpl{
		executorId:    uuid.New().String(),
		documentRepo:  documentRepo,
		taskRepo:      taskRepo,
		resultRepo:    resultRepo,
		checkerClient: checkerClient,
		poller:        poller,
		engine:        engine,
		op:            op,
		pollTimeout:   time.Minute * 30,
	}
}

type taskProcessorImpl struct {
	executorId    string
	documentRepo  repository.DocumentRepository
	taskRepo      repository.RemediationTaskRepository
	resultRepo    repository.ScanResultRepository
	checkerClient client.CheckerClient
	poller        StatusPoller
	engine        ComplianceEngine
	op            client.OlricProvider
	// a checker job that never terminates must not pin the executor
	pollTimeout time.Duration
}

func (p *taskProcessorImpl) Start() {
	log.Infof("Starting task processor with executor id %s", p.executorId)
	utils.SafeAsync(func() {
		ticker := time.NewTicker(time.Second * 5)
		for range ticker.C {
			p.acquireFreeTasks()
		}
	})
}

func (p *taskProcessorImpl) acquireFreeTasks() {
	ctx := context.Background()
	for {
		task, err := p.taskRepo.FindFreeTask(ctx, p.executorId)
		if err != nil {
			log.Errorf("Failed to acquire free task: %s", err.Error())
			return
		}
		if task == nil {
			return
		}
		taskToProcess := *task
		utils.SafeAsync(func() {
			p.processTask(taskToProcess)
		})
	}
}

func (p *taskProcessorImpl) processTask(task entity.RemediationTask) {
	ctx := context.Background()
	log.Infof("Processing %s task %s for document %s", task.Kind, task.Id, task.DocumentId)

	doc, err := p.documentRepo.GetDocumentById(ctx, task.DocumentId)
	if err == nil && doc == nil {
		err = fmt.Errorf("document %s not found", task.DocumentId)
	}
	if err != nil {
		p.failTask(ctx, task, err)
		return
	}

	switch task.Kind {
	case view.TaskKindScan:
		err = p.processScanTask(ctx, task, *doc)
	case view.TaskKindFix:
		err = p.processFixTask(ctx, task, *doc)
	default:
		err = fmt.Errorf("unknown task kind %s", task.Kind)
	}
	if err != nil {
		p.failTask(ctx, task, err)
		return
	}

	if err := p.taskRepo.UpdateStatusAndDetails(ctx, task.Id, view.TaskStatusSuccess, ""); err != nil {
		log.Errorf("Failed to mark task %s as succeeded: %s", task.Id, err.Error())
		return
	}
	log.Infof("Task %s for document %s succeeded", task.Id, task.DocumentId)
	if task.Kind == view.TaskKindScan {
		p.publishScanCompleted(task, view.TaskStatusSuccess)
	}
}

func (p *taskProcessorImpl) processScanTask(ctx context.Context, task entity.RemediationTask, doc entity.PdfDocument) error {
	if err := p.documentRepo.UpdateStatus(ctx, doc.Id, view.DocumentStatusScanning); err != nil {
		return err
	}

	job, err := p.checkerClient.StartScan(ctx, doc.Name, doc.Data)
	if err != nil {
		return err
	}

	pollCtx, cancel := context.WithTimeout(ctx, p.pollTimeout)
	defer cancel()
	var finalJob view.CheckerJob
	if err := p.poller.Poll(pollCtx, job.JobId, func(job view.CheckerJob) { finalJob = job }); err != nil {
		return err
	}
	if finalJob.Status != view.CheckerJobDone {
		return fmt.Errorf("checker job %s finished with status %s: %s", job.JobId, finalJob.Status, finalJob.Details)
	}

	report, err := p.checkerClient.GetReport(ctx, job.JobId)
	if err != nil {
		return err
	}

	summary := p.engine.ComputeSummary(report.Report, report.Status)
	result := entity.ScanResult{
		DocumentId:    doc.Id,
		DataHash:      doc.DataHash,
		Report:        reportAsMap(report.Report),
		CheckerStatus: report.Status,
		Summary:       summary.AsMap(),
		CreatedAt:     time.Now(),
	}
	if err := p.resultRepo.SaveResult(ctx, result); err != nil {
		return err
	}

	return p.documentRepo.UpdateStatus(ctx, doc.Id, view.DocumentStatusScanned)
}

func (p *taskProcessorImpl) processFixTask(ctx context.Context, task entity.RemediationTask, doc entity.PdfDocument) error {
	if err := p.documentRepo.UpdateStatus(ctx, doc.Id, view.DocumentStatusRemediating); err != nil {
		return err
	}

	fixResult, fixedData, err := p.checkerClient.ApplyFixes(ctx, doc.Name, doc.Data, decodeFixRequest(task.Details))
	if err != nil {
		return err
	}
	log.Infof("Checker applied %d fixes to document %s", len(fixResult.AppliedFixes), doc.Id)

	if err := p.documentRepo.UpdateData(ctx, doc.Id, fixedData, utils.GetEncodedChecksum(fixedData)); err != nil {
		return err
	}
	if err := p.documentRepo.UpdateStatus(ctx, doc.Id, view.DocumentStatusUploaded); err != nil {
		return err
	}

	// a fixed document needs a fresh report, enqueue a re-scan
	rescan := entity.RemediationTask{
		Id:         uuid.New().String(),
		DocumentId: doc.Id,
		Kind:       view.TaskKindScan,
		EventId:    uuid.New().String(),
		Status:     view.TaskStatusNotStarted,
		CreatedAt:  time.Now(),
	}
	return p.taskRepo.SaveTask(ctx, rescan)
}

func (p *taskProcessorImpl) failTask(ctx context.Context, task entity.RemediationTask, taskErr error) {
	log.Errorf("Task %s for document %s failed: %s", task.Id, task.DocumentId, taskErr.Error())
	if err := p.taskRepo.UpdateStatusAndDetails(ctx, task.Id, view.TaskStatusError, taskErr.Error()); err != nil {
		log.Errorf("Failed to mark task %s as failed: %s", task.Id, err.Error())
	}
	if err := p.documentRepo.UpdateStatus(ctx, task.DocumentId, view.DocumentStatusError); err != nil {
		log.Errorf("Failed to mark document %s as failed: %s", task.DocumentId, err.Error())
	}
	if task.Kind == view.TaskKindScan {
		p.publishScanCompleted(task, view.TaskStatusError)
	}
}

func (p *taskProcessorImpl) publishScanCompleted(task entity.RemediationTask, status view.TaskStatus) {
	olricC := p.op.Get()
	if olricC == nil {
		return
	}
	dt, err := olricC.NewDTopic(ScanCompletedTopicName, 0, olric.UnorderedDelivery)
	if err != nil {
		log.Errorf("Failed to get %s topic: %s", ScanCompletedTopicName, err.Error())
		return
	}
	notification := view.ScanCompletedNotification{
		DocumentId: task.DocumentId,
		TaskId:     task.Id,
		Status:     status,
	}
	if err := dt.Publish(notification); err != nil {
		log.Errorf("Failed to publish scan completed notification for document %s: %s", task.DocumentId, err.Error())
	}
}

// The checker is expected to send the report as an object, older builds used
// to send the flat issue list without the wrapper.
func reportAsMap(report interface{}) map[string]interface{} {
	switch r := report.(type) {
	case map[string]interface{}:
		return r
	case []interface{}:
		return map[string]interface{}{"issues": r}
	default:
		if r != nil {
			log.Warnf("Unexpected checker report shape %T, storing empty report", r)
		}
		return map[string]interface{}{}
	}
}
