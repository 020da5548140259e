package repository

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/db"
	"github.com/Netcracker/qubership-pdf-accessibility-service/entity"
	"github.com/Netcracker/qubership-pdf-accessibility-service/exception"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	"github.com/go-pg/pg/v10"
)

type RemediationTaskRepository interface {
	SaveTask(ctx context.Context, ent entity.RemediationTask) error
	GetTaskById(ctx context.Context, taskId string) (*entity.RemediationTask, error)
	UpdateStatusAndDetails(ctx context.Context, taskId string, status view.TaskStatus, details string) error
	FindFreeTask(ctx context.Context, executorId string) (*entity.RemediationTask, error)
}

func NewRemediationTaskRepository(cp db.ConnectionProvider) RemediationTaskRepository {
	return &remediationTaskRepositoryImpl{cp: cp}
}

type remediationTaskRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *remediationTaskRepositoryImpl) SaveTask(ctx context.Context, ent entity.RemediationTask) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	if err != nil {
		var pgerr pg.Error
		if errors.As(err, &pgerr) {
			if pgerr.Field('C') == "23505" && strings.Contains(err.Error(), "remediation_task_event_id_unique") {
				return &exception.CustomError{
					Status:  http.StatusInternalServerError,
					Code:    exception.DuplicateEvent,
					Message: exception.DuplicateEventMsg,
					Params:  map[string]interface{}{"event_id": ent.EventId},
				}
			}
		}
		return err
	}
	return nil
}

func (r *remediationTaskRepositoryImpl) GetTaskById(ctx context.Context, taskId string) (*entity.RemediationTask, error) {
	var task entity.RemediationTask
	err := r.cp.GetConnection().ModelContext(ctx, &task).
		Where("id = ?", taskId).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *remediationTaskRepositoryImpl) UpdateStatusAndDetails(ctx context.Context, taskId string, status view.TaskStatus, details string) error {
	var ent entity.RemediationTask
	_, err := r.cp.GetConnection().ModelContext(ctx, &ent).
		Set("status = ?", status).
		Set("details = ?", details).
		Set("last_active = ?", time.Now()).
		Where("id = ?", taskId).
		Update()
	return err
}

func (r *remediationTaskRepositoryImpl) FindFreeTask(ctx context.Context, executorId string) (*entity.RemediationTask, error) {
	var task entity.RemediationTask

	err := r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		err := tx.ModelContext(ctx, &task).
			Where("status = ?", view.TaskStatusNotStarted).
			// a fresh insert leaves executor_id as NULL, not ''
			Where("executor_id IS NULL").
			Order("created_at ASC").
			For("UPDATE SKIP LOCKED").
			Limit(1).
			Select()
		if err != nil {
			return err
		}

		task.ExecutorId = executorId
		task.Status = view.TaskStatusProcessing
		now := time.Now()
		task.LastActive = &now
		_, err = tx.ModelContext(ctx, &task).
			WherePK().
			Update()
		return err
	})

	if errors.Is(err, pg.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}
