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
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/db"
	"github.com/Netcracker/qubership-pdf-accessibility-service/utils"
	"github.com/go-pg/pg/v10"
	log "github.com/sirupsen/logrus"
)

// RetentionService removes documents past the configured retention period
// together with their scan results and finished tasks.
type RetentionService interface {
	Start()
}

func NewRetentionService(cp db.ConnectionProvider, retentionDays int) RetentionService {
	return &retentionServiceImpl{cp: cp, retentionDays: retentionDays}
}

type retentionServiceImpl struct {
	cp            db.ConnectionProvider
	retentionDays int
}

func (r *retentionServiceImpl) Start() {
	utils.SafeAsync(func() {
		r.sweep()
		ticker := time.NewTicker(time.Hour * 12)
		for range ticker.C {
			r.sweep()
		}
	})
}

func (r *retentionServiceImpl) sweep() {
	ctx := context.Background()
	deadline := time.Now().AddDate(0, 0, -r.retentionDays)
	log.Infof("Starting retention sweep, removing documents uploaded before %s", deadline.Format(time.RFC3339))

	var docsDeleted, resultsDeleted, tasksDeleted int
	err := r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		res, err := tx.ExecContext(ctx,
			`delete from scan_result where document_id in (select id from pdf_document where uploaded_at < ?)`, deadline)
		if err != nil {
			return err
		}
		resultsDeleted = res.RowsAffected()

		res, err = tx.ExecContext(ctx,
			`delete from remediation_task where document_id in (select id from pdf_document where uploaded_at < ?)`, deadline)
		if err != nil {
			return err
		}
		tasksDeleted = res.RowsAffected()

		res, err = tx.ExecContext(ctx,
			`delete from pdf_document where uploaded_at < ?`, deadline)
		if err != nil {
			return err
		}
		docsDeleted = res.RowsAffected()

		// finished tasks for still-live documents expire on the same schedule
		res, err = tx.ExecContext(ctx,
			`delete from remediation_task where status in (?, ?) and created_at < ?`,
			"success", "error", deadline)
		if err != nil {
			return err
		}
		tasksDeleted += res.RowsAffected()
		return nil
	})
	if err != nil {
		log.Errorf("Retention sweep failed: %s", err.Error())
		return
	}
	log.Infof("Retention sweep finished, removed %d documents, %d scan results, %d tasks", docsDeleted, resultsDeleted, tasksDeleted)
}
