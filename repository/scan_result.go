package repository

import (
	"context"
	"errors"

	"github.com/Netcracker/qubership-pdf-accessibility-service/db"
	"github.com/Netcracker/qubership-pdf-accessibility-service/entity"
	"github.com/go-pg/pg/v10"
)

type ScanResultRepository interface {
	SaveResult(ctx context.Context, ent entity.ScanResult) error
	GetResultByDocumentId(ctx context.Context, documentId string) (*entity.ScanResult, error)
}

func NewScanResultRepository(cp db.ConnectionProvider) ScanResultRepository {
	return &scanResultRepositoryImpl{cp: cp}
}

type scanResultRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *scanResultRepositoryImpl) SaveResult(ctx context.Context, ent entity.ScanResult) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &ent).
		OnConflict("(document_id) DO UPDATE").
		Set("data_hash = EXCLUDED.data_hash").
		Set("report = EXCLUDED.report").
		Set("checker_status = EXCLUDED.checker_status").
		Set("summary = EXCLUDED.summary").
		Set("created_at = EXCLUDED.created_at").
		Insert()
	return err
}

func (r *scanResultRepositoryImpl) GetResultByDocumentId(ctx context.Context, documentId string) (*entity.ScanResult, error) {
	var result entity.ScanResult
	err := r.cp.GetConnection().ModelContext(ctx, &result).
		Where("document_id = ?", documentId).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
