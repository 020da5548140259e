package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/db"
	"github.com/Netcracker/qubership-pdf-accessibility-service/entity"
	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
	"github.com/go-pg/pg/v10"
)

type DocumentRepository interface {
	SaveDocument(ctx context.Context, ent entity.PdfDocument) error
	GetDocumentById(ctx context.Context, documentId string) (*entity.PdfDocument, error)
	UpdateStatus(ctx context.Context, documentId string, status view.DocumentStatus) error
	UpdateData(ctx context.Context, documentId string, data []byte, dataHash string) error
}

func NewDocumentRepository(cp db.ConnectionProvider) DocumentRepository {
	return &documentRepositoryImpl{cp: cp}
}

type documentRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *documentRepositoryImpl) SaveDocument(ctx context.Context, ent entity.PdfDocument) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &ent).Insert()
	return err
}

func (r *documentRepositoryImpl) GetDocumentById(ctx context.Context, documentId string) (*entity.PdfDocument, error) {
	var doc entity.PdfDocument
	err := r.cp.GetConnection().ModelContext(ctx, &doc).
		Where("id = ?", documentId).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepositoryImpl) UpdateStatus(ctx context.Context, documentId string, status view.DocumentStatus) error {
	var doc entity.PdfDocument
	_, err := r.cp.GetConnection().ModelContext(ctx, &doc).
		Set("status = ?", status).
		Where("id = ?", documentId).
		Update()
	return err
}

func (r *documentRepositoryImpl) UpdateData(ctx context.Context, documentId string, data []byte, dataHash string) error {
	var doc entity.PdfDocument
	_, err := r.cp.GetConnection().ModelContext(ctx, &doc).
		Set("data = ?", data).
		Set("data_hash = ?", dataHash).
		Set("size = ?", len(data)).
		Set("uploaded_at = ?", time.Now()).
		Where("id = ?", documentId).
		Update()
	return err
}
