package entity

import (
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
)

type PdfDocument struct {
	tableName struct{} `pg:"pdf_document"`

	Id         string              `pg:"id,pk,type:varchar"`
	Name       string              `pg:"name,type:varchar,notnull"`
	DataHash   string              `pg:"data_hash,type:varchar,notnull"`
	Size       int                 `pg:"size,type:integer,notnull"`
	Data       []byte              `pg:"data,type:bytea,notnull"`
	Status     view.DocumentStatus `pg:"status,type:varchar,notnull"`
	UploadedAt time.Time           `pg:"uploaded_at,type:timestamp without time zone,notnull"`
}

func MakeDocumentView(ent PdfDocument) view.Document {
	return view.Document{
		Id:         ent.Id,
		Name:       ent.Name,
		Size:       ent.Size,
		DataHash:   ent.DataHash,
		Status:     ent.Status,
		UploadedAt: ent.UploadedAt,
	}
}
