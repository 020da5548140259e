package entity

import "time"

// ScanResult keeps the checker output as it arrived. The report is stored
// without normalization so that the summary can be recomputed when the
// engine rules change.
type ScanResult struct {
	tableName struct{} `pg:"scan_result"`

	DocumentId    string                 `pg:"document_id,pk,type:varchar"`
	DataHash      string                 `pg:"data_hash,type:varchar,notnull"`
	Report        map[string]interface{} `pg:"report,type:jsonb,notnull"`
	CheckerStatus map[string]interface{} `pg:"checker_status,type:jsonb"`
	Summary       map[string]interface{} `pg:"summary,type:jsonb,notnull"`
	CreatedAt     time.Time              `pg:"created_at,type:timestamp without time zone,notnull"`
}
