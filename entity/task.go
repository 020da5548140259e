package entity

import (
	"time"

	"github.com/Netcracker/qubership-pdf-accessibility-service/view"
)

type RemediationTask struct {
	tableName struct{} `pg:"remediation_task"`

	Id           string          `pg:"id,pk,type:varchar"`
	DocumentId   string          `pg:"document_id,type:varchar,notnull"`
	Kind         view.TaskKind   `pg:"kind,type:varchar,notnull"`
	EventId      string          `pg:"event_id,type:varchar"`
	Status       view.TaskStatus `pg:"status,type:varchar,notnull"`
	Details      string          `pg:"details,type:varchar"`
	CreatedAt    time.Time       `pg:"created_at,type:timestamp without time zone,notnull"`
	ExecutorId   string          `pg:"executor_id,type:varchar"`
	LastActive   *time.Time      `pg:"last_active,type:timestamp without time zone"`
	RestartCount int             `pg:"restart_count,type:integer,notnull"`
}

func MakeTaskView(ent RemediationTask) view.RemediationTask {
	return view.RemediationTask{
		Id:         ent.Id,
		DocumentId: ent.DocumentId,
		Kind:       ent.Kind,
		Status:     ent.Status,
		Details:    ent.Details,
	}
}
