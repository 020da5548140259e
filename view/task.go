package view

type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "not_started"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusSuccess    TaskStatus = "success"
	TaskStatusError      TaskStatus = "error"
)

func (s TaskStatus) Terminal() bool {
	return s == TaskStatusSuccess || s == TaskStatusError
}

type TaskKind string

const (
	TaskKindScan TaskKind = "scan"
	TaskKindFix  TaskKind = "fix"
)

type RemediationTask struct {
	Id         string     `json:"id"`
	DocumentId string     `json:"documentId"`
	Kind       TaskKind   `json:"kind"`
	Status     TaskStatus `json:"status"`
	Details    string     `json:"details,omitempty"`
}
