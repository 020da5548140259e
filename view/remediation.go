package view

// ScanCompletedNotification is published to the olric topic when a scan
// task reaches a terminal status on any replica.
type ScanCompletedNotification struct {
	DocumentId string     `json:"documentId"`
	TaskId     string     `json:"taskId"`
	Status     TaskStatus `json:"status"`
}

type FixRequest struct {
	// Identifiers of issues to fix; empty means fix everything the
	// remediation service can handle automatically.
	IssueIds []string `json:"issueIds,omitempty"`
}

type AppliedFix struct {
	IssueId     string `json:"issueId,omitempty"`
	Description string `json:"description"`
	Automated   bool   `json:"automated"`
}

type FixResult struct {
	DocumentId   string       `json:"documentId"`
	AppliedFixes []AppliedFix `json:"appliedFixes"`
	Details      string       `json:"details,omitempty"`
}
