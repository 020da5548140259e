package view

type CheckerJobStatus string

const (
	CheckerJobQueued     CheckerJobStatus = "queued"
	CheckerJobProcessing CheckerJobStatus = "processing"
	CheckerJobDone       CheckerJobStatus = "done"
	CheckerJobFailed     CheckerJobStatus = "failed"
)

func (s CheckerJobStatus) Terminal() bool {
	return s == CheckerJobDone || s == CheckerJobFailed
}

type CheckerJob struct {
	JobId    string           `json:"jobId"`
	Status   CheckerJobStatus `json:"status"`
	Progress float64          `json:"progress"`
	Details  string           `json:"details,omitempty"`
}

// CheckerReport is the checker response for a finished job: the raw issue
// report plus the compliance status object. Both are kept untyped, the
// compliance engine is responsible for interpreting them.
type CheckerReport struct {
	Report interface{}            `json:"report"`
	Status map[string]interface{} `json:"status,omitempty"`
}
