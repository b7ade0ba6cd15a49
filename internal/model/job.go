package model

import "time"

type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"

	// StatusNotFound is never persisted; it is only reported by the status
	// API when a job id is in none of the queue directories.
	StatusNotFound Status = "not_found"
)

// JobBody is the analysis request payload. Exactly one of RepoURL or
// UploadPath is set.
type JobBody struct {
	RepoURL    string `json:"repoUrl,omitempty"`
	UploadPath string `json:"uploadPath,omitempty"`
}

// Job is one analysis request and its lifecycle state. It is persisted as a
// single JSON file whose directory determines its authoritative status.
type Job struct {
	JobID         string    `json:"jobId"`
	CreatedAt     time.Time `json:"createdAt"`
	Body          JobBody   `json:"body"`
	Status        Status    `json:"status"`
	PolicyProfile string    `json:"policyProfile"`
}

// JobSummary is the listing/status view of a job returned by the API.
type JobSummary struct {
	JobID         string    `json:"jobId"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	PolicyProfile string    `json:"policyProfile"`
	HasResult     bool      `json:"hasResult"`
}
