package model

import "time"

type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
	GradeF Grade = "F"
)

// Summary counts findings per severity. Total always equals the sum of the
// four per-severity counts and the length of the finding list.
type Summary struct {
	Info   int `json:"info"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
	Total  int `json:"total"`
}

func (s *Summary) Add(sev Severity) {
	switch sev {
	case SeverityInfo:
		s.Info++
	case SeverityLow:
		s.Low++
	case SeverityMedium:
		s.Medium++
	case SeverityHigh:
		s.High++
	}
	s.Total++
}

// AnalysisResult is the immutable output of processing one job.
type AnalysisResult struct {
	JobID         string    `json:"jobId"`
	ProcessedAt   time.Time `json:"processedAt"`
	PolicyProfile string    `json:"policyProfile"`
	Input         JobBody   `json:"input"`
	RepoPath      string    `json:"repoPath,omitempty"`
	Score         int       `json:"score"`
	Grade         Grade     `json:"grade"`
	Summary       Summary   `json:"summary"`
	Findings      []Finding `json:"findings"`
}
