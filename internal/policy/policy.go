// Package policy defines the named configuration profiles that control
// penalty weights, disabled rules, severity overrides and grade cutoffs.
package policy

import (
	"strings"

	"github.com/maiconbalke/MVP-Review-Tools/internal/model"
)

// DefaultProfile is the profile used when a request names no profile or an
// unknown one.
const DefaultProfile = "standard"

// SeverityPenalties maps each severity level to the points it subtracts from
// the score. This is the single authoritative penalty source for scoring.
type SeverityPenalties struct {
	Info   int `json:"info"`
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// For returns the penalty for the given severity, 0 for unknown levels.
func (p SeverityPenalties) For(s model.Severity) int {
	switch s {
	case model.SeverityInfo:
		return p.Info
	case model.SeverityLow:
		return p.Low
	case model.SeverityMedium:
		return p.Medium
	case model.SeverityHigh:
		return p.High
	}
	return 0
}

// GradeThresholds are the minimum scores for each letter grade, checked from
// A down. A score below the E cutoff grades F.
type GradeThresholds struct {
	A int `json:"A"`
	B int `json:"B"`
	C int `json:"C"`
	D int `json:"D"`
	E int `json:"E"`
	F int `json:"F"`
}

// RuleOverrides lets a policy disable rules or replace the severity of every
// finding a given rule produces.
type RuleOverrides struct {
	DisabledRules    []string                  `json:"disabledRules"`
	SeverityByRuleID map[string]model.Severity `json:"severityByRuleId"`
}

type Policy struct {
	SeverityPenalties   SeverityPenalties  `json:"severityPenalties"`
	CategoryMultipliers map[string]float64 `json:"categoryMultipliers"`
	RuleOverrides       RuleOverrides      `json:"ruleOverrides"`
	GradeThresholds     GradeThresholds    `json:"gradeThresholds"`
}

// Normalize maps a requested profile name to one of the built-in profiles,
// falling back to the default for unknown or empty names.
func Normalize(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "strict":
		return "strict"
	case "security":
		return "security"
	default:
		return DefaultProfile
	}
}

// Default returns the built-in policy for a profile name. Profiles differ
// only in their penalty weights; multipliers, overrides and thresholds are
// shared.
func Default(profile string) Policy {
	penalties := SeverityPenalties{Info: 0, Low: 5, Medium: 15, High: 30}
	switch Normalize(profile) {
	case "strict":
		penalties = SeverityPenalties{Info: 0, Low: 10, Medium: 30, High: 60}
	case "security":
		penalties = SeverityPenalties{Info: 0, Low: 8, Medium: 25, High: 50}
	}

	return Policy{
		SeverityPenalties: penalties,
		CategoryMultipliers: map[string]float64{
			"security":           1.5,
			"ci-cd":              1.2,
			"repository-hygiene": 1.2,
			"governance":         1.0,
			"documentation":      0.8,
			"dependencies":       1.0,
			"nodejs":             1.0,
			"typescript":         1.0,
			"docker":             1.0,
			"engine":             1.0,
		},
		RuleOverrides: RuleOverrides{
			DisabledRules:    []string{},
			SeverityByRuleID: map[string]model.Severity{},
		},
		GradeThresholds: GradeThresholds{A: 90, B: 80, C: 70, D: 60, E: 50, F: 0},
	}
}

// Disabled reports whether the rule id is in the policy's disabled set.
func (p Policy) Disabled(ruleID string) bool {
	for _, id := range p.RuleOverrides.DisabledRules {
		if id == ruleID {
			return true
		}
	}
	return false
}

// GradeFor derives a letter grade by walking thresholds from A down and
// picking the first one the score meets or exceeds.
func (p Policy) GradeFor(score int) model.Grade {
	t := p.GradeThresholds
	switch {
	case score >= t.A:
		return model.GradeA
	case score >= t.B:
		return model.GradeB
	case score >= t.C:
		return model.GradeC
	case score >= t.D:
		return model.GradeD
	case score >= t.E:
		return model.GradeE
	}
	return model.GradeF
}
