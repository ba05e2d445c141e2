// Package matching scores a candidate's skills against a job's required
// skills.
//
// Two comparison policies coexist and are intentionally kept apart:
//
//   - StrictMatch compares skills by exact (case-insensitive) equality and
//     produces the matched/missing/additional breakdown shown to reviewers.
//   - FuzzyPercentage counts a requirement as met when either skill contains
//     the other, so "react" satisfies "react.js". It produces the score.
//
// A candidate can therefore score 100% while the breakdown still lists a
// skill as missing. Reviewers rely on both numbers as they are.
package matching

import (
	"math"
	"strings"
)

// Breakdown is the exact-match skill gap.
type Breakdown struct {
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Additional []string `json:"additional"`
}

// Result is the full comparison of one candidate against one job.
type Result struct {
	// MatchPercentage is in [0, 100], rounded to 2 decimals.
	MatchPercentage float64  `json:"match_percentage"`
	Matched         []string `json:"matched"`
	Missing         []string `json:"missing"`
	Additional      []string `json:"additional"`
	RequiredCount   int      `json:"required_count"`
	MatchedCount    int      `json:"matched_count"`
	// HasRequirements is false when the job lists no skills; the percentage
	// is then 100 and callers may render it as not applicable.
	HasRequirements bool `json:"has_requirements"`
}

// AdditionalPreview returns at most n additional skills and how many were left out.
func (r Result) AdditionalPreview(n int) ([]string, int) {
	if n < 0 {
		n = 0
	}
	if len(r.Additional) <= n {
		return r.Additional, 0
	}
	return r.Additional[:n], len(r.Additional) - n
}

// ParseRequiredSkills splits a comma-separated requirement list. Tokens are
// trimmed and lowercased, empty tokens dropped; order and duplicates are kept.
func ParseRequiredSkills(csv string) []string {
	return NormalizeSkills(strings.Split(csv, ","))
}

// NormalizeSkills trims and lowercases skills and drops blank entries.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// StrictMatch computes the exact-equality breakdown. Inputs must already be
// normalized. Each output list is a set in first-appearance order.
func StrictMatch(required, candidate []string) Breakdown {
	requiredSet := toSet(required)
	candidateSet := toSet(candidate)

	b := Breakdown{
		Matched:    []string{},
		Missing:    []string{},
		Additional: []string{},
	}
	for _, s := range dedupe(required) {
		if _, ok := candidateSet[s]; ok {
			b.Matched = append(b.Matched, s)
		} else {
			b.Missing = append(b.Missing, s)
		}
	}
	for _, s := range dedupe(candidate) {
		if _, ok := requiredSet[s]; !ok {
			b.Additional = append(b.Additional, s)
		}
	}
	return b
}

// FuzzyPercentage returns the share of required entries satisfied by some
// candidate skill under bidirectional substring containment. Duplicate
// required entries count separately. ok is false when required is empty.
func FuzzyPercentage(required, candidate []string) (percentage float64, matched int, ok bool) {
	if len(required) == 0 {
		return 0, 0, false
	}
	for _, req := range required {
		for _, skill := range candidate {
			if fuzzyEqual(req, skill) {
				matched++
				break
			}
		}
	}
	return round2(float64(matched) / float64(len(required)) * 100), matched, true
}

func fuzzyEqual(required, skill string) bool {
	if required == "" || skill == "" {
		return false
	}
	return strings.Contains(skill, required) || strings.Contains(required, skill)
}

// ComputeMatch compares a job's comma-separated required skills with a
// candidate's raw skill list. A job without requirements scores 100.
func ComputeMatch(requiredSkillsCsv string, candidateSkills []string) Result {
	required := ParseRequiredSkills(requiredSkillsCsv)
	candidate := NormalizeSkills(candidateSkills)

	breakdown := StrictMatch(required, candidate)
	percentage, matched, ok := FuzzyPercentage(required, candidate)
	if !ok {
		percentage = 100
	}

	return Result{
		MatchPercentage: percentage,
		Matched:         breakdown.Matched,
		Missing:         breakdown.Missing,
		Additional:      breakdown.Additional,
		RequiredCount:   len(required),
		MatchedCount:    matched,
		HasRequirements: ok,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, s := range items {
		set[s] = struct{}{}
	}
	return set
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
