// Package analytics aggregates recruiting figures for the HR dashboard.
package analytics

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
)

// HireWindow is the look-back of Overview.HiresLast30Days.
const HireWindow = 30 * 24 * time.Hour

type JobCount struct {
	JobID kernel.JobID `json:"job_id"`
	Title string       `json:"title"`
	Count int          `json:"count"`
}

// Bucket counts match percentages in [Min, Max); the last bucket includes 100.
type Bucket struct {
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

type Overview struct {
	TotalApplications  int            `json:"total_applications"`
	StatusCounts       map[string]int `json:"status_counts"`
	ApplicationsPerJob []JobCount     `json:"applications_per_job"`
	// AverageMatch covers parsed applications only.
	AverageMatch      float64   `json:"average_match"`
	MatchDistribution []Bucket  `json:"match_distribution"`
	HiresLast30Days   int       `json:"hires_last_30_days"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// Distribute sorts percentages into the four quartile buckets and returns
// the rounded average.
func Distribute(percentages []float64) ([]Bucket, float64) {
	buckets := []Bucket{
		{Label: "0-25", Min: 0, Max: 25},
		{Label: "25-50", Min: 25, Max: 50},
		{Label: "50-75", Min: 50, Max: 75},
		{Label: "75-100", Min: 75, Max: 100},
	}
	if len(percentages) == 0 {
		return buckets, 0
	}
	var sum float64
	for _, p := range percentages {
		sum += p
		i := int(p / 25)
		if i < 0 {
			i = 0
		}
		if i > len(buckets)-1 {
			i = len(buckets) - 1
		}
		buckets[i].Count++
	}
	return buckets, math.Round(sum/float64(len(percentages))*100) / 100
}

type SkillCount struct {
	Skill string `json:"skill"`
	// Missing is how many analyzed applications lack the skill.
	Missing int     `json:"missing"`
	Percent float64 `json:"percent"`
}

type SkillGapReport struct {
	JobID                kernel.JobID `json:"job_id"`
	JobTitle             string       `json:"job_title"`
	RequiredSkills       []string     `json:"required_skills"`
	ApplicationsAnalyzed int          `json:"applications_analyzed"`
	MissingSkills        []SkillCount `json:"missing_skills"`
}

// BuildSkillGapReport counts, for every required skill, how many resumes miss it.
// Skills are ordered by how often they are missing, then alphabetically.
func BuildSkillGapReport(requiredSkillsCsv string, resumes []*resume.ParsedResume) ([]SkillCount, []string) {
	required := matching.ParseRequiredSkills(requiredSkillsCsv)
	missing := make(map[string]int)
	for _, r := range resumes {
		result := matching.ComputeMatch(requiredSkillsCsv, r.NormalizedSkills())
		for _, skill := range result.Missing {
			missing[skill]++
		}
	}

	out := make([]SkillCount, 0, len(missing))
	for skill, n := range missing {
		out = append(out, SkillCount{
			Skill:   skill,
			Missing: n,
			Percent: math.Round(float64(n)/float64(len(resumes))*10000) / 100,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Missing != out[j].Missing {
			return out[i].Missing > out[j].Missing
		}
		return out[i].Skill < out[j].Skill
	})
	return out, required
}

// Repository reads the aggregates. Implementations must not mutate data.
type Repository interface {
	StatusCounts(ctx context.Context) (map[string]int, error)
	ApplicationsPerJob(ctx context.Context) ([]JobCount, error)
	// MatchPercentages returns the stored score of every parsed application.
	MatchPercentages(ctx context.Context) ([]float64, error)
	HiresSince(ctx context.Context, since time.Time) (int, error)
	// ParsedResumesForJob returns the parsed resumes of a job's applications.
	ParsedResumesForJob(ctx context.Context, jobID kernel.JobID) ([]*resume.ParsedResume, error)
}
