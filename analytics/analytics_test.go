package analytics

import (
	"testing"

	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistribute(t *testing.T) {
	buckets, avg := Distribute([]float64{0, 24.99, 25, 50, 74.5, 75, 100})
	require.Len(t, buckets, 4)
	assert.Equal(t, []int{2, 1, 2, 2}, []int{buckets[0].Count, buckets[1].Count, buckets[2].Count, buckets[3].Count})
	assert.Equal(t, 49.93, avg)

	buckets, avg = Distribute(nil)
	assert.Len(t, buckets, 4)
	assert.Zero(t, avg)
}

func TestBuildSkillGapReport(t *testing.T) {
	resumes := []*resume.ParsedResume{
		{Skills: []string{"Go", "SQL"}},
		{Skills: []string{"go"}},
		nil,
	}
	counts, required := BuildSkillGapReport("Go, SQL, Docker", resumes)

	assert.Equal(t, []string{"go", "sql", "docker"}, required)
	assert.Equal(t, []SkillCount{
		{Skill: "docker", Missing: 3, Percent: 100},
		{Skill: "sql", Missing: 2, Percent: 66.67},
		{Skill: "go", Missing: 1, Percent: 33.33},
	}, counts)
}

func TestBuildSkillGapReportWithoutResumes(t *testing.T) {
	counts, required := BuildSkillGapReport("go", nil)
	assert.Empty(t, counts)
	assert.Equal(t, []string{"go"}, required)
}
