package jobinfra

import (
	"testing"

	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/stretchr/testify/assert"
)

func TestBuildListFilter(t *testing.T) {
	where, args := buildListFilter(job.ListJobsFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildListFilter(job.ListJobsFilter{Status: job.JobStatusPublished, Query: " engineer "})
	assert.Equal(t, " WHERE status = $1 AND title ILIKE $2", where)
	assert.Equal(t, []any{"PUBLISHED", "%engineer%"}, args)

	where, args = buildListFilter(job.ListJobsFilter{Department: "Data"})
	assert.Equal(t, " WHERE LOWER(department) = LOWER($1)", where)
	assert.Equal(t, []any{"Data"}, args)
}

func TestModelRoundTrip(t *testing.T) {
	in := &job.Job{ID: "j1", Title: "T", RequiredSkills: "go", ExperienceLevel: job.LevelSenior, Status: job.JobStatusDraft}
	m := fromEntity(in)
	assert.Equal(t, *in, m.toEntity())
}
