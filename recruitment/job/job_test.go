package job

import (
	"testing"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobLifecycle(t *testing.T) {
	j := &Job{Title: "Backend Engineer", Status: JobStatusDraft}

	require.NoError(t, j.Publish())
	assert.True(t, j.AcceptsApplications())
	assert.NotNil(t, j.PublishedAt)

	assert.True(t, errx.IsCode(j.Publish(), CodeCannotPublish))

	require.NoError(t, j.Close())
	assert.False(t, j.AcceptsApplications())
	assert.True(t, errx.IsCode(j.Close(), CodeCannotClose))

	require.NoError(t, j.Publish(), "closed jobs can be reopened")

	require.NoError(t, j.Archive())
	assert.True(t, errx.IsCode(j.Archive(), CodeJobAlreadyArchived))
	assert.True(t, errx.IsCode(j.Publish(), CodeCannotPublish))

	require.NoError(t, j.Unarchive())
	assert.Equal(t, JobStatusDraft, j.Status)
	assert.Nil(t, j.ArchivedAt)
}

func TestRequiredSkillList(t *testing.T) {
	j := &Job{RequiredSkills: " Python, SQL ,, machine learning ,Docker"}
	assert.Equal(t, []string{"python", "sql", "machine learning", "docker"}, j.RequiredSkillList())

	empty := &Job{}
	assert.Empty(t, empty.RequiredSkillList())
}

func TestApplyUpdate(t *testing.T) {
	j := &Job{Title: "Old", Status: JobStatusDraft}
	title, skills := " New ", "go, sql"
	level := LevelSenior

	require.NoError(t, j.ApplyUpdate(UpdateJobRequest{Title: &title, RequiredSkills: &skills, ExperienceLevel: &level}))
	assert.Equal(t, "New", j.Title)
	assert.Equal(t, []string{"go", "sql"}, j.RequiredSkillList())
	assert.Equal(t, LevelSenior, j.ExperienceLevel)

	blank := "  "
	assert.True(t, errx.IsCode(j.ApplyUpdate(UpdateJobRequest{Title: &blank}), CodeInvalidJob))

	bad := ExperienceLevel("guru")
	assert.True(t, errx.IsCode(j.ApplyUpdate(UpdateJobRequest{ExperienceLevel: &bad}), CodeInvalidJob))

	j.Status = JobStatusArchived
	assert.True(t, errx.IsCode(j.ApplyUpdate(UpdateJobRequest{Title: &title}), CodeJobArchived))
}
