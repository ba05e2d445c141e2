package job

import (
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
)

// JobStatus represents the status of a job posting
type JobStatus string

const (
	JobStatusDraft     JobStatus = "DRAFT"     // Created but not published
	JobStatusPublished JobStatus = "PUBLISHED" // Accepting applications
	JobStatusClosed    JobStatus = "CLOSED"    // No longer accepting applications
	JobStatusArchived  JobStatus = "ARCHIVED"
)

func (s JobStatus) IsValid() bool {
	switch s {
	case JobStatusDraft, JobStatusPublished, JobStatusClosed, JobStatusArchived:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
)

func (l ExperienceLevel) IsValid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior:
		return true
	}
	return false
}

type Job struct {
	ID              kernel.JobID    `json:"id"`
	Title           string          `json:"title"`
	Department      string          `json:"department"`
	Description     string          `json:"description"`
	RequiredSkills  string          `json:"required_skills"` // comma-separated, as entered by HR
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	Status          JobStatus       `json:"status"`
	CreatedBy       kernel.UserID   `json:"created_by"`
	PublishedAt     *time.Time      `json:"published_at,omitempty"`
	ArchivedAt      *time.Time      `json:"archived_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// RequiredSkillList is the normalized list the match scorer works on.
func (j *Job) RequiredSkillList() []string {
	return matching.ParseRequiredSkills(j.RequiredSkills)
}

func (j *Job) IsPublished() bool { return j.Status == JobStatusPublished }
func (j *Job) IsArchived() bool  { return j.Status == JobStatusArchived }

// AcceptsApplications reports whether candidates may apply.
func (j *Job) AcceptsApplications() bool {
	return j.IsPublished()
}

func (j *Job) CanBePublished() bool {
	return j.Status == JobStatusDraft || j.Status == JobStatusClosed
}

// Publish opens the job for applications. Closed jobs may be reopened.
func (j *Job) Publish() error {
	if !j.CanBePublished() {
		return ErrCannotPublish().WithDetail("current_status", j.Status)
	}
	if strings.TrimSpace(j.Title) == "" {
		return ErrInvalidJob().WithDetail("title", "required to publish")
	}

	now := time.Now()
	j.Status = JobStatusPublished
	j.PublishedAt = &now
	j.UpdatedAt = now
	return nil
}

func (j *Job) Close() error {
	if !j.IsPublished() {
		return ErrCannotClose().WithDetail("current_status", j.Status)
	}
	j.Status = JobStatusClosed
	j.UpdatedAt = time.Now()
	return nil
}

func (j *Job) Archive() error {
	if j.IsArchived() {
		return ErrJobAlreadyArchived()
	}

	now := time.Now()
	j.Status = JobStatusArchived
	j.ArchivedAt = &now
	j.UpdatedAt = now
	return nil
}

// Unarchive returns the job to draft.
func (j *Job) Unarchive() error {
	if !j.IsArchived() {
		return ErrJobNotArchived()
	}

	j.Status = JobStatusDraft
	j.ArchivedAt = nil
	j.UpdatedAt = time.Now()
	return nil
}

// ApplyUpdate copies the non-nil fields of req.
func (j *Job) ApplyUpdate(req UpdateJobRequest) error {
	if j.IsArchived() {
		return ErrJobArchived()
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return ErrInvalidJob().WithDetail("title", "cannot be empty")
		}
		j.Title = strings.TrimSpace(*req.Title)
	}
	if req.Department != nil {
		j.Department = strings.TrimSpace(*req.Department)
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.RequiredSkills != nil {
		j.RequiredSkills = strings.TrimSpace(*req.RequiredSkills)
	}
	if req.ExperienceLevel != nil {
		if !req.ExperienceLevel.IsValid() {
			return ErrInvalidJob().WithDetail("experience_level", *req.ExperienceLevel)
		}
		j.ExperienceLevel = *req.ExperienceLevel
	}
	j.UpdatedAt = time.Now()
	return nil
}
