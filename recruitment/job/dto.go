package job

import (
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title           string          `json:"title"`
	Department      string          `json:"department"`
	Description     string          `json:"description"`
	RequiredSkills  string          `json:"required_skills"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
}

// UpdateJobRequest - DTO for partial job updates
type UpdateJobRequest struct {
	Title           *string          `json:"title,omitempty"`
	Department      *string          `json:"department,omitempty"`
	Description     *string          `json:"description,omitempty"`
	RequiredSkills  *string          `json:"required_skills,omitempty"`
	ExperienceLevel *ExperienceLevel `json:"experience_level,omitempty"`
}

// ListJobsFilter narrows job listings. Zero values match everything.
type ListJobsFilter struct {
	Status     JobStatus `json:"status,omitempty"`
	Department string    `json:"department,omitempty"`
	Query      string    `json:"query,omitempty"` // title substring, case-insensitive
}

type PaginatedJobsResponse = kernel.Paginated[JobResponse]

// JobResponse - DTO for returning job data
type JobResponse struct {
	ID                kernel.JobID    `json:"id"`
	Title             string          `json:"title"`
	Department        string          `json:"department"`
	Description       string          `json:"description"`
	RequiredSkills    string          `json:"required_skills"`
	RequiredSkillList []string        `json:"required_skill_list"`
	ExperienceLevel   ExperienceLevel `json:"experience_level"`
	Status            JobStatus       `json:"status"`
	CreatedBy         kernel.UserID   `json:"created_by"`
	PublishedAt       *time.Time      `json:"published_at,omitempty"`
	ArchivedAt        *time.Time      `json:"archived_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (j *Job) ToResponse() JobResponse {
	return JobResponse{
		ID:                j.ID,
		Title:             j.Title,
		Department:        j.Department,
		Description:       j.Description,
		RequiredSkills:    j.RequiredSkills,
		RequiredSkillList: j.RequiredSkillList(),
		ExperienceLevel:   j.ExperienceLevel,
		Status:            j.Status,
		CreatedBy:         j.CreatedBy,
		PublishedAt:       j.PublishedAt,
		ArchivedAt:        j.ArchivedAt,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}

// JobStatsResponse - application counters for one job
type JobStatsResponse struct {
	JobID             kernel.JobID `json:"job_id"`
	Title             string       `json:"title"`
	Status            JobStatus    `json:"status"`
	TotalApplications int64        `json:"total_applications"`
}
