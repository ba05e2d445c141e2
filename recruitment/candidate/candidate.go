package candidate

import (
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
)

// CandidateStatus represents the status of a candidate
type CandidateStatus string

const (
	CandidateStatusActive   CandidateStatus = "ACTIVE"
	CandidateStatusArchived CandidateStatus = "ARCHIVED"
)

type Candidate struct {
	ID         kernel.CandidateID `json:"id"`
	Email      kernel.Email       `json:"email"`
	Phone      kernel.Phone       `json:"phone"`
	FirstName  kernel.FirstName   `json:"first_name"`
	LastName   kernel.LastName    `json:"last_name"`
	Address    string             `json:"address,omitempty"`
	LinkedIn   string             `json:"linkedin,omitempty"`
	GitHub     string             `json:"github,omitempty"`
	Status     CandidateStatus    `json:"status"`
	ArchivedAt *time.Time         `json:"archived_at,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ============================================================================
// Domain Methods
// ============================================================================

func (c *Candidate) IsArchived() bool {
	return c.Status == CandidateStatusArchived
}

func (c *Candidate) FullName() string {
	return strings.TrimSpace(string(c.FirstName) + " " + string(c.LastName))
}

// CanApplyToJob reports whether the candidate may submit applications.
func (c *Candidate) CanApplyToJob() bool {
	return !c.IsArchived()
}

func (c *Candidate) Archive() error {
	if c.IsArchived() {
		return ErrCandidateAlreadyArchived()
	}

	now := time.Now()
	c.Status = CandidateStatusArchived
	c.ArchivedAt = &now
	c.UpdatedAt = now
	return nil
}

func (c *Candidate) Unarchive() error {
	if !c.IsArchived() {
		return ErrCandidateNotArchived()
	}

	c.Status = CandidateStatusActive
	c.ArchivedAt = nil
	c.UpdatedAt = time.Now()
	return nil
}

// FillFromResume copies parsed personal info into empty profile fields only
// and reports whether anything changed. The email is never touched.
func (c *Candidate) FillFromResume(pi resume.PersonalInfo) bool {
	changed := false
	fill := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if *dst == "" && v != "" {
			*dst = v
			changed = true
		}
	}

	if c.FirstName == "" && c.LastName == "" {
		first, last := kernel.SplitFullName(pi.Name)
		if first != "" {
			c.FirstName, c.LastName = first, last
			changed = true
		}
	}

	phone := string(c.Phone)
	fill(&phone, pi.Phone)
	c.Phone = kernel.Phone(phone)
	fill(&c.Address, pi.Address)
	fill(&c.LinkedIn, pi.LinkedIn)
	fill(&c.GitHub, pi.GitHub)

	if changed {
		c.UpdatedAt = time.Now()
	}
	return changed
}

// CandidateApplication is one row of a candidate's application history.
type CandidateApplication struct {
	ApplicationID   kernel.ApplicationID `json:"application_id"`
	JobID           kernel.JobID         `json:"job_id"`
	JobTitle        string               `json:"job_title"`
	Status          string               `json:"status"`
	MatchPercentage *float64             `json:"match_percentage,omitempty"`
	AppliedAt       time.Time            `json:"applied_at"`
}
