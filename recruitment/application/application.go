package application

import (
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/google/uuid"
)

// ApplicationStatus is the HR review stage of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending            ApplicationStatus = "pending"
	ApplicationStatusSelected           ApplicationStatus = "selected"
	ApplicationStatusRejected           ApplicationStatus = "rejected"
	ApplicationStatusWaitingInterview   ApplicationStatus = "waiting_interview"
	ApplicationStatusInterviewCompleted ApplicationStatus = "interview_completed"
	ApplicationStatusOfferSent          ApplicationStatus = "offer_sent"
	ApplicationStatusOfferAccepted      ApplicationStatus = "offer_accepted"
	ApplicationStatusOfferRejected      ApplicationStatus = "offer_rejected"
	ApplicationStatusHired              ApplicationStatus = "hired"
)

// Statuses lists every status in pipeline order.
var Statuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusSelected,
	ApplicationStatusRejected,
	ApplicationStatusWaitingInterview,
	ApplicationStatusInterviewCompleted,
	ApplicationStatusOfferSent,
	ApplicationStatusOfferAccepted,
	ApplicationStatusOfferRejected,
	ApplicationStatusHired,
}

func (s ApplicationStatus) IsValid() bool {
	return slices.Contains(Statuses, s)
}

// Note is an HR comment attached to an application.
type Note struct {
	ID        string        `json:"id"`
	AuthorID  kernel.UserID `json:"author_id"`
	Body      string        `json:"body"`
	CreatedAt time.Time     `json:"created_at"`
}

func NewNote(author kernel.UserID, body string) Note {
	return Note{
		ID:        uuid.NewString(),
		AuthorID:  author,
		Body:      strings.TrimSpace(body),
		CreatedAt: time.Now(),
	}
}

type Application struct {
	ID             kernel.ApplicationID `json:"id"`
	CandidateID    kernel.CandidateID   `json:"candidate_id"`
	JobID          kernel.JobID         `json:"job_id"`
	ResumeFilename string               `json:"resume_filename"`
	ResumeKey      string               `json:"resume_key"`
	// ParsedResume is nil until parsing succeeds, and stays nil when it fails.
	ParsedResume    *resume.ParsedResume `json:"parsed_resume"`
	MatchPercentage float64              `json:"match_percentage"`
	ParseStatus     resume.ParseStatus   `json:"parse_status"`
	ParseError      string               `json:"parse_error,omitempty"`
	Status          ApplicationStatus    `json:"status"`
	Notes           []Note               `json:"notes"`
	AppliedAt       time.Time            `json:"applied_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewApplication builds a freshly submitted application waiting for its parse job.
func NewApplication(candidateID kernel.CandidateID, jobID kernel.JobID, filename string) *Application {
	now := time.Now()
	return &Application{
		ID:             kernel.NewApplicationID(uuid.NewString()),
		CandidateID:    candidateID,
		JobID:          jobID,
		ResumeFilename: filename,
		ParseStatus:    resume.ParseStatusQueued,
		Status:         ApplicationStatusPending,
		Notes:          []Note{},
		AppliedAt:      now,
		UpdatedAt:      now,
	}
}

// ============================================================================
// Domain Methods
// ============================================================================

func (a *Application) IsParsed() bool {
	return a.ParseStatus == resume.ParseStatusParsed
}

func (a *Application) IsHired() bool {
	return a.Status == ApplicationStatusHired
}

// ChangeStatus moves the application to any known status.
func (a *Application) ChangeStatus(status ApplicationStatus) error {
	if !status.IsValid() {
		return ErrInvalidStatus().WithDetail("status", string(status))
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

// SkillGap compares the stored resume against a requirement list. An
// unparsed application has no skills, so every requirement is missing.
func (a *Application) SkillGap(requiredSkillsCsv string) matching.Result {
	return matching.ComputeMatch(requiredSkillsCsv, a.ParsedResume.NormalizedSkills())
}

// ParsedOutcome is the parse result written back to an application.
type ParsedOutcome struct {
	ParsedResume    *resume.ParsedResume
	MatchPercentage float64
	ParseStatus     resume.ParseStatus
	ParseError      string
}

// Succeeded records a successful parse scored against requiredSkillsCsv.
func Succeeded(parsed *resume.ParsedResume, requiredSkillsCsv string) (ParsedOutcome, matching.Result) {
	result := matching.ComputeMatch(requiredSkillsCsv, parsed.NormalizedSkills())
	return ParsedOutcome{
		ParsedResume:    parsed,
		MatchPercentage: result.MatchPercentage,
		ParseStatus:     resume.ParseStatusParsed,
	}, result
}

// Failed records a parse that will not be retried.
func Failed(reason string) ParsedOutcome {
	return ParsedOutcome{
		ParseStatus: resume.ParseStatusFailed,
		ParseError:  reason,
	}
}

// Queued resets the parse columns for a new parse job.
func Queued() ParsedOutcome {
	return ParsedOutcome{ParseStatus: resume.ParseStatusQueued}
}

// Processing marks a parse job held by a worker.
func Processing() ParsedOutcome {
	return ParsedOutcome{ParseStatus: resume.ParseStatusProcessing}
}

func (a *Application) RecordOutcome(o ParsedOutcome) {
	a.ParsedResume = o.ParsedResume
	a.MatchPercentage = o.MatchPercentage
	a.ParseStatus = o.ParseStatus
	a.ParseError = o.ParseError
	a.UpdatedAt = time.Now()
}

// ============================================================================
// Listing
// ============================================================================

type SortOrder string

const (
	SortMatchDesc   SortOrder = "match_desc"
	SortMatchAsc    SortOrder = "match_asc"
	SortAppliedDesc SortOrder = "applied_desc"
	SortAppliedAsc  SortOrder = "applied_asc"
)

func (s SortOrder) IsValid() bool {
	switch s {
	case SortMatchDesc, SortMatchAsc, SortAppliedDesc, SortAppliedAsc:
		return true
	}
	return false
}

// ListFilter narrows the HR application list. Zero values are ignored.
type ListFilter struct {
	JobID       kernel.JobID
	CandidateID kernel.CandidateID
	Status      ApplicationStatus
	MinMatch    *float64
	MaxMatch    *float64
	// Search matches candidate name or email, case-insensitively.
	Search string
	Sort   SortOrder
}

// Validate fills the default sort and checks the bounds.
func (f *ListFilter) Validate() error {
	if f.Sort == "" {
		f.Sort = SortAppliedDesc
	}
	if !f.Sort.IsValid() {
		return ErrInvalidFilter().WithDetail("sort", string(f.Sort))
	}
	if f.Status != "" && !f.Status.IsValid() {
		return ErrInvalidStatus().WithDetail("status", string(f.Status))
	}
	for name, v := range map[string]*float64{"min_match": f.MinMatch, "max_match": f.MaxMatch} {
		if v != nil && (*v < 0 || *v > 100) {
			return ErrInvalidFilter().WithDetail(name, *v)
		}
	}
	if f.MinMatch != nil && f.MaxMatch != nil && *f.MinMatch > *f.MaxMatch {
		return ErrInvalidFilter().WithDetail("reason", "min_match is greater than max_match")
	}
	f.Search = strings.TrimSpace(f.Search)
	return nil
}

// ListItem is an application joined with the names HR sees in the list.
type ListItem struct {
	Application
	CandidateName  string       `json:"candidate_name"`
	CandidateEmail kernel.Email `json:"candidate_email"`
	JobTitle       string       `json:"job_title"`
}
