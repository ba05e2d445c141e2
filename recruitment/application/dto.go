package application

import (
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/candidate"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
)

// AdditionalSkillPreview is how many extra skills the gap view lists before
// collapsing the rest into a count.
const AdditionalSkillPreview = 5

// ApplyRequest - one submission of the public apply form
type ApplyRequest struct {
	JobID     kernel.JobID            `json:"job_id"`
	Applicant candidate.ApplicantInfo `json:"applicant"`
	Resume    resume.Document         `json:"-"`
}

type UpdateStatusRequest struct {
	Status ApplicationStatus `json:"status"`
}

type BulkUpdateStatusRequest struct {
	ApplicationIDs []kernel.ApplicationID `json:"application_ids"`
	Status         ApplicationStatus      `json:"status"`
}

type AddNoteRequest struct {
	Body string `json:"body"`
}

// BulkOperationResponse reports per-id results of a bulk action.
type BulkOperationResponse struct {
	Succeeded []kernel.ApplicationID          `json:"succeeded"`
	Failed    map[kernel.ApplicationID]string `json:"failed"`
}

// SkillGapResponse is the on-demand comparison of a resume against its job.
type SkillGapResponse struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	JobID         kernel.JobID         `json:"job_id"`
	ParseStatus   resume.ParseStatus   `json:"parse_status"`
	matching.Result
	AdditionalPreview []string `json:"additional_preview"`
	// AdditionalMore is the number of additional skills not in the preview.
	AdditionalMore int                     `json:"additional_more"`
	Experience     resume.ExperienceSignal `json:"experience"`
}

func NewSkillGapResponse(app *Application, result matching.Result, now time.Time) SkillGapResponse {
	preview, more := result.AdditionalPreview(AdditionalSkillPreview)
	return SkillGapResponse{
		ApplicationID:     app.ID,
		JobID:             app.JobID,
		ParseStatus:       app.ParseStatus,
		Result:            result,
		AdditionalPreview: preview,
		AdditionalMore:    more,
		Experience:        app.ParsedResume.ExperienceSignal(now),
	}
}

// ApplyResponse is returned to the applicant right after submission.
type ApplyResponse struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	CandidateID   kernel.CandidateID   `json:"candidate_id"`
	JobID         kernel.JobID         `json:"job_id"`
	Status        ApplicationStatus    `json:"status"`
	ParseStatus   resume.ParseStatus   `json:"parse_status"`
	AppliedAt     time.Time            `json:"applied_at"`
}

func (a *Application) ToApplyResponse() ApplyResponse {
	return ApplyResponse{
		ApplicationID: a.ID,
		CandidateID:   a.CandidateID,
		JobID:         a.JobID,
		Status:        a.Status,
		ParseStatus:   a.ParseStatus,
		AppliedAt:     a.AppliedAt,
	}
}
