package candidatesrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/recruitment/candidate"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/google/uuid"
)

// CandidateService provides business operations for candidates
type CandidateService struct {
	candidateRepo candidate.Repository
}

func NewCandidateService(candidateRepo candidate.Repository) *CandidateService {
	return &CandidateService{candidateRepo: candidateRepo}
}

// FindOrCreateByEmail returns the candidate owning info.Email, creating it on
// first contact. The boolean reports whether a row was created.
func (s *CandidateService) FindOrCreateByEmail(ctx context.Context, info candidate.ApplicantInfo) (*candidate.Candidate, bool, error) {
	email := kernel.Email(info.Email).Normalized()
	if !email.IsValid() {
		return nil, false, candidate.ErrInvalidEmail().WithDetail("email", info.Email)
	}

	existing, err := s.candidateRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errx.IsCode(err, candidate.CodeCandidateNotFound) {
		return nil, false, errx.Wrap(err, "failed to look up candidate", errx.TypeInternal)
	}

	now := time.Now()
	c := &candidate.Candidate{
		ID:        kernel.NewCandidateID(uuid.NewString()),
		Email:     email,
		Phone:     kernel.Phone(strings.TrimSpace(info.Phone)),
		FirstName: kernel.FirstName(strings.TrimSpace(info.FirstName)),
		LastName:  kernel.LastName(strings.TrimSpace(info.LastName)),
		Status:    candidate.CandidateStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.candidateRepo.Create(ctx, c); err != nil {
		// Lost a race with a concurrent application from the same address.
		if errx.IsCode(err, candidate.CodeEmailAlreadyExists) {
			existing, getErr := s.candidateRepo.GetByEmail(ctx, email)
			if getErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, errx.Wrap(err, "failed to create candidate", errx.TypeInternal)
	}

	logx.Info("candidate created", logx.String("candidate_id", c.ID.String()))
	return c, true, nil
}

// UpsertFromResume fills empty profile fields from parsed personal info.
func (s *CandidateService) UpsertFromResume(ctx context.Context, id kernel.CandidateID, pi resume.PersonalInfo) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.FillFromResume(pi) {
		return c, nil
	}
	if err := s.candidateRepo.Update(ctx, c); err != nil {
		return nil, errx.Wrap(err, "failed to update candidate", errx.TypeInternal)
	}
	return c, nil
}

func (s *CandidateService) GetCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}

// GetCandidateWithApplications returns the profile and application history.
func (s *CandidateService) GetCandidateWithApplications(ctx context.Context, id kernel.CandidateID) (*candidate.CandidateDetailsResponse, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	apps, err := s.ListApplicationsOfCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return &candidate.CandidateDetailsResponse{Candidate: *c, Applications: apps}, nil
}

func (s *CandidateService) ListApplicationsOfCandidate(ctx context.Context, id kernel.CandidateID) ([]candidate.CandidateApplication, error) {
	apps, err := s.candidateRepo.ListApplications(ctx, id)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list candidate applications", errx.TypeInternal)
	}
	if apps == nil {
		apps = []candidate.CandidateApplication{}
	}
	return apps, nil
}

func (s *CandidateService) ListCandidates(ctx context.Context, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Candidate], error) {
	page, err := s.candidateRepo.List(ctx, strings.TrimSpace(query), pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list candidates", errx.TypeInternal)
	}
	return page, nil
}

func (s *CandidateService) ArchiveCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, err := s.candidateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.Archive(); err != nil {
		return nil, err
	}
	if err := s.candidateRepo.Update(ctx, c); err != nil {
		return nil, errx.Wrap(err, "failed to archive candidate", errx.TypeInternal)
	}
	return c, nil
}
