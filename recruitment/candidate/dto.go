package candidate

// ApplicantInfo is the contact data typed by an applicant on the apply form.
type ApplicantInfo struct {
	Email     string `json:"email" form:"email"`
	FirstName string `json:"first_name" form:"first_name"`
	LastName  string `json:"last_name" form:"last_name"`
	Phone     string `json:"phone" form:"phone"`
}

type CandidateDetailsResponse struct {
	Candidate
	Applications []CandidateApplication `json:"applications"`
}
