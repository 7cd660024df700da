package contact

import "contact-pipeline/internal/domain/entity"

// SubmissionDTO is a stored submission as the admin API returns it.
type SubmissionDTO struct {
	ID             string           `json:"id" example:"6b1f3c0e-2a8d-4d55-9a59-0b7b1a2f3c4d"`
	Name           string           `json:"name" example:"Jo"`
	Email          string           `json:"email" example:"jo@example.com"`
	Message        string           `json:"message" example:"Hello there, testing."`
	SubmissionDate entity.Timestamp `json:"submissionDate"`
}

func toDTO(s *entity.Submission) SubmissionDTO {
	return SubmissionDTO{
		ID:             s.ID,
		Name:           s.Name,
		Email:          s.Email,
		Message:        s.Message,
		SubmissionDate: s.Timestamp(),
	}
}

// listResponse wraps the list so the total is available without counting
// client-side.
type listResponse struct {
	Submissions []SubmissionDTO `json:"submissions"`
	Total       int             `json:"total" example:"1"`
}
