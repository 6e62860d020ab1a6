package dto

// ApplicationForm carries the five fields of the apply modal.
type ApplicationForm struct {
	CharacterName string `json:"character_name"`
	CharacterAge  string `json:"character_age"`
	Experience    string `json:"experience"`
	Motivation    string `json:"motivation"`
	About         string `json:"about"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

type ApplicationResponse struct {
	PublicID      string  `json:"public_id"`
	ApplicantID   string  `json:"applicant_id"`
	ApplicantName string  `json:"applicant_name"`
	CharacterName string  `json:"character_name"`
	CharacterAge  string  `json:"character_age"`
	Status        string  `json:"status"`
	ReviewerID    *string `json:"reviewer_id,omitempty"`
	RejectReason  *string `json:"reject_reason,omitempty"`
	SubmittedAt   string  `json:"submitted_at"`
}
