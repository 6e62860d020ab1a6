package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// Application is a membership application submitted through the apply form.
// The review card posted to the review channel is a projection of this record,
// never the other way around.
type Application struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_id"`

	ApplicantID   string `gorm:"type:varchar(32);not null;index" json:"applicant_id"`
	ApplicantName string `gorm:"type:varchar(100)" json:"applicant_name"`

	// Form fields. Age is stored as submitted, no numeric validation.
	CharacterName string `gorm:"type:varchar(50);not null" json:"character_name"`
	CharacterAge  string `gorm:"type:varchar(3);not null" json:"character_age"`
	Experience    string `gorm:"type:varchar(500);not null" json:"experience"`
	Motivation    string `gorm:"type:varchar(500);not null" json:"motivation"`
	About         string `gorm:"type:varchar(500);not null" json:"about"`

	Status       ApplicationStatus `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`
	ReviewerID   *string           `gorm:"type:varchar(32)" json:"reviewer_id,omitempty"`
	RejectReason *string           `gorm:"type:text" json:"reject_reason,omitempty"`

	CardChannelID string `gorm:"type:varchar(32)" json:"card_channel_id"`
	CardMessageID string `gorm:"type:varchar(32)" json:"card_message_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Open reports whether the application still accepts review actions.
func (a *Application) Open() bool {
	return a.Status == ApplicationStatusSubmitted || a.Status == ApplicationStatusUnderReview
}
