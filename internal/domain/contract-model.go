package domain

import "time"

type ContractStatus string

const (
	ContractStatusOpen     ContractStatus = "open"
	ContractStatusStarted  ContractStatus = "started"
	ContractStatusFinished ContractStatus = "finished"
)

// Contract is a published task-board contract. Reward, duration and chance
// fields are opaque strings, the bot records and displays them but never
// computes on them.
type Contract struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PublicID string `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_id"`

	Title string `gorm:"type:varchar(100);not null" json:"title"`

	RewardMoney string `gorm:"type:varchar(100);not null" json:"reward_money"`
	RewardNotes string `gorm:"type:varchar(100);not null" json:"reward_notes"`

	ValidUntil     string `gorm:"type:varchar(100);not null" json:"valid_until"`
	Duration       string `gorm:"type:varchar(100);not null" json:"duration"`
	CompleteWithin string `gorm:"type:varchar(100);not null" json:"complete_within"`
	Chance         string `gorm:"type:varchar(100);not null" json:"chance"`

	Status    ContractStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedBy string         `gorm:"type:varchar(32);not null" json:"created_by"`

	CardChannelID string `gorm:"type:varchar(32)" json:"card_channel_id"`
	CardMessageID string `gorm:"type:varchar(32)" json:"card_message_id"`
	ThreadID      string `gorm:"type:varchar(32)" json:"thread_id"`

	Participants []ContractParticipant `gorm:"foreignKey:ContractID" json:"participants"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ContractParticipant is one roster entry. The composite unique index keeps a
// user on a roster at most once.
type ContractParticipant struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ContractID uint      `gorm:"not null;uniqueIndex:idx_contract_user" json:"contract_id"`
	UserID     string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_contract_user" json:"user_id"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Contract) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
