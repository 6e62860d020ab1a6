package dto

// Card is the platform-agnostic rendering payload. The gateway layer maps it
// to an embed; services never touch rendering markup beyond mention tags.
type Card struct {
	Title       string
	Description string
	Fields      []CardField
	Color       int
	Footer      string
	ImageURL    string
	Timestamp   bool
}

type CardField struct {
	Name   string
	Value  string
	Inline bool
}

// ControlSet names the interactive controls attached to a card. The gateway
// layer owns the mapping to actual buttons.
type ControlSet string

const (
	ControlsNone           ControlSet = ""
	ControlsApply          ControlSet = "apply"
	ControlsReview         ControlSet = "review"
	ControlsContractCreate ControlSet = "contract_create"
	ControlsContractSignup ControlSet = "contract_signup"
	ControlsContractFinish ControlSet = "contract_finish"
)
