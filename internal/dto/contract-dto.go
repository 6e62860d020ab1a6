package dto

// ContractPublishForm carries the four fields of the publish modal. The three
// compound fields are "/"-separated pairs, split by the service.
type ContractPublishForm struct {
	Title              string `json:"title"`
	Reward             string `json:"reward"`               // money / promissory notes
	ValidityAndRuntime string `json:"validity_and_runtime"` // valid until / contract duration
	CompleteAndChance  string `json:"complete_and_chance"`  // complete within / success chance
}

type ContractResponse struct {
	PublicID       string   `json:"public_id"`
	Title          string   `json:"title"`
	RewardMoney    string   `json:"reward_money"`
	RewardNotes    string   `json:"reward_notes"`
	ValidUntil     string   `json:"valid_until"`
	Duration       string   `json:"duration"`
	CompleteWithin string   `json:"complete_within"`
	Chance         string   `json:"chance"`
	Status         string   `json:"status"`
	CreatedBy      string   `json:"created_by"`
	Participants   []string `json:"participants"`
	CreatedAt      string   `json:"created_at"`
}
