package dto

type SettingUpdateRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value" validate:"required"`
}

type AuditLogResponse struct {
	ActorID   string `json:"actor_id"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  string `json:"entity_id"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}
