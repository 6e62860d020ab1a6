package dto

// AuditEvent is the payload published to the audit topic and consumed by the
// log relay.
type AuditEvent struct {
	ActorID  string `json:"actor_id"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
	Note     string `json:"note,omitempty"`
	At       string `json:"at"`
}
