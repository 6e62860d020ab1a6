package interfaces

import "github.com/DimaKostyrskyj/PriceBot/internal/dto"

// Messenger is the rendering side of the chat platform. The ref argument is
// the entity public id carried in the control custom ids so a click can be
// routed back to the right record.
type Messenger interface {
	PostCard(channelID, content string, card dto.Card, controls dto.ControlSet, ref string) (messageID string, err error)
	EditCard(channelID, messageID string, card dto.Card, controls dto.ControlSet, ref string) error
	SendDM(userID string, card dto.Card) error
	CreateThread(channelID, messageID, name string) (threadID string, err error)
	PostToThread(threadID, content string) error
	PinMessage(channelID, messageID string) error
}

// GuildDirectory is the membership side of the chat platform.
type GuildDirectory interface {
	MemberRoleIDs(userID string) ([]string, error)
	AddRole(userID, roleID string) error
	RoleName(roleID string) string
}
