package discordbot

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/interfaces"
	"github.com/bwmarrin/discordgo"
)

// Bot wraps the gateway session and implements the Messenger and
// GuildDirectory collaborators the services depend on.
type Bot struct {
	session *discordgo.Session
	guildID string
}

var (
	_ interfaces.Messenger      = (*Bot)(nil)
	_ interfaces.GuildDirectory = (*Bot)(nil)
)

func New(token, guildID string) (*Bot, error) {
	if token == "" {
		return nil, errors.New("discord bot token is required")
	}
	if guildID == "" {
		return nil, errors.New("discord guild id is required")
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	return &Bot{
		session: session,
		guildID: guildID,
	}, nil
}

func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway session: %w", err)
	}
	log.Printf("gateway connected as %s", b.session.State.User.Username)
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// ---------- Messenger ----------

func (b *Bot) PostCard(channelID, content string, card dto.Card, controls dto.ControlSet, ref string) (string, error) {
	msg, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Embeds:     []*discordgo.MessageEmbed{toEmbed(card)},
		Components: buildControls(controls, ref),
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (b *Bot) EditCard(channelID, messageID string, card dto.Card, controls dto.ControlSet, ref string) error {
	embeds := []*discordgo.MessageEmbed{toEmbed(card)}
	components := buildControls(controls, ref) // empty slice strips the buttons

	edit := discordgo.NewMessageEdit(channelID, messageID)
	edit.Embeds = &embeds
	edit.Components = &components

	_, err := b.session.ChannelMessageEditComplex(edit)
	return err
}

func (b *Bot) SendDM(userID string, card dto.Card) error {
	channel, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return err
	}
	_, err = b.session.ChannelMessageSendEmbed(channel.ID, toEmbed(card))
	return err
}

func (b *Bot) CreateThread(channelID, messageID, name string) (string, error) {
	thread, err := b.session.MessageThreadStartComplex(channelID, messageID, &discordgo.ThreadStart{
		Name:                name,
		AutoArchiveDuration: 1440, // 24h
	})
	if err != nil {
		return "", err
	}
	return thread.ID, nil
}

func (b *Bot) PostToThread(threadID, content string) error {
	_, err := b.session.ChannelMessageSend(threadID, content)
	return err
}

func (b *Bot) PinMessage(channelID, messageID string) error {
	msg, err := b.session.ChannelMessage(channelID, messageID)
	if err != nil {
		return err
	}
	if msg.Pinned {
		return nil
	}
	return b.session.ChannelMessagePin(channelID, messageID)
}

// ---------- GuildDirectory ----------

func (b *Bot) MemberRoleIDs(userID string) ([]string, error) {
	if member, err := b.session.State.Member(b.guildID, userID); err == nil {
		return member.Roles, nil
	}

	member, err := b.session.GuildMember(b.guildID, userID)
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}

func (b *Bot) AddRole(userID, roleID string) error {
	return b.session.GuildMemberRoleAdd(b.guildID, userID, roleID)
}

func (b *Bot) RoleName(roleID string) string {
	role, err := b.session.State.Role(b.guildID, roleID)
	if err != nil {
		return roleID
	}
	return role.Name
}

// ---------- rendering ----------

func toEmbed(card dto.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       card.Title,
		Description: card.Description,
		Color:       card.Color,
	}

	for _, f := range card.Fields {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   f.Name,
			Value:  f.Value,
			Inline: f.Inline,
		})
	}

	if card.Footer != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: card.Footer}
	}
	if card.ImageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: card.ImageURL}
	}
	if card.Timestamp {
		embed.Timestamp = time.Now().Format(time.RFC3339)
	}

	return embed
}

// Control custom ids carry the entity public id so a click routes back to the
// record, never to whatever the card happens to display.
func buildControls(controls dto.ControlSet, ref string) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent

	switch controls {
	case dto.ControlsApply:
		buttons = []discordgo.MessageComponent{
			discordgo.Button{Label: "✨ 📝 Apply to the family", Style: discordgo.PrimaryButton, CustomID: "apply"},
		}
	case dto.ControlsReview:
		buttons = []discordgo.MessageComponent{
			discordgo.Button{Label: "📋 Review", Style: discordgo.PrimaryButton, CustomID: "app_review:" + ref},
			discordgo.Button{Label: "✅ Approve", Style: discordgo.SuccessButton, CustomID: "app_approve:" + ref},
			discordgo.Button{Label: "❌ Reject", Style: discordgo.DangerButton, CustomID: "app_reject:" + ref},
		}
	case dto.ControlsContractCreate:
		buttons = []discordgo.MessageComponent{
			discordgo.Button{Label: "📋 Create contract", Style: discordgo.SuccessButton, CustomID: "contract_create"},
		}
	case dto.ControlsContractSignup:
		buttons = []discordgo.MessageComponent{
			discordgo.Button{Label: "🟢 Sign up", Style: discordgo.SuccessButton, CustomID: "contract_join:" + ref},
			discordgo.Button{Label: "🔴 Withdraw", Style: discordgo.DangerButton, CustomID: "contract_leave:" + ref},
			discordgo.Button{Label: "▶️ Start contract", Style: discordgo.PrimaryButton, CustomID: "contract_start:" + ref},
		}
	case dto.ControlsContractFinish:
		buttons = []discordgo.MessageComponent{
			discordgo.Button{Label: "⏹️ Finish", Style: discordgo.DangerButton, CustomID: "contract_finish:" + ref},
		}
	default:
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: buttons},
	}
}
