package discordbot

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper"
	"github.com/DimaKostyrskyj/PriceBot/internal/services"
	"github.com/bwmarrin/discordgo"
)

var (
	channelMentionRe = regexp.MustCompile(`^<#(\d+)>$`)
	roleMentionRe    = regexp.MustCompile(`^<@&(\d+)>$`)
	digitsRe         = regexp.MustCompile(`^\d+$`)
)

// channelSettings and roleSettings map a !config argument to its setting key.
// Role-set settings accumulate ids, single-role settings replace.
var channelSettings = map[string]string{
	"welcome_channel":           "welcome_channel_id",
	"application_channel":       "application_channel_id",
	"review_channel":            "review_channel_id",
	"logs_channel":              "logs_channel_id",
	"contracts_channel":         "contracts_channel_id",
	"contracts_members_channel": "contracts_members_channel_id",
}

var roleListSettings = map[string]string{
	"moderator_role": "moderator_role_ids",
	"dev_role":       "dev_role_ids",
	"owner_role":     "owner_role_ids",
	"dep_owner_role": "dep_owner_role_ids",
}

var singleRoleSettings = map[string]string{
	"member_role":   "member_role_id",
	"auto_role":     "auto_role_id",
	"family_role":   "family_role_id",
	"contract_role": "contract_role_id",
}

func (r *Router) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	prefix := r.settings.String("prefix", "!")
	if !strings.HasPrefix(m.Content, prefix) {
		return
	}

	args := strings.Fields(strings.TrimPrefix(m.Content, prefix))
	if len(args) == 0 {
		return
	}

	switch args[0] {
	case "setup_application":
		r.requireConfig(s, m, func() { r.cmdSetupApplication(s, m) })
	case "contract":
		r.requireConfig(s, m, func() { r.cmdContractButton(s, m) })
	case "config":
		r.requireConfig(s, m, func() { r.cmdConfig(s, m, args[1:]) })
	case "reload":
		r.requireConfig(s, m, func() { r.cmdReload(s, m) })
	case "status":
		r.cmdStatus(s, m)
	case "help":
		r.cmdHelp(s, m)
	}
}

func (r *Router) requireConfig(s *discordgo.Session, m *discordgo.MessageCreate, run func()) {
	roleIDs, err := r.bot.MemberRoleIDs(m.Author.ID)
	if err != nil {
		r.send(s, m.ChannelID, "❌ Could not resolve your roles.")
		return
	}
	if !r.perms.HasCapability(roleIDs, services.CapUseConfig) {
		r.send(s, m.ChannelID, "❌ This command requires the Owner or Developer role.")
		return
	}
	run()
}

func (r *Router) cmdSetupApplication(s *discordgo.Session, m *discordgo.MessageCreate) {
	card := dto.Card{
		Title:       "📝 Application to Price FamQ",
		Description: "👋 Want to become part of our family? Fill in the application below.",
		Fields: []dto.CardField{
			{Name: "📋 Requirements", Value: "• 🎂 Age 16+\n• 🎤 Microphone required\n• 🎭 RP basics\n• ⚡ Server activity"},
			{Name: "✅ After approval", Value: "You will receive the **Price Academy** role and can start your journey in the family!"},
		},
		Color:  r.settings.Color("primary"),
		Footer: "💎 Price FamQ • Press the button below",
	}

	if _, err := r.bot.PostCard(m.ChannelID, "", card, dto.ControlsApply, ""); err != nil {
		log.Printf("setup_application error: %v", err)
		r.send(s, m.ChannelID, "❌ Could not post the application message.")
		return
	}

	// tidy up the invoking command
	_ = s.ChannelMessageDelete(m.ChannelID, m.ID)
}

func (r *Router) cmdContractButton(s *discordgo.Session, m *discordgo.MessageCreate) {
	card := dto.Card{
		Title:       "📋 Contract publishing",
		Description: "Press the button below to open the contract form.",
		Color:       r.settings.Color("primary"),
		Footer:      "💎 Price FamQ",
	}

	messageID, err := r.bot.PostCard(m.ChannelID, "", card, dto.ControlsContractCreate, "")
	if err != nil {
		log.Printf("contract button error: %v", err)
		r.send(s, m.ChannelID, "❌ Could not post the contract button.")
		return
	}

	// remembered for the periodic re-pin
	if err := r.settings.Set("contracts_channel_id", m.ChannelID); err != nil {
		log.Printf("save contracts channel error: %v", err)
	}
	if err := r.settings.Set("contracts_setup_message_id", messageID); err != nil {
		log.Printf("save contracts setup message error: %v", err)
	}

	_ = s.ChannelMessageDelete(m.ChannelID, m.ID)
}

func (r *Router) cmdConfig(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		r.showConfig(s, m)
		return
	}

	setting := args[0]
	value := ""
	if len(args) > 1 {
		value = args[1]
	}

	if key, ok := channelSettings[setting]; ok {
		id, ok := parseRef(value, channelMentionRe)
		if !ok {
			r.send(s, m.ChannelID, "❌ Provide a channel (#channel) or a channel id")
			return
		}
		r.saveSetting(s, m, key, id, "✅ Channel set: "+helper.MentionChannel(id))
		return
	}

	if key, ok := roleListSettings[setting]; ok {
		id, ok := parseRef(value, roleMentionRe)
		if !ok {
			r.send(s, m.ChannelID, "❌ Provide a role (@role) or a role id")
			return
		}
		ids := r.settings.RoleIDs(key)
		for _, existing := range ids {
			if existing == id {
				r.send(s, m.ChannelID, "❌ That role is already configured")
				return
			}
		}
		ids = append(ids, id)
		encoded, _ := json.Marshal(ids)
		r.saveSetting(s, m, key, string(encoded), "✅ Role added: "+helper.MentionRole(id))
		return
	}

	if key, ok := singleRoleSettings[setting]; ok {
		id, ok := parseRef(value, roleMentionRe)
		if !ok {
			r.send(s, m.ChannelID, "❌ Provide a role (@role) or a role id")
			return
		}
		r.saveSetting(s, m, key, id, "✅ Role set: "+helper.MentionRole(id))
		return
	}

	if setting == "logo" {
		if value == "" {
			r.send(s, m.ChannelID, "❌ Provide the logo URL")
			return
		}
		r.saveSetting(s, m, "logo_url", value, "✅ Logo set")
		return
	}

	r.send(s, m.ChannelID, "❌ Unknown setting: "+setting)
}

func (r *Router) saveSetting(s *discordgo.Session, m *discordgo.MessageCreate, key, value, confirmation string) {
	if err := r.settings.Set(key, value); err != nil {
		log.Printf("save setting %s error: %v", key, err)
		r.send(s, m.ChannelID, "❌ Could not save the setting.")
		return
	}
	r.send(s, m.ChannelID, confirmation)
}

func (r *Router) showConfig(s *discordgo.Session, m *discordgo.MessageCreate) {
	channels := fmt.Sprintf("**Welcome:** %s\n**Applications:** %s\n**Review:** %s\n**Logs:** %s\n**Contracts:** %s\n**Contract members:** %s",
		channelOrUnset(r.settings.ChannelID("welcome_channel_id")),
		channelOrUnset(r.settings.ChannelID("application_channel_id")),
		channelOrUnset(r.settings.ChannelID("review_channel_id")),
		channelOrUnset(r.settings.ChannelID("logs_channel_id")),
		channelOrUnset(r.settings.ChannelID("contracts_channel_id")),
		channelOrUnset(r.settings.ChannelID("contracts_members_channel_id")))

	roles := fmt.Sprintf("**Moderators (REC):** %s\n**Member (Price Academy):** %s\n**Auto-role (Friends):** %s\n**Family:** %s\n**Contract:** %s\n**Developer:** %s\n**Owner:** %s\n**Dep.Owner:** %s",
		roleListOrUnset(r.settings.RoleIDs("moderator_role_ids")),
		roleOrUnset(r.settings.RoleID("member_role_id")),
		roleOrUnset(r.settings.RoleID("auto_role_id")),
		roleOrUnset(r.settings.RoleID("family_role_id")),
		roleOrUnset(r.settings.RoleID("contract_role_id")),
		roleListOrUnset(r.settings.RoleIDs("dev_role_ids")),
		roleListOrUnset(r.settings.RoleIDs("owner_role_ids")),
		roleListOrUnset(r.settings.RoleIDs("dep_owner_role_ids")))

	card := dto.Card{
		Title:       "⚙️ Price FamQ bot configuration",
		Description: "Current settings:",
		Fields: []dto.CardField{
			{Name: "📺 Channels", Value: channels},
			{Name: "🎭 Roles", Value: roles},
			{Name: "📝 Setup commands", Value: "```\n!config welcome_channel #channel\n!config review_channel #channel\n!config logs_channel #channel\n!config contracts_members_channel #channel\n!config moderator_role @role\n!config member_role @role\n!config contract_role @role\n!config owner_role @role\n!config logo <URL>\n```"},
		},
		Color: r.settings.Color("primary"),
	}

	if _, err := r.bot.PostCard(m.ChannelID, "", card, dto.ControlsNone, ""); err != nil {
		log.Printf("show config error: %v", err)
	}
}

func (r *Router) cmdReload(s *discordgo.Session, m *discordgo.MessageCreate) {
	if err := r.settings.Reload(); err != nil {
		log.Printf("settings reload error: %v", err)
		r.send(s, m.ChannelID, "❌ Reload failed.")
		return
	}
	r.send(s, m.ChannelID, "✅ Configuration reloaded.")
}

func (r *Router) cmdStatus(s *discordgo.Session, m *discordgo.MessageCreate) {
	roleIDs, _ := r.bot.MemberRoleIDs(m.Author.ID)

	card := dto.Card{
		Title: "🤖 Bot status",
		Fields: []dto.CardField{
			{Name: "Gateway", Value: "✅ connected", Inline: true},
			{Name: "Your level", Value: r.perms.TierName(roleIDs), Inline: true},
		},
		Color:  r.settings.Color("info"),
		Footer: "💎 Price FamQ",
	}
	if logo := r.settings.String("logo_url", ""); logo != "" {
		card.ImageURL = logo
	}

	if _, err := r.bot.PostCard(m.ChannelID, "", card, dto.ControlsNone, ""); err != nil {
		log.Printf("status error: %v", err)
	}
}

func (r *Router) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	card := dto.Card{
		Title: "📖 Commands",
		Fields: []dto.CardField{
			{Name: "!setup_application", Value: "Post the application button (Owner/Developer)"},
			{Name: "!contract", Value: "Post the contract creation button (Owner/Developer)"},
			{Name: "!config", Value: "Show or change the bot configuration (Owner/Developer)"},
			{Name: "!reload", Value: "Reload the configuration (Owner/Developer)"},
			{Name: "!status", Value: "Bot status and your permission level"},
		},
		Color:  r.settings.Color("primary"),
		Footer: "💎 Price FamQ",
	}

	if _, err := r.bot.PostCard(m.ChannelID, "", card, dto.ControlsNone, ""); err != nil {
		log.Printf("help error: %v", err)
	}
}

func (r *Router) send(s *discordgo.Session, channelID, content string) {
	if _, err := s.ChannelMessageSend(channelID, content); err != nil {
		log.Printf("message send error: %v", err)
	}
}

// parseRef accepts a mention matching re or a bare id.
func parseRef(value string, re *regexp.Regexp) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	if match := re.FindStringSubmatch(value); match != nil {
		return match[1], true
	}
	if digitsRe.MatchString(value) {
		return value, true
	}
	return "", false
}

func channelOrUnset(id string) string {
	if id == "" {
		return "Not configured"
	}
	return helper.MentionChannel(id)
}

func roleOrUnset(id string) string {
	if id == "" {
		return "Not configured"
	}
	return helper.MentionRole(id)
}

func roleListOrUnset(ids []string) string {
	if len(ids) == 0 {
		return "Not configured"
	}
	mentions := make([]string, 0, len(ids))
	for _, id := range ids {
		mentions = append(mentions, helper.MentionRole(id))
	}
	return strings.Join(mentions, ", ")
}
