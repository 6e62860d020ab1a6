package services

import (
	"log"

	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper"
	"github.com/DimaKostyrskyj/PriceBot/internal/interfaces"
)

type WelcomeService interface {
	OnMemberJoin(userID, username, avatarURL string)
}

type welcomeService struct {
	settings  SettingsService
	messenger interfaces.Messenger
	directory interfaces.GuildDirectory
	audit     AuditService
}

func NewWelcomeService(
	settings SettingsService,
	messenger interfaces.Messenger,
	directory interfaces.GuildDirectory,
	audit AuditService,
) WelcomeService {
	return &welcomeService{
		settings:  settings,
		messenger: messenger,
		directory: directory,
		audit:     audit,
	}
}

// OnMemberJoin grants the auto role and posts the welcome card. Everything
// here is best-effort, a missing channel or role is a no-op.
func (s *welcomeService) OnMemberJoin(userID, username, avatarURL string) {
	if autoRole := s.settings.RoleID("auto_role_id"); autoRole != "" {
		if err := s.directory.AddRole(userID, autoRole); err != nil {
			log.Printf("auto role grant error for %s: %v", username, err)
		}
	}

	s.audit.Record(userID, "member", userID, "joined", username)

	welcomeChannel := s.settings.ChannelID("welcome_channel_id")
	if welcomeChannel == "" {
		return
	}

	applicationChannel := s.settings.ChannelID("application_channel_id")

	description := "## 👋 Welcome, " + helper.MentionUser(userID) + "!\n\n" +
		"✨ **We are glad to have you in Price FamQ!**\n\n" +
		"You now carry the **Friends** role and can start your journey in our family.\n\n"
	if applicationChannel != "" {
		description += "**📝 Want to join the family?**\n" +
			"Submit an application in " + helper.MentionChannel(applicationChannel) +
			" and become part of **Price Academy**!"
	}

	card := dto.Card{
		Description: description,
		Color:       s.settings.Color("primary"),
		ImageURL:    avatarURL,
		Footer:      "💎 Price FamQ",
	}

	if _, err := s.messenger.PostCard(welcomeChannel, "", card, dto.ControlsNone, ""); err != nil {
		log.Printf("welcome card error: %v", err)
	}
}
