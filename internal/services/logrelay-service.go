package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper"
	"github.com/DimaKostyrskyj/PriceBot/internal/interfaces"
)

// LogRelayService consumes audit events and mirrors them into the logs
// channel as embeds. Posting is best-effort, an unset or deleted channel
// drops the event.
type LogRelayService struct {
	settings  SettingsService
	messenger interfaces.Messenger
}

func NewLogRelayService(settings SettingsService, messenger interfaces.Messenger) *LogRelayService {
	return &LogRelayService{
		settings:  settings,
		messenger: messenger,
	}
}

var _ interfaces.ConsumerHandler = (*LogRelayService)(nil)

func (s *LogRelayService) HandleMessage(message string) error {
	var event dto.AuditEvent
	if err := json.Unmarshal([]byte(message), &event); err != nil {
		return fmt.Errorf("bad audit event payload: %w", err)
	}

	logsChannel := s.settings.ChannelID("logs_channel_id")
	if logsChannel == "" {
		return nil
	}

	card := dto.Card{
		Title:       s.title(event),
		Description: helper.MentionUser(event.ActorID) + " • " + event.Entity + " " + event.Action,
		Fields: []dto.CardField{
			{Name: "Actor", Value: helper.MentionUser(event.ActorID), Inline: true},
			{Name: "Entity", Value: event.Entity + " " + event.EntityID, Inline: true},
		},
		Color:     s.color(event.Action),
		Timestamp: true,
	}
	if event.Note != "" {
		card.Fields = append(card.Fields, dto.CardField{Name: "Note", Value: event.Note})
	}

	if _, err := s.messenger.PostCard(logsChannel, "", card, dto.ControlsNone, ""); err != nil {
		log.Printf("log relay post error: %v", err)
	}
	return nil
}

func (s *LogRelayService) title(event dto.AuditEvent) string {
	switch event.Action {
	case "approved":
		return "🟢 " + event.Entity + " approved"
	case "rejected":
		return "🔴 " + event.Entity + " rejected"
	case "under_review":
		return "🟠 " + event.Entity + " under review"
	default:
		return "📋 " + event.Entity + " " + event.Action
	}
}

func (s *LogRelayService) color(action string) int {
	switch action {
	case "approved", "started", "finished":
		return s.settings.Color("success")
	case "rejected":
		return s.settings.Color("error")
	case "under_review":
		return s.settings.Color("warning")
	default:
		return s.settings.Color("info")
	}
}
