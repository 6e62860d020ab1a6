package discordbot

import (
	"errors"
	"log"
	"strings"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/services"
	"github.com/bwmarrin/discordgo"
)

// Router wires gateway events to the workflow services.
type Router struct {
	bot       *Bot
	settings  services.SettingsService
	perms     services.PermissionService
	apps      services.ApplicationService
	contracts services.ContractService
	welcome   services.WelcomeService
}

func NewRouter(
	bot *Bot,
	settings services.SettingsService,
	perms services.PermissionService,
	apps services.ApplicationService,
	contracts services.ContractService,
	welcome services.WelcomeService,
) *Router {
	return &Router{
		bot:       bot,
		settings:  settings,
		perms:     perms,
		apps:      apps,
		contracts: contracts,
		welcome:   welcome,
	}
}

func (r *Router) Register() {
	r.bot.session.AddHandler(r.onInteractionCreate)
	r.bot.session.AddHandler(r.onMessageCreate)
	r.bot.session.AddHandler(r.onGuildMemberAdd)
}

func (r *Router) onGuildMemberAdd(s *discordgo.Session, m *discordgo.GuildMemberAdd) {
	if m.User.Bot {
		return
	}
	r.welcome.OnMemberJoin(m.User.ID, m.User.Username, m.User.AvatarURL("512"))
}

func (r *Router) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		r.handleComponent(s, i)
	case discordgo.InteractionModalSubmit:
		r.handleModal(s, i)
	}
}

func (r *Router) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	action, ref, _ := strings.Cut(customID, ":")

	switch action {
	case "apply":
		r.openApplicationModal(s, i)
	case "contract_create":
		r.openContractModal(s, i)
	case "app_review":
		err := r.apps.MarkUnderReview(actorID(i), ref)
		r.reply(s, i, "✅ You took the application for review.", err)
	case "app_approve":
		warning, err := r.apps.Approve(actorID(i), ref)
		msg := "✅ Application approved! The applicant has been notified."
		if warning != "" {
			msg += "\n⚠️ " + warning
		}
		r.reply(s, i, msg, err)
	case "app_reject":
		r.openRejectModal(s, i, ref)
	case "contract_join":
		err := r.contracts.Enroll(actorID(i), ref)
		r.reply(s, i, "✅ You signed up for the contract!", err)
	case "contract_leave":
		err := r.contracts.Withdraw(actorID(i), ref)
		r.reply(s, i, "✅ You withdrew from the contract!", err)
	case "contract_start":
		err := r.contracts.Start(actorID(i), ref)
		r.reply(s, i, "✅ Contract started!", err)
	case "contract_finish":
		err := r.contracts.Finish(actorID(i), ref)
		r.reply(s, i, "✅ Contract finished!", err)
	}
}

func (r *Router) handleModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	action, ref, _ := strings.Cut(data.CustomID, ":")

	switch action {
	case "apply_modal":
		form := dto.ApplicationForm{
			CharacterName: modalValue(data, "character_name"),
			CharacterAge:  modalValue(data, "character_age"),
			Experience:    modalValue(data, "experience"),
			Motivation:    modalValue(data, "motivation"),
			About:         modalValue(data, "about"),
		}
		_, err := r.apps.Submit(actorID(i), actorName(i), form)
		r.reply(s, i, "✅ Your application has been sent for review!", err)
	case "reject_modal":
		err := r.apps.Reject(actorID(i), ref, modalValue(data, "reason"))
		r.reply(s, i, "✅ Application rejected. The applicant has been notified.", err)
	case "contract_modal":
		form := dto.ContractPublishForm{
			Title:              modalValue(data, "title"),
			Reward:             modalValue(data, "reward"),
			ValidityAndRuntime: modalValue(data, "validity_and_runtime"),
			CompleteAndChance:  modalValue(data, "complete_and_chance"),
		}
		contract, err := r.contracts.Publish(actorID(i), form)
		msg := ""
		if err == nil {
			msg = "✅ Contract \"" + contract.Title + "\" has been published!"
		}
		r.reply(s, i, msg, err)
	}
}

func (r *Router) openApplicationModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "apply_modal",
			Title:    "Application to Price FamQ",
			Components: []discordgo.MessageComponent{
				textInput("character_name", "Your name and surname (RP)", "For example: John Price", discordgo.TextInputShort, 50),
				textInput("character_age", "Character age", "For example: 25", discordgo.TextInputShort, 3),
				textInput("experience", "Experience on the server", "Tell us about your GTA 5 RP experience", discordgo.TextInputParagraph, 500),
				textInput("motivation", "Why do you want to join Price FamQ?", "Tell us why you chose our family", discordgo.TextInputParagraph, 500),
				textInput("about", "Tell us about yourself", "A bit about you and your character", discordgo.TextInputParagraph, 500),
			},
		},
	})
	if err != nil {
		log.Printf("application modal error: %v", err)
	}
}

func (r *Router) openRejectModal(s *discordgo.Session, i *discordgo.InteractionCreate, ref string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "reject_modal:" + ref,
			Title:    "Rejection reason",
			Components: []discordgo.MessageComponent{
				textInput("reason", "State the rejection reason", "Why is the application being rejected", discordgo.TextInputParagraph, 500),
			},
		},
	})
	if err != nil {
		log.Printf("reject modal error: %v", err)
	}
}

func (r *Router) openContractModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: "contract_modal",
			Title:    "🚀 Publish contract",
			Components: []discordgo.MessageComponent{
				textInput("title", "Contract title", "For example: Turquoise dock", discordgo.TextInputShort, 100),
				textInput("reward", "Reward", "For example: $20.000 / 20 notes", discordgo.TextInputShort, 100),
				textInput("validity_and_runtime", "Valid until / Duration", "For example: until 25.12.2024 / 2h 30m", discordgo.TextInputShort, 100),
				textInput("complete_and_chance", "Complete within / Chance", "For example: 4h to 12h / 100%", discordgo.TextInputShort, 100),
			},
		},
	})
	if err != nil {
		log.Printf("contract modal error: %v", err)
	}
}

// reply answers the interaction ephemerally, translating workflow errors
// into user-facing messages.
func (r *Router) reply(s *discordgo.Session, i *discordgo.InteractionCreate, success string, err error) {
	content := success
	if err != nil {
		content = userMessage(err)
		if !domain.IsUserError(err) {
			log.Printf("interaction error: %v", err)
		}
	}

	respondErr := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if respondErr != nil {
		log.Printf("interaction respond error: %v", respondErr)
	}
}

func userMessage(err error) string {
	var ve *domain.ValidationError
	var ce *domain.ConfigurationError

	switch {
	case errors.As(err, &ve):
		return "❌ " + ve.Error()
	case errors.As(err, &ce):
		return "❌ Not configured: " + ce.Setting + ". Contact an administrator."
	case errors.Is(err, domain.ErrPermissionDenied):
		return "❌ You do not have permission for this action!"
	case errors.Is(err, domain.ErrAlreadyEnrolled):
		return "❌ You are already signed up for this contract!"
	case errors.Is(err, domain.ErrNotEnrolled):
		return "❌ You are not signed up for this contract!"
	case errors.Is(err, domain.ErrStateConflict):
		return "❌ This action is no longer available, the state has changed."
	case errors.Is(err, domain.ErrNotFound):
		return "❌ Record not found."
	default:
		return "❌ Something went wrong, try again later."
	}
}

func textInput(customID, label, placeholder string, style discordgo.TextInputStyle, maxLength int) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    customID,
				Label:       label,
				Placeholder: placeholder,
				Style:       style,
				Required:    true,
				MaxLength:   maxLength,
			},
		},
	}
}

func modalValue(data discordgo.ModalSubmitInteractionData, customID string) string {
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok && input.CustomID == customID {
				return input.Value
			}
		}
	}
	return ""
}

func actorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func actorName(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}
