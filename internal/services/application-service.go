package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/helper"
	"github.com/DimaKostyrskyj/PriceBot/internal/interfaces"
	"github.com/DimaKostyrskyj/PriceBot/internal/repository"
	"github.com/google/uuid"
)

type ApplicationService interface {
	Submit(applicantID, applicantName string, form dto.ApplicationForm) (*domain.Application, error)
	MarkUnderReview(reviewerID, publicID string) error
	// Approve returns a warning for the reviewer when a best-effort side
	// effect failed without blocking the transition.
	Approve(reviewerID, publicID string) (string, error)
	Reject(reviewerID, publicID, reason string) error

	ListByStatus(status domain.ApplicationStatus, limit, offset int) ([]dto.ApplicationResponse, error)
}

type applicationService struct {
	repo      repository.ApplicationRepository
	settings  SettingsService
	perms     PermissionService
	messenger interfaces.Messenger
	directory interfaces.GuildDirectory
	audit     AuditService
	locks     *entityLocks
}

func NewApplicationService(
	repo repository.ApplicationRepository,
	settings SettingsService,
	perms PermissionService,
	messenger interfaces.Messenger,
	directory interfaces.GuildDirectory,
	audit AuditService,
) ApplicationService {
	return &applicationService{
		repo:      repo,
		settings:  settings,
		perms:     perms,
		messenger: messenger,
		directory: directory,
		audit:     audit,
		locks:     newEntityLocks(),
	}
}

func (s *applicationService) Submit(applicantID, applicantName string, form dto.ApplicationForm) (*domain.Application, error) {
	name, err := helper.RequireField("character name", form.CharacterName, 50)
	if err != nil {
		return nil, err
	}
	age, err := helper.RequireField("character age", form.CharacterAge, 3)
	if err != nil {
		return nil, err
	}
	experience, err := helper.RequireField("experience", form.Experience, 500)
	if err != nil {
		return nil, err
	}
	motivation, err := helper.RequireField("motivation", form.Motivation, 500)
	if err != nil {
		return nil, err
	}
	about, err := helper.RequireField("about", form.About, 500)
	if err != nil {
		return nil, err
	}

	// The review channel must exist before anything is written, a submission
	// with nowhere to land is aborted, not queued.
	reviewChannel := s.settings.ChannelID("review_channel_id")
	if reviewChannel == "" {
		return nil, &domain.ConfigurationError{Setting: "review_channel_id"}
	}

	app := &domain.Application{
		PublicID:      uuid.NewString(),
		ApplicantID:   applicantID,
		ApplicantName: applicantName,
		CharacterName: name,
		CharacterAge:  age,
		Experience:    experience,
		Motivation:    motivation,
		About:         about,
		Status:        domain.ApplicationStatusSubmitted,
	}

	created, err := s.repo.Create(app)
	if err != nil {
		return nil, err
	}

	content := s.moderatorMentions() + " 📝 New application!"
	messageID, err := s.messenger.PostCard(reviewChannel, content, s.renderCard(created), dto.ControlsReview, created.PublicID)
	if err != nil {
		return nil, fmt.Errorf("failed to post review card: %w", err)
	}
	if err := s.repo.SetCardRef(created.PublicID, reviewChannel, messageID); err != nil {
		log.Printf("set card ref error: %v", err)
	}
	created.CardChannelID = reviewChannel
	created.CardMessageID = messageID

	s.audit.Record(applicantID, "application", created.PublicID, "submitted", "")

	return created, nil
}

func (s *applicationService) MarkUnderReview(reviewerID, publicID string) error {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	if err := s.requireReviewer(reviewerID); err != nil {
		return err
	}

	app, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return err
	}
	if !app.Open() {
		return domain.ErrStateConflict
	}

	// Re-clicking replaces the reviewer marker instead of stacking a second
	// one, the card is regenerated from record state either way.
	if err := s.repo.MarkUnderReview(publicID, reviewerID); err != nil {
		return err
	}

	app.Status = domain.ApplicationStatusUnderReview
	app.ReviewerID = &reviewerID
	s.refreshCard(app, dto.ControlsReview)

	s.audit.Record(reviewerID, "application", publicID, "under_review", "")

	return nil
}

func (s *applicationService) Approve(reviewerID, publicID string) (string, error) {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	if err := s.requireReviewer(reviewerID); err != nil {
		return "", err
	}

	app, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return "", err
	}

	if err := s.repo.Approve(publicID, reviewerID); err != nil {
		return "", err
	}

	app.Status = domain.ApplicationStatusApproved
	app.ReviewerID = &reviewerID

	// Role grant is best-effort: a failure is reported back to the reviewer
	// but the approval stands.
	var warning string
	memberRole := s.settings.RoleID("member_role_id")
	if memberRole != "" {
		if err := s.directory.AddRole(app.ApplicantID, memberRole); err != nil {
			log.Printf("member role grant error: %v", err)
			warning = "could not grant the member role, check the bot permissions"
		}
	}

	s.notifyApplicant(app.ApplicantID, dto.Card{
		Title:       "✅ Application approved!",
		Description: "🎉 **Congratulations! You have been accepted into Price FamQ!**",
		Fields: []dto.CardField{
			{Name: "👋 Welcome", Value: "You have been given the **Price Academy** role. Start your journey in the family!"},
		},
		Color:  s.settings.Color("success"),
		Footer: "💎 Price FamQ",
	})

	s.refreshCard(app, dto.ControlsNone)

	s.audit.Record(reviewerID, "application", publicID, "approved", "")

	return warning, nil
}

func (s *applicationService) Reject(reviewerID, publicID, reason string) error {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	if err := s.requireReviewer(reviewerID); err != nil {
		return err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return &domain.ValidationError{Field: "reason", Reason: "required"}
	}

	app, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return err
	}

	if err := s.repo.Reject(publicID, reviewerID, reason); err != nil {
		return err
	}

	app.Status = domain.ApplicationStatusRejected
	app.ReviewerID = &reviewerID
	app.RejectReason = &reason

	s.notifyApplicant(app.ApplicantID, dto.Card{
		Title:       "❌ Application rejected",
		Description: "😔 Your application to Price FamQ was rejected.",
		Fields: []dto.CardField{
			{Name: "📋 Reason", Value: reason},
			{Name: "💡 What now?", Value: "You can submit a new application once the remarks are addressed."},
		},
		Color:  s.settings.Color("error"),
		Footer: "💎 Price FamQ",
	})

	s.refreshCard(app, dto.ControlsNone)

	s.audit.Record(reviewerID, "application", publicID, "rejected", reason)

	return nil
}

func (s *applicationService) ListByStatus(status domain.ApplicationStatus, limit, offset int) ([]dto.ApplicationResponse, error) {
	apps, err := s.repo.ListByStatus(status, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.ApplicationResponse{
			PublicID:      a.PublicID,
			ApplicantID:   a.ApplicantID,
			ApplicantName: a.ApplicantName,
			CharacterName: a.CharacterName,
			CharacterAge:  a.CharacterAge,
			Status:        string(a.Status),
			ReviewerID:    a.ReviewerID,
			RejectReason:  a.RejectReason,
			SubmittedAt:   a.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return out, nil
}

func (s *applicationService) requireReviewer(userID string) error {
	roleIDs, err := s.directory.MemberRoleIDs(userID)
	if err != nil {
		return errors.New("failed to resolve member roles")
	}
	if !s.perms.HasCapability(roleIDs, CapReviewApplications) {
		return domain.ErrPermissionDenied
	}
	return nil
}

func (s *applicationService) moderatorMentions() string {
	ids := s.settings.RoleIDs("moderator_role_ids")
	if len(ids) == 0 {
		return "@here"
	}

	mentions := make([]string, 0, len(ids))
	for _, id := range ids {
		mentions = append(mentions, helper.MentionRole(id))
	}
	return strings.Join(mentions, " ")
}

func (s *applicationService) notifyApplicant(applicantID string, card dto.Card) {
	if err := s.messenger.SendDM(applicantID, card); err != nil {
		log.Printf("applicant DM error: %v", err)
	}
}

func (s *applicationService) refreshCard(app *domain.Application, controls dto.ControlSet) {
	if app.CardChannelID == "" || app.CardMessageID == "" {
		return
	}
	if err := s.messenger.EditCard(app.CardChannelID, app.CardMessageID, s.renderCard(app), controls, app.PublicID); err != nil {
		log.Printf("review card edit error: %v", err)
	}
}

// renderCard projects the record onto its review card. The record is the
// source of truth, the card is regenerated whole on every transition.
func (s *applicationService) renderCard(app *domain.Application) dto.Card {
	card := dto.Card{
		Title: "📝 New family application",
		Description: fmt.Sprintf("👤 **Candidate:** %s\n📅 **Date:** %s",
			helper.MentionUser(app.ApplicantID), app.CreatedAt.Format("02.01.2006 15:04")),
		Fields: []dto.CardField{
			{Name: "🎭 Character name", Value: app.CharacterName, Inline: true},
			{Name: "🎂 Age", Value: app.CharacterAge, Inline: true},
			{Name: "💬 Discord", Value: app.ApplicantName, Inline: true},
			{Name: "🎮 Experience", Value: app.Experience},
			{Name: "💎 Why Price FamQ?", Value: app.Motivation},
			{Name: "✨ About", Value: app.About},
		},
		Color:     s.settings.Color("primary"),
		Footer:    "🆔 ID: " + app.ApplicantID,
		Timestamp: true,
	}

	switch app.Status {
	case domain.ApplicationStatusUnderReview:
		card.Color = s.settings.Color("warning")
		card.Fields = append(card.Fields, dto.CardField{
			Name:  "👀 Under review",
			Value: "Reviewer: " + helper.MentionUser(*app.ReviewerID),
		})
	case domain.ApplicationStatusApproved:
		card.Color = s.settings.Color("success")
		card.Fields = append(card.Fields, dto.CardField{
			Name:  "✅ Status",
			Value: "**Approved** • " + helper.MentionUser(*app.ReviewerID),
		})
	case domain.ApplicationStatusRejected:
		card.Color = s.settings.Color("error")
		value := "**Rejected** by " + helper.MentionUser(*app.ReviewerID)
		if app.RejectReason != nil {
			value += "\n📋 **Reason:** " + *app.RejectReason
		}
		card.Fields = append(card.Fields, dto.CardField{Name: "❌ Status", Value: value})
	}

	return card
}
