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

type ContractService interface {
	Publish(managerID string, form dto.ContractPublishForm) (*domain.Contract, error)
	Enroll(actorID, publicID string) error
	Withdraw(actorID, publicID string) error
	Start(actorID, publicID string) error
	Finish(actorID, publicID string) error

	List(limit, offset int) ([]dto.ContractResponse, error)
}

type contractService struct {
	repo      repository.ContractRepository
	settings  SettingsService
	perms     PermissionService
	messenger interfaces.Messenger
	directory interfaces.GuildDirectory
	audit     AuditService
	locks     *entityLocks
}

func NewContractService(
	repo repository.ContractRepository,
	settings SettingsService,
	perms PermissionService,
	messenger interfaces.Messenger,
	directory interfaces.GuildDirectory,
	audit AuditService,
) ContractService {
	return &contractService{
		repo:      repo,
		settings:  settings,
		perms:     perms,
		messenger: messenger,
		directory: directory,
		audit:     audit,
		locks:     newEntityLocks(),
	}
}

func (s *contractService) Publish(managerID string, form dto.ContractPublishForm) (*domain.Contract, error) {
	if err := s.requireManager(managerID); err != nil {
		return nil, err
	}

	title, err := helper.RequireField("title", form.Title, 100)
	if err != nil {
		return nil, err
	}

	rewardMoney, rewardNotes, err := helper.SplitPair("reward", form.Reward)
	if err != nil {
		return nil, err
	}
	validUntil, duration, err := helper.SplitPair("validity/runtime", form.ValidityAndRuntime)
	if err != nil {
		return nil, err
	}
	completeWithin, chance, err := helper.SplitPair("completion/chance", form.CompleteAndChance)
	if err != nil {
		return nil, err
	}

	channelID := s.settings.ChannelID("contracts_members_channel_id")
	if channelID == "" {
		return nil, &domain.ConfigurationError{Setting: "contracts_members_channel_id"}
	}

	contract := &domain.Contract{
		PublicID:       uuid.NewString(),
		Title:          title,
		RewardMoney:    rewardMoney,
		RewardNotes:    rewardNotes,
		ValidUntil:     validUntil,
		Duration:       duration,
		CompleteWithin: completeWithin,
		Chance:         chance,
		Status:         domain.ContractStatusOpen,
		CreatedBy:      managerID,
	}

	created, err := s.repo.Create(contract)
	if err != nil {
		return nil, err
	}

	messageID, err := s.messenger.PostCard(channelID, s.eligibleMentions(), s.renderCard(created), dto.ControlsContractSignup, created.PublicID)
	if err != nil {
		return nil, fmt.Errorf("failed to post contract card: %w", err)
	}
	if err := s.repo.SetCardRef(created.PublicID, channelID, messageID); err != nil {
		log.Printf("set card ref error: %v", err)
	}
	created.CardChannelID = channelID
	created.CardMessageID = messageID

	// The discussion thread is nice to have, publication stands without it.
	// Thread names are capped at 100 characters, cut on a rune boundary.
	threadName := "🚀 " + title
	if runes := []rune(threadName); len(runes) > 100 {
		threadName = string(runes[:100])
	}
	threadID, err := s.messenger.CreateThread(channelID, messageID, threadName)
	if err != nil {
		log.Printf("contract thread create error: %v", err)
	} else {
		if err := s.repo.SetThread(created.PublicID, threadID); err != nil {
			log.Printf("set thread ref error: %v", err)
		}
		created.ThreadID = threadID
	}

	s.audit.Record(managerID, "contract", created.PublicID, "published", title)

	return created, nil
}

func (s *contractService) Enroll(actorID, publicID string) error {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	contract, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return err
	}
	if contract.Status != domain.ContractStatusOpen {
		return domain.ErrStateConflict
	}
	if contract.HasParticipant(actorID) {
		return domain.ErrAlreadyEnrolled
	}

	if err := s.repo.AddParticipant(contract.ID, actorID); err != nil {
		return err
	}

	contract.Participants = append(contract.Participants, domain.ContractParticipant{
		ContractID: contract.ID,
		UserID:     actorID,
	})
	s.refreshCard(contract, dto.ControlsContractSignup)

	return nil
}

func (s *contractService) Withdraw(actorID, publicID string) error {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	contract, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return err
	}
	if contract.Status != domain.ContractStatusOpen {
		return domain.ErrStateConflict
	}
	if !contract.HasParticipant(actorID) {
		return domain.ErrNotEnrolled
	}

	if err := s.repo.RemoveParticipant(contract.ID, actorID); err != nil {
		return err
	}

	kept := contract.Participants[:0]
	for _, p := range contract.Participants {
		if p.UserID != actorID {
			kept = append(kept, p)
		}
	}
	contract.Participants = kept
	s.refreshCard(contract, dto.ControlsContractSignup)

	return nil
}

func (s *contractService) Start(actorID, publicID string) error {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	if err := s.requireManager(actorID); err != nil {
		return err
	}

	contract, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return err
	}

	if err := s.repo.Start(publicID); err != nil {
		return err
	}

	contract.Status = domain.ContractStatusStarted
	s.refreshCard(contract, dto.ControlsContractFinish)
	s.notifyThread(contract, "✅ Contract started! Started by: "+helper.MentionUser(actorID))

	s.audit.Record(actorID, "contract", publicID, "started", "")

	return nil
}

func (s *contractService) Finish(actorID, publicID string) error {
	unlock := s.locks.Lock(publicID)
	defer unlock()

	if err := s.requireManager(actorID); err != nil {
		return err
	}

	contract, err := s.repo.FindByPublicID(publicID)
	if err != nil {
		return err
	}

	if err := s.repo.Finish(publicID); err != nil {
		return err
	}

	contract.Status = domain.ContractStatusFinished
	s.refreshCard(contract, dto.ControlsNone)
	s.notifyThread(contract, "✅ Contract finished! Finished by: "+helper.MentionUser(actorID))

	s.audit.Record(actorID, "contract", publicID, "finished", "")

	return nil
}

func (s *contractService) List(limit, offset int) ([]dto.ContractResponse, error) {
	contracts, err := s.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ContractResponse, 0, len(contracts))
	for _, c := range contracts {
		participants := make([]string, 0, len(c.Participants))
		for _, p := range c.Participants {
			participants = append(participants, p.UserID)
		}
		out = append(out, dto.ContractResponse{
			PublicID:       c.PublicID,
			Title:          c.Title,
			RewardMoney:    c.RewardMoney,
			RewardNotes:    c.RewardNotes,
			ValidUntil:     c.ValidUntil,
			Duration:       c.Duration,
			CompleteWithin: c.CompleteWithin,
			Chance:         c.Chance,
			Status:         string(c.Status),
			CreatedBy:      c.CreatedBy,
			Participants:   participants,
			CreatedAt:      c.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	return out, nil
}

func (s *contractService) requireManager(userID string) error {
	roleIDs, err := s.directory.MemberRoleIDs(userID)
	if err != nil {
		return errors.New("failed to resolve member roles")
	}
	if !s.perms.HasCapability(roleIDs, CapManageContracts) {
		return domain.ErrPermissionDenied
	}
	return nil
}

func (s *contractService) eligibleMentions() string {
	var mentions []string
	if id := s.settings.RoleID("family_role_id"); id != "" {
		mentions = append(mentions, helper.MentionRole(id))
	}
	if id := s.settings.RoleID("member_role_id"); id != "" {
		mentions = append(mentions, helper.MentionRole(id))
	}
	return strings.Join(mentions, " ")
}

func (s *contractService) notifyThread(contract *domain.Contract, content string) {
	if contract.ThreadID == "" {
		return
	}
	if err := s.messenger.PostToThread(contract.ThreadID, content); err != nil {
		log.Printf("contract thread post error: %v", err)
	}
}

func (s *contractService) refreshCard(contract *domain.Contract, controls dto.ControlSet) {
	if contract.CardChannelID == "" || contract.CardMessageID == "" {
		return
	}
	if err := s.messenger.EditCard(contract.CardChannelID, contract.CardMessageID, s.renderCard(contract), controls, contract.PublicID); err != nil {
		log.Printf("contract card edit error: %v", err)
	}
}

func (s *contractService) renderCard(contract *domain.Contract) dto.Card {
	roster := "❌ No participants yet"
	if len(contract.Participants) > 0 {
		lines := make([]string, 0, len(contract.Participants))
		for _, p := range contract.Participants {
			lines = append(lines, "✅ "+helper.MentionUser(p.UserID))
		}
		roster = strings.Join(lines, "\n")
	}

	statusName := "🟢 Status:"
	statusValue := "✅ Signup open"
	switch contract.Status {
	case domain.ContractStatusStarted:
		statusName = "🔵 Status:"
		statusValue = "⏳ Contract started!"
	case domain.ContractStatusFinished:
		statusName = "🔴 Status:"
		statusValue = "✅ Contract finished!"
	}

	return dto.Card{
		Title: "📋 " + contract.Title,
		Description: "━━━━━━━━━━━━━━━━━━━━\n**👤 Created by:** " +
			helper.MentionUser(contract.CreatedBy) + "\n━━━━━━━━━━━━━━━━━━━━",
		Fields: []dto.CardField{
			{Name: "💰 Reward:", Value: contract.RewardMoney + " / " + contract.RewardNotes},
			{Name: "⏰ Valid until:", Value: contract.ValidUntil},
			{Name: "🕒 Contract duration:", Value: contract.Duration},
			{Name: "⚡ Complete within:", Value: contract.CompleteWithin},
			{Name: "🎲 Chance:", Value: contract.Chance},
			{Name: "📊 Participants:", Value: roster},
			{Name: statusName, Value: statusValue},
		},
		Color:     0x2b2d31,
		Footer:    "Price FamQ",
		Timestamp: true,
	}
}
