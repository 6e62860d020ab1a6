package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"github.com/DimaKostyrskyj/PriceBot/internal/dto"
	"github.com/DimaKostyrskyj/PriceBot/internal/interfaces"
	"github.com/DimaKostyrskyj/PriceBot/internal/repository"
)

// AuditService is the append-only record sink. A failed append or publish is
// logged and swallowed, it never blocks the transition that produced it.
type AuditService interface {
	Record(actorID, entity, entityID, action string, note string)
	ListSince(since time.Time, limit int) ([]domain.AuditLog, error)
}

type auditService struct {
	repo     repository.AuditRepository
	producer interfaces.ProducerHandler
}

func NewAuditService(repo repository.AuditRepository, producer interfaces.ProducerHandler) AuditService {
	return &auditService{
		repo:     repo,
		producer: producer,
	}
}

func (a *auditService) Record(actorID, entity, entityID, action string, note string) {
	entry := &domain.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
	}
	if note != "" {
		entry.Note = &note
	}

	if err := a.repo.Append(entry); err != nil {
		log.Printf("audit append error: %v", err)
	}

	if a.producer != nil {
		event := dto.AuditEvent{
			ActorID:  actorID,
			Action:   action,
			Entity:   entity,
			EntityID: entityID,
			Note:     note,
			At:       time.Now().Format(time.RFC3339),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			log.Printf("audit event marshal error: %v", err)
			return
		}
		_ = a.producer.PublishMessage([]byte(entity+"."+action), payload)
	}
}

func (a *auditService) ListSince(since time.Time, limit int) ([]domain.AuditLog, error) {
	return a.repo.ListSince(since, limit)
}
