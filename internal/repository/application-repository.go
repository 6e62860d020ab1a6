package repository

import (
	"errors"
	"log"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(app *domain.Application) (*domain.Application, error)
	FindByPublicID(publicID string) (*domain.Application, error)
	SetCardRef(publicID, channelID, messageID string) error
	ListByStatus(status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error)

	// Transitions are status-guarded: the UPDATE only matches rows still in an
	// open state, so a lost race surfaces as ErrStateConflict instead of a
	// silent double transition.
	MarkUnderReview(publicID, reviewerID string) error
	Approve(publicID, reviewerID string) error
	Reject(publicID, reviewerID, reason string) error
}

type applicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

var openStatuses = []domain.ApplicationStatus{
	domain.ApplicationStatusSubmitted,
	domain.ApplicationStatusUnderReview,
}

func (r *applicationRepository) Create(app *domain.Application) (*domain.Application, error) {
	if app == nil {
		return nil, errors.New("nil application")
	}

	if err := r.db.Create(app).Error; err != nil {
		log.Printf("create application error: %v", err)
		return nil, errors.New("failed to create application")
	}

	return app, nil
}

func (r *applicationRepository) FindByPublicID(publicID string) (*domain.Application, error) {
	app := &domain.Application{}

	if err := r.db.First(app, "public_id = ?", publicID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find application error: %v", err)
		return nil, errors.New("failed to find application")
	}

	return app, nil
}

func (r *applicationRepository) SetCardRef(publicID, channelID, messageID string) error {
	return r.db.Model(&domain.Application{}).
		Where("public_id = ?", publicID).
		Updates(map[string]interface{}{
			"card_channel_id": channelID,
			"card_message_id": messageID,
		}).Error
}

func (r *applicationRepository) ListByStatus(status domain.ApplicationStatus, limit, offset int) ([]domain.Application, error) {
	var apps []domain.Application

	q := r.db.Order("created_at ASC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *applicationRepository) MarkUnderReview(publicID, reviewerID string) error {
	res := r.db.Model(&domain.Application{}).
		Where("public_id = ? AND status IN ?", publicID, openStatuses).
		Updates(map[string]interface{}{
			"status":      domain.ApplicationStatusUnderReview,
			"reviewer_id": reviewerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}

func (r *applicationRepository) Approve(publicID, reviewerID string) error {
	res := r.db.Model(&domain.Application{}).
		Where("public_id = ? AND status IN ?", publicID, openStatuses).
		Updates(map[string]interface{}{
			"status":      domain.ApplicationStatusApproved,
			"reviewer_id": reviewerID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}

func (r *applicationRepository) Reject(publicID, reviewerID, reason string) error {
	res := r.db.Model(&domain.Application{}).
		Where("public_id = ? AND status IN ?", publicID, openStatuses).
		Updates(map[string]interface{}{
			"status":        domain.ApplicationStatusRejected,
			"reviewer_id":   reviewerID,
			"reject_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}
