package repository

import (
	"errors"
	"log"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"gorm.io/gorm"
)

type ContractRepository interface {
	Create(contract *domain.Contract) (*domain.Contract, error)
	FindByPublicID(publicID string) (*domain.Contract, error)
	SetCardRef(publicID, channelID, messageID string) error
	SetThread(publicID, threadID string) error
	List(limit, offset int) ([]domain.Contract, error)

	AddParticipant(contractID uint, userID string) error
	RemoveParticipant(contractID uint, userID string) error

	Start(publicID string) error
	Finish(publicID string) error
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(contract *domain.Contract) (*domain.Contract, error) {
	if contract == nil {
		return nil, errors.New("nil contract")
	}

	if err := r.db.Create(contract).Error; err != nil {
		log.Printf("create contract error: %v", err)
		return nil, errors.New("failed to create contract")
	}

	return contract, nil
}

func (r *contractRepository) FindByPublicID(publicID string) (*domain.Contract, error) {
	contract := &domain.Contract{}

	err := r.db.
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(contract, "public_id = ?", publicID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("find contract error: %v", err)
		return nil, errors.New("failed to find contract")
	}

	return contract, nil
}

func (r *contractRepository) SetCardRef(publicID, channelID, messageID string) error {
	return r.db.Model(&domain.Contract{}).
		Where("public_id = ?", publicID).
		Updates(map[string]interface{}{
			"card_channel_id": channelID,
			"card_message_id": messageID,
		}).Error
}

func (r *contractRepository) SetThread(publicID, threadID string) error {
	return r.db.Model(&domain.Contract{}).
		Where("public_id = ?", publicID).
		Update("thread_id", threadID).Error
}

func (r *contractRepository) List(limit, offset int) ([]domain.Contract, error) {
	var contracts []domain.Contract

	err := r.db.
		Preload("Participants").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepository) AddParticipant(contractID uint, userID string) error {
	var count int64
	if err := r.db.Model(&domain.ContractParticipant{}).
		Where("contract_id = ? AND user_id = ?", contractID, userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrAlreadyEnrolled
	}

	return r.db.Create(&domain.ContractParticipant{
		ContractID: contractID,
		UserID:     userID,
	}).Error
}

func (r *contractRepository) RemoveParticipant(contractID uint, userID string) error {
	res := r.db.
		Where("contract_id = ? AND user_id = ?", contractID, userID).
		Delete(&domain.ContractParticipant{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotEnrolled
	}
	return nil
}

func (r *contractRepository) Start(publicID string) error {
	res := r.db.Model(&domain.Contract{}).
		Where("public_id = ? AND status = ?", publicID, domain.ContractStatusOpen).
		Update("status", domain.ContractStatusStarted)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}

func (r *contractRepository) Finish(publicID string) error {
	res := r.db.Model(&domain.Contract{}).
		Where("public_id = ? AND status = ?", publicID, domain.ContractStatusStarted).
		Update("status", domain.ContractStatusFinished)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStateConflict
	}
	return nil
}
