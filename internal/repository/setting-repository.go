package repository

import (
	"errors"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindAll() (map[string]string, error)
	Upsert(key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) FindAll() (map[string]string, error) {
	var settings []domain.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}

	out := make(map[string]string, len(settings))
	for _, s := range settings {
		out[s.Key] = s.Value
	}
	return out, nil
}

func (r *settingRepository) Upsert(key, value string) error {
	if key == "" {
		return errors.New("empty setting key")
	}

	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&domain.Setting{Key: key, Value: value}).Error
}
