package repository

import (
	"time"

	"github.com/DimaKostyrskyj/PriceBot/internal/domain"
	"gorm.io/gorm"
)

type AuditRepository interface {
	Append(entry *domain.AuditLog) error
	ListSince(since time.Time, limit int) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(entry *domain.AuditLog) error {
	return r.db.Create(entry).Error
}

func (r *auditRepository) ListSince(since time.Time, limit int) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog

	err := r.db.
		Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
