package repository

import (
	"context"

	"mediavault/internal/domain"

	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *ContactRepository) GetOwned(ctx context.Context, id, ownerID int64) (*domain.ContactMessage, error) {
	var msg domain.ContactMessage
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *ContactRepository) ListByUser(ctx context.Context, ownerID int64) ([]domain.ContactMessage, error) {
	var msgs []domain.ContactMessage
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&msgs).Error
	return msgs, err
}

func (r *ContactRepository) Save(ctx context.Context, msg *domain.ContactMessage) error {
	return r.db.WithContext(ctx).Save(msg).Error
}

func (r *ContactRepository) DeleteOwned(ctx context.Context, id, ownerID int64) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&domain.ContactMessage{})
	return tx.RowsAffected, tx.Error
}

// ListAll is admin-only: every message, newest first.
func (r *ContactRepository) ListAll(ctx context.Context) ([]domain.ContactMessage, error) {
	var msgs []domain.ContactMessage
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&msgs).Error
	return msgs, err
}

// DeleteAny is admin-only: unscoped delete by id.
func (r *ContactRepository) DeleteAny(ctx context.Context, id int64) (int64, error) {
	tx := r.db.WithContext(ctx).Delete(&domain.ContactMessage{}, id)
	return tx.RowsAffected, tx.Error
}
