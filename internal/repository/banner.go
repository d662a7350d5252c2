package repository

import (
	"context"
	"errors"
	"time"

	"incontro/internal/models"

	"gorm.io/gorm"
)

// BannerRepository defines the interface for the ephemeral banner board.
// Expiry is lazy: ListLive prunes rows older than the TTL before reading,
// so no background sweep exists.
type BannerRepository interface {
	Insert(ctx context.Context, message *models.BannerMessage) error
	GetByID(ctx context.Context, id uint) (*models.BannerMessage, error)
	ListLive(ctx context.Context, now time.Time) ([]models.BannerMessage, error)
	AddReply(ctx context.Context, reply *models.BannerReply) error
}

// bannerRepository implements BannerRepository
type bannerRepository struct {
	db *gorm.DB
}

// NewBannerRepository creates a new banner repository
func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

// Insert stores a new banner message, superseding the author's previous one
// (and its replies) in the same transaction.
func (r *bannerRepository) Insert(ctx context.Context, message *models.BannerMessage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"message_id IN (?)",
			tx.Model(&models.BannerMessage{}).Select("id").Where("author_id = ?", message.AuthorID),
		).Delete(&models.BannerReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", message.AuthorID).
			Delete(&models.BannerMessage{}).Error; err != nil {
			return err
		}
		return tx.Create(message).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bannerRepository) GetByID(ctx context.Context, id uint) (*models.BannerMessage, error) {
	var message models.BannerMessage
	if err := r.db.WithContext(ctx).First(&message, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("BannerMessage", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &message, nil
}

func (r *bannerRepository) ListLive(ctx context.Context, now time.Time) ([]models.BannerMessage, error) {
	cutoff := now.Add(-models.BannerTTL)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where(
			"message_id IN (?)",
			tx.Model(&models.BannerMessage{}).Select("id").Where("created_at < ?", cutoff),
		).Delete(&models.BannerReply{}).Error; err != nil {
			return err
		}
		return tx.Where("created_at < ?", cutoff).Delete(&models.BannerMessage{}).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	var messages []models.BannerMessage
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Replies").
		Preload("Replies.Author").
		Order("created_at DESC").
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *bannerRepository) AddReply(ctx context.Context, reply *models.BannerReply) error {
	if err := r.db.WithContext(ctx).Create(reply).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
