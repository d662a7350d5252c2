package repository

import (
	"context"
	"errors"

	"incontro/internal/models"

	"gorm.io/gorm"
)

// InteractionRepository defines the interface for like/heart edge operations.
// Toggle and TogglePost run as a single transaction: an explicit existence
// check decides between insert and delete, and the unique index on the edge
// backstops races between identical concurrent requests.
type InteractionRepository interface {
	Toggle(ctx context.Context, actorID, targetID uint, kind models.InteractionKind) (removed bool, err error)
	CountForTarget(ctx context.Context, targetID uint, kind models.InteractionKind) (int64, error)
	KindsFor(ctx context.Context, actorID, targetID uint) ([]models.InteractionKind, error)
	TogglePost(ctx context.Context, actorID, postID uint, kind models.InteractionKind) (removed bool, err error)
	CountForPost(ctx context.Context, postID uint, kind models.InteractionKind) (int64, error)
	KindsForPost(ctx context.Context, actorID, postID uint) ([]models.InteractionKind, error)
}

// interactionRepository implements InteractionRepository
type interactionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository creates a new interaction repository
func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Toggle(ctx context.Context, actorID, targetID uint, kind models.InteractionKind) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Interaction
		if err := tx.Where("actor_id = ? AND target_id = ? AND kind = ?", actorID, targetID, kind).
			Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			removed = true
			return tx.Delete(&models.Interaction{}, existing[0].ID).Error
		}

		edge := models.Interaction{ActorID: actorID, TargetID: targetID, Kind: kind}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost the race against an identical request that inserted
				// first; this call becomes the toggle-off half.
				removed = true
				return tx.Where("actor_id = ? AND target_id = ? AND kind = ?", actorID, targetID, kind).
					Delete(&models.Interaction{}).Error
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return removed, nil
}

func (r *interactionRepository) CountForTarget(ctx context.Context, targetID uint, kind models.InteractionKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("target_id = ? AND kind = ?", targetID, kind).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *interactionRepository) KindsFor(ctx context.Context, actorID, targetID uint) ([]models.InteractionKind, error) {
	var kinds []models.InteractionKind
	if err := r.db.WithContext(ctx).
		Model(&models.Interaction{}).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Pluck("kind", &kinds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return kinds, nil
}

func (r *interactionRepository) TogglePost(ctx context.Context, actorID, postID uint, kind models.InteractionKind) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.PostInteraction
		if err := tx.Where("actor_id = ? AND post_id = ? AND kind = ?", actorID, postID, kind).
			Limit(1).Find(&existing).Error; err != nil {
			return err
		}
		if len(existing) > 0 {
			removed = true
			return tx.Delete(&models.PostInteraction{}, existing[0].ID).Error
		}

		edge := models.PostInteraction{ActorID: actorID, PostID: postID, Kind: kind}
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				removed = true
				return tx.Where("actor_id = ? AND post_id = ? AND kind = ?", actorID, postID, kind).
					Delete(&models.PostInteraction{}).Error
			}
			return err
		}
		return nil
	})
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return removed, nil
}

func (r *interactionRepository) CountForPost(ctx context.Context, postID uint, kind models.InteractionKind) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PostInteraction{}).
		Where("post_id = ? AND kind = ?", postID, kind).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *interactionRepository) KindsForPost(ctx context.Context, actorID, postID uint) ([]models.InteractionKind, error) {
	var kinds []models.InteractionKind
	if err := r.db.WithContext(ctx).
		Model(&models.PostInteraction{}).
		Where("actor_id = ? AND post_id = ?", actorID, postID).
		Pluck("kind", &kinds).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return kinds, nil
}
