package repository

import (
	"context"
	"errors"

	"incontro/internal/cache"
	"incontro/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error)
	LastPostDate(ctx context.Context, userID uint) (string, error)
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post. The (user_id, post_date) unique index is the
// authoritative daily guard: a duplicate for today's date surfaces as a
// RateLimited outcome even when two requests race past the pre-check.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewRateLimitedError("Only one post per day is allowed")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID returns a post with interaction counts and the viewer's state.
// Anonymous reads are served cache-aside; writers clear the key via
// cache.InvalidatePost.
func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	if currentUserID == 0 {
		return cache.Aside(ctx, cache.PostKey(id), cache.PostTTL,
			func(ctx context.Context) (*models.Post, error) {
				return r.loadByID(ctx, id, 0)
			})
	}
	return r.loadByID(ctx, id, currentUserID)
}

func (r *postRepository) loadByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post
	if err := applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	var posts []*models.Post
	if err := applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// LastPostDate returns the most recent post_date (YYYY-MM-DD, UTC) for the
// user, or "" when the user has never posted.
func (r *postRepository) LastPostDate(ctx context.Context, userID uint) (string, error) {
	var dates []string
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("user_id = ?", userID).
		Order("post_date DESC").
		Limit(1).
		Pluck("post_date", &dates).Error; err != nil {
		return "", models.NewInternalError(err)
	}
	if len(dates) == 0 {
		return "", nil
	}
	return dates[0], nil
}

// Delete removes a post and its interaction edges in one transaction.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostInteraction{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds subqueries to fetch counts and the viewer's
// interaction state in a single query.
func applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM post_interactions WHERE post_interactions.post_id = posts.id AND post_interactions.kind = 'like') as likes_count, " +
		"(SELECT COUNT(*) FROM post_interactions WHERE post_interactions.post_id = posts.id AND post_interactions.kind = 'heart') as hearts_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM post_interactions WHERE post_interactions.post_id = posts.id AND post_interactions.actor_id = ? AND post_interactions.kind = 'like') as liked"+
			", EXISTS(SELECT 1 FROM post_interactions WHERE post_interactions.post_id = posts.id AND post_interactions.actor_id = ? AND post_interactions.kind = 'heart') as hearted",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as hearted")
}
