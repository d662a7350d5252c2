package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"incontro/internal/models"
	"incontro/internal/repository"

	"gorm.io/datatypes"
)

// PostService provides feed-post business logic, including the
// one-post-per-UTC-day rule.
type PostService struct {
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	now         func() time.Time
}

// NewPostService returns a new PostService.
func NewPostService(postRepo repository.PostRepository, profileRepo repository.ProfileRepository) *PostService {
	return &PostService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		now:         time.Now,
	}
}

// CreatePostInput holds the fields for a new post.
type CreatePostInput struct {
	UserID      uint
	Description string
	Photos      datatypes.JSON
}

// CreatePost creates a feed post. A user gets one post per UTC calendar day;
// the check here gives a friendly early answer, the unique index behind it
// settles races.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if n := countJSONArray(in.Photos); n > models.MaxPostPhotos {
		return nil, models.NewValidationError("A post can have at most 3 photos")
	}

	allowed, err := s.CanPostToday(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, models.NewRateLimitedError("Only one post per day is allowed")
	}

	post := &models.Post{
		UserID:      in.UserID,
		Description: in.Description,
		Photos:      in.Photos,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// CanPostToday reports whether the user has not yet posted on the current
// UTC calendar day.
func (s *PostService) CanPostToday(ctx context.Context, userID uint) (bool, error) {
	last, err := s.postRepo.LastPostDate(ctx, userID)
	if err != nil {
		return false, err
	}
	today := s.now().UTC().Format("2006-01-02")
	return last != today, nil
}

// GetPost returns a post annotated with the viewer's interaction state.
func (s *PostService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID, viewerID)
}

// ListPosts returns the feed, newest first.
func (s *PostService) ListPosts(ctx context.Context, limit, offset int, viewerID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, viewerID)
}

// ListUserPosts returns one user's posts, newest first.
func (s *PostService) ListUserPosts(ctx context.Context, userID uint, limit, offset int, viewerID uint) ([]*models.Post, error) {
	if _, err := s.profileRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
}

// DeletePost removes a post. Only the owner or an admin may delete it.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		actor, actorErr := s.profileRepo.GetByID(ctx, userID)
		if actorErr != nil {
			return actorErr
		}
		if !actor.IsAdmin {
			return models.NewUnauthorizedError("You can only delete your own posts")
		}
	}

	return s.postRepo.Delete(ctx, postID)
}

// countJSONArray returns the number of elements when raw is a JSON array,
// zero otherwise.
func countJSONArray(raw datatypes.JSON) int {
	if len(raw) == 0 {
		return 0
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0
	}
	return len(items)
}
