package service

import (
	"context"
	"testing"
	"time"

	"incontro/internal/models"
)

type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint, uint) (*models.Post, error)
	getByUserIDFn  func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn         func(context.Context, int, int, uint) ([]*models.Post, error)
	lastPostDateFn func(context.Context, uint) (string, error)
	deleteFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentUserID)
}
func (s *postRepoStub) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.getByUserIDFn(ctx, userID, limit, offset, currentUserID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentUserID)
}
func (s *postRepoStub) LastPostDate(ctx context.Context, userID uint) (string, error) {
	return s.lastPostDateFn(ctx, userID)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(context.Context, uint, uint) (*models.Post, error) { return &models.Post{}, nil },
		getByUserIDFn: func(context.Context, uint, int, int, uint) ([]*models.Post, error) {
			return nil, nil
		},
		listFn:         func(context.Context, int, int, uint) ([]*models.Post, error) { return nil, nil },
		lastPostDateFn: func(context.Context, uint) (string, error) { return "", nil },
		deleteFn:       func(context.Context, uint) error { return nil },
	}
}

func TestPostServiceCreateRequiresDescription(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopProfileRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Description: "   "})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestPostServiceCreatePhotoLimit(t *testing.T) {
	svc := NewPostService(noopPostRepo(), noopProfileRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		UserID:      1,
		Description: "troppe foto",
		Photos:      []byte(`["a","b","c","d"]`),
	})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestPostServiceCreateSecondPostSameDay(t *testing.T) {
	posts := noopPostRepo()
	posts.lastPostDateFn = func(context.Context, uint) (string, error) {
		return time.Now().UTC().Format("2006-01-02"), nil
	}

	svc := NewPostService(posts, noopProfileRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Description: "secondo"})
	assertAppErrorCode(t, err, "RATE_LIMITED")
}

func TestPostServiceCreateAllowedAfterRollover(t *testing.T) {
	posts := noopPostRepo()
	posts.lastPostDateFn = func(context.Context, uint) (string, error) {
		return time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02"), nil
	}
	created := false
	posts.createFn = func(context.Context, *models.Post) error {
		created = true
		return nil
	}

	svc := NewPostService(posts, noopProfileRepo())
	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Description: "nuovo giorno"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected the post to be created")
	}
}

func TestPostServiceCanPostTodayRespectsUTC(t *testing.T) {
	posts := noopPostRepo()
	posts.lastPostDateFn = func(context.Context, uint) (string, error) {
		return "2026-03-01", nil
	}

	svc := NewPostService(posts, noopProfileRepo())
	// Pin "now" to just after midnight UTC on the next day: a user who
	// posted late yesterday can post again immediately.
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 0, 5, 0, 0, time.UTC)
	}

	allowed, err := svc.CanPostToday(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Error("expected posting to be allowed after the UTC day rolled over")
	}

	svc.now = func() time.Time {
		return time.Date(2026, 3, 1, 23, 55, 0, 0, time.UTC)
	}
	allowed, err = svc.CanPostToday(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if allowed {
		t.Error("expected posting to be denied on the same UTC day")
	}
}

func TestPostServiceDeleteOwnerOnly(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(context.Context, uint, uint) (*models.Post, error) {
		return &models.Post{ID: 3, UserID: 10}, nil
	}

	profiles := noopProfileRepo()
	profiles.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id}, nil
	}

	svc := NewPostService(posts, profiles)
	err := svc.DeletePost(context.Background(), 3, 11)
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestPostServiceDeleteAdminOverride(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(context.Context, uint, uint) (*models.Post, error) {
		return &models.Post{ID: 3, UserID: 10}, nil
	}
	deleted := false
	posts.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}

	profiles := noopProfileRepo()
	profiles.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, IsAdmin: true}, nil
	}

	svc := NewPostService(posts, profiles)
	if err := svc.DeletePost(context.Background(), 3, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected admin delete to reach the repository")
	}
}
