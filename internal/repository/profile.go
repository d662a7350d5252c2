// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"incontro/internal/cache"
	"incontro/internal/models"

	"gorm.io/gorm"
)

// BrowseFilters are the attribute filters applied in SQL before the
// reciprocal filter runs in-process. Zero values mean "no constraint".
// Birth-date bounds are inclusive YYYY-MM-DD strings precomputed by the
// caller from the requested age range.
type BrowseFilters struct {
	Gender       models.Gender
	Orientation  models.Orientation
	City         string
	BodyType     string
	MinBirthDate string
	MaxBirthDate string
	Limit        int
	Offset       int
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByIDAnnotated(ctx context.Context, id uint, currentUserID uint) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Browse(ctx context.Context, filters BrowseFilters) ([]*models.Profile, error)
	List(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	PendingValidation(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	SetValidated(ctx context.Context, id uint, validated bool) error
	SetBlocked(ctx context.Context, id uint, blocked bool) error
	SetOnline(ctx context.Context, id uint, online bool) error
	DeleteCascade(ctx context.Context, id uint) error
}

// profileRepository implements ProfileRepository
type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewAlreadyExistsError("A profile with this email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

// GetByIDAnnotated loads a profile with its computed likes/hearts counts and
// the requesting viewer's current interaction state, in a single query.
// Anonymous reads go through the cache; viewer-specific annotations always
// hit the database. Writers clear the key via cache.InvalidateProfile.
func (r *profileRepository) GetByIDAnnotated(ctx context.Context, id uint, currentUserID uint) (*models.Profile, error) {
	if currentUserID == 0 {
		return cache.Aside(ctx, cache.ProfileKey(id), cache.ProfileTTL,
			func(ctx context.Context) (*models.Profile, error) {
				return r.loadAnnotated(ctx, id, 0)
			})
	}
	return r.loadAnnotated(ctx, id, currentUserID)
}

func (r *profileRepository) loadAnnotated(ctx context.Context, id uint, currentUserID uint) (*models.Profile, error) {
	var profile models.Profile
	if err := applyProfileDetails(r.db.WithContext(ctx), currentUserID).
		First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", email)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) Browse(ctx context.Context, filters BrowseFilters) ([]*models.Profile, error) {
	q := r.db.WithContext(ctx).Model(&models.Profile{}).Where("blocked = ?", false)

	if filters.Gender != "" {
		q = q.Where("LOWER(gender) = LOWER(?)", string(filters.Gender))
	}
	if filters.Orientation != "" {
		q = q.Where("LOWER(orientation) = LOWER(?)", string(filters.Orientation))
	}
	if filters.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", filters.City)
	}
	if filters.BodyType != "" {
		q = q.Where("LOWER(body_type) = LOWER(?)", filters.BodyType)
	}
	// BirthDate is stored as YYYY-MM-DD, so the age-range slider becomes a
	// lexicographic range scan.
	if filters.MinBirthDate != "" {
		q = q.Where("birth_date >= ?", filters.MinBirthDate)
	}
	if filters.MaxBirthDate != "" {
		q = q.Where("birth_date <= ?", filters.MaxBirthDate)
	}

	var profiles []*models.Profile
	if err := q.Order("created_at DESC").
		Limit(filters.Limit).
		Offset(filters.Offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

// PendingValidation lists unvalidated profiles that have uploaded an
// identity document, oldest first so the review queue is fair.
func (r *profileRepository) PendingValidation(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).
		Where("validated = ? AND blocked = ?", false, false).
		Where("identity_document <> ''").
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) SetValidated(ctx context.Context, id uint, validated bool) error {
	return r.setFlag(ctx, id, "validated", validated)
}

func (r *profileRepository) SetBlocked(ctx context.Context, id uint, blocked bool) error {
	return r.setFlag(ctx, id, "blocked", blocked)
}

func (r *profileRepository) SetOnline(ctx context.Context, id uint, online bool) error {
	return r.setFlag(ctx, id, "online", online)
}

func (r *profileRepository) setFlag(ctx context.Context, id uint, column string, value bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", id).
		Update(column, value)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Profile", id)
	}
	return nil
}

// DeleteCascade removes a profile and everything hanging off it: its
// interactions in both directions, its post interactions, interactions on
// its posts, its chat requests in both directions, its banner messages with
// their replies, and its posts. One transaction; no partial state.
func (r *profileRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.Profile
		if err := tx.First(&profile, id).Error; err != nil {
			return err
		}

		if err := tx.Where("actor_id = ? OR target_id = ?", id, id).
			Delete(&models.Interaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where(
			"actor_id = ? OR post_id IN (?)",
			id,
			tx.Model(&models.Post{}).Select("id").Where("user_id = ?", id),
		).Delete(&models.PostInteraction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("from_id = ? OR to_id = ?", id, id).
			Delete(&models.ChatRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where(
			"author_id = ? OR message_id IN (?)",
			id,
			tx.Model(&models.BannerMessage{}).Select("id").Where("author_id = ?", id),
		).Delete(&models.BannerReply{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).
			Delete(&models.BannerMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).
			Delete(&models.Post{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Profile{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Profile", id)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// applyProfileDetails adds subqueries to fetch counts and the viewer's
// interaction state in a single query.
func applyProfileDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "profiles.*, " +
		"(SELECT COUNT(*) FROM interactions WHERE interactions.target_id = profiles.id AND interactions.kind = 'like') as likes_count, " +
		"(SELECT COUNT(*) FROM interactions WHERE interactions.target_id = profiles.id AND interactions.kind = 'heart') as hearts_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+
			", EXISTS(SELECT 1 FROM interactions WHERE interactions.target_id = profiles.id AND interactions.actor_id = ? AND interactions.kind = 'like') as liked"+
			", EXISTS(SELECT 1 FROM interactions WHERE interactions.target_id = profiles.id AND interactions.actor_id = ? AND interactions.kind = 'heart') as hearted",
			currentUserID, currentUserID)
	}

	return db.Select(selectQuery + ", false as liked, false as hearted")
}
