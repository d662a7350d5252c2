package repository

import (
	"context"
	"errors"

	"incontro/internal/cache"
	"incontro/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingRepository defines the interface for the site-setting key/value store.
type SettingRepository interface {
	Get(ctx context.Context, key string) (*models.SiteSetting, error)
	Put(ctx context.Context, key string, value datatypes.JSON) error
}

// settingRepository implements SettingRepository
type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository creates a new setting repository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

// Get reads a setting cache-aside; PUTs clear the key via
// cache.InvalidateSetting.
func (r *settingRepository) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	return cache.Aside(ctx, cache.SettingKey(key), cache.SettingTTL,
		func(ctx context.Context) (*models.SiteSetting, error) {
			var setting models.SiteSetting
			if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, models.NewNotFoundError("SiteSetting", key)
				}
				return nil, models.NewInternalError(err)
			}
			return &setting, nil
		})
}

func (r *settingRepository) Put(ctx context.Context, key string, value datatypes.JSON) error {
	setting := models.SiteSetting{Key: key, Value: value}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&setting).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
