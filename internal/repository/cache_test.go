package repository

import (
	"context"
	"testing"

	"incontro/internal/cache"
	"incontro/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// withTestCache points the cache package at a throwaway miniredis for the
// duration of the test. The other repository tests run with no client, where
// every cached read degrades to a plain database read.
func withTestCache(t *testing.T) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(nil)
		rdb.Close()
		mr.Close()
	})
}

func TestProfileRepository_AnonymousReadsServedCacheAside(t *testing.T) {
	withTestCache(t)
	repo := NewProfileRepository(testDB)
	ctx := context.Background()

	p := newTestProfile(t, func(p *models.Profile) {
		p.Name = "Original"
	})

	first, err := repo.GetByIDAnnotated(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Original", first.Name)

	// Change the row behind the cache's back.
	require.NoError(t, testDB.Model(&models.Profile{}).
		Where("id = ?", p.ID).Update("name", "Changed").Error)

	cached, err := repo.GetByIDAnnotated(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Original", cached.Name, "anonymous read should come from the cache")

	viewerRead, err := repo.GetByIDAnnotated(ctx, p.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, "Changed", viewerRead.Name, "viewer-specific read must bypass the cache")

	cache.InvalidateProfile(ctx, p.ID)
	fresh, err := repo.GetByIDAnnotated(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "Changed", fresh.Name)
}

func TestPostRepository_AnonymousReadsServedCacheAside(t *testing.T) {
	withTestCache(t)
	repo := NewPostRepository(testDB)
	ctx := context.Background()

	author := newTestProfile(t)
	post := &models.Post{UserID: author.ID, Description: "before"}
	require.NoError(t, repo.Create(ctx, post))

	first, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "before", first.Description)

	require.NoError(t, testDB.Model(&models.Post{}).
		Where("id = ?", post.ID).Update("description", "after").Error)

	cached, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "before", cached.Description, "anonymous read should come from the cache")

	authed, err := repo.GetByID(ctx, post.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", authed.Description, "viewer-specific read must bypass the cache")

	cache.InvalidatePost(ctx, post.ID)
	fresh, err := repo.GetByID(ctx, post.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, "after", fresh.Description)

	t.Run("missing posts are not cached", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999, 0)
		require.Error(t, err)
		assert.True(t, models.HasCode(err, "NOT_FOUND"))
	})
}

func TestSettingRepository_GetServedCacheAside(t *testing.T) {
	withTestCache(t)
	repo := NewSettingRepository(testDB)
	ctx := context.Background()

	require.NoError(t, repo.Put(ctx, models.SiteSettingSliderKey, datatypes.JSON(`["a.jpg"]`)))

	first, err := repo.Get(ctx, models.SiteSettingSliderKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a.jpg"]`, string(first.Value))

	// Overwrite without invalidating: the stale value is still served.
	require.NoError(t, repo.Put(ctx, models.SiteSettingSliderKey, datatypes.JSON(`["b.jpg"]`)))
	cached, err := repo.Get(ctx, models.SiteSettingSliderKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a.jpg"]`, string(cached.Value))

	cache.InvalidateSetting(ctx, models.SiteSettingSliderKey)
	fresh, err := repo.Get(ctx, models.SiteSettingSliderKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["b.jpg"]`, string(fresh.Value))
}
