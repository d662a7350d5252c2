package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix  = "profile:%d"
	PostKeyPrefix     = "post:%d"
	PresenceKeyPrefix = "presence:%d"
	SettingKeyPrefix  = "setting:%s"
)

const (
	ProfileTTL = 5 * time.Minute
	PostTTL    = 10 * time.Minute
	SettingTTL = 30 * time.Minute

	// PresenceTTL is how long a heartbeat keeps a user "online". Clients
	// ping roughly once a minute, so this tolerates two missed beats.
	PresenceTTL = 3 * time.Minute
)

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PresenceKey(userID uint) string {
	return fmt.Sprintf(PresenceKeyPrefix, userID)
}

func SettingKey(key string) string {
	return fmt.Sprintf(SettingKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidateSetting(ctx context.Context, key string) {
	Invalidate(ctx, SettingKey(key))
}
