package database

import "incontro/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Profile{},
		&models.Interaction{},
		&models.PostInteraction{},
		&models.ChatRequest{},
		&models.Post{},
		&models.BannerMessage{},
		&models.BannerReply{},
		&models.SiteSetting{},
	}
}
