package models

import (
	"time"

	"gorm.io/datatypes"
)

// SiteSettingSliderKey is the key holding the home-page slider image list.
const SiteSettingSliderKey = "home_slider"

// SiteSetting is a key -> JSON value store for presentation configuration.
// Pure configuration; nothing in the core decision logic reads it.
type SiteSetting struct {
	Key       string         `gorm:"primaryKey;size:64" json:"key"`
	Value     datatypes.JSON `json:"value"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (SiteSetting) TableName() string {
	return "site_settings"
}
