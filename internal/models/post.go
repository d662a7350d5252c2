package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxPostPhotos is the maximum number of photo references per post.
const MaxPostPhotos = 3

// Post represents a feed entry owned by one profile.
//
// PostDate is the UTC calendar date of CreatedAt; together with UserID it
// carries a unique index so the one-post-per-day rule holds even under
// concurrent inserts from the same user.
type Post struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;uniqueIndex:idx_posts_user_date" json:"user_id"`
	User        Profile        `gorm:"foreignKey:UserID" json:"user"`
	Description string         `gorm:"type:text;not null" json:"description"`
	Photos      datatypes.JSON `json:"photos"` // up to MaxPostPhotos opaque references
	PostDate    string         `gorm:"size:10;not null;uniqueIndex:idx_posts_user_date" json:"-"`

	// LikesCount and HeartsCount are not persisted; computed at query time
	LikesCount  int `gorm:"->;-:migration" json:"likes_count"`
	HeartsCount int `gorm:"->;-:migration" json:"hearts_count"`
	// Liked/Hearted indicate the requesting viewer's current interaction state (computed)
	Liked   bool `gorm:"->;-:migration" json:"liked"`
	Hearted bool `gorm:"->;-:migration" json:"hearted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// BeforeCreate derives PostDate from the creation timestamp. The day
// boundary is the UTC date, regardless of server locale.
func (p *Post) BeforeCreate(_ *gorm.DB) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.PostDate = p.CreatedAt.UTC().Format("2006-01-02")
	return nil
}
