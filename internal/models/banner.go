package models

import "time"

// BannerTTL is how long a banner message stays visible after creation.
// Expiry is enforced lazily on read, not by a background sweep.
const BannerTTL = 24 * time.Hour

// BannerMessage is an ephemeral public message-board entry. Inserting a new
// message deletes the author's previous one, so each author has at most one
// live message at a time.
type BannerMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id"`
	Author    Profile   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Replies []BannerReply `gorm:"foreignKey:MessageID" json:"replies,omitempty"`
}

// TableName specifies the table name for GORM
func (BannerMessage) TableName() string {
	return "banner_messages"
}

// Expired reports whether the message's TTL has elapsed at now.
func (m *BannerMessage) Expired(now time.Time) bool {
	return now.Sub(m.CreatedAt) > BannerTTL
}

// BannerReply is a reply to a banner message; it lives and dies with its message.
type BannerReply struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MessageID uint      `gorm:"not null;index" json:"message_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Author    Profile   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (BannerReply) TableName() string {
	return "banner_replies"
}
