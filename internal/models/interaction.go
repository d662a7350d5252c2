package models

import "time"

// InteractionKind is the type of signal one identity sends to another.
type InteractionKind string

const (
	InteractionLike  InteractionKind = "like"
	InteractionHeart InteractionKind = "heart"
)

// ValidInteractionKind reports whether kind is one of the supported kinds.
func ValidInteractionKind(kind InteractionKind) bool {
	return kind == InteractionLike || kind == InteractionHeart
}

// Interaction is a directed like/heart edge from one profile to another.
// The combination of ActorID, TargetID and Kind must be unique; repeating
// the same action removes the edge (toggle semantics), so rows are
// hard-deleted and never soft-deleted.
type Interaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ActorID   uint            `gorm:"not null;uniqueIndex:idx_interaction_edge" json:"actor_id"`
	TargetID  uint            `gorm:"not null;uniqueIndex:idx_interaction_edge;index" json:"target_id"`
	Kind      InteractionKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_interaction_edge" json:"kind"`
	CreatedAt time.Time       `json:"created_at"`

	Actor  Profile `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Target Profile `gorm:"foreignKey:TargetID" json:"target,omitempty"`
}

// TableName specifies the table name for GORM
func (Interaction) TableName() string {
	return "interactions"
}

// PostInteraction is the post-directed variant of Interaction, keyed by
// (actor, post, kind) with the same toggle semantics.
type PostInteraction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ActorID   uint            `gorm:"not null;uniqueIndex:idx_post_interaction_edge" json:"actor_id"`
	PostID    uint            `gorm:"not null;uniqueIndex:idx_post_interaction_edge;index" json:"post_id"`
	Kind      InteractionKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_post_interaction_edge" json:"kind"`
	CreatedAt time.Time       `json:"created_at"`

	Actor Profile `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Post  Post    `gorm:"foreignKey:PostID" json:"post,omitempty"`
}

// TableName specifies the table name for GORM
func (PostInteraction) TableName() string {
	return "post_interactions"
}

// InteractionCounts aggregates the current edge counts for a profile or post.
type InteractionCounts struct {
	Likes  int64 `json:"likes_count"`
	Hearts int64 `json:"hearts_count"`
}
