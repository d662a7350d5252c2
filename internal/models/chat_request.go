package models

import "time"

// ChatRequestStatus represents the status of a chat request.
type ChatRequestStatus string

const (
	// ChatRequestStatusNone is reported when no request exists for a pair.
	ChatRequestStatusNone ChatRequestStatus = "none"
	// ChatRequestStatusPending indicates a request awaiting the addressee's decision.
	ChatRequestStatusPending ChatRequestStatus = "pending"
	// ChatRequestStatusApproved is a terminal state; messaging is open.
	ChatRequestStatusApproved ChatRequestStatus = "approved"
	// ChatRequestStatusRejected is a terminal state; the pair stays blocked.
	ChatRequestStatusRejected ChatRequestStatus = "rejected"
)

// TerminalChatRequestStatus reports whether status admits no further transition.
func TerminalChatRequestStatus(status ChatRequestStatus) bool {
	return status == ChatRequestStatusApproved || status == ChatRequestStatusRejected
}

// ChatRequest is a proposal to open direct messaging from one profile to
// another. At most one row exists per ordered (from, to) pair, whatever its
// status; the reverse direction is an independent pair.
type ChatRequest struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	FromID    uint              `gorm:"not null;uniqueIndex:idx_chat_request_pair" json:"from_id"`
	ToID      uint              `gorm:"not null;uniqueIndex:idx_chat_request_pair;index" json:"to_id"`
	Status    ChatRequestStatus `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	Message   string            `gorm:"type:text" json:"message,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	From Profile `gorm:"foreignKey:FromID" json:"from,omitempty"`
	To   Profile `gorm:"foreignKey:ToID" json:"to,omitempty"`
}

// TableName specifies the table name for GORM
func (ChatRequest) TableName() string {
	return "chat_requests"
}
