package repository

import (
	"context"
	"errors"

	"incontro/internal/models"

	"gorm.io/gorm"
)

// ChatRequestRepository defines the interface for chat request data operations.
// Uniqueness per ordered (from, to) pair is enforced by the database index,
// not only by application pre-checks, so concurrent duplicate submissions
// cannot both land.
type ChatRequestRepository interface {
	Create(ctx context.Context, request *models.ChatRequest) error
	GetByID(ctx context.Context, id uint) (*models.ChatRequest, error)
	GetByPair(ctx context.Context, fromID, toID uint) (*models.ChatRequest, error)
	PendingFor(ctx context.Context, userID uint) ([]models.ChatRequest, error)
	UpdateStatus(ctx context.Context, requestID uint, status models.ChatRequestStatus) error
}

// chatRequestRepository implements ChatRequestRepository
type chatRequestRepository struct {
	db *gorm.DB
}

// NewChatRequestRepository creates a new chat request repository
func NewChatRequestRepository(db *gorm.DB) ChatRequestRepository {
	return &chatRequestRepository{db: db}
}

func (r *chatRequestRepository) Create(ctx context.Context, request *models.ChatRequest) error {
	if request.Status == "" {
		request.Status = models.ChatRequestStatusPending
	}
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewAlreadyExistsError("A chat request for this pair already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *chatRequestRepository) GetByID(ctx context.Context, id uint) (*models.ChatRequest, error) {
	var request models.ChatRequest
	if err := r.db.WithContext(ctx).
		Preload("From").
		Preload("To").
		First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("ChatRequest", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// GetByPair returns the request for the ordered (from, to) pair, or nil when
// none exists. The reverse direction is a different pair.
func (r *chatRequestRepository) GetByPair(ctx context.Context, fromID, toID uint) (*models.ChatRequest, error) {
	var request models.ChatRequest
	if err := r.db.WithContext(ctx).
		Where("from_id = ? AND to_id = ?", fromID, toID).
		First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &request, nil
}

// PendingFor lists pending requests addressed to the user, newest first,
// with the requester preloaded for display (name and photo).
func (r *chatRequestRepository) PendingFor(ctx context.Context, userID uint) ([]models.ChatRequest, error) {
	var requests []models.ChatRequest
	if err := r.db.WithContext(ctx).
		Where("to_id = ? AND status = ?", userID, models.ChatRequestStatusPending).
		Preload("From").
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return requests, nil
}

func (r *chatRequestRepository) UpdateStatus(ctx context.Context, requestID uint, status models.ChatRequestStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.ChatRequest{}).
		Where("id = ?", requestID).
		Update("status", status)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("ChatRequest", requestID)
	}
	return nil
}
