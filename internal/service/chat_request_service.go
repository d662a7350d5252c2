package service

import (
	"context"

	"incontro/internal/models"
	"incontro/internal/repository"
)

// Presence reports whether a user is currently online. Implemented by the
// Redis heartbeat tracker; a nil Presence makes services fall back to the
// persisted online flag.
type Presence interface {
	IsOnline(ctx context.Context, userID uint) (bool, error)
}

// ChatRequestService provides chat-request business logic: one request per
// ordered pair, a premium gate on sending, and a terminal approve/reject
// decision owned by the addressee.
type ChatRequestService struct {
	chatRepo    repository.ChatRequestRepository
	profileRepo repository.ProfileRepository
	presence    Presence
}

// NewChatRequestService returns a new ChatRequestService.
func NewChatRequestService(
	chatRepo repository.ChatRequestRepository,
	profileRepo repository.ProfileRepository,
	presence Presence,
) *ChatRequestService {
	return &ChatRequestService{
		chatRepo:    chatRepo,
		profileRepo: profileRepo,
		presence:    presence,
	}
}

// Send creates a pending chat request from fromID to toID. When instant is
// set the target must be online right now; the regular variant has no such
// requirement.
func (s *ChatRequestService) Send(ctx context.Context, fromID, toID uint, message string, instant bool) (*models.ChatRequest, error) {
	if fromID == toID {
		return nil, models.NewValidationError("Cannot send a chat request to yourself")
	}

	sender, err := s.profileRepo.GetByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	if !sender.Premium {
		return nil, models.NewPermissionDeniedError("Chat requests require a premium subscription")
	}

	target, err := s.profileRepo.GetByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if target.Blocked {
		return nil, models.NewNotFoundError("Profile", toID)
	}

	if instant && !s.targetOnline(ctx, target) {
		return nil, models.NewValidationError("This user is not online right now")
	}

	existing, err := s.chatRepo.GetByPair(ctx, fromID, toID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewAlreadyExistsError("You have already sent a chat request to this user")
	}

	request := &models.ChatRequest{
		FromID:  fromID,
		ToID:    toID,
		Message: message,
		Status:  models.ChatRequestStatusPending,
	}
	if err := s.chatRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	return s.chatRepo.GetByID(ctx, request.ID)
}

// Status returns the state of the request from fromID to toID, or
// ChatRequestStatusNone when no request exists. The reverse direction is a
// separate pair and does not count.
func (s *ChatRequestService) Status(ctx context.Context, fromID, toID uint) (models.ChatRequestStatus, error) {
	existing, err := s.chatRepo.GetByPair(ctx, fromID, toID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return models.ChatRequestStatusNone, nil
	}
	return existing.Status, nil
}

// Pending lists the user's incoming pending requests, newest first.
func (s *ChatRequestService) Pending(ctx context.Context, userID uint) ([]models.ChatRequest, error) {
	return s.chatRepo.PendingFor(ctx, userID)
}

// Respond approves or rejects a pending request. Only the addressee may
// decide, and the decision is final: an approved or rejected request never
// returns to pending.
func (s *ChatRequestService) Respond(ctx context.Context, userID, requestID uint, approve bool) (*models.ChatRequest, error) {
	request, err := s.chatRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if request.ToID != userID {
		return nil, models.NewUnauthorizedError("You can only respond to chat requests sent to you")
	}
	if request.Status != models.ChatRequestStatusPending {
		return nil, models.NewValidationError("This chat request has already been decided")
	}

	status := models.ChatRequestStatusRejected
	if approve {
		status = models.ChatRequestStatusApproved
	}
	if err := s.chatRepo.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, err
	}

	return s.chatRepo.GetByID(ctx, requestID)
}

// targetOnline asks the presence tracker and falls back to the persisted
// flag when no tracker is wired or Redis cannot answer.
func (s *ChatRequestService) targetOnline(ctx context.Context, target *models.Profile) bool {
	if s.presence == nil {
		return target.Online
	}
	online, err := s.presence.IsOnline(ctx, target.ID)
	if err != nil {
		return target.Online
	}
	return online
}
