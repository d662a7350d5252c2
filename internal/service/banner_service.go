package service

import (
	"context"
	"strings"
	"time"

	"incontro/internal/models"
	"incontro/internal/repository"
)

const maxBannerBodyLen = 280

// BannerService provides the ephemeral message-board logic. Messages live
// for models.BannerTTL; posting a new one replaces the author's previous.
type BannerService struct {
	bannerRepo repository.BannerRepository
	now        func() time.Time
}

// NewBannerService returns a new BannerService.
func NewBannerService(bannerRepo repository.BannerRepository) *BannerService {
	return &BannerService{bannerRepo: bannerRepo, now: time.Now}
}

// Publish posts a new banner message for the author.
func (s *BannerService) Publish(ctx context.Context, authorID uint, body string) (*models.BannerMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Message body is required")
	}
	if len(body) > maxBannerBodyLen {
		return nil, models.NewValidationError("Message too long (max 280 characters)")
	}

	message := &models.BannerMessage{AuthorID: authorID, Body: body}
	if err := s.bannerRepo.Insert(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// Live returns the currently visible banner messages, newest first.
func (s *BannerService) Live(ctx context.Context) ([]models.BannerMessage, error) {
	return s.bannerRepo.ListLive(ctx, s.now())
}

// Reply adds a reply to a live banner message.
func (s *BannerService) Reply(ctx context.Context, authorID, messageID uint, body string) (*models.BannerReply, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, models.NewValidationError("Reply body is required")
	}
	if len(body) > maxBannerBodyLen {
		return nil, models.NewValidationError("Reply too long (max 280 characters)")
	}

	message, err := s.bannerRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.Expired(s.now()) {
		return nil, models.NewNotFoundError("BannerMessage", messageID)
	}

	reply := &models.BannerReply{MessageID: messageID, AuthorID: authorID, Body: body}
	if err := s.bannerRepo.AddReply(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}
