package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"incontro/internal/models"
)

type bannerRepoStub struct {
	insertFn   func(context.Context, *models.BannerMessage) error
	getByIDFn  func(context.Context, uint) (*models.BannerMessage, error)
	listLiveFn func(context.Context, time.Time) ([]models.BannerMessage, error)
	addReplyFn func(context.Context, *models.BannerReply) error
}

func (s *bannerRepoStub) Insert(ctx context.Context, message *models.BannerMessage) error {
	return s.insertFn(ctx, message)
}
func (s *bannerRepoStub) GetByID(ctx context.Context, id uint) (*models.BannerMessage, error) {
	return s.getByIDFn(ctx, id)
}
func (s *bannerRepoStub) ListLive(ctx context.Context, now time.Time) ([]models.BannerMessage, error) {
	return s.listLiveFn(ctx, now)
}
func (s *bannerRepoStub) AddReply(ctx context.Context, reply *models.BannerReply) error {
	return s.addReplyFn(ctx, reply)
}

func noopBannerRepo() *bannerRepoStub {
	return &bannerRepoStub{
		insertFn: func(context.Context, *models.BannerMessage) error { return nil },
		getByIDFn: func(context.Context, uint) (*models.BannerMessage, error) {
			return &models.BannerMessage{CreatedAt: time.Now()}, nil
		},
		listLiveFn: func(context.Context, time.Time) ([]models.BannerMessage, error) { return nil, nil },
		addReplyFn: func(context.Context, *models.BannerReply) error { return nil },
	}
}

func TestBannerServicePublishEmptyBody(t *testing.T) {
	svc := NewBannerService(noopBannerRepo())
	_, err := svc.Publish(context.Background(), 1, "   ")
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestBannerServicePublishTooLong(t *testing.T) {
	svc := NewBannerService(noopBannerRepo())
	_, err := svc.Publish(context.Background(), 1, strings.Repeat("a", maxBannerBodyLen+1))
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestBannerServicePublishTrims(t *testing.T) {
	var inserted *models.BannerMessage
	repo := noopBannerRepo()
	repo.insertFn = func(_ context.Context, m *models.BannerMessage) error {
		inserted = m
		return nil
	}

	svc := NewBannerService(repo)
	if _, err := svc.Publish(context.Background(), 7, "  chi c'è stasera?  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inserted.Body != "chi c'è stasera?" {
		t.Errorf("expected trimmed body, got %q", inserted.Body)
	}
	if inserted.AuthorID != 7 {
		t.Errorf("expected author 7, got %d", inserted.AuthorID)
	}
}

func TestBannerServiceReplyToExpiredMessage(t *testing.T) {
	repo := noopBannerRepo()
	repo.getByIDFn = func(context.Context, uint) (*models.BannerMessage, error) {
		return &models.BannerMessage{
			ID:        3,
			CreatedAt: time.Now().Add(-models.BannerTTL - time.Hour),
		}, nil
	}

	svc := NewBannerService(repo)
	_, err := svc.Reply(context.Background(), 1, 3, "troppo tardi")
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestBannerServiceReplyToLiveMessage(t *testing.T) {
	var added *models.BannerReply
	repo := noopBannerRepo()
	repo.addReplyFn = func(_ context.Context, r *models.BannerReply) error {
		added = r
		return nil
	}

	svc := NewBannerService(repo)
	reply, err := svc.Reply(context.Background(), 2, 3, "arrivo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Body != "arrivo" || added.MessageID != 3 || added.AuthorID != 2 {
		t.Errorf("unexpected reply: %+v", added)
	}
}
