package service

import (
	"context"
	"errors"
	"testing"

	"incontro/internal/models"
)

type chatRepoStub struct {
	createFn       func(context.Context, *models.ChatRequest) error
	getByIDFn      func(context.Context, uint) (*models.ChatRequest, error)
	getByPairFn    func(context.Context, uint, uint) (*models.ChatRequest, error)
	pendingForFn   func(context.Context, uint) ([]models.ChatRequest, error)
	updateStatusFn func(context.Context, uint, models.ChatRequestStatus) error
}

func (s *chatRepoStub) Create(ctx context.Context, request *models.ChatRequest) error {
	return s.createFn(ctx, request)
}
func (s *chatRepoStub) GetByID(ctx context.Context, id uint) (*models.ChatRequest, error) {
	return s.getByIDFn(ctx, id)
}
func (s *chatRepoStub) GetByPair(ctx context.Context, fromID, toID uint) (*models.ChatRequest, error) {
	return s.getByPairFn(ctx, fromID, toID)
}
func (s *chatRepoStub) PendingFor(ctx context.Context, userID uint) ([]models.ChatRequest, error) {
	return s.pendingForFn(ctx, userID)
}
func (s *chatRepoStub) UpdateStatus(ctx context.Context, requestID uint, status models.ChatRequestStatus) error {
	return s.updateStatusFn(ctx, requestID, status)
}

func noopChatRepo() *chatRepoStub {
	return &chatRepoStub{
		createFn:     func(context.Context, *models.ChatRequest) error { return nil },
		getByIDFn:    func(context.Context, uint) (*models.ChatRequest, error) { return &models.ChatRequest{}, nil },
		getByPairFn:  func(context.Context, uint, uint) (*models.ChatRequest, error) { return nil, nil },
		pendingForFn: func(context.Context, uint) ([]models.ChatRequest, error) { return nil, nil },
		updateStatusFn: func(context.Context, uint, models.ChatRequestStatus) error {
			return nil
		},
	}
}

type presenceStub struct {
	isOnlineFn func(context.Context, uint) (bool, error)
}

func (s *presenceStub) IsOnline(ctx context.Context, userID uint) (bool, error) {
	return s.isOnlineFn(ctx, userID)
}

// premiumProfileRepo returns every profile as premium so the gate stays open
// unless a test overrides it.
func premiumProfileRepo() *profileRepoStub {
	repo := noopProfileRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, Premium: true}, nil
	}
	return repo
}

func TestChatRequestServiceSendToSelf(t *testing.T) {
	svc := NewChatRequestService(noopChatRepo(), premiumProfileRepo(), nil)
	_, err := svc.Send(context.Background(), 5, 5, "", false)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestChatRequestServicePremiumGate(t *testing.T) {
	repo := noopProfileRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, Premium: false}, nil
	}

	svc := NewChatRequestService(noopChatRepo(), repo, nil)
	_, err := svc.Send(context.Background(), 1, 2, "ciao", false)
	assertAppErrorCode(t, err, "PERMISSION_DENIED")
}

func TestChatRequestServiceDuplicatePair(t *testing.T) {
	chats := noopChatRepo()
	chats.getByPairFn = func(context.Context, uint, uint) (*models.ChatRequest, error) {
		return &models.ChatRequest{ID: 9, Status: models.ChatRequestStatusRejected}, nil
	}

	svc := NewChatRequestService(chats, premiumProfileRepo(), nil)
	_, err := svc.Send(context.Background(), 1, 2, "", false)
	assertAppErrorCode(t, err, "ALREADY_EXISTS")
}

func TestChatRequestServiceInstantRequiresOnline(t *testing.T) {
	presence := &presenceStub{
		isOnlineFn: func(context.Context, uint) (bool, error) { return false, nil },
	}

	svc := NewChatRequestService(noopChatRepo(), premiumProfileRepo(), presence)
	_, err := svc.Send(context.Background(), 1, 2, "", true)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestChatRequestServiceInstantOnlineTarget(t *testing.T) {
	presence := &presenceStub{
		isOnlineFn: func(context.Context, uint) (bool, error) { return true, nil },
	}
	chats := noopChatRepo()
	var created *models.ChatRequest
	chats.createFn = func(_ context.Context, r *models.ChatRequest) error {
		created = r
		r.ID = 12
		return nil
	}
	chats.getByIDFn = func(_ context.Context, id uint) (*models.ChatRequest, error) {
		return created, nil
	}

	svc := NewChatRequestService(chats, premiumProfileRepo(), presence)
	request, err := svc.Send(context.Background(), 1, 2, "ti va di parlare?", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != models.ChatRequestStatusPending {
		t.Errorf("expected pending status, got %q", request.Status)
	}
}

func TestChatRequestServiceInstantPresenceOutageUsesStoredFlag(t *testing.T) {
	presence := &presenceStub{
		isOnlineFn: func(context.Context, uint) (bool, error) {
			return false, errors.New("redis: connection refused")
		},
	}
	profiles := noopProfileRepo()
	profiles.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, Premium: true, Online: id == 2}, nil
	}

	svc := NewChatRequestService(noopChatRepo(), profiles, presence)

	// Target is flagged online, so a presence outage must not block the send.
	if _, err := svc.Send(context.Background(), 1, 2, "", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Target flagged offline stays offline during the outage.
	profiles.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, Premium: true, Online: false}, nil
	}
	_, err := svc.Send(context.Background(), 1, 3, "", true)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestChatRequestServiceStatusNone(t *testing.T) {
	svc := NewChatRequestService(noopChatRepo(), premiumProfileRepo(), nil)
	status, err := svc.Status(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != models.ChatRequestStatusNone {
		t.Errorf("expected none, got %q", status)
	}
}

func TestChatRequestServiceRespondAddresseeOnly(t *testing.T) {
	chats := noopChatRepo()
	chats.getByIDFn = func(context.Context, uint) (*models.ChatRequest, error) {
		return &models.ChatRequest{ID: 4, FromID: 1, ToID: 2, Status: models.ChatRequestStatusPending}, nil
	}

	svc := NewChatRequestService(chats, premiumProfileRepo(), nil)
	_, err := svc.Respond(context.Background(), 3, 4, true)
	assertAppErrorCode(t, err, "UNAUTHORIZED")
}

func TestChatRequestServiceRespondDecidedIsFinal(t *testing.T) {
	chats := noopChatRepo()
	chats.getByIDFn = func(context.Context, uint) (*models.ChatRequest, error) {
		return &models.ChatRequest{ID: 4, FromID: 1, ToID: 2, Status: models.ChatRequestStatusRejected}, nil
	}

	svc := NewChatRequestService(chats, premiumProfileRepo(), nil)
	_, err := svc.Respond(context.Background(), 2, 4, true)
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestChatRequestServiceRespondApprove(t *testing.T) {
	var updatedTo models.ChatRequestStatus
	chats := noopChatRepo()
	chats.getByIDFn = func(context.Context, uint) (*models.ChatRequest, error) {
		return &models.ChatRequest{ID: 4, FromID: 1, ToID: 2, Status: models.ChatRequestStatusPending}, nil
	}
	chats.updateStatusFn = func(_ context.Context, _ uint, status models.ChatRequestStatus) error {
		updatedTo = status
		return nil
	}

	svc := NewChatRequestService(chats, premiumProfileRepo(), nil)
	if _, err := svc.Respond(context.Background(), 2, 4, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updatedTo != models.ChatRequestStatusApproved {
		t.Errorf("expected approved, got %q", updatedTo)
	}
}
