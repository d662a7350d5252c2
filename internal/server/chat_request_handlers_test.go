package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"incontro/internal/config"
	"incontro/internal/models"
	"incontro/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockChatRequestRepository is a mock of the ChatRequestRepository interface
type MockChatRequestRepository struct {
	mock.Mock
}

func (m *MockChatRequestRepository) Create(ctx context.Context, request *models.ChatRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockChatRequestRepository) GetByID(ctx context.Context, id uint) (*models.ChatRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRequest), args.Error(1)
}

func (m *MockChatRequestRepository) GetByPair(ctx context.Context, fromID, toID uint) (*models.ChatRequest, error) {
	args := m.Called(ctx, fromID, toID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChatRequest), args.Error(1)
}

func (m *MockChatRequestRepository) PendingFor(ctx context.Context, userID uint) ([]models.ChatRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChatRequest), args.Error(1)
}

func (m *MockChatRequestRepository) UpdateStatus(ctx context.Context, requestID uint, status models.ChatRequestStatus) error {
	args := m.Called(ctx, requestID, status)
	return args.Error(0)
}

func newChatTestServer(chatRepo *MockChatRequestRepository, profileRepo *MockProfileRepository) *Server {
	s := &Server{
		config:          &config.Config{JWTSecret: "test_secret"},
		chatRequestRepo: chatRepo,
		profileRepo:     profileRepo,
	}
	s.chatRequestService = service.NewChatRequestService(chatRepo, profileRepo, nil)
	return s
}

func TestSendChatRequest(t *testing.T) {
	premiumSender := &models.Profile{ID: 1, Premium: true}
	freeSender := &models.Profile{ID: 1}
	target := &models.Profile{ID: 2, Online: true}
	offlineTarget := &models.Profile{ID: 2}

	tests := []struct {
		name           string
		body           map[string]interface{}
		mockSetup      func(chat *MockChatRequestRepository, profiles *MockProfileRepository)
		expectedStatus int
	}{
		{
			name: "Success",
			body: map[string]interface{}{"to_id": 2, "message": "Ciao!"},
			mockSetup: func(chat *MockChatRequestRepository, profiles *MockProfileRepository) {
				profiles.On("GetByID", mock.Anything, uint(1)).Return(premiumSender, nil)
				profiles.On("GetByID", mock.Anything, uint(2)).Return(target, nil)
				chat.On("GetByPair", mock.Anything, uint(1), uint(2)).Return(nil, nil)
				chat.On("Create", mock.Anything, mock.Anything).Return(nil)
				chat.On("GetByID", mock.Anything, mock.Anything).
					Return(&models.ChatRequest{FromID: 1, ToID: 2, Status: models.ChatRequestStatusPending}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "Free member rejected",
			body: map[string]interface{}{"to_id": 2},
			mockSetup: func(chat *MockChatRequestRepository, profiles *MockProfileRepository) {
				profiles.On("GetByID", mock.Anything, uint(1)).Return(freeSender, nil)
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name: "Instant requires online target",
			body: map[string]interface{}{"to_id": 2, "instant": true},
			mockSetup: func(chat *MockChatRequestRepository, profiles *MockProfileRepository) {
				profiles.On("GetByID", mock.Anything, uint(1)).Return(premiumSender, nil)
				profiles.On("GetByID", mock.Anything, uint(2)).Return(offlineTarget, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Pair already used",
			body: map[string]interface{}{"to_id": 2},
			mockSetup: func(chat *MockChatRequestRepository, profiles *MockProfileRepository) {
				profiles.On("GetByID", mock.Anything, uint(1)).Return(premiumSender, nil)
				profiles.On("GetByID", mock.Anything, uint(2)).Return(target, nil)
				chat.On("GetByPair", mock.Anything, uint(1), uint(2)).
					Return(&models.ChatRequest{FromID: 1, ToID: 2, Status: models.ChatRequestStatusRejected}, nil)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Missing recipient",
			body:           map[string]interface{}{"message": "Ciao!"},
			mockSetup:      func(*MockChatRequestRepository, *MockProfileRepository) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := new(MockChatRequestRepository)
			profileRepo := new(MockProfileRepository)
			tt.mockSetup(chatRepo, profileRepo)
			s := newChatTestServer(chatRepo, profileRepo)

			app := authedApp()
			app.Post("/chat-requests", s.SendChatRequest)

			payload, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/chat-requests", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			chatRepo.AssertExpectations(t)
			profileRepo.AssertExpectations(t)
		})
	}
}

func TestRespondChatRequest(t *testing.T) {
	pending := func() *models.ChatRequest {
		return &models.ChatRequest{ID: 5, FromID: 2, ToID: 1, Status: models.ChatRequestStatusPending}
	}

	tests := []struct {
		name           string
		path           string
		mockSetup      func(chat *MockChatRequestRepository)
		expectedStatus int
		expectedResult models.ChatRequestStatus
	}{
		{
			name: "Approve",
			path: "/chat-requests/5/approve",
			mockSetup: func(chat *MockChatRequestRepository) {
				chat.On("GetByID", mock.Anything, uint(5)).Return(pending(), nil).Once()
				chat.On("UpdateStatus", mock.Anything, uint(5), models.ChatRequestStatusApproved).Return(nil)
				approved := pending()
				approved.Status = models.ChatRequestStatusApproved
				chat.On("GetByID", mock.Anything, uint(5)).Return(approved, nil)
			},
			expectedStatus: http.StatusOK,
			expectedResult: models.ChatRequestStatusApproved,
		},
		{
			name: "Reject",
			path: "/chat-requests/5/reject",
			mockSetup: func(chat *MockChatRequestRepository) {
				chat.On("GetByID", mock.Anything, uint(5)).Return(pending(), nil).Once()
				chat.On("UpdateStatus", mock.Anything, uint(5), models.ChatRequestStatusRejected).Return(nil)
				rejected := pending()
				rejected.Status = models.ChatRequestStatusRejected
				chat.On("GetByID", mock.Anything, uint(5)).Return(rejected, nil)
			},
			expectedStatus: http.StatusOK,
			expectedResult: models.ChatRequestStatusRejected,
		},
		{
			name: "Only the addressee may decide",
			path: "/chat-requests/5/approve",
			mockSetup: func(chat *MockChatRequestRepository) {
				stranger := pending()
				stranger.ToID = 9
				chat.On("GetByID", mock.Anything, uint(5)).Return(stranger, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "Decided requests are final",
			path: "/chat-requests/5/approve",
			mockSetup: func(chat *MockChatRequestRepository) {
				decided := pending()
				decided.Status = models.ChatRequestStatusRejected
				chat.On("GetByID", mock.Anything, uint(5)).Return(decided, nil)
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chatRepo := new(MockChatRequestRepository)
			profileRepo := new(MockProfileRepository)
			tt.mockSetup(chatRepo)
			s := newChatTestServer(chatRepo, profileRepo)

			app := authedApp()
			app.Post("/chat-requests/:id/approve", s.ApproveChatRequest)
			app.Post("/chat-requests/:id/reject", s.RejectChatRequest)

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			resp, err := app.Test(req)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedResult != "" {
				var result models.ChatRequest
				assert.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
				assert.Equal(t, tt.expectedResult, result.Status)
			}
			chatRepo.AssertExpectations(t)
		})
	}
}
