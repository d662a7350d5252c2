package server

import (
	"incontro/internal/models"
	"incontro/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// SendChatRequest handles POST /api/chat-requests
//
// Premium members only. The "instant" variant additionally requires the
// target to be online right now.
func (s *Server) SendChatRequest(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		ToID    uint   `json:"to_id"`
		Message string `json:"message"`
		Instant bool   `json:"instant"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.ToID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Recipient is required"))
	}

	request, err := s.chatRequestService.Send(ctx, userID, req.ToID, req.Message, req.Instant)
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RecordChatRequestOutcome("sent")

	return c.Status(fiber.StatusCreated).JSON(request)
}

// GetPendingChatRequests handles GET /api/chat-requests/pending
func (s *Server) GetPendingChatRequests(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	pending, err := s.chatRequestService.Pending(ctx, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(pending)
}

// GetChatRequestStatus handles GET /api/chat-requests/status/:userId
//
// Reports the status of the caller's request toward the given user,
// "none" when the caller never sent one.
func (s *Server) GetChatRequestStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	status, err := s.chatRequestService.Status(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"status": status})
}

// ApproveChatRequest handles POST /api/chat-requests/:id/approve
func (s *Server) ApproveChatRequest(c *fiber.Ctx) error {
	return s.respondToChatRequest(c, true)
}

// RejectChatRequest handles POST /api/chat-requests/:id/reject
func (s *Server) RejectChatRequest(c *fiber.Ctx) error {
	return s.respondToChatRequest(c, false)
}

func (s *Server) respondToChatRequest(c *fiber.Ctx, approve bool) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	requestID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	request, err := s.chatRequestService.Respond(ctx, userID, requestID, approve)
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RecordChatRequestOutcome(string(request.Status))

	return c.JSON(request)
}
