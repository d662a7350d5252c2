package server

import (
	"incontro/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetLiveBanners handles GET /api/banners. Only messages younger than 24
// hours are returned; older ones have already been pruned.
func (s *Server) GetLiveBanners(c *fiber.Ctx) error {
	banners, err := s.bannerService.Live(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(banners)
}

// PublishBanner handles POST /api/banners. Publishing replaces the author's
// previous banner, so each member holds at most one slot on the wall.
func (s *Server) PublishBanner(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	banner, err := s.bannerService.Publish(c.Context(), userID, req.Body)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(banner)
}

// ReplyToBanner handles POST /api/banners/:id/replies
func (s *Server) ReplyToBanner(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	messageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.bannerService.Reply(c.Context(), userID, messageID, req.Body)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(reply)
}
