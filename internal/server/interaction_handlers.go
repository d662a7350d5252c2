package server

import (
	"incontro/internal/cache"
	"incontro/internal/models"
	"incontro/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ToggleProfileInteraction handles POST /api/profiles/:id/interactions/:kind
//
// The first call sets the like/heart, the second call on the same edge
// removes it. The response carries the resulting state and fresh counts.
func (s *Server) ToggleProfileInteraction(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	kind := models.InteractionKind(c.Params("kind"))

	state, err := s.interactionService.ToggleProfile(ctx, userID, targetID, kind)
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RecordToggle(string(kind), state.Removed)
	cache.InvalidateProfile(ctx, targetID)

	return c.JSON(state)
}

// GetProfileInteractions handles GET /api/profiles/:id/interactions
//
// Returns aggregate counts for the target plus the kinds the caller has
// currently set on it.
func (s *Server) GetProfileInteractions(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.interactionService.CountsForProfile(ctx, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	mine, err := s.interactionService.StateForProfile(ctx, userID, targetID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if mine == nil {
		mine = []models.InteractionKind{}
	}

	return c.JSON(fiber.Map{
		"counts": counts,
		"mine":   mine,
	})
}

// TogglePostInteraction handles POST /api/posts/:id/interactions/:kind
func (s *Server) TogglePostInteraction(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	kind := models.InteractionKind(c.Params("kind"))

	state, err := s.interactionService.TogglePost(ctx, userID, postID, kind)
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.RecordToggle(string(kind), state.Removed)
	cache.InvalidatePost(ctx, postID)

	return c.JSON(state)
}
