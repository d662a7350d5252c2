package server

import (
	"incontro/internal/cache"
	"incontro/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// AdminListProfiles handles GET /api/admin/profiles. Unlike browse, it
// includes blocked and unvalidated profiles.
func (s *Server) AdminListProfiles(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	profiles, err := s.profileService.ListProfiles(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}

// GetPendingValidation handles GET /api/admin/profiles/pending. It lists
// profiles that uploaded an identity document and are still unreviewed,
// oldest first.
func (s *Server) GetPendingValidation(c *fiber.Ctx) error {
	page := parsePagination(c, 50)

	profiles, err := s.profileService.PendingValidation(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}

// ValidateProfile handles POST /api/admin/profiles/:id/validate
//
// Flips the validated flag after the admin has reviewed the member's
// identity document.
func (s *Server) ValidateProfile(c *fiber.Ctx) error {
	return s.setProfileFlag(c, func(ctx *fiber.Ctx, id uint) error {
		return s.profileService.Validate(ctx.Context(), id)
	}, "Profile validated")
}

// BlockProfile handles POST /api/admin/profiles/:id/block
func (s *Server) BlockProfile(c *fiber.Ctx) error {
	return s.setProfileFlag(c, func(ctx *fiber.Ctx, id uint) error {
		return s.profileService.SetBlocked(ctx.Context(), id, true)
	}, "Profile blocked")
}

// UnblockProfile handles POST /api/admin/profiles/:id/unblock
func (s *Server) UnblockProfile(c *fiber.Ctx) error {
	return s.setProfileFlag(c, func(ctx *fiber.Ctx, id uint) error {
		return s.profileService.SetBlocked(ctx.Context(), id, false)
	}, "Profile unblocked")
}

// SetProfilePremium handles POST /api/admin/profiles/:id/premium
func (s *Server) SetProfilePremium(c *fiber.Ctx) error {
	var req struct {
		Premium bool `json:"premium"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	return s.setProfileFlag(c, func(ctx *fiber.Ctx, id uint) error {
		return s.profileService.SetPremium(ctx.Context(), id, req.Premium)
	}, "Premium flag updated")
}

// AdminDeleteProfile handles DELETE /api/admin/profiles/:id
//
// Removes the profile along with its posts, interactions and chat requests.
func (s *Server) AdminDeleteProfile(c *fiber.Ctx) error {
	return s.setProfileFlag(c, func(ctx *fiber.Ctx, id uint) error {
		return s.profileService.DeleteProfile(ctx.Context(), id)
	}, "Profile deleted")
}

func (s *Server) setProfileFlag(c *fiber.Ctx, apply func(*fiber.Ctx, uint) error, message string) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := apply(c, id); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateProfile(c.Context(), id)

	return c.JSON(fiber.Map{"message": message})
}

// GetSetting handles GET /api/admin/settings/:key
func (s *Server) GetSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Setting key is required"))
	}

	setting, err := s.settingRepo.Get(c.Context(), key)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(setting)
}

// PutSetting handles PUT /api/admin/settings/:key
//
// The value is stored as raw JSON; the home slider configuration lives
// under the "home_slider" key.
func (s *Server) PutSetting(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Setting key is required"))
	}

	body := c.Body()
	if len(body) == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Setting value is required"))
	}

	if err := s.settingRepo.Put(c.Context(), key, datatypes.JSON(body)); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateSetting(c.Context(), key)

	return c.JSON(fiber.Map{"message": "Setting updated"})
}
