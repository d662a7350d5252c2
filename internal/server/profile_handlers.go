package server

import (
	"incontro/internal/cache"
	"incontro/internal/models"
	"incontro/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// BrowseProfiles handles GET /api/profiles
//
// Anonymous visitors get the unfiltered listing. Authenticated viewers get
// only mutually-interested candidates, each annotated with age, compatibility
// score and live presence.
func (s *Server) BrowseProfiles(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 30)
	viewerID, _ := s.optionalUserID(c)

	profiles, err := s.matchService.Browse(ctx, service.BrowseInput{
		ViewerID:    viewerID,
		Gender:      models.Gender(c.Query("gender")),
		Orientation: models.Orientation(c.Query("orientation")),
		City:        c.Query("city"),
		BodyType:    c.Query("body_type"),
		AgeMin:      c.QueryInt("age_min", 0),
		AgeMax:      c.QueryInt("age_max", 0),
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:id
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	profile, err := s.matchService.GetProfile(ctx, id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetMyProfile handles GET /api/profiles/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	profile, err := s.matchService.GetProfile(ctx, userID, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/profiles/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		City          *string            `json:"city"`
		Province      *string            `json:"province"`
		Job           *string            `json:"job"`
		Bio           *string            `json:"bio"`
		Hobbies       *string            `json:"hobbies"`
		Desires       *string            `json:"desires"`
		BodyType      *string            `json:"body_type"`
		LookingFor    *models.LookingFor `json:"looking_for"`
		Photos        datatypes.JSON     `json:"photos"`
		GettingToKnow datatypes.JSONMap  `json:"getting_to_know"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.UpdateProfile(ctx, service.UpdateProfileInput{
		UserID:        userID,
		City:          req.City,
		Province:      req.Province,
		Job:           req.Job,
		Bio:           req.Bio,
		Hobbies:       req.Hobbies,
		Desires:       req.Desires,
		BodyType:      req.BodyType,
		LookingFor:    req.LookingFor,
		Photos:        req.Photos,
		GettingToKnow: req.GettingToKnow,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidateProfile(ctx, userID)

	return c.JSON(profile)
}

// Heartbeat handles POST /api/profiles/me/heartbeat. Clients ping it
// periodically; the presence key expires on its own when they stop.
func (s *Server) Heartbeat(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	if s.presence != nil {
		if err := s.presence.MarkOnline(ctx, userID); err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
	}
	_ = s.profileRepo.SetOnline(ctx, userID, true)

	return c.JSON(fiber.Map{"online": true})
}

// GetCompatibility handles GET /api/compatibility/:viewerId/:candidateId
func (s *Server) GetCompatibility(c *fiber.Ctx) error {
	ctx := c.Context()
	viewerID, err := s.parseID(c, "viewerId")
	if err != nil {
		return nil
	}
	candidateID, err := s.parseID(c, "candidateId")
	if err != nil {
		return nil
	}

	score, err := s.matchService.Compatibility(ctx, viewerID, candidateID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"score": score})
}
