package server

import (
	"encoding/json"

	"incontro/internal/cache"
	"incontro/internal/models"
	"incontro/internal/observability"
	"incontro/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// CreatePost handles POST /api/posts
//
// One post per UTC calendar day per user; a second attempt comes back 429.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Description string   `json:"description"`
		Photos      []string `json:"photos"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var photos datatypes.JSON
	if len(req.Photos) > 0 {
		raw, err := json.Marshal(req.Photos)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid photos payload"))
		}
		photos = datatypes.JSON(raw)
	}

	post, err := s.postService.CreatePost(ctx, service.CreatePostInput{
		UserID:      userID,
		Description: req.Description,
		Photos:      photos,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	observability.PostsCreated.Inc()

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListPosts(ctx, page.Limit, page.Offset, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPost(ctx, id, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(post)
}

// GetProfilePosts handles GET /api/profiles/:id/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	ctx := c.Context()
	profileID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	page := parsePagination(c, 20)
	viewerID, _ := s.optionalUserID(c)

	posts, err := s.postService.ListUserPosts(ctx, profileID, page.Limit, page.Offset, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(posts)
}

// DeletePost handles DELETE /api/posts/:id. Owners and admins only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(ctx, postID, userID); err != nil {
		return respondServiceError(c, err)
	}

	cache.InvalidatePost(ctx, postID)

	return c.JSON(fiber.Map{"message": "Post deleted"})
}
