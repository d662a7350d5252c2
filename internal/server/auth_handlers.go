package server

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"incontro/internal/models"
	"incontro/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		Name        string `json:"name"`
		Surname     string `json:"surname"`
		BirthDate   string `json:"birth_date"`
		City        string `json:"city"`
		Province    string `json:"province"`
		Gender      string `json:"gender"`
		Orientation string `json:"orientation"`
		AgeMin      int    `json:"looking_for_age_min"`
		AgeMax      int    `json:"looking_for_age_max"`
		WantsGender string `json:"looking_for_gender"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Register(c.Context(), service.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Surname:     req.Surname,
		BirthDate:   req.BirthDate,
		City:        req.City,
		Province:    req.Province,
		Gender:      models.Gender(req.Gender),
		Orientation: models.Orientation(req.Orientation),
		LookingFor: models.LookingFor{
			AgeMin: req.AgeMin,
			AgeMax: req.AgeMax,
			Gender: req.WantsGender,
		},
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(profile.ID, profile.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token":   token,
		"profile": profile,
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(profile.ID, profile.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	// Presence heartbeats take over from here; the flag covers Redis outages.
	if s.presence != nil {
		_ = s.presence.MarkOnline(c.Context(), profile.ID)
	}
	_ = s.profileRepo.SetOnline(c.Context(), profile.ID, true)

	return c.JSON(fiber.Map{
		"token":   token,
		"profile": profile,
	})
}

// Refresh handles POST /api/auth/refresh. It exchanges a still-valid token
// for a fresh one with a new expiry.
func (s *Server) Refresh(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	profile, err := s.profileRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	token, err := s.generateToken(profile.ID, profile.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"token": token})
}

// Logout handles POST /api/auth/logout. The token's jti goes on a Redis
// blacklist until its natural expiry so it cannot be replayed.
func (s *Server) Logout(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	if s.presence != nil {
		_ = s.presence.MarkOffline(c.Context(), userID)
	}
	_ = s.profileRepo.SetOnline(c.Context(), userID, false)

	if s.redis != nil {
		if jti, ttl, ok := s.tokenRevocationClaims(c); ok && ttl > 0 {
			s.redis.Set(c.Context(), "blacklist:"+jti, "1", ttl)
		}
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// tokenRevocationClaims extracts the jti and remaining lifetime of the
// bearer token on the request.
func (s *Server) tokenRevocationClaims(c *fiber.Ctx) (string, time.Duration, bool) {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", 0, false
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, false
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", 0, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return "", 0, false
	}
	return jti, time.Until(time.Unix(int64(exp), 0)), true
}

// generateToken creates a JWT token for the given profile ID and email
func (s *Server) generateToken(userID uint, email string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10), // Subject (user ID as string)
		"email": email,                                  // Email (cached in token)
		"iss":   "incontro-api",                         // Issuer
		"aud":   "incontro-client",                      // Audience
		"exp":   now.Add(time.Hour * 24 * 7).Unix(),     // Expiration (7 days)
		"iat":   now.Unix(),                             // Issued at
		"nbf":   now.Unix(),                             // Not before
		"jti":   s.generateJTI(),                        // JWT ID (unique identifier)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
