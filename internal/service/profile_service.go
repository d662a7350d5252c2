package service

import (
	"context"
	"strings"

	"incontro/internal/models"
	"incontro/internal/repository"
	"incontro/internal/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// ProfileService provides registration, profile editing, and the admin
// moderation operations.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService returns a new ProfileService.
func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// RegisterInput holds the fields collected at signup.
type RegisterInput struct {
	Email       string
	Password    string
	Name        string
	Surname     string
	BirthDate   string
	City        string
	Province    string
	Gender      models.Gender
	Orientation models.Orientation
	LookingFor  models.LookingFor
}

// Register creates a new profile. New profiles start unvalidated; an admin
// flips the flag after reviewing the identity document.
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateBirthDate(in.BirthDate); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	in.Gender = models.Gender(strings.ToLower(string(in.Gender)))
	in.Orientation = models.Orientation(strings.ToLower(string(in.Orientation)))
	if !validGender(in.Gender) {
		return nil, models.NewValidationError("Unknown gender")
	}
	if !validOrientation(in.Orientation) {
		return nil, models.NewValidationError("Unknown orientation")
	}
	if in.LookingFor.AgeMin != 0 && in.LookingFor.AgeMax != 0 && in.LookingFor.AgeMin > in.LookingFor.AgeMax {
		return nil, models.NewValidationError("Preferred minimum age cannot exceed maximum age")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	profile := &models.Profile{
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Password:    string(hashed),
		Name:        strings.TrimSpace(in.Name),
		Surname:     strings.TrimSpace(in.Surname),
		BirthDate:   in.BirthDate,
		City:        strings.TrimSpace(in.City),
		Province:    strings.TrimSpace(in.Province),
		Gender:      in.Gender,
		Orientation: in.Orientation,
		LookingFor:  in.LookingFor,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Authenticate verifies credentials and returns the profile. Blocked
// profiles cannot log in.
func (s *ProfileService) Authenticate(ctx context.Context, email, password string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if models.HasCode(err, "NOT_FOUND") {
			return nil, models.NewUnauthorizedError("Invalid credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if profile.Blocked {
		return nil, models.NewPermissionDeniedError("This account has been suspended")
	}
	return profile, nil
}

// UpdateProfileInput holds the editable profile fields. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type UpdateProfileInput struct {
	UserID        uint
	City          *string
	Province      *string
	Job           *string
	Bio           *string
	Hobbies       *string
	Desires       *string
	BodyType      *string
	LookingFor    *models.LookingFor
	Photos        datatypes.JSON
	GettingToKnow datatypes.JSONMap
}

// UpdateProfile applies the edits and returns the refreshed profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 2000

	if in.Bio != nil {
		if len(*in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 2000 characters)")
		}
		profile.Bio = *in.Bio
	}
	if in.City != nil {
		profile.City = strings.TrimSpace(*in.City)
	}
	if in.Province != nil {
		profile.Province = strings.TrimSpace(*in.Province)
	}
	if in.Job != nil {
		profile.Job = *in.Job
	}
	if in.Hobbies != nil {
		profile.Hobbies = strings.Join(models.ParseTags(*in.Hobbies), ",")
	}
	if in.Desires != nil {
		profile.Desires = *in.Desires
	}
	if in.BodyType != nil {
		profile.BodyType = *in.BodyType
	}
	if in.LookingFor != nil {
		if in.LookingFor.AgeMin != 0 && in.LookingFor.AgeMax != 0 && in.LookingFor.AgeMin > in.LookingFor.AgeMax {
			return nil, models.NewValidationError("Preferred minimum age cannot exceed maximum age")
		}
		profile.LookingFor = *in.LookingFor
	}
	if in.Photos != nil {
		if len(models.ParseTags(string(in.Photos))) > models.MaxProfilePhotos {
			return nil, models.NewValidationError("A profile can have at most 5 photos")
		}
		profile.Photos = in.Photos
	}
	if in.GettingToKnow != nil {
		profile.GettingToKnow = in.GettingToKnow
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ListProfiles returns profiles for the admin console, including blocked ones.
func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}
	return s.profileRepo.List(ctx, limit, offset)
}

// PendingValidation lists profiles awaiting identity-document review.
func (s *ProfileService) PendingValidation(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	return s.profileRepo.PendingValidation(ctx, limit, offset)
}

// Validate marks a profile as identity-verified.
func (s *ProfileService) Validate(ctx context.Context, profileID uint) error {
	return s.profileRepo.SetValidated(ctx, profileID, true)
}

// SetBlocked suspends or reinstates a profile.
func (s *ProfileService) SetBlocked(ctx context.Context, profileID uint, blocked bool) error {
	return s.profileRepo.SetBlocked(ctx, profileID, blocked)
}

// SetPremium grants or revokes the premium subscription flag.
func (s *ProfileService) SetPremium(ctx context.Context, profileID uint, premium bool) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	profile.Premium = premium
	return s.profileRepo.Update(ctx, profile)
}

// DeleteProfile removes a profile and everything it owns.
func (s *ProfileService) DeleteProfile(ctx context.Context, profileID uint) error {
	return s.profileRepo.DeleteCascade(ctx, profileID)
}

func validGender(g models.Gender) bool {
	switch g {
	case models.GenderMale, models.GenderFemale:
		return true
	}
	return false
}

func validOrientation(o models.Orientation) bool {
	switch o {
	case models.OrientationHeterosexual, models.OrientationGay,
		models.OrientationLesbian, models.OrientationBisexual,
		models.OrientationPansexual:
		return true
	}
	return false
}
