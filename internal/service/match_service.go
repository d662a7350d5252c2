package service

import (
	"context"
	"time"

	"incontro/internal/matching"
	"incontro/internal/models"
	"incontro/internal/repository"
)

// BrowseInput holds the attribute filters a viewer can apply when browsing.
// ViewerID zero means an unauthenticated visitor: attribute filters still
// apply but the reciprocal-interest filter is bypassed.
type BrowseInput struct {
	ViewerID    uint
	Gender      models.Gender
	Orientation models.Orientation
	City        string
	BodyType    string
	AgeMin      int
	AgeMax      int
	Limit       int
	Offset      int
}

const (
	defaultBrowseLimit = 30
	maxBrowseLimit     = 100
)

// MatchService provides profile browsing with reciprocal filtering and
// compatibility scoring.
type MatchService struct {
	profileRepo repository.ProfileRepository
	presence    Presence
	now         func() time.Time
}

// NewMatchService returns a new MatchService.
func NewMatchService(profileRepo repository.ProfileRepository, presence Presence) *MatchService {
	return &MatchService{
		profileRepo: profileRepo,
		presence:    presence,
		now:         time.Now,
	}
}

// Browse returns candidate profiles for the viewer: attribute filters run in
// SQL, the reciprocal-interest filter runs in-process on the page, and each
// admitted profile is annotated with its age and compatibility score.
func (s *MatchService) Browse(ctx context.Context, in BrowseInput) ([]*models.Profile, error) {
	if in.AgeMin != 0 && in.AgeMax != 0 && in.AgeMin > in.AgeMax {
		return nil, models.NewValidationError("Minimum age cannot exceed maximum age")
	}

	var viewer *models.Profile
	if in.ViewerID != 0 {
		var err error
		viewer, err = s.profileRepo.GetByID(ctx, in.ViewerID)
		if err != nil {
			return nil, err
		}
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultBrowseLimit
	}
	if limit > maxBrowseLimit {
		limit = maxBrowseLimit
	}

	now := s.now().UTC()
	filters := repository.BrowseFilters{
		Gender:      in.Gender,
		Orientation: in.Orientation,
		City:        in.City,
		BodyType:    in.BodyType,
		Limit:       limit,
		Offset:      in.Offset,
	}
	// Someone aged exactly AgeMin was born at the latest AgeMin years ago;
	// someone aged AgeMax was born at the earliest AgeMax+1 years ago plus a day.
	if in.AgeMin > 0 {
		filters.MaxBirthDate = now.AddDate(-in.AgeMin, 0, 0).Format("2006-01-02")
	}
	if in.AgeMax > 0 {
		filters.MinBirthDate = now.AddDate(-in.AgeMax-1, 0, 1).Format("2006-01-02")
	}

	candidates, err := s.profileRepo.Browse(ctx, filters)
	if err != nil {
		return nil, err
	}

	admitted := matching.FilterMutual(viewer, candidates)
	for _, p := range admitted {
		s.annotate(ctx, viewer, p)
	}
	return admitted, nil
}

// Compatibility returns the match score between the viewer and a target.
func (s *MatchService) Compatibility(ctx context.Context, viewerID, targetID uint) (int, error) {
	viewer, err := s.profileRepo.GetByID(ctx, viewerID)
	if err != nil {
		return 0, err
	}
	target, err := s.profileRepo.GetByID(ctx, targetID)
	if err != nil {
		return 0, err
	}
	return matching.Score(viewer, target), nil
}

// GetProfile returns a single profile annotated for the viewer, including
// interaction counts, age, score, and live presence.
func (s *MatchService) GetProfile(ctx context.Context, profileID, viewerID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByIDAnnotated(ctx, profileID, viewerID)
	if err != nil {
		return nil, err
	}
	if profile.Blocked && profileID != viewerID {
		return nil, models.NewNotFoundError("Profile", profileID)
	}

	var viewer *models.Profile
	if viewerID != 0 && viewerID != profileID {
		if viewer, err = s.profileRepo.GetByID(ctx, viewerID); err != nil {
			return nil, err
		}
	}
	s.annotate(ctx, viewer, profile)
	return profile, nil
}

// annotate fills the computed fields on a profile. Presence errors are
// swallowed: the stale persisted flag is better than failing the request.
func (s *MatchService) annotate(ctx context.Context, viewer, profile *models.Profile) {
	profile.Age = matching.Age(profile.BirthDate)
	if viewer != nil {
		profile.MatchScore = matching.Score(viewer, profile)
	}
	if s.presence != nil {
		if online, err := s.presence.IsOnline(ctx, profile.ID); err == nil {
			profile.Online = online
		}
	}
}
