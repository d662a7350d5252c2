package service

import (
	"context"

	"incontro/internal/models"
	"incontro/internal/repository"
)

// InteractionState is the outcome of a toggle plus the resulting counts,
// returned together so the client can update its view without a second call.
type InteractionState struct {
	Removed bool                     `json:"removed"`
	Active  bool                     `json:"active"`
	Counts  models.InteractionCounts `json:"counts"`
}

// InteractionService provides like/heart business logic for profiles and posts.
type InteractionService struct {
	interactionRepo repository.InteractionRepository
	profileRepo     repository.ProfileRepository
	postRepo        repository.PostRepository
}

// NewInteractionService returns a new InteractionService.
func NewInteractionService(
	interactionRepo repository.InteractionRepository,
	profileRepo repository.ProfileRepository,
	postRepo repository.PostRepository,
) *InteractionService {
	return &InteractionService{
		interactionRepo: interactionRepo,
		profileRepo:     profileRepo,
		postRepo:        postRepo,
	}
}

// ToggleProfile flips the actor's like/heart edge toward the target profile.
func (s *InteractionService) ToggleProfile(ctx context.Context, actorID, targetID uint, kind models.InteractionKind) (*InteractionState, error) {
	if !models.ValidInteractionKind(kind) {
		return nil, models.NewValidationError("Unknown interaction kind")
	}
	if actorID == targetID {
		return nil, models.NewValidationError("Cannot react to your own profile")
	}
	if _, err := s.profileRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}

	removed, err := s.interactionRepo.Toggle(ctx, actorID, targetID, kind)
	if err != nil {
		return nil, err
	}

	counts, err := s.countsForTarget(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return &InteractionState{Removed: removed, Active: !removed, Counts: *counts}, nil
}

// TogglePost flips the actor's like/heart edge on a post.
func (s *InteractionService) TogglePost(ctx context.Context, actorID, postID uint, kind models.InteractionKind) (*InteractionState, error) {
	if !models.ValidInteractionKind(kind) {
		return nil, models.NewValidationError("Unknown interaction kind")
	}
	if _, err := s.postRepo.GetByID(ctx, postID, actorID); err != nil {
		return nil, err
	}

	removed, err := s.interactionRepo.TogglePost(ctx, actorID, postID, kind)
	if err != nil {
		return nil, err
	}

	counts, err := s.countsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &InteractionState{Removed: removed, Active: !removed, Counts: *counts}, nil
}

// CountsForProfile returns the current like/heart totals for a profile.
func (s *InteractionService) CountsForProfile(ctx context.Context, targetID uint) (*models.InteractionCounts, error) {
	if _, err := s.profileRepo.GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	return s.countsForTarget(ctx, targetID)
}

// StateForProfile reports which interaction kinds the actor currently has
// toward the target.
func (s *InteractionService) StateForProfile(ctx context.Context, actorID, targetID uint) ([]models.InteractionKind, error) {
	return s.interactionRepo.KindsFor(ctx, actorID, targetID)
}

func (s *InteractionService) countsForTarget(ctx context.Context, targetID uint) (*models.InteractionCounts, error) {
	likes, err := s.interactionRepo.CountForTarget(ctx, targetID, models.InteractionLike)
	if err != nil {
		return nil, err
	}
	hearts, err := s.interactionRepo.CountForTarget(ctx, targetID, models.InteractionHeart)
	if err != nil {
		return nil, err
	}
	return &models.InteractionCounts{Likes: likes, Hearts: hearts}, nil
}

func (s *InteractionService) countsForPost(ctx context.Context, postID uint) (*models.InteractionCounts, error) {
	likes, err := s.interactionRepo.CountForPost(ctx, postID, models.InteractionLike)
	if err != nil {
		return nil, err
	}
	hearts, err := s.interactionRepo.CountForPost(ctx, postID, models.InteractionHeart)
	if err != nil {
		return nil, err
	}
	return &models.InteractionCounts{Likes: likes, Hearts: hearts}, nil
}
