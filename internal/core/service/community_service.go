package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/commonroom/community-platform/internal/core/domain"
	"github.com/commonroom/community-platform/internal/core/ports"
)

// CommunityService implements community CRUD and the membership state machine.
type CommunityService struct {
	repo   ports.CommunityRepository
	logger zerolog.Logger
}

func NewCommunityService(repo ports.CommunityRepository, logger zerolog.Logger) *CommunityService {
	return &CommunityService{repo: repo, logger: logger}
}

// Create creates a community whose membership set starts as {creator}.
func (s *CommunityService) Create(ctx context.Context, input ports.CreateCommunityInput) (*domain.Community, error) {
	now := time.Now().UTC()
	community := &domain.Community{
		Name:        input.Name,
		Description: input.Description,
		CreatorID:   input.CreatorID,
		Members:     []string{input.CreatorID},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, community)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("community_id", created.ID).Str("name", created.Name).Msg("community created")
	return created, nil
}

func (s *CommunityService) Get(ctx context.Context, id string) (*domain.Community, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CommunityService) List(ctx context.Context) ([]domain.Community, error) {
	return s.repo.List(ctx)
}

// Update applies the creator-only patch. Empty patch fields fall back to the
// existing value; a failed update leaves the record unchanged.
func (s *CommunityService) Update(ctx context.Context, input ports.UpdateCommunityInput) (*domain.Community, error) {
	community, err := s.repo.FindByID(ctx, input.CommunityID)
	if err != nil {
		return nil, err
	}
	if !community.IsCreator(input.RequesterID) {
		return nil, domain.ErrForbidden
	}

	if input.Name != "" {
		community.Name = input.Name
	}
	if input.Description != "" {
		community.Description = input.Description
	}
	community.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

// Delete removes the community. Posts referencing it are not cascaded; reads
// resolve the reference as null from then on.
func (s *CommunityService) Delete(ctx context.Context, communityID, requesterID string) error {
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return err
	}
	if !community.IsCreator(requesterID) {
		return domain.ErrForbidden
	}

	if err := s.repo.Delete(ctx, communityID); err != nil {
		return err
	}

	s.logger.Info().Str("community_id", communityID).Str("name", community.Name).Msg("community deleted, posts keep dangling reference")
	return nil
}

func (s *CommunityService) Join(ctx context.Context, communityID, userID string) (*domain.Community, error) {
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := community.Join(userID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, community); err != nil {
		return nil, err
	}

	s.logger.Info().Str("community_id", communityID).Str("user_id", userID).Msg("user joined community")
	return community, nil
}

func (s *CommunityService) Leave(ctx context.Context, communityID, userID string) (*domain.Community, error) {
	community, err := s.repo.FindByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if err := community.Leave(userID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, community); err != nil {
		return nil, err
	}

	s.logger.Info().Str("community_id", communityID).Str("user_id", userID).Msg("user left community")
	return community, nil
}
