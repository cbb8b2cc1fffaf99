package service

import (
	"context"
	"fmt"

	"backend/internal/repository"

	"github.com/google/uuid"
)

// FavoriteService manages the per-user favorite set. Both directions are
// idempotent — re-adding or re-removing is not an error, matching the toggle
// semantics the portal client relies on.
type FavoriteService interface {
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]string, error)
	AddFavorite(ctx context.Context, userID uuid.UUID, applicationID string) error
	RemoveFavorite(ctx context.Context, userID uuid.UUID, applicationID string) error
}

type favoriteService struct {
	favorites repository.FavoriteRepository
}

func NewFavoriteService(favorites repository.FavoriteRepository) FavoriteService {
	return &favoriteService{favorites: favorites}
}

func (s *favoriteService) ListFavorites(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ids, err := s.favorites.ListApplicationIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch favorites: %w", err)
	}

	res := make([]string, 0, len(ids))
	for _, id := range ids {
		res = append(res, id.String())
	}
	return res, nil
}

func (s *favoriteService) AddFavorite(ctx context.Context, userID uuid.UUID, applicationID string) error {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return fmt.Errorf("%w: invalid application id", ErrValidation)
	}
	if err := s.favorites.Add(ctx, userID, appID); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

func (s *favoriteService) RemoveFavorite(ctx context.Context, userID uuid.UUID, applicationID string) error {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return fmt.Errorf("%w: invalid application id", ErrValidation)
	}
	if err := s.favorites.Remove(ctx, userID, appID); err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
