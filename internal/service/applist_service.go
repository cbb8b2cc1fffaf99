package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppListService manages the user's personal ordered application list
// ("My Applications"): membership plus a dense 0-based order.
type AppListService interface {
	ListMyApplications(ctx context.Context, userID uuid.UUID) ([]ApplicationResponse, error)
	AddToMyList(ctx context.Context, userID uuid.UUID, applicationID string) error
	RemoveFromMyList(ctx context.Context, userID uuid.UUID, applicationID string) error
	Reorder(ctx context.Context, userID uuid.UUID, orderedApplicationIDs []string) error
}

type appListService struct {
	entries repository.AppListRepository
	apps    repository.ApplicationRepository
	txm     repository.TransactionManager
}

func NewAppListService(entries repository.AppListRepository, apps repository.ApplicationRepository, txm repository.TransactionManager) AppListService {
	return &appListService{entries: entries, apps: apps, txm: txm}
}

// ListMyApplications returns the list in order_index order with the full
// application records (departments embedded).
func (s *appListService) ListMyApplications(ctx context.Context, userID uuid.UUID) ([]ApplicationResponse, error) {
	entries, err := s.entries.ListEntries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch personal list: %w", err)
	}

	res := make([]ApplicationResponse, 0, len(entries))
	for _, entry := range entries {
		res = append(res, toApplicationResponse(entry.Application))
	}
	return res, nil
}

// AddToMyList appends the application at order_index = max + 1 (0 if empty)
func (s *appListService) AddToMyList(ctx context.Context, userID uuid.UUID, applicationID string) error {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return fmt.Errorf("%w: invalid application id", ErrValidation)
	}

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		if _, loadErr := s.apps.GetByID(txCtx, appID); loadErr != nil {
			if errors.Is(loadErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: application %s", ErrNotFound, applicationID)
			}
			return fmt.Errorf("failed to load application: %w", loadErr)
		}

		next, idxErr := s.entries.NextOrderIndex(txCtx, userID)
		if idxErr != nil {
			return fmt.Errorf("failed to compute order index: %w", idxErr)
		}

		entry := model.UserApplicationListEntry{
			UserID:        userID,
			ApplicationID: appID,
			OrderIndex:    next,
		}
		if addErr := s.entries.Add(txCtx, &entry); addErr != nil {
			return fmt.Errorf("failed to add to personal list: %w", addErr)
		}
		return nil
	})
}

func (s *appListService) RemoveFromMyList(ctx context.Context, userID uuid.UUID, applicationID string) error {
	appID, err := uuid.Parse(applicationID)
	if err != nil {
		return fmt.Errorf("%w: invalid application id", ErrValidation)
	}
	if err := s.entries.Remove(ctx, userID, appID); err != nil {
		return fmt.Errorf("failed to remove from personal list: %w", err)
	}
	return nil
}

// Reorder rewrites order_index to the positional index of each id. The
// submitted ids must be an exact permutation of the current membership —
// missing, foreign or duplicate ids reject the whole call with no partial
// write.
func (s *appListService) Reorder(ctx context.Context, userID uuid.UUID, orderedApplicationIDs []string) error {
	orderedIDs, err := parseUUIDs(orderedApplicationIDs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		currentIDs, listErr := s.entries.ListApplicationIDs(txCtx, userID)
		if listErr != nil {
			return fmt.Errorf("failed to load current list: %w", listErr)
		}

		if !samePermutation(currentIDs, orderedIDs) {
			return fmt.Errorf("%w: submitted ids are not a permutation of the current list", ErrValidation)
		}

		for position, appID := range orderedIDs {
			if setErr := s.entries.SetOrderIndex(txCtx, userID, appID, position); setErr != nil {
				return fmt.Errorf("failed to set order index for %s: %w", appID, setErr)
			}
		}
		return nil
	})
}

// samePermutation reports whether b is a reordering of a with no duplicates
func samePermutation(a, b []uuid.UUID) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(a))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}
