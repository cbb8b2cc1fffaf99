package portalstate

import (
	"context"
	"sort"
	"sync"
)

// State is the portal's in-memory view of the directory: the shared catalog
// plus the caller's favorites and ordered personal list. Mutations apply
// locally first so the UI updates immediately; the matching server call runs
// in the background and a failure restores the exact pre-mutation snapshot.
type State struct {
	api      API
	notifier Notifier

	mu             sync.Mutex
	applications   []Application
	departments    []Department
	favorites      map[string]struct{}
	myApplications []Application
}

// NewState creates an empty State bound to api. A nil notifier discards
// notices.
func NewState(api API, notifier Notifier) *State {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &State{
		api:       api,
		notifier:  notifier,
		favorites: make(map[string]struct{}),
	}
}

// Load hydrates every collection from the server. All reads must succeed
// before anything is swapped in, so a failed load leaves the prior state
// intact.
func (s *State) Load(ctx context.Context) error {
	apps, err := s.api.FetchApplications(ctx)
	if err != nil {
		s.notifier.Error("Failed to load applications")
		return err
	}
	depts, err := s.api.FetchDepartments(ctx)
	if err != nil {
		s.notifier.Error("Failed to load departments")
		return err
	}
	favoriteIDs, err := s.api.FetchFavorites(ctx)
	if err != nil {
		s.notifier.Error("Failed to load favorites")
		return err
	}
	myApps, err := s.api.FetchMyApplications(ctx)
	if err != nil {
		s.notifier.Error("Failed to load my applications")
		return err
	}

	favorites := make(map[string]struct{}, len(favoriteIDs))
	for _, id := range favoriteIDs {
		favorites[id] = struct{}{}
	}

	s.mu.Lock()
	s.applications = apps
	s.departments = depts
	s.favorites = favorites
	s.myApplications = myApps
	s.mu.Unlock()

	return nil
}

// Applications returns a copy of the loaded catalog.
func (s *State) Applications() []Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Application(nil), s.applications...)
}

// Departments returns a copy of the loaded department tags.
func (s *State) Departments() []Department {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Department(nil), s.departments...)
}

// Favorites returns the favorited application ids, sorted for determinism.
func (s *State) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsFavorite reports whether the application is currently favorited.
func (s *State) IsFavorite(applicationID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[applicationID]
	return ok
}

// MyApplications returns a copy of the personal list in its current order.
func (s *State) MyApplications() []Application {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Application(nil), s.myApplications...)
}

// ToggleFavorite flips the favorite mark for an application. The flip is
// applied locally before the server call; if the call fails the favorite set
// is restored to the pre-toggle snapshot. Unknown ids (not in the loaded
// catalog) are ignored. The returned channel yields the persistence outcome —
// any rollback has been applied by the time it does.
func (s *State) ToggleFavorite(ctx context.Context, applicationID string) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	if !s.inCatalogLocked(applicationID) {
		s.mu.Unlock()
		done <- nil
		close(done)
		return done
	}

	snapshot := copyFavorites(s.favorites)
	_, wasFavorite := s.favorites[applicationID]
	if wasFavorite {
		delete(s.favorites, applicationID)
	} else {
		s.favorites[applicationID] = struct{}{}
	}
	s.mu.Unlock()

	go func() {
		defer close(done)

		var err error
		if wasFavorite {
			err = s.api.RemoveFavorite(ctx, applicationID)
		} else {
			err = s.api.AddFavorite(ctx, applicationID)
		}

		if err != nil {
			s.mu.Lock()
			s.favorites = snapshot
			s.mu.Unlock()
			s.notifier.Error("Failed to update favorites")
			done <- err
			return
		}

		if wasFavorite {
			s.notifier.Success("Removed from favorites")
		} else {
			s.notifier.Success("Added to favorites")
		}
		done <- nil
	}()

	return done
}

// ToggleMyApplication adds the application to the personal list (sourcing the
// full record from the loaded catalog) or removes it if already present. Same
// optimistic shape as ToggleFavorite: local apply, background persist, exact
// snapshot restore on failure.
func (s *State) ToggleMyApplication(ctx context.Context, applicationID string) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	app, inCatalog := s.catalogEntryLocked(applicationID)
	if !inCatalog {
		s.mu.Unlock()
		done <- nil
		close(done)
		return done
	}

	snapshot := append([]Application(nil), s.myApplications...)
	wasListed := false
	for _, a := range s.myApplications {
		if a.ID == applicationID {
			wasListed = true
			break
		}
	}

	if wasListed {
		kept := s.myApplications[:0]
		for _, a := range s.myApplications {
			if a.ID != applicationID {
				kept = append(kept, a)
			}
		}
		s.myApplications = append([]Application(nil), kept...)
	} else {
		s.myApplications = append(append([]Application(nil), s.myApplications...), app)
	}
	s.mu.Unlock()

	go func() {
		defer close(done)

		var err error
		if wasListed {
			err = s.api.RemoveMyApplication(ctx, applicationID)
		} else {
			err = s.api.AddMyApplication(ctx, applicationID)
		}

		if err != nil {
			s.mu.Lock()
			s.myApplications = snapshot
			s.mu.Unlock()
			s.notifier.Error("Failed to update my applications")
			done <- err
			return
		}

		if wasListed {
			s.notifier.Success("Removed from my applications")
		} else {
			s.notifier.Success("Added to my applications")
		}
		done <- nil
	}()

	return done
}

// ReorderMyApplications rearranges the personal list to follow orderedIDs and
// persists the new order in one bulk call. Ids not currently in the list are
// skipped locally; whether the submitted order is acceptable is the server's
// call, and a rejection restores the exact previous order.
func (s *State) ReorderMyApplications(ctx context.Context, orderedIDs []string) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	snapshot := append([]Application(nil), s.myApplications...)

	byID := make(map[string]Application, len(s.myApplications))
	for _, a := range s.myApplications {
		byID[a.ID] = a
	}
	reordered := make([]Application, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		if a, ok := byID[id]; ok {
			reordered = append(reordered, a)
		}
	}
	s.myApplications = reordered
	s.mu.Unlock()

	go func() {
		defer close(done)

		if err := s.api.ReorderMyApplications(ctx, orderedIDs); err != nil {
			s.mu.Lock()
			s.myApplications = snapshot
			s.mu.Unlock()
			s.notifier.Error("Failed to save the new order")
			done <- err
			return
		}
		done <- nil
	}()

	return done
}

func (s *State) inCatalogLocked(applicationID string) bool {
	_, ok := s.catalogEntryLocked(applicationID)
	return ok
}

func (s *State) catalogEntryLocked(applicationID string) (Application, bool) {
	for _, a := range s.applications {
		if a.ID == applicationID {
			return a, true
		}
	}
	return Application{}, false
}

func copyFavorites(src map[string]struct{}) map[string]struct{} {
	dst := make(map[string]struct{}, len(src))
	for id := range src {
		dst[id] = struct{}{}
	}
	return dst
}
