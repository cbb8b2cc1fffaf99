package portalstate

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAPI struct {
	mu    sync.Mutex
	calls []string

	apps      []Application
	depts     []Department
	favorites []string
	myApps    []Application

	fetchErr    error
	mutationErr error
}

func (s *stubAPI) record(call string) {
	s.mu.Lock()
	s.calls = append(s.calls, call)
	s.mu.Unlock()
}

func (s *stubAPI) recorded() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubAPI) FetchApplications(context.Context) ([]Application, error) {
	return s.apps, s.fetchErr
}

func (s *stubAPI) FetchDepartments(context.Context) ([]Department, error) {
	return s.depts, nil
}

func (s *stubAPI) FetchFavorites(context.Context) ([]string, error) {
	return s.favorites, nil
}

func (s *stubAPI) FetchMyApplications(context.Context) ([]Application, error) {
	return s.myApps, nil
}

func (s *stubAPI) AddFavorite(_ context.Context, id string) error {
	s.record("AddFavorite:" + id)
	return s.mutationErr
}

func (s *stubAPI) RemoveFavorite(_ context.Context, id string) error {
	s.record("RemoveFavorite:" + id)
	return s.mutationErr
}

func (s *stubAPI) AddMyApplication(_ context.Context, id string) error {
	s.record("AddMyApplication:" + id)
	return s.mutationErr
}

func (s *stubAPI) RemoveMyApplication(_ context.Context, id string) error {
	s.record("RemoveMyApplication:" + id)
	return s.mutationErr
}

func (s *stubAPI) ReorderMyApplications(_ context.Context, ids []string) error {
	call := "Reorder"
	for _, id := range ids {
		call += ":" + id
	}
	s.record(call)
	return s.mutationErr
}

type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	n.successes = append(n.successes, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	n.errors = append(n.errors, msg)
	n.mu.Unlock()
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func catalog(ids ...string) []Application {
	apps := make([]Application, 0, len(ids))
	for _, id := range ids {
		apps = append(apps, Application{ID: id, Name: "App " + id})
	}
	return apps
}

func loadedState(t *testing.T, api *stubAPI, notifier Notifier) *State {
	t.Helper()
	state := NewState(api, notifier)
	require.NoError(t, state.Load(context.Background()))
	return state
}

func TestLoadFailureLeavesStateUntouched(t *testing.T) {
	api := &stubAPI{apps: catalog("a", "b"), favorites: []string{"a"}}
	state := loadedState(t, api, nil)

	api.apps = catalog("c")
	api.fetchErr = errors.New("boom")

	err := state.Load(context.Background())
	require.Error(t, err)

	assert.Len(t, state.Applications(), 2)
	assert.Equal(t, []string{"a"}, state.Favorites())
}

func TestToggleFavoriteParity(t *testing.T) {
	api := &stubAPI{apps: catalog("a", "b")}
	state := loadedState(t, api, nil)

	require.NoError(t, <-state.ToggleFavorite(context.Background(), "a"))
	assert.True(t, state.IsFavorite("a"))

	require.NoError(t, <-state.ToggleFavorite(context.Background(), "a"))
	assert.False(t, state.IsFavorite("a"))

	assert.Equal(t, []string{"AddFavorite:a", "RemoveFavorite:a"}, api.recorded())
}

func TestToggleFavoriteUnknownIDIsNoop(t *testing.T) {
	api := &stubAPI{apps: catalog("a")}
	state := loadedState(t, api, nil)

	require.NoError(t, <-state.ToggleFavorite(context.Background(), "ghost"))

	assert.Empty(t, api.recorded())
	assert.Empty(t, state.Favorites())
}

func TestToggleFavoriteRollbackOnFailure(t *testing.T) {
	api := &stubAPI{apps: catalog("a", "b"), favorites: []string{"b"}}
	notifier := &recordingNotifier{}
	state := loadedState(t, api, notifier)

	api.mutationErr = errors.New("store unavailable")

	err := <-state.ToggleFavorite(context.Background(), "a")
	require.Error(t, err)

	// Exact pre-toggle snapshot is restored
	assert.Equal(t, []string{"b"}, state.Favorites())
	assert.Equal(t, 1, notifier.errorCount())
}

func TestToggleMyApplicationCopiesCatalogRecord(t *testing.T) {
	api := &stubAPI{apps: []Application{{ID: "a", Name: "Alpha", URL: "https://alpha.example.com"}}}
	state := loadedState(t, api, nil)

	require.NoError(t, <-state.ToggleMyApplication(context.Background(), "a"))

	myApps := state.MyApplications()
	require.Len(t, myApps, 1)
	assert.Equal(t, "Alpha", myApps[0].Name)
	assert.Equal(t, "https://alpha.example.com", myApps[0].URL)

	require.NoError(t, <-state.ToggleMyApplication(context.Background(), "a"))
	assert.Empty(t, state.MyApplications())
}

func TestToggleMyApplicationRollbackOnFailure(t *testing.T) {
	api := &stubAPI{apps: catalog("a", "b"), myApps: catalog("b")}
	notifier := &recordingNotifier{}
	state := loadedState(t, api, notifier)

	api.mutationErr = errors.New("store unavailable")

	err := <-state.ToggleMyApplication(context.Background(), "a")
	require.Error(t, err)

	myApps := state.MyApplications()
	require.Len(t, myApps, 1)
	assert.Equal(t, "b", myApps[0].ID)
	assert.Equal(t, 1, notifier.errorCount())
}

func TestReorderMyApplications(t *testing.T) {
	api := &stubAPI{apps: catalog("a", "b", "c"), myApps: catalog("a", "b", "c")}
	state := loadedState(t, api, nil)

	require.NoError(t, <-state.ReorderMyApplications(context.Background(), []string{"c", "a", "b"}))

	myApps := state.MyApplications()
	require.Len(t, myApps, 3)
	assert.Equal(t, "c", myApps[0].ID)
	assert.Equal(t, "a", myApps[1].ID)
	assert.Equal(t, "b", myApps[2].ID)
	assert.Equal(t, []string{"Reorder:c:a:b"}, api.recorded())
}

func TestReorderMyApplicationsRollbackOnFailure(t *testing.T) {
	api := &stubAPI{apps: catalog("a", "b"), myApps: catalog("a", "b")}
	notifier := &recordingNotifier{}
	state := loadedState(t, api, notifier)

	api.mutationErr = errors.New("rejected")

	err := <-state.ReorderMyApplications(context.Background(), []string{"b", "a"})
	require.Error(t, err)

	myApps := state.MyApplications()
	require.Len(t, myApps, 2)
	assert.Equal(t, "a", myApps[0].ID)
	assert.Equal(t, "b", myApps[1].ID)
	assert.Equal(t, 1, notifier.errorCount())
}

func TestFavoriteScenarioEndsWithOnlyLastFavorite(t *testing.T) {
	api := &stubAPI{apps: catalog("x", "y")}
	state := loadedState(t, api, nil)

	require.NoError(t, <-state.ToggleFavorite(context.Background(), "x"))
	require.NoError(t, <-state.ToggleFavorite(context.Background(), "x"))
	require.NoError(t, <-state.ToggleFavorite(context.Background(), "y"))

	assert.Equal(t, []string{"y"}, state.Favorites())
	assert.Equal(t, []string{"AddFavorite:x", "RemoveFavorite:x", "AddFavorite:y"}, api.recorded())
}
