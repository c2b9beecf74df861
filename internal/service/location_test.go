package service

import (
	"context"
	"testing"

	"stonefire/internal/db"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocationStore struct {
	locations map[string]db.Location
	counts    map[string]int
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{
		locations: make(map[string]db.Location),
		counts:    make(map[string]int),
	}
}

func (f *fakeLocationStore) ListLocations(ctx context.Context, hiringOnly bool) ([]db.Location, error) {
	var out []db.Location
	for _, l := range f.locations {
		if !l.IsActive {
			continue
		}
		if hiringOnly && !l.IsHiring {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLocationStore) ListAllLocations(ctx context.Context) ([]db.Location, error) {
	out := make([]db.Location, 0, len(f.locations))
	for _, l := range f.locations {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLocationStore) GetLocationByID(ctx context.Context, id string) (db.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return db.Location{}, pgx.ErrNoRows
	}
	return l, nil
}

func (f *fakeLocationStore) GetLocationBySlug(ctx context.Context, slug string) (db.Location, error) {
	for _, l := range f.locations {
		if l.Slug == slug {
			return l, nil
		}
	}
	return db.Location{}, pgx.ErrNoRows
}

func (f *fakeLocationStore) CreateLocation(ctx context.Context, id, name, slug string, isHiring bool) (db.Location, error) {
	l := db.Location{ID: id, Name: name, Slug: slug, IsActive: true, IsHiring: isHiring}
	f.locations[id] = l
	return l, nil
}

func (f *fakeLocationStore) UpdateLocation(ctx context.Context, id string, params db.UpdateLocationParams) (db.Location, error) {
	l, ok := f.locations[id]
	if !ok {
		return db.Location{}, pgx.ErrNoRows
	}
	if params.Name != nil {
		l.Name = *params.Name
	}
	if params.Slug != nil {
		l.Slug = *params.Slug
	}
	if params.IsActive != nil {
		l.IsActive = *params.IsActive
	}
	if params.IsHiring != nil {
		l.IsHiring = *params.IsHiring
	}
	f.locations[id] = l
	return l, nil
}

func (f *fakeLocationStore) DeleteLocation(ctx context.Context, id string) error {
	delete(f.locations, id)
	return nil
}

func (f *fakeLocationStore) CountSubmissionsByLocation(ctx context.Context, locationID string) (int, error) {
	return f.counts[locationID], nil
}

func TestCreateLocationRejectsDuplicateSlug(t *testing.T) {
	store := newFakeLocationStore()
	svc := NewLocationService(store)

	_, err := svc.CreateLocation(context.Background(), "Downtown", "downtown", true)
	require.NoError(t, err)

	_, err = svc.CreateLocation(context.Background(), "Other Downtown", "downtown", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestUpdateLocationAllowsKeepingOwnSlug(t *testing.T) {
	store := newFakeLocationStore()
	svc := NewLocationService(store)

	loc, err := svc.CreateLocation(context.Background(), "Downtown", "downtown", true)
	require.NoError(t, err)

	name := "Downtown Stonefire"
	slug := "downtown"
	updated, err := svc.UpdateLocation(context.Background(), loc.ID, db.UpdateLocationParams{Name: &name, Slug: &slug})
	require.NoError(t, err)
	assert.Equal(t, "Downtown Stonefire", updated.Name)
}

func TestDeleteLocationRefusedWithSubmissions(t *testing.T) {
	store := newFakeLocationStore()
	svc := NewLocationService(store)

	loc, err := svc.CreateLocation(context.Background(), "Downtown", "downtown", true)
	require.NoError(t, err)
	store.counts[loc.ID] = 3

	err = svc.DeleteLocation(context.Background(), loc.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "existing submissions")

	store.counts[loc.ID] = 0
	require.NoError(t, svc.DeleteLocation(context.Background(), loc.ID))
}

func TestListScopesHiringOnly(t *testing.T) {
	store := newFakeLocationStore()
	svc := NewLocationService(store)

	_, err := svc.CreateLocation(context.Background(), "Hiring", "hiring", true)
	require.NoError(t, err)
	_, err = svc.CreateLocation(context.Background(), "Not Hiring", "not-hiring", false)
	require.NoError(t, err)

	all, err := svc.ListScopes(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	hiring, err := svc.ListScopes(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, hiring, 1)
	assert.Equal(t, "Hiring", hiring[0].Name)
}

func TestListAllIncludesDeactivated(t *testing.T) {
	store := newFakeLocationStore()
	svc := NewLocationService(store)

	loc, err := svc.CreateLocation(context.Background(), "Closed Store", "closed", false)
	require.NoError(t, err)

	inactive := false
	_, err = svc.UpdateLocation(context.Background(), loc.ID, db.UpdateLocationParams{IsActive: &inactive})
	require.NoError(t, err)

	scopes, err := svc.ListScopes(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, scopes)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].IsActive)
}
