package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"stonefire/internal/db"
	"stonefire/internal/model"
)

// LocationStore is the persistence surface for locations
type LocationStore interface {
	ListLocations(ctx context.Context, hiringOnly bool) ([]db.Location, error)
	ListAllLocations(ctx context.Context) ([]db.Location, error)
	GetLocationByID(ctx context.Context, id string) (db.Location, error)
	GetLocationBySlug(ctx context.Context, slug string) (db.Location, error)
	CreateLocation(ctx context.Context, id, name, slug string, isHiring bool) (db.Location, error)
	UpdateLocation(ctx context.Context, id string, params db.UpdateLocationParams) (db.Location, error)
	DeleteLocation(ctx context.Context, id string) error
	CountSubmissionsByLocation(ctx context.Context, locationID string) (int, error)
}

type LocationService struct {
	store LocationStore
}

func NewLocationService(store LocationStore) *LocationService {
	return &LocationService{store: store}
}

// ListScopes returns the locations the public forms may offer, ordered by
// name. hiringOnly narrows to stores currently accepting applications.
func (s *LocationService) ListScopes(ctx context.Context, hiringOnly bool) ([]*model.Location, error) {
	rows, err := s.store.ListLocations(ctx, hiringOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	out := make([]*model.Location, 0, len(rows))
	for _, r := range rows {
		out = append(out, dbLocationToModel(r))
	}
	return out, nil
}

// ListAll includes deactivated locations so the admin panel can re-activate them
func (s *LocationService) ListAll(ctx context.Context) ([]*model.Location, error) {
	rows, err := s.store.ListAllLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	out := make([]*model.Location, 0, len(rows))
	for _, r := range rows {
		out = append(out, dbLocationToModel(r))
	}
	return out, nil
}

func (s *LocationService) GetLocation(ctx context.Context, id string) (*model.Location, error) {
	row, err := s.store.GetLocationByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("location not found: %w", err)
	}
	return dbLocationToModel(row), nil
}

func (s *LocationService) CreateLocation(ctx context.Context, name, slug string, isHiring bool) (*model.Location, error) {
	if _, err := s.store.GetLocationBySlug(ctx, slug); err == nil {
		return nil, fmt.Errorf("location with slug %q already exists", slug)
	} else if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to check slug: %w", err)
	}

	row, err := s.store.CreateLocation(ctx, ulid.Make().String(), name, slug, isHiring)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return dbLocationToModel(row), nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, id string, params db.UpdateLocationParams) (*model.Location, error) {
	if params.Slug != nil {
		existing, err := s.store.GetLocationBySlug(ctx, *params.Slug)
		if err == nil && existing.ID != id {
			return nil, fmt.Errorf("location with slug %q already exists", *params.Slug)
		}
		if err != nil && err != pgx.ErrNoRows {
			return nil, fmt.Errorf("failed to check slug: %w", err)
		}
	}

	row, err := s.store.UpdateLocation(ctx, id, params)
	if err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return dbLocationToModel(row), nil
}

// DeleteLocation refuses while submissions still reference the location
func (s *LocationService) DeleteLocation(ctx context.Context, id string) error {
	count, err := s.store.CountSubmissionsByLocation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count submissions: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("cannot delete location with existing submissions")
	}

	if err := s.store.DeleteLocation(ctx, id); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

func dbLocationToModel(r db.Location) *model.Location {
	return &model.Location{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		IsActive:  r.IsActive,
		IsHiring:  r.IsHiring,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}
