package location

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/trailglobe/trailglobe/internal/database"
)

const pageSize = 10

// Repository handles location data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ListNear returns a page of locations ordered by squared coordinate
// distance from the given point, optionally filtered by name.
func (r *Repository) ListNear(ctx context.Context, long, lat float64, page int, name string) ([]Location, error) {
	if page < 1 {
		page = 1
	}

	var dbLocations []database.Location
	q := r.db.NewSelect().Model(&dbLocations)

	if name != "" {
		q = q.Where("name ILIKE ?", "%"+name+"%")
	}

	err := q.
		OrderExpr(
			"((longitude - ?) * (longitude - ?) + (latitude - ?) * (latitude - ?))",
			long, long, lat, lat,
		).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}

	locations := make([]Location, len(dbLocations))
	for i := range dbLocations {
		locations[i] = mapDBLocationToModel(&dbLocations[i])
	}

	return locations, nil
}

func mapDBLocationToModel(dbl *database.Location) Location {
	return Location{
		ID:                  dbl.ID,
		Name:                dbl.Name,
		Longitude:           dbl.Longitude,
		Latitude:            dbl.Latitude,
		Images:              dbl.Images,
		DifficultyRateValue: dbl.DifficultyRateValue,
		DifficultyRateCount: dbl.DifficultyRateCount,
		CreatedAt:           dbl.CreatedAt,
		UpdatedAt:           dbl.UpdatedAt,
	}
}
