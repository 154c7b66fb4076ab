package location

import (
	"time"

	"github.com/google/uuid"
)

// Location is a point of interest shown on the globe. Difficulty is stored
// as a running sum and count so the average survives concurrent rating
// writes.
type Location struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Longitude           float64   `json:"long"`
	Latitude            float64   `json:"lat"`
	Images              []string  `json:"images"`
	DifficultyRateValue float64   `json:"difficultyRateValue"`
	DifficultyRateCount int       `json:"difficultyRateCount"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}
