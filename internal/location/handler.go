package location

import (
	"context"
	"net/http"
	"strconv"

	"github.com/trailglobe/trailglobe/internal/httputil"
	"github.com/trailglobe/trailglobe/internal/logging"
)

// Lister lists locations near a point. Implemented by Repository.
type Lister interface {
	ListNear(ctx context.Context, long, lat float64, page int, name string) ([]Location, error)
}

// Handler contains HTTP handlers for location endpoints
type Handler struct {
	lister Lister
}

func NewHandler(lister Lister) *Handler {
	return &Handler{lister: lister}
}

// List returns locations near the requested point, closest first.
// Query parameters: long, lat (required), page (default 1), name (optional).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	query := r.URL.Query()

	long, err := strconv.ParseFloat(query.Get("long"), 64)
	if err != nil {
		httputil.RespondMessage(w, "Invalid longitude", http.StatusBadRequest)
		return
	}

	lat, err := strconv.ParseFloat(query.Get("lat"), 64)
	if err != nil {
		httputil.RespondMessage(w, "Invalid latitude", http.StatusBadRequest)
		return
	}

	page := 1
	if p := query.Get("page"); p != "" {
		page, err = strconv.Atoi(p)
		if err != nil || page < 1 {
			httputil.RespondMessage(w, "Invalid page", http.StatusBadRequest)
			return
		}
	}

	locations, err := h.lister.ListNear(r.Context(), long, lat, page, query.Get("name"))
	if err != nil {
		logger.Error("failed to list locations", "error", err.Error())
		httputil.RespondMessage(w, "Something went wrong", http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, locations, http.StatusOK)
}
