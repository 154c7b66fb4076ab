package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeLister struct {
	long, lat float64
	page      int
	name      string
	called    bool
}

func (f *fakeLister) ListNear(_ context.Context, long, lat float64, page int, name string) ([]Location, error) {
	f.called = true
	f.long, f.lat, f.page, f.name = long, lat, page, name
	return []Location{}, nil
}

func listRequest(t *testing.T, h *Handler, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/location?"+rawQuery, nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)
	return rec
}

func TestListParsesQuery(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	h := NewHandler(lister)

	req := httptest.NewRequest(http.MethodGet, "/location?long=12.5&lat=-7.25&page=3&name=ridge", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, lister.called)
	assert.Equal(t, 12.5, lister.long)
	assert.Equal(t, -7.25, lister.lat)
	assert.Equal(t, 3, lister.page)
	assert.Equal(t, "ridge", lister.name)
}

func TestListDefaults(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	h := NewHandler(lister)

	req := httptest.NewRequest(http.MethodGet, "/location?long=0&lat=0", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, lister.page)
	assert.Equal(t, "", lister.name)
}

func TestListRejectsBadCoordinates(t *testing.T) {
	t.Parallel()

	lister := &fakeLister{}
	h := NewHandler(lister)

	rec := listRequest(t, h, "long=east&lat=0")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = listRequest(t, h, "long=0&lat=")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = listRequest(t, h, "long=0&lat=0&page=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.False(t, lister.called)
}
