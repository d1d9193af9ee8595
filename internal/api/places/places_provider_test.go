package places

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/FACorreiaa/go-travel-planner/internal/api/retry"
)

const textSearchBody = `{
  "status": "OK",
  "results": [
    {"name": "Mori Art Museum", "place_id": "gp_1", "formatted_address": "Roppongi Hills",
     "geometry": {"location": {"lat": 35.6604, "lng": 139.7292}}, "rating": 4.5, "price_level": 2},
    {"name": "National Art Center", "place_id": "gp_2", "formatted_address": "Minato",
     "geometry": {"location": {"lat": 35.6653, "lng": 139.7264}}, "rating": 4.4},
    {"name": "Sumida Hokusai Museum", "place_id": "gp_3", "formatted_address": "Sumida",
     "geometry": {"location": {"lat": 35.6966, "lng": 139.8031}}}
  ]
}`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProvider(t *testing.T, handler http.HandlerFunc) *GoogleMapsProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	p, err := NewGoogleMapsProvider("test-key",
		retry.Policy{Attempts: 3, InitialInterval: time.Millisecond},
		testLogger(), maps.WithBaseURL(srv.URL))
	require.NoError(t, err)
	return p
}

func TestNewGoogleMapsProvider_RequiresKey(t *testing.T) {
	p, err := NewGoogleMapsProvider("", retry.DefaultPolicy(), testLogger())
	require.Error(t, err)
	assert.Nil(t, p)
}

func TestGoogleMapsProvider_Search(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/maps/api/place/textsearch/json", r.URL.Path)
		assert.Equal(t, "art Tokyo", r.URL.Query().Get("query"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, textSearchBody)
	})

	got, err := p.Search(context.Background(), "art Tokyo", 2)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Mori Art Museum", got[0].Name)
	assert.Equal(t, "gp_1", got[0].ExternalID)
	assert.Equal(t, sourceGooglePlaces, got[0].Source)
	assert.InDelta(t, 35.6604, got[0].Latitude, 1e-9)
	require.NotNil(t, got[0].Rating)
	assert.InDelta(t, 4.5, *got[0].Rating, 1e-6)
	require.NotNil(t, got[0].PriceLevel)
	assert.Equal(t, 2, *got[0].PriceLevel)
	assert.Nil(t, got[1].PriceLevel)

	// Second lookup is served from the memo.
	again, err := p.Search(context.Background(), "  ART tokyo ", 5)
	require.NoError(t, err)
	assert.Len(t, again, 3)
	assert.Nil(t, again[2].Rating)
	assert.Equal(t, int32(1), calls.Load())
}

func TestGoogleMapsProvider_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, textSearchBody)
	})

	got, err := p.Search(context.Background(), "art Tokyo", 2)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, int32(3), calls.Load())
}

func TestGoogleMapsProvider_DeniedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)
	})

	got, err := p.Search(context.Background(), "art Tokyo", 2)

	require.Error(t, err)
	assert.Nil(t, got)
	assert.Equal(t, int32(1), calls.Load())
}
