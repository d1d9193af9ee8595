package recommendations

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

func TestResolveAirport(t *testing.T) {
	tests := []struct {
		destination, country, want string
	}{
		{"Tokyo", "Japan", "HND"},
		{"  OSAKA ", "", "KIX"},
		{"서울", "", "GMP"},
		{"Kyoto", "singapore", "SIN"},
		{"Lisbon", "Portugal", "LIS"},
		{"Ab", "", "NRT"},
	}
	for _, tt := range tests {
		t.Run(tt.destination, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAirport(tt.destination, tt.country))
		})
	}
}

func TestOriginAirport(t *testing.T) {
	assert.Equal(t, "ICN", OriginAirport(""))
	assert.Equal(t, "GMP", OriginAirport(" gmp "))
	assert.Equal(t, "LHR", OriginAirport("lhrx"))
}

func TestMockFlightProvider_Deterministic(t *testing.T) {
	params := types.FlightSearchParams{
		Origin:        "ICN",
		Destination:   "HND",
		DepartureDate: types.NewDate(2024, time.May, 1),
		ReturnDate:    types.NewDate(2024, time.May, 4),
		Adults:        2,
	}

	got, err := MockFlightProvider{}.SearchRoundTrip(context.Background(), params)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "KE703", got[0].FlightNumber)
	assert.Equal(t, 0, got[0].Stops)
	assert.Equal(t, 1, got[1].Stops)
	assert.Equal(t, int64(640_000), got[0].PriceAmount)
	assert.Equal(t, int64(730_000), got[1].PriceAmount)
	assert.Equal(t, 120, got[0].DurationMinutes)
	assert.Equal(t, 9, got[0].DepartureTime.Hour())
	assert.Equal(t, "economy", got[2].SeatClass)
}

func TestMockHotelProvider_Deterministic(t *testing.T) {
	got, err := MockHotelProvider{}.SearchHotels(context.Background(), types.HotelSearchParams{Destination: "Tokyo", Nights: 2})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, int64(120_000), got[0].PricePerNight)
	assert.Equal(t, int64(360_000), got[2].PriceTotal)
	assert.Equal(t, "KRW", got[1].PriceCurrency)
}

type fakeSearcher struct {
	query   string
	results []types.PlaceCandidate
	err     error
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]types.PlaceCandidate, error) {
	f.query = query
	return f.results, f.err
}

func TestPlacesHotelProvider(t *testing.T) {
	level := 3
	rating := 4.5
	searcher := &fakeSearcher{results: []types.PlaceCandidate{
		{Name: "Hotel Gracery", Address: "Kabukicho", Latitude: 35.69, Longitude: 139.70, Rating: &rating, PriceLevel: &level},
		{Name: "Capsule Inn", Latitude: 35.70, Longitude: 139.71},
	}}

	got, err := NewPlacesHotelProvider(searcher).SearchHotels(context.Background(), types.HotelSearchParams{Destination: "Tokyo", Nights: 2, Currency: "JPY"})

	require.NoError(t, err)
	assert.Equal(t, "hotels in Tokyo", searcher.query)
	require.Len(t, got, 2)
	assert.Equal(t, int64(180_000), got[0].PricePerNight)
	assert.Equal(t, int64(360_000), got[0].PriceTotal)
	assert.Equal(t, "JPY", got[0].PriceCurrency)
	assert.Equal(t, &rating, got[0].Rating)
	assert.Equal(t, int64(mockHotelBase), got[1].PricePerNight)
}

func TestPlacesHotelProvider_Error(t *testing.T) {
	_, err := NewPlacesHotelProvider(&fakeSearcher{err: errors.New("denied")}).
		SearchHotels(context.Background(), types.HotelSearchParams{Destination: "Tokyo"})

	assert.Error(t, err)
}

func TestSearchURLs(t *testing.T) {
	d1, d2 := types.NewDate(2024, time.May, 1), types.NewDate(2024, time.May, 4)

	assert.Equal(t,
		"https://www.google.com/travel/flights/?q=Flights+from+ICN+to+HND+on+2024-05-01+through+2024-05-04",
		FlightSearchURL("ICN", "HND", d1, d2))
	assert.Equal(t,
		"https://www.agoda.com/search?adults=2&checkin=2024-05-01&checkout=2024-05-04&city=Tokyo",
		HotelSearchURL("Tokyo", d1, d2, 2))
}
