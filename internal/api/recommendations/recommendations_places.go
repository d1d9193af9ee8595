package recommendations

import (
	"context"
	"fmt"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	placesHotelProvider = "Google Places"
	placesHotelLimit    = 5
	// nightly estimate per price level step; level 0 or unknown uses mockHotelBase
	priceLevelStep = 60_000
)

// PlaceSearcher is the subset of the places provider used to find hotels.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]types.PlaceCandidate, error)
}

// PlacesHotelProvider finds real hotels through text search and estimates
// nightly prices from their price level.
type PlacesHotelProvider struct {
	searcher PlaceSearcher
}

var _ HotelProvider = (*PlacesHotelProvider)(nil)

func NewPlacesHotelProvider(searcher PlaceSearcher) *PlacesHotelProvider {
	return &PlacesHotelProvider{searcher: searcher}
}

func (p *PlacesHotelProvider) SearchHotels(ctx context.Context, params types.HotelSearchParams) ([]types.AccommodationOption, error) {
	results, err := p.searcher.Search(ctx, fmt.Sprintf("hotels in %s", params.Destination), placesHotelLimit)
	if err != nil {
		return nil, err
	}
	nights := max(params.Nights, 1)
	currency := params.Currency
	if currency == "" {
		currency = "KRW"
	}

	options := make([]types.AccommodationOption, 0, len(results))
	for _, r := range results {
		lat, lng := r.Latitude, r.Longitude
		perNight := EstimateNightlyPrice(r.PriceLevel)
		options = append(options, types.AccommodationOption{
			Provider:      placesHotelProvider,
			Name:          r.Name,
			Address:       r.Address,
			Latitude:      &lat,
			Longitude:     &lng,
			Rating:        r.Rating,
			Nights:        nights,
			PriceCurrency: currency,
			PricePerNight: perNight,
			PriceTotal:    perNight * int64(nights),
		})
	}
	return options, nil
}

// EstimateNightlyPrice maps a 1..4 price level onto a nightly rate.
func EstimateNightlyPrice(level *int) int64 {
	if level == nil || *level <= 0 {
		return mockHotelBase
	}
	return int64(*level) * priceLevelStep
}
