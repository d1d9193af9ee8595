package recommendations

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	DefaultOriginAirport = "ICN"
	fallbackAirport      = "NRT"
	defaultCabinClass    = "economy"

	mockFlightProvider = "Amadeus"
	mockFlightBase     = 320_000
	mockFlightStep     = 45_000
	mockHotelBase      = 120_000
	mockHotelStep      = 30_000
)

// FlightProvider searches round trip fares.
type FlightProvider interface {
	SearchRoundTrip(ctx context.Context, params types.FlightSearchParams) ([]types.FlightOption, error)
}

// HotelProvider searches stays for a check-in date and number of nights.
type HotelProvider interface {
	SearchHotels(ctx context.Context, params types.HotelSearchParams) ([]types.AccommodationOption, error)
}

var airports = map[string]string{
	"tokyo":       "HND",
	"도쿄":          "HND",
	"osaka":       "KIX",
	"오사카":         "KIX",
	"fukuoka":     "FUK",
	"후쿠오카":        "FUK",
	"sapporo":     "CTS",
	"삿포로":         "CTS",
	"hong kong":   "HKG",
	"홍콩":          "HKG",
	"singapore":   "SIN",
	"싱가포르":        "SIN",
	"seoul":       "ICN",
	"서울":          "GMP",
	"busan":       "PUS",
	"부산":          "PUS",
	"jeju":        "CJU",
	"제주":          "CJU",
	"new york":    "JFK",
	"뉴욕":          "JFK",
	"los angeles": "LAX",
	"la":          "LAX",
	"paris":       "CDG",
	"파리":          "CDG",
	"london":      "LHR",
	"런던":          "LHR",
	"bangkok":     "BKK",
	"방콕":          "BKK",
}

// ResolveAirport maps a destination (or its country) to an IATA code. Unknown
// names fall back to their first three letters upper-cased.
func ResolveAirport(destination, country string) string {
	if code, ok := airports[strings.ToLower(strings.TrimSpace(destination))]; ok {
		return code
	}
	if code, ok := airports[strings.ToLower(strings.TrimSpace(country))]; ok {
		return code
	}
	runes := []rune(strings.TrimSpace(destination))
	if len(runes) >= 3 {
		return strings.ToUpper(string(runes[:3]))
	}
	return fallbackAirport
}

// OriginAirport normalizes a requested origin, defaulting to ICN.
func OriginAirport(requested string) string {
	code := strings.ToUpper(strings.TrimSpace(requested))
	if code == "" {
		return DefaultOriginAirport
	}
	if len(code) > 3 {
		code = code[:3]
	}
	return code
}

// FlightSearchURL builds a public search link when a provider has no booking URL.
func FlightSearchURL(origin, destination string, depart, ret types.Date) string {
	q := fmt.Sprintf("Flights from %s to %s on %s through %s", origin, destination, depart, ret)
	return "https://www.google.com/travel/flights/?q=" + url.QueryEscape(q)
}

// HotelSearchURL builds a public search link for a stay.
func HotelSearchURL(destination string, checkIn, checkOut types.Date, adults int) string {
	v := url.Values{}
	v.Set("city", destination)
	v.Set("checkin", checkIn.String())
	v.Set("checkout", checkOut.String())
	v.Set("adults", fmt.Sprint(adults))
	return "https://www.agoda.com/search?" + v.Encode()
}

// MockFlightProvider returns three deterministic fares.
type MockFlightProvider struct{}

var _ FlightProvider = MockFlightProvider{}

func (MockFlightProvider) SearchRoundTrip(_ context.Context, p types.FlightSearchParams) ([]types.FlightOption, error) {
	carriers := []struct{ name, number string }{
		{"Korean Air", "KE703"},
		{"Asiana Airlines", "OZ1085"},
		{"ANA", "NH862"},
	}
	adults := max(p.Adults, 1)
	cabin := p.CabinClass
	if cabin == "" {
		cabin = defaultCabinClass
	}

	options := make([]types.FlightOption, 0, len(carriers))
	for i, c := range carriers {
		departure := p.DepartureDate.Add(time.Duration(9+i*2) * time.Hour)
		arrival := departure.Add(time.Duration(2+i) * time.Hour)
		stops := 1
		if i == 0 {
			stops = 0
		}
		options = append(options, types.FlightOption{
			Provider:         mockFlightProvider,
			Carrier:          c.name,
			FlightNumber:     c.number,
			DepartureAirport: p.Origin,
			ArrivalAirport:   p.Destination,
			DepartureTime:    departure,
			ArrivalTime:      arrival,
			DurationMinutes:  int(arrival.Sub(departure).Minutes()),
			Stops:            stops,
			SeatClass:        cabin,
			PriceCurrency:    "KRW",
			PriceAmount:      int64(mockFlightBase+i*mockFlightStep) * int64(adults),
		})
	}
	return options, nil
}

// MockHotelProvider returns three deterministic stays near the city center.
type MockHotelProvider struct{}

var _ HotelProvider = MockHotelProvider{}

func (MockHotelProvider) SearchHotels(_ context.Context, p types.HotelSearchParams) ([]types.AccommodationOption, error) {
	templates := []struct {
		name, provider string
		rating         float64
	}{
		{"TravelTailor Signature Hotel", "Booking.com", 4.7},
		{"City Central Stay", "Agoda", 4.3},
		{"Boutique Riverside Suites", "Agoda", 4.9},
	}
	nights := max(p.Nights, 1)
	currency := p.Currency
	if currency == "" {
		currency = "KRW"
	}

	options := make([]types.AccommodationOption, 0, len(templates))
	for i, tpl := range templates {
		rating := tpl.rating
		perNight := int64(mockHotelBase + i*mockHotelStep)
		options = append(options, types.AccommodationOption{
			Provider:      tpl.provider,
			Name:          tpl.name,
			Address:       fmt.Sprintf("Near the main sights of %s", p.Destination),
			Rating:        &rating,
			Nights:        nights,
			PriceCurrency: currency,
			PricePerNight: perNight,
			PriceTotal:    perNight * int64(nights),
		})
	}
	return options, nil
}
