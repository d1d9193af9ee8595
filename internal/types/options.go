package types

import (
	"time"

	"github.com/google/uuid"
)

// FlightSearchParams describes a round trip search.
type FlightSearchParams struct {
	Origin        string
	Destination   string
	DepartureDate Date
	ReturnDate    Date
	Adults        int
	CabinClass    string
}

// HotelSearchParams describes a stay search.
type HotelSearchParams struct {
	Destination string
	Country     string
	CheckIn     Date
	Nights      int
	Adults      int
	Currency    string
}

type FlightOption struct {
	ID               uuid.UUID `json:"id"`
	TravelPlanID     uuid.UUID `json:"travel_plan_id"`
	Provider         string    `json:"provider"`
	Carrier          string    `json:"carrier"`
	FlightNumber     string    `json:"flight_number"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	DurationMinutes  int       `json:"duration_minutes"`
	Stops            int       `json:"stops"`
	SeatClass        string    `json:"seat_class,omitempty"`
	PriceCurrency    string    `json:"price_currency"`
	PriceAmount      int64     `json:"price_amount"`
	BookingURL       string    `json:"booking_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type AccommodationOption struct {
	ID            uuid.UUID `json:"id"`
	TravelPlanID  uuid.UUID `json:"travel_plan_id"`
	Provider      string    `json:"provider"`
	Name          string    `json:"name"`
	Address       string    `json:"address,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
	Rating        *float64  `json:"rating,omitempty"`
	CheckIn       Date      `json:"check_in"`
	CheckOut      Date      `json:"check_out"`
	Nights        int       `json:"nights"`
	PriceCurrency string    `json:"price_currency"`
	PricePerNight int64     `json:"price_per_night"`
	PriceTotal    int64     `json:"price_total"`
	BookingURL    string    `json:"booking_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type FlightRecommendations struct {
	PlanID             uuid.UUID      `json:"plan_id"`
	OriginAirport      string         `json:"origin_airport"`
	DestinationAirport string         `json:"destination_airport"`
	Options            []FlightOption `json:"options"`
	Warnings           []string       `json:"warnings,omitempty"`
}

type AccommodationRecommendations struct {
	PlanID   uuid.UUID             `json:"plan_id"`
	CheckIn  Date                  `json:"check_in"`
	CheckOut Date                  `json:"check_out"`
	Options  []AccommodationOption `json:"options"`
	Warnings []string              `json:"warnings,omitempty"`
}

type PlanRecommendations struct {
	Flights        *FlightRecommendations        `json:"flights"`
	Accommodations *AccommodationRecommendations `json:"accommodations"`
}
