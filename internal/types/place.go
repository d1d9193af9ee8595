package types

import (
	"fmt"

	"github.com/google/uuid"
)

// PlaceCategory represents the DB ENUM 'place_category_enum'.
type PlaceCategory string

const (
	PlaceAccommodation PlaceCategory = "accommodation"
	PlaceRestaurant    PlaceCategory = "restaurant"
	PlaceCafe          PlaceCategory = "cafe"
	PlaceAttraction    PlaceCategory = "attraction"
	PlaceShopping      PlaceCategory = "shopping"
	PlaceTransport     PlaceCategory = "transport"
)

// PlaceCandidate is a place suggested for a plan, not yet persisted.
type PlaceCandidate struct {
	Name       string        `json:"name"`
	Category   PlaceCategory `json:"category"`
	Address    string        `json:"address,omitempty"`
	City       string        `json:"city,omitempty"`
	Country    string        `json:"country,omitempty"`
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	Rating     *float64      `json:"rating,omitempty"`
	PriceLevel *int          `json:"price_level,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	ExternalID string        `json:"external_id,omitempty"`
	Source     string        `json:"source,omitempty"`
}

// DedupKey identifies a candidate against persisted places: external id when
// present, otherwise name and coordinates.
func (p PlaceCandidate) DedupKey() string {
	if p.ExternalID != "" {
		return p.ExternalID
	}
	return fmt.Sprintf("%s:%f:%f", p.Name, p.Latitude, p.Longitude)
}

// RatingValue returns the rating or zero when unrated.
func (p PlaceCandidate) RatingValue() float64 {
	if p.Rating == nil {
		return 0
	}
	return *p.Rating
}

func (p PlaceCandidate) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone deep copies the candidate so seed data is never shared.
func (p PlaceCandidate) Clone() PlaceCandidate {
	c := p
	if p.Rating != nil {
		r := *p.Rating
		c.Rating = &r
	}
	if p.PriceLevel != nil {
		pl := *p.PriceLevel
		c.PriceLevel = &pl
	}
	if p.Tags != nil {
		c.Tags = append([]string(nil), p.Tags...)
	}
	return c
}

// RecommendationBundle is the four-category candidate set for one destination.
type RecommendationBundle struct {
	Accommodations []PlaceCandidate `json:"accommodations"`
	Activities     []PlaceCandidate `json:"activities"`
	Restaurants    []PlaceCandidate `json:"restaurants"`
	Cafes          []PlaceCandidate `json:"cafes"`
	Warnings       []string         `json:"warnings"`
}

// Pool returns the candidate list a timeline slot draws from.
func (b RecommendationBundle) Pool(p SlotPool) []PlaceCandidate {
	switch p {
	case PoolAccommodations:
		return b.Accommodations
	case PoolActivities:
		return b.Activities
	case PoolRestaurants:
		return b.Restaurants
	case PoolCafes:
		return b.Cafes
	}
	return nil
}

// Place is a persisted place row.
type Place struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Category   PlaceCategory `json:"category"`
	Address    string        `json:"address,omitempty"`
	City       string        `json:"city,omitempty"`
	Country    string        `json:"country,omitempty"`
	Latitude   float64       `json:"latitude"`
	Longitude  float64       `json:"longitude"`
	Rating     *float64      `json:"rating,omitempty"`
	PriceLevel *int          `json:"price_level,omitempty"`
	Tags       []string      `json:"tags,omitempty"`
	ExternalID *string       `json:"external_id,omitempty"`
	Source     *string       `json:"source,omitempty"`
}
