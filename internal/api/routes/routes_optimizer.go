package routes

import (
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

// Optimizer connects consecutive visits of a day with straight-line route estimates.
type Optimizer struct {
	h types.Heuristics
}

func NewOptimizer(h types.Heuristics) *Optimizer {
	return &Optimizer{h: h}
}

// BuildRoutes returns one route per consecutive pair of places, in visit order.
func (o *Optimizer) BuildRoutes(places []types.ItineraryPlaceDraft) []types.RouteDraft {
	if len(places) < 2 {
		return []types.RouteDraft{}
	}

	routes := make([]types.RouteDraft, 0, len(places)-1)
	for i := 0; i < len(places)-1; i++ {
		from, to := places[i], places[i+1]
		distance := Haversine(from.Place.Latitude, from.Place.Longitude, to.Place.Latitude, to.Place.Longitude)
		mode := o.ModeFor(distance)

		routes = append(routes, types.RouteDraft{
			FromOrder:       from.VisitOrder,
			ToOrder:         to.VisitOrder,
			Mode:            mode,
			DistanceMeters:  distance,
			DurationMinutes: o.DurationFor(distance),
			EstimatedCost:   o.CostFor(mode),
			Polyline: EncodePolyline([]LatLng{
				{Lat: from.Place.Latitude, Lng: from.Place.Longitude},
				{Lat: to.Place.Latitude, Lng: to.Place.Longitude},
			}),
		})
	}
	return routes
}

// DurationFor is a walking-pace estimate with a floor, not a routed ETA.
func (o *Optimizer) DurationFor(distanceMeters float64) int {
	minutes := int(distanceMeters / o.h.WalkingMetersPerMinute)
	if minutes < o.h.MinRouteMinutes {
		return o.h.MinRouteMinutes
	}
	return minutes
}

func (o *Optimizer) ModeFor(distanceMeters float64) types.TransportMode {
	switch {
	case distanceMeters <= o.h.WalkingMaxMeters:
		return types.ModeWalking
	case distanceMeters <= o.h.TransitMaxMeters:
		return types.ModePublicTransit
	default:
		return types.ModeDriving
	}
}

func (o *Optimizer) CostFor(mode types.TransportMode) int64 {
	if mode == types.ModeWalking {
		return 0
	}
	return o.h.FlatFare
}
