package recommendations

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-planner/internal/api/retry"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	flightFallbackWarning = "Live flight search is unavailable, so sample fares are shown."
	flightEmptyWarning    = "No flights were found from %s to %s, so sample fares are shown."
	hotelFallbackWarning  = "Live hotel search is unavailable, so sample stays are shown."
	hotelEmptyWarning     = "No hotels were found for %s, so sample stays are shown."
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetFlights(ctx context.Context, userID, planID uuid.UUID, forceRefresh bool) (*types.FlightRecommendations, error)
	GetAccommodations(ctx context.Context, userID, planID uuid.UUID, forceRefresh bool) (*types.AccommodationRecommendations, error)
	GetAll(ctx context.Context, userID, planID uuid.UUID) (*types.PlanRecommendations, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	flights FlightProvider
	hotels  HotelProvider
	policy  retry.Policy
	metrics *metrics.AppMetrics
}

// NewServiceImpl wires the providers. A nil provider is replaced by its mock.
func NewServiceImpl(repo Repository, flights FlightProvider, hotels HotelProvider, policy retry.Policy, m *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	if flights == nil {
		flights = MockFlightProvider{}
	}
	if hotels == nil {
		hotels = MockHotelProvider{}
	}
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		flights: flights,
		hotels:  hotels,
		policy:  policy,
		metrics: m,
	}
}

func (s *ServiceImpl) GetFlights(ctx context.Context, userID, planID uuid.UUID, forceRefresh bool) (*types.FlightRecommendations, error) {
	ctx, span := otel.Tracer("RecommendationsService").Start(ctx, "GetFlights", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
		attribute.Bool("force_refresh", forceRefresh),
	))
	defer span.End()

	pc, err := s.repo.GetPlanContext(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan lookup failed")
		return nil, err
	}

	result := &types.FlightRecommendations{
		PlanID:             planID,
		OriginAirport:      OriginAirport(pc.OriginAirport),
		DestinationAirport: ResolveAirport(pc.Destination, pc.Country),
		Options:            []types.FlightOption{},
	}

	if !forceRefresh {
		existing, err := s.repo.ListFlights(ctx, planID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list failed")
			return nil, err
		}
		if len(existing) > 0 {
			result.Options = existing
			span.SetStatus(codes.Ok, "stored flights returned")
			return result, nil
		}
	}

	params := types.FlightSearchParams{
		Origin:        result.OriginAirport,
		Destination:   result.DestinationAirport,
		DepartureDate: pc.StartDate,
		ReturnDate:    pc.EndDate,
		Adults:        max(pc.TravelerCount, 1),
		CabinClass:    defaultCabinClass,
	}
	options, err := retry.Do(ctx, s.policy, func() ([]types.FlightOption, error) {
		return s.flights.SearchRoundTrip(ctx, params)
	})
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "Flight provider failed, using sample fares", slog.Any("error", err))
		s.countProviderError(ctx, "flights")
		options, _ = MockFlightProvider{}.SearchRoundTrip(ctx, params)
		result.Warnings = append(result.Warnings, flightFallbackWarning)
	case len(options) == 0:
		s.logger.InfoContext(ctx, "Flight provider returned no fares, using sample fares",
			slog.String("origin", params.Origin), slog.String("destination", params.Destination))
		options, _ = MockFlightProvider{}.SearchRoundTrip(ctx, params)
		result.Warnings = append(result.Warnings, fmt.Sprintf(flightEmptyWarning, params.Origin, params.Destination))
	}
	for i := range options {
		if options[i].BookingURL == "" {
			options[i].BookingURL = FlightSearchURL(params.Origin, params.Destination, params.DepartureDate, params.ReturnDate)
		}
		options[i].DurationMinutes = max(options[i].DurationMinutes, 1)
	}
	slices.SortStableFunc(options, func(a, b types.FlightOption) int {
		return cmp.Compare(a.PriceAmount, b.PriceAmount)
	})

	saved, err := s.repo.ReplaceFlights(ctx, planID, options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}
	result.Options = saved
	span.SetStatus(codes.Ok, "flights searched")
	return result, nil
}

func (s *ServiceImpl) GetAccommodations(ctx context.Context, userID, planID uuid.UUID, forceRefresh bool) (*types.AccommodationRecommendations, error) {
	ctx, span := otel.Tracer("RecommendationsService").Start(ctx, "GetAccommodations", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
		attribute.Bool("force_refresh", forceRefresh),
	))
	defer span.End()

	pc, err := s.repo.GetPlanContext(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "plan lookup failed")
		return nil, err
	}

	nights := pc.Nights()
	result := &types.AccommodationRecommendations{
		PlanID:   planID,
		CheckIn:  pc.StartDate,
		CheckOut: pc.StartDate.AddDays(nights),
		Options:  []types.AccommodationOption{},
	}

	if !forceRefresh {
		existing, err := s.repo.ListAccommodations(ctx, planID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "list failed")
			return nil, err
		}
		if len(existing) > 0 {
			result.Options = existing
			span.SetStatus(codes.Ok, "stored accommodations returned")
			return result, nil
		}
	}

	params := types.HotelSearchParams{
		Destination: pc.Destination,
		Country:     pc.Country,
		CheckIn:     pc.StartDate,
		Nights:      nights,
		Adults:      max(pc.TravelerCount, 1),
		Currency:    pc.Currency,
	}
	options, err := retry.Do(ctx, s.policy, func() ([]types.AccommodationOption, error) {
		return s.hotels.SearchHotels(ctx, params)
	})
	switch {
	case err != nil:
		s.logger.WarnContext(ctx, "Hotel provider failed, using sample stays", slog.Any("error", err))
		s.countProviderError(ctx, "hotels")
		options, _ = MockHotelProvider{}.SearchHotels(ctx, params)
		result.Warnings = append(result.Warnings, hotelFallbackWarning)
	case len(options) == 0:
		options, _ = MockHotelProvider{}.SearchHotels(ctx, params)
		result.Warnings = append(result.Warnings, fmt.Sprintf(hotelEmptyWarning, pc.Destination))
	}
	for i := range options {
		options[i].CheckIn = result.CheckIn
		options[i].CheckOut = result.CheckOut
		options[i].Nights = nights
		if options[i].BookingURL == "" {
			options[i].BookingURL = HotelSearchURL(pc.Destination, result.CheckIn, result.CheckOut, params.Adults)
		}
	}
	slices.SortStableFunc(options, func(a, b types.AccommodationOption) int {
		return cmp.Compare(a.PriceTotal, b.PriceTotal)
	})

	saved, err := s.repo.ReplaceAccommodations(ctx, planID, options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}
	result.Options = saved
	span.SetStatus(codes.Ok, "accommodations searched")
	return result, nil
}

// GetAll loads flights and accommodations concurrently. Either failure fails the call.
func (s *ServiceImpl) GetAll(ctx context.Context, userID, planID uuid.UUID) (*types.PlanRecommendations, error) {
	ctx, span := otel.Tracer("RecommendationsService").Start(ctx, "GetAll")
	defer span.End()

	var out types.PlanRecommendations
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		f, err := s.GetFlights(gctx, userID, planID, false)
		out.Flights = f
		return err
	})
	g.Go(func() error {
		a, err := s.GetAccommodations(gctx, userID, planID, false)
		out.Accommodations = a
		return err
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recommendations failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "recommendations loaded")
	return &out, nil
}

func (s *ServiceImpl) countProviderError(ctx context.Context, provider string) {
	if s.metrics == nil {
		return
	}
	s.metrics.ProviderErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("provider", provider)))
}
