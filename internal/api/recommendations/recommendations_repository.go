package recommendations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-travel-planner/app/db"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

// PlanContext is the part of a travel plan needed to search options for it.
type PlanContext struct {
	ID            uuid.UUID
	Destination   string
	Country       string
	StartDate     types.Date
	EndDate       types.Date
	TravelerCount int
	Currency      string
	OriginAirport string
}

// Nights is the number of nights between start and end, at least one.
func (p PlanContext) Nights() int {
	return max(int(p.EndDate.Sub(p.StartDate.Time).Hours()/24), 1)
}

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	GetPlanContext(ctx context.Context, userID, planID uuid.UUID) (*PlanContext, error)
	ListFlights(ctx context.Context, planID uuid.UUID) ([]types.FlightOption, error)
	ReplaceFlights(ctx context.Context, planID uuid.UUID, options []types.FlightOption) ([]types.FlightOption, error)
	ListAccommodations(ctx context.Context, planID uuid.UUID) ([]types.AccommodationOption, error)
	ReplaceAccommodations(ctx context.Context, planID uuid.UUID, options []types.AccommodationOption) ([]types.AccommodationOption, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pgpool database.Pool
}

func NewRepository(pgxpool database.Pool, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pgpool: pgxpool,
	}
}

func (r *RepositoryImpl) GetPlanContext(ctx context.Context, userID, planID uuid.UUID) (*PlanContext, error) {
	ctx, span := otel.Tracer("RecommendationsRepository").Start(ctx, "GetPlanContext", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
	))
	defer span.End()

	var (
		pc         PlanContext
		start, end time.Time
	)
	err := r.pgpool.QueryRow(ctx, `
		SELECT id, destination, country, start_date, end_date, traveler_count, currency,
		       COALESCE(preferences->'request'->>'origin_airport', '')
		FROM travel_plans
		WHERE id = $1 AND user_id = $2`, planID, userID,
	).Scan(&pc.ID, &pc.Destination, &pc.Country, &start, &end, &pc.TravelerCount, &pc.Currency, &pc.OriginAirport)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", planID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to load plan context: %w", err)
	}
	pc.StartDate = types.Date{Time: start}
	pc.EndDate = types.Date{Time: end}
	span.SetStatus(codes.Ok, "plan context loaded")
	return &pc, nil
}

func (r *RepositoryImpl) ListFlights(ctx context.Context, planID uuid.UUID) ([]types.FlightOption, error) {
	ctx, span := otel.Tracer("RecommendationsRepository").Start(ctx, "ListFlights")
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, travel_plan_id, provider, carrier, flight_number, departure_airport, arrival_airport,
		       departure_time, arrival_time, duration_minutes, stops, COALESCE(seat_class, ''),
		       price_currency, price_amount, COALESCE(booking_url, ''), created_at
		FROM flight_options
		WHERE travel_plan_id = $1
		ORDER BY price_amount ASC`, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query flight options: %w", err)
	}
	defer rows.Close()

	options := []types.FlightOption{}
	for rows.Next() {
		var f types.FlightOption
		if err := rows.Scan(
			&f.ID, &f.TravelPlanID, &f.Provider, &f.Carrier, &f.FlightNumber, &f.DepartureAirport, &f.ArrivalAirport,
			&f.DepartureTime, &f.ArrivalTime, &f.DurationMinutes, &f.Stops, &f.SeatClass,
			&f.PriceCurrency, &f.PriceAmount, &f.BookingURL, &f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flight option: %w", err)
		}
		options = append(options, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating flight options: %w", err)
	}
	span.SetAttributes(attribute.Int("options.count", len(options)))
	return options, nil
}

// ReplaceFlights swaps the stored options of a plan for a new set.
func (r *RepositoryImpl) ReplaceFlights(ctx context.Context, planID uuid.UUID, options []types.FlightOption) ([]types.FlightOption, error) {
	ctx, span := otel.Tracer("RecommendationsRepository").Start(ctx, "ReplaceFlights", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
		attribute.Int("options.count", len(options)),
	))
	defer span.End()

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.WarnContext(ctx, "Rollback failed", slog.Any("error", err))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM flight_options WHERE travel_plan_id = $1`, planID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to clear flight options: %w", err)
	}

	saved := make([]types.FlightOption, 0, len(options))
	for _, f := range options {
		f.TravelPlanID = planID
		err := tx.QueryRow(ctx, `
			INSERT INTO flight_options (
				travel_plan_id, provider, carrier, flight_number, departure_airport, arrival_airport,
				departure_time, arrival_time, duration_minutes, stops, seat_class,
				price_currency, price_amount, booking_url
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id, created_at`,
			planID, f.Provider, f.Carrier, f.FlightNumber, f.DepartureAirport, f.ArrivalAirport,
			f.DepartureTime, f.ArrivalTime, max(f.DurationMinutes, 1), f.Stops, nullString(f.SeatClass),
			f.PriceCurrency, f.PriceAmount, nullString(f.BookingURL),
		).Scan(&f.ID, &f.CreatedAt)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to insert flight option", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
			return nil, fmt.Errorf("failed to insert flight option %s: %w", f.FlightNumber, err)
		}
		saved = append(saved, f)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit flight options: %w", err)
	}
	span.SetStatus(codes.Ok, "flight options replaced")
	return saved, nil
}

func (r *RepositoryImpl) ListAccommodations(ctx context.Context, planID uuid.UUID) ([]types.AccommodationOption, error) {
	ctx, span := otel.Tracer("RecommendationsRepository").Start(ctx, "ListAccommodations")
	defer span.End()

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, travel_plan_id, provider, name, COALESCE(address, ''), latitude, longitude, rating::float8,
		       check_in, check_out, nights, price_currency, price_per_night, price_total,
		       COALESCE(booking_url, ''), created_at
		FROM accommodation_options
		WHERE travel_plan_id = $1
		ORDER BY price_total ASC`, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to query accommodation options: %w", err)
	}
	defer rows.Close()

	options := []types.AccommodationOption{}
	for rows.Next() {
		var (
			a                 types.AccommodationOption
			checkIn, checkOut time.Time
		)
		if err := rows.Scan(
			&a.ID, &a.TravelPlanID, &a.Provider, &a.Name, &a.Address, &a.Latitude, &a.Longitude, &a.Rating,
			&checkIn, &checkOut, &a.Nights, &a.PriceCurrency, &a.PricePerNight, &a.PriceTotal,
			&a.BookingURL, &a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan accommodation option: %w", err)
		}
		a.CheckIn = types.Date{Time: checkIn}
		a.CheckOut = types.Date{Time: checkOut}
		options = append(options, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accommodation options: %w", err)
	}
	span.SetAttributes(attribute.Int("options.count", len(options)))
	return options, nil
}

func (r *RepositoryImpl) ReplaceAccommodations(ctx context.Context, planID uuid.UUID, options []types.AccommodationOption) ([]types.AccommodationOption, error) {
	ctx, span := otel.Tracer("RecommendationsRepository").Start(ctx, "ReplaceAccommodations", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
		attribute.Int("options.count", len(options)),
	))
	defer span.End()

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.WarnContext(ctx, "Rollback failed", slog.Any("error", err))
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM accommodation_options WHERE travel_plan_id = $1`, planID); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to clear accommodation options: %w", err)
	}

	saved := make([]types.AccommodationOption, 0, len(options))
	for _, a := range options {
		a.TravelPlanID = planID
		err := tx.QueryRow(ctx, `
			INSERT INTO accommodation_options (
				travel_plan_id, provider, name, address, latitude, longitude, rating,
				check_in, check_out, nights, price_currency, price_per_night, price_total, booking_url
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING id, created_at`,
			planID, a.Provider, a.Name, nullString(a.Address), a.Latitude, a.Longitude, a.Rating,
			a.CheckIn.Time, a.CheckOut.Time, max(a.Nights, 1), a.PriceCurrency, a.PricePerNight, a.PriceTotal,
			nullString(a.BookingURL),
		).Scan(&a.ID, &a.CreatedAt)
		if err != nil {
			r.logger.ErrorContext(ctx, "Failed to insert accommodation option", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
			return nil, fmt.Errorf("failed to insert accommodation option %q: %w", a.Name, err)
		}
		saved = append(saved, a)
	}

	if err := tx.Commit(ctx); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to commit accommodation options: %w", err)
	}
	span.SetStatus(codes.Ok, "accommodation options replaced")
	return saved, nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
