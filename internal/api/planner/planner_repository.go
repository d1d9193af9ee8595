package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-travel-planner/app/db"
	"github.com/FACorreiaa/go-travel-planner/internal/api/routes"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// SavePlan writes the plan row and its whole itinerary tree in one
	// transaction. The plan is left in_progress.
	SavePlan(ctx context.Context, record types.PlanRecord, days []types.DailyItineraryDraft) (uuid.UUID, error)
	CompletePlan(ctx context.Context, planID uuid.UUID, generationTimeMs int) error
	// MarkFailed records a failed generation as a plan row without children.
	MarkFailed(ctx context.Context, record types.PlanRecord) (uuid.UUID, error)
	SetStatus(ctx context.Context, planID uuid.UUID, status types.PlanStatus) error

	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error)
	GetPlanStatus(ctx context.Context, userID, planID uuid.UUID) (*types.PlanStatusResponse, error)
	ListPlans(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TravelPlanSummary, int, error)
	UpdatePlan(ctx context.Context, userID, planID uuid.UUID, patch types.UpdateTravelPlanRequest) error
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
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

const insertPlanQuery = `
	INSERT INTO travel_plans (
		user_id, title, destination, country, start_date, end_date,
		budget_total, currency, traveler_type, traveler_count,
		preferences, status, budget_allocated, ai_model_version
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING id`

func planArgs(record types.PlanRecord, status types.PlanStatus) ([]any, error) {
	prefsJSON, err := json.Marshal(record.Preferences)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan preferences: %w", err)
	}
	budgetJSON, err := json.Marshal(record.BudgetAllocated)
	if err != nil {
		return nil, fmt.Errorf("failed to encode budget allocation: %w", err)
	}
	req := record.Request
	return []any{
		record.UserID, record.Title, req.Destination, req.Country, req.StartDate.Time, req.EndDate.Time,
		req.BudgetTotal, req.Currency, string(req.TravelerType), req.TravelerCount,
		prefsJSON, string(status), budgetJSON, record.AIModelVersion,
	}, nil
}

func (r *RepositoryImpl) SavePlan(ctx context.Context, record types.PlanRecord, days []types.DailyItineraryDraft) (uuid.UUID, error) {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "SavePlan", trace.WithAttributes(
		attribute.String("user.id", record.UserID.String()),
		attribute.Int("days.count", len(days)),
	))
	defer span.End()

	args, err := planArgs(record, types.PlanInProgress)
	if err != nil {
		span.RecordError(err)
		return uuid.Nil, err
	}

	tx, err := r.pgpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		return uuid.Nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			r.logger.WarnContext(ctx, "Rollback failed", slog.Any("error", err))
		}
	}()

	var planID uuid.UUID
	if err := tx.QueryRow(ctx, insertPlanQuery, args...).Scan(&planID); err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert travel plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert plan failed")
		return uuid.Nil, fmt.Errorf("failed to insert travel plan: %w", err)
	}

	placeIDs := make(map[string]uuid.UUID)
	for _, day := range days {
		if err := r.saveDay(ctx, tx, planID, day, placeIDs); err != nil {
			r.logger.ErrorContext(ctx, "Failed to save daily itinerary",
				slog.Int("day_number", day.DayNumber), slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "save day failed")
			return uuid.Nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.ErrorContext(ctx, "Failed to commit travel plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "commit failed")
		return uuid.Nil, fmt.Errorf("failed to commit travel plan: %w", err)
	}

	span.SetAttributes(attribute.String("plan.id", planID.String()))
	span.SetStatus(codes.Ok, "plan saved")
	return planID, nil
}

func (r *RepositoryImpl) saveDay(ctx context.Context, tx pgx.Tx, planID uuid.UUID, day types.DailyItineraryDraft, placeIDs map[string]uuid.UUID) error {
	var itineraryID uuid.UUID
	err := tx.QueryRow(ctx, `
		INSERT INTO daily_itineraries (travel_plan_id, day_number, date, theme, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		planID, day.DayNumber, day.Date.Time, day.Theme, day.Notes,
	).Scan(&itineraryID)
	if err != nil {
		return fmt.Errorf("failed to insert day %d: %w", day.DayNumber, err)
	}

	byOrder := make(map[int]uuid.UUID, len(day.Places))
	for _, visit := range day.Places {
		key := visit.Place.DedupKey()
		placeID, ok := placeIDs[key]
		if !ok {
			placeID, err = r.upsertPlace(ctx, tx, visit.Place)
			if err != nil {
				return err
			}
			placeIDs[key] = placeID
		}

		visitTime, err := clockParam(visit.VisitTime)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO itinerary_places (
				daily_itinerary_id, place_id, visit_order, visit_type, visit_time,
				duration_minutes, estimated_cost, reason
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			itineraryID, placeID, visit.VisitOrder, string(visit.VisitType), visitTime,
			positiveOrNil(visit.DurationMinutes), visit.EstimatedCost, nullString(visit.Reason),
		)
		if err != nil {
			return fmt.Errorf("failed to insert visit %d of day %d: %w", visit.VisitOrder, day.DayNumber, err)
		}
		byOrder[visit.VisitOrder] = placeID
	}

	for _, route := range day.Routes {
		from, okFrom := byOrder[route.FromOrder]
		to, okTo := byOrder[route.ToOrder]
		// Unresolved orders and self-loops are dropped.
		if !okFrom || !okTo || from == to {
			r.logger.DebugContext(ctx, "Dropping unresolvable route",
				slog.Int("day_number", day.DayNumber),
				slog.Int("from_order", route.FromOrder),
				slog.Int("to_order", route.ToOrder))
			continue
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO routes (
				daily_itinerary_id, from_place_id, to_place_id, from_order, to_order,
				transport_mode, distance_meters, duration_minutes, estimated_cost, polyline
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			itineraryID, from, to, route.FromOrder, route.ToOrder,
			string(route.Mode), route.DistanceMeters, positiveOrNil(route.DurationMinutes), route.EstimatedCost, nullString(route.Polyline),
		)
		if err != nil {
			return fmt.Errorf("failed to insert route %d->%d of day %d: %w", route.FromOrder, route.ToOrder, day.DayNumber, err)
		}
	}
	return nil
}

// upsertPlace reuses a stored place by external id, or by name and
// coordinates when there is none. Concurrent plans may still insert the same
// place twice; dedup here is best effort.
func (r *RepositoryImpl) upsertPlace(ctx context.Context, tx pgx.Tx, c types.PlaceCandidate) (uuid.UUID, error) {
	var id uuid.UUID
	var err error
	if c.ExternalID != "" {
		err = tx.QueryRow(ctx, `SELECT id FROM places WHERE external_id = $1 LIMIT 1`, c.ExternalID).Scan(&id)
	} else {
		err = tx.QueryRow(ctx,
			`SELECT id FROM places WHERE name = $1 AND latitude = $2 AND longitude = $3 LIMIT 1`,
			c.Name, c.Latitude, c.Longitude).Scan(&id)
	}
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, fmt.Errorf("failed to look up place %q: %w", c.Name, err)
	}

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO places (
			name, category, address, city, country, latitude, longitude,
			rating, price_level, tags, external_id, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		c.Name, string(c.Category), nullString(c.Address), nullString(c.City), nullString(c.Country),
		c.Latitude, c.Longitude, c.Rating, c.PriceLevel, tags, nullString(c.ExternalID), nullString(c.Source),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert place %q: %w", c.Name, err)
	}
	return id, nil
}

func (r *RepositoryImpl) CompletePlan(ctx context.Context, planID uuid.UUID, generationTimeMs int) error {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "CompletePlan", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `
		UPDATE travel_plans
		SET status = 'completed', generation_time_ms = $2, updated_at = NOW()
		WHERE id = $1`, planID, generationTimeMs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("failed to complete plan %s: %w", planID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s: %w", planID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "plan completed")
	return nil
}

func (r *RepositoryImpl) MarkFailed(ctx context.Context, record types.PlanRecord) (uuid.UUID, error) {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "MarkFailed")
	defer span.End()

	args, err := planArgs(record, types.PlanFailed)
	if err != nil {
		return uuid.Nil, err
	}
	var planID uuid.UUID
	if err := r.pgpool.QueryRow(ctx, insertPlanQuery, args...).Scan(&planID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return uuid.Nil, fmt.Errorf("failed to record failed plan: %w", err)
	}
	span.SetStatus(codes.Ok, "failed plan recorded")
	return planID, nil
}

func (r *RepositoryImpl) SetStatus(ctx context.Context, planID uuid.UUID, status types.PlanStatus) error {
	_, err := r.pgpool.Exec(ctx,
		`UPDATE travel_plans SET status = $2, updated_at = NOW() WHERE id = $1`,
		planID, string(status))
	if err != nil {
		return fmt.Errorf("failed to set plan %s status: %w", planID, err)
	}
	return nil
}

func (r *RepositoryImpl) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "GetPlan", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
	))
	defer span.End()

	var (
		plan           types.TravelPlan
		start, end     time.Time
		aiModelVersion *string
	)
	err := r.pgpool.QueryRow(ctx, `
		SELECT id, user_id, title, destination, country, start_date, end_date,
		       budget_total, currency, traveler_type::text, traveler_count,
		       preferences, budget_allocated, status::text, ai_model_version,
		       generation_time_ms, created_at, updated_at
		FROM travel_plans
		WHERE id = $1 AND user_id = $2`, planID, userID,
	).Scan(
		&plan.ID, &plan.UserID, &plan.Title, &plan.Destination, &plan.Country, &start, &end,
		&plan.BudgetTotal, &plan.Currency, &plan.TravelerType, &plan.TravelerCount,
		&plan.Preferences, &plan.BudgetAllocated, &plan.Status, &aiModelVersion,
		&plan.GenerationTimeMs, &plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", planID, types.ErrNotFound)
		}
		r.logger.ErrorContext(ctx, "Failed to get travel plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to get travel plan: %w", err)
	}
	plan.StartDate = types.Date{Time: start}
	plan.EndDate = types.Date{Time: end}
	plan.TotalDays = int(end.Sub(start).Hours()/24) + 1
	plan.TotalNights = max(plan.TotalDays-1, 0)
	if aiModelVersion != nil {
		plan.AIModelVersion = *aiModelVersion
	}

	days, err := r.loadDays(ctx, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load days failed")
		return nil, err
	}
	plan.DailyItineraries = days

	span.SetStatus(codes.Ok, "plan loaded")
	return &plan, nil
}

// loadDays reassembles days, visits and routes in creation order.
func (r *RepositoryImpl) loadDays(ctx context.Context, planID uuid.UUID) ([]types.DailyItinerary, error) {
	rows, err := r.pgpool.Query(ctx, `
		SELECT id, day_number, date, COALESCE(theme, ''), COALESCE(notes, '')
		FROM daily_itineraries
		WHERE travel_plan_id = $1
		ORDER BY day_number`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily itineraries: %w", err)
	}
	days := []types.DailyItinerary{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var d types.DailyItinerary
		var date time.Time
		if err := rows.Scan(&d.ID, &d.DayNumber, &date, &d.Theme, &d.Notes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan daily itinerary: %w", err)
		}
		d.Date = types.Date{Time: date}
		d.Places = []types.ItineraryPlace{}
		d.Routes = []types.Route{}
		index[d.ID] = len(days)
		days = append(days, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily itineraries: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	rows, err = r.pgpool.Query(ctx, `
		SELECT ip.id, ip.daily_itinerary_id, ip.visit_order, ip.visit_type::text, ip.visit_time,
		       ip.duration_minutes, ip.estimated_cost, COALESCE(ip.reason, ''), ip.is_confirmed,
		       p.id, p.name, p.category::text, COALESCE(p.address, ''), COALESCE(p.city, ''), COALESCE(p.country, ''),
		       p.latitude, p.longitude, p.rating::float8, p.price_level, p.tags, p.external_id, p.source
		FROM itinerary_places ip
		JOIN daily_itineraries d ON d.id = ip.daily_itinerary_id
		JOIN places p ON p.id = ip.place_id
		WHERE d.travel_plan_id = $1
		ORDER BY d.day_number, ip.visit_order`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query itinerary places: %w", err)
	}
	for rows.Next() {
		var (
			v         types.ItineraryPlace
			dayID     uuid.UUID
			visitTime pgtype.Time
		)
		if err := rows.Scan(
			&v.ID, &dayID, &v.VisitOrder, &v.VisitType, &visitTime,
			&v.DurationMinutes, &v.EstimatedCost, &v.Reason, &v.IsConfirmed,
			&v.Place.ID, &v.Place.Name, &v.Place.Category, &v.Place.Address, &v.Place.City, &v.Place.Country,
			&v.Place.Latitude, &v.Place.Longitude, &v.Place.Rating, &v.Place.PriceLevel, &v.Place.Tags,
			&v.Place.ExternalID, &v.Place.Source,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan itinerary place: %w", err)
		}
		v.VisitTime = formatClock(visitTime)
		if i, ok := index[dayID]; ok {
			days[i].Places = append(days[i].Places, v)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating itinerary places: %w", err)
	}

	rows, err = r.pgpool.Query(ctx, `
		SELECT r.id, r.daily_itinerary_id, r.from_place_id, r.to_place_id, r.from_order, r.to_order,
		       r.transport_mode::text, r.distance_meters, r.duration_minutes, r.estimated_cost, COALESCE(r.polyline, '')
		FROM routes r
		JOIN daily_itineraries d ON d.id = r.daily_itinerary_id
		WHERE d.travel_plan_id = $1
		ORDER BY d.day_number, r.from_order`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query routes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			rt    types.Route
			dayID uuid.UUID
		)
		if err := rows.Scan(
			&rt.ID, &dayID, &rt.FromPlaceID, &rt.ToPlaceID, &rt.FromOrder, &rt.ToOrder,
			&rt.Mode, &rt.DistanceMeters, &rt.DurationMinutes, &rt.EstimatedCost, &rt.Polyline,
		); err != nil {
			return nil, fmt.Errorf("failed to scan route: %w", err)
		}
		if i, ok := index[dayID]; ok {
			days[i].Routes = append(days[i].Routes, rt)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating routes: %w", err)
	}

	for i := range days {
		points := make([]routes.LatLng, 0, len(days[i].Places))
		for _, v := range days[i].Places {
			points = append(points, routes.LatLng{Lat: v.Place.Latitude, Lng: v.Place.Longitude})
		}
		days[i].Bounds = routes.CalculateBounds(points)
	}
	return days, nil
}

func (r *RepositoryImpl) GetPlanStatus(ctx context.Context, userID, planID uuid.UUID) (*types.PlanStatusResponse, error) {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "GetPlanStatus")
	defer span.End()

	resp := types.PlanStatusResponse{PlanID: planID}
	err := r.pgpool.QueryRow(ctx, `
		SELECT status::text, generation_time_ms, updated_at
		FROM travel_plans
		WHERE id = $1 AND user_id = $2`, planID, userID,
	).Scan(&resp.Status, &resp.GenerationTimeMs, &resp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("plan %s: %w", planID, types.ErrNotFound)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to get plan status: %w", err)
	}
	span.SetStatus(codes.Ok, "status loaded")
	return &resp, nil
}

func (r *RepositoryImpl) ListPlans(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TravelPlanSummary, int, error) {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "ListPlans", trace.WithAttributes(
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	))
	defer span.End()

	var total int
	if err := r.pgpool.QueryRow(ctx,
		`SELECT COUNT(*) FROM travel_plans WHERE user_id = $1`, userID).Scan(&total); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	rows, err := r.pgpool.Query(ctx, `
		SELECT id, title, destination, country, start_date, end_date, budget_total, status::text, created_at
		FROM travel_plans
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, 0, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	plans := []types.TravelPlanSummary{}
	for rows.Next() {
		var s types.TravelPlanSummary
		var start, end time.Time
		if err := rows.Scan(&s.ID, &s.Title, &s.Destination, &s.Country, &start, &end, &s.BudgetTotal, &s.Status, &s.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, 0, fmt.Errorf("failed to scan plan summary: %w", err)
		}
		s.StartDate = types.Date{Time: start}
		s.EndDate = types.Date{Time: end}
		plans = append(plans, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating plans: %w", err)
	}

	span.SetStatus(codes.Ok, "plans listed")
	return plans, total, nil
}

func (r *RepositoryImpl) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, patch types.UpdateTravelPlanRequest) error {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "UpdatePlan", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
	))
	defer span.End()

	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	tag, err := r.pgpool.Exec(ctx, `
		UPDATE travel_plans
		SET title = COALESCE($3, title),
		    status = COALESCE($4::plan_status_enum, status),
		    preferences = CASE
		        WHEN $5::text IS NULL THEN preferences
		        ELSE jsonb_set(preferences, '{request,notes}', to_jsonb($5::text), true)
		    END,
		    updated_at = NOW()
		WHERE id = $1 AND user_id = $2`,
		planID, userID, patch.Title, status, patch.Notes)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to update travel plan", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return fmt.Errorf("failed to update plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s: %w", planID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "plan updated")
	return nil
}

func (r *RepositoryImpl) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	ctx, span := otel.Tracer("PlannerRepository").Start(ctx, "DeletePlan", trace.WithAttributes(
		attribute.String("plan.id", planID.String()),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM travel_plans WHERE id = $1 AND user_id = $2`, planID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("plan %s: %w", planID, types.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "plan deleted")
	return nil
}

func clockParam(hhmm string) (pgtype.Time, error) {
	if hhmm == "" {
		return pgtype.Time{}, nil
	}
	d, err := types.ClockOf(hhmm)
	if err != nil {
		return pgtype.Time{}, err
	}
	return pgtype.Time{Microseconds: d.Microseconds(), Valid: true}, nil
}

func formatClock(t pgtype.Time) string {
	if !t.Valid {
		return ""
	}
	minutes := t.Microseconds / int64(time.Minute/time.Microsecond)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func positiveOrNil(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}
