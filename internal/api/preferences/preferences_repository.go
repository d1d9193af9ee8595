package preferences

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	database "github.com/FACorreiaa/go-travel-planner/app/db"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// Load returns nil, nil when the user has no stored preferences.
	Load(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error)
	Upsert(ctx context.Context, record types.PreferenceRecord) error
	// ListPlanHistory returns past non-failed plans, newest first.
	ListPlanHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.PlanHistoryEntry, error)
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

func (r *RepositoryImpl) Load(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error) {
	ctx, span := otel.Tracer("PreferencesRepository").Start(ctx, "Load", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	query := `
		SELECT user_id, default_budget_min, default_budget_max,
		       preferred_traveler_types, preferred_interests, avoided_activities,
		       dietary_restrictions, mobility_considerations, preferred_accommodation_type,
		       created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1`

	var rec types.PreferenceRecord
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&rec.UserID, &rec.DefaultBudgetMin, &rec.DefaultBudgetMax,
		&rec.PreferredTravelerTypes, &rec.PreferredInterests, &rec.AvoidedActivities,
		&rec.DietaryRestrictions, &rec.MobilityConsiderations, &rec.PreferredAccommodationType,
		&rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Ok, "no stored preferences")
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Failed to load user preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to load preferences for user %s: %w", userID, err)
	}

	span.SetStatus(codes.Ok, "preferences loaded")
	return &rec, nil
}

func (r *RepositoryImpl) Upsert(ctx context.Context, record types.PreferenceRecord) error {
	ctx, span := otel.Tracer("PreferencesRepository").Start(ctx, "Upsert", trace.WithAttributes(
		attribute.String("user.id", record.UserID.String()),
	))
	defer span.End()

	query := `
		INSERT INTO user_preferences (
			user_id, default_budget_min, default_budget_max,
			preferred_traveler_types, preferred_interests, avoided_activities,
			dietary_restrictions, mobility_considerations, preferred_accommodation_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id) DO UPDATE SET
			default_budget_min = EXCLUDED.default_budget_min,
			default_budget_max = EXCLUDED.default_budget_max,
			preferred_traveler_types = EXCLUDED.preferred_traveler_types,
			preferred_interests = EXCLUDED.preferred_interests,
			avoided_activities = EXCLUDED.avoided_activities,
			dietary_restrictions = EXCLUDED.dietary_restrictions,
			mobility_considerations = EXCLUDED.mobility_considerations,
			preferred_accommodation_type = EXCLUDED.preferred_accommodation_type,
			updated_at = NOW()`

	_, err := r.pgpool.Exec(ctx, query,
		record.UserID, record.DefaultBudgetMin, record.DefaultBudgetMax,
		nonNil(record.PreferredTravelerTypes), nonNil(record.PreferredInterests), nonNil(record.AvoidedActivities),
		nonNil(record.DietaryRestrictions), nonNil(record.MobilityConsiderations), nonNil(record.PreferredAccommodationType),
	)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to upsert user preferences", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return fmt.Errorf("failed to upsert preferences for user %s: %w", record.UserID, err)
	}
	span.SetStatus(codes.Ok, "preferences saved")
	return nil
}

func (r *RepositoryImpl) ListPlanHistory(ctx context.Context, userID uuid.UUID, limit int) ([]types.PlanHistoryEntry, error) {
	ctx, span := otel.Tracer("PreferencesRepository").Start(ctx, "ListPlanHistory", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.Int("limit", limit),
	))
	defer span.End()

	query := `
		SELECT id, budget_total, traveler_type,
		       COALESCE(preferences->'request', '{}'::jsonb),
		       COALESCE(preferences->'analysis'->'themes', '[]'::jsonb),
		       created_at
		FROM travel_plans
		WHERE user_id = $1 AND status <> 'failed'
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pgpool.Query(ctx, query, userID, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return nil, fmt.Errorf("failed to list plan history: %w", err)
	}
	defer rows.Close()

	var history []types.PlanHistoryEntry
	for rows.Next() {
		var e types.PlanHistoryEntry
		if err := rows.Scan(&e.PlanID, &e.BudgetTotal, &e.TravelerType, &e.Request, &e.Themes, &e.CreatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan plan history row: %w", err)
		}
		history = append(history, e)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating plan history rows: %w", err)
	}

	span.SetAttributes(attribute.Int("history.count", len(history)))
	span.SetStatus(codes.Ok, "history listed")
	return history, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
