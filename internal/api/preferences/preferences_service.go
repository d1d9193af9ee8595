package preferences

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const historyWindow = 50

var _ Service = (*ServiceImpl)(nil)

// Service exposes stored preferences and keeps them in sync with plan history.
type Service interface {
	Load(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error)
	Get(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error)
	Update(ctx context.Context, userID uuid.UUID, req types.UpdatePreferencesRequest) (*types.PreferenceRecord, error)
	SyncFromHistory(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewServiceImpl(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) Load(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error) {
	return s.repo.Load(ctx, userID)
}

// Get returns the stored record, or an empty one for users without preferences.
func (s *ServiceImpl) Get(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error) {
	rec, err := s.repo.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return emptyRecord(userID), nil
	}
	return rec, nil
}

func emptyRecord(userID uuid.UUID) *types.PreferenceRecord {
	return &types.PreferenceRecord{
		UserID:                     userID,
		PreferredTravelerTypes:     []string{},
		PreferredInterests:         []string{},
		AvoidedActivities:          []string{},
		DietaryRestrictions:        []string{},
		MobilityConsiderations:     []string{},
		PreferredAccommodationType: []string{},
	}
}

// Update replaces the editable fields. Lists are trimmed and de-duplicated.
func (s *ServiceImpl) Update(ctx context.Context, userID uuid.UUID, req types.UpdatePreferencesRequest) (*types.PreferenceRecord, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "Update", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if req.DefaultBudgetMin != nil && *req.DefaultBudgetMin < 0 {
		return nil, types.NewValidationError("default_budget_min", "must not be negative")
	}
	if req.DefaultBudgetMax != nil && *req.DefaultBudgetMax < 0 {
		return nil, types.NewValidationError("default_budget_max", "must not be negative")
	}
	if req.DefaultBudgetMin != nil && req.DefaultBudgetMax != nil && *req.DefaultBudgetMin > *req.DefaultBudgetMax {
		return nil, types.NewValidationError("default_budget_min", "must not exceed default_budget_max")
	}
	for _, t := range req.PreferredTravelerTypes {
		if !types.TravelerType(strings.TrimSpace(t)).Valid() {
			return nil, types.NewValidationError("preferred_traveler_types", fmt.Sprintf("unknown value %q", t))
		}
	}

	record := types.PreferenceRecord{
		UserID:                     userID,
		DefaultBudgetMin:           req.DefaultBudgetMin,
		DefaultBudgetMax:           req.DefaultBudgetMax,
		PreferredTravelerTypes:     MergeLists(req.PreferredTravelerTypes),
		PreferredInterests:         MergeLists(req.PreferredInterests),
		AvoidedActivities:          MergeLists(req.AvoidedActivities),
		DietaryRestrictions:        MergeLists(req.DietaryRestrictions),
		MobilityConsiderations:     MergeLists(req.MobilityConsiderations),
		PreferredAccommodationType: MergeLists(req.PreferredAccommodationType),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}
	span.SetStatus(codes.Ok, "preferences updated")
	return s.Get(ctx, userID)
}

// LearnedPreferences aggregates what past plans say about a user.
type LearnedPreferences struct {
	BudgetMin           *int64
	BudgetMax           *int64
	TravelerTypes       []string
	Interests           []string
	Avoided             []string
	DietaryRestrictions []string
	AccommodationTypes  []string
}

func (l LearnedPreferences) Empty() bool {
	return l.BudgetMin == nil && l.BudgetMax == nil &&
		len(l.TravelerTypes) == 0 && len(l.Interests) == 0 &&
		len(l.Avoided) == 0 && len(l.DietaryRestrictions) == 0 &&
		len(l.AccommodationTypes) == 0
}

// SyncFromHistory recomputes learned fields from past plans and persists them.
// Without history the stored record is returned untouched.
func (s *ServiceImpl) SyncFromHistory(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error) {
	ctx, span := otel.Tracer("PreferencesService").Start(ctx, "SyncFromHistory", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	history, err := s.repo.ListPlanHistory(ctx, userID, historyWindow)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "history lookup failed")
		return nil, fmt.Errorf("failed to read plan history: %w", err)
	}

	existing, err := s.repo.Load(ctx, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "preference lookup failed")
		return nil, fmt.Errorf("failed to read stored preferences: %w", err)
	}

	learned := Summarize(history)
	if learned.Empty() {
		span.SetStatus(codes.Ok, "no history")
		return existing, nil
	}

	record := types.PreferenceRecord{UserID: userID}
	if existing != nil {
		record = *existing
	}
	ApplyLearned(&record, learned)

	if err := s.repo.Upsert(ctx, record); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "upsert failed")
		return nil, err
	}

	s.logger.DebugContext(ctx, "Preferences synced from history",
		slog.String("userID", userID.String()),
		slog.Int("plans", len(history)))
	span.SetStatus(codes.Ok, "preferences synced")
	return &record, nil
}

// Summarize derives learned preferences from plan history (newest first).
func Summarize(history []types.PlanHistoryEntry) LearnedPreferences {
	var learned LearnedPreferences
	if len(history) == 0 {
		return learned
	}

	travelers := newCounter()
	interests := newCounter()
	avoided := newCounter()
	dietary := newCounter()
	stays := newCounter()

	for _, entry := range history {
		if entry.BudgetTotal > 0 {
			b := entry.BudgetTotal
			if learned.BudgetMin == nil || b < *learned.BudgetMin {
				learned.BudgetMin = &b
			}
			if learned.BudgetMax == nil || b > *learned.BudgetMax {
				bm := b
				learned.BudgetMax = &bm
			}
		}
		if entry.TravelerType != "" {
			travelers.add(string(entry.TravelerType))
		}
		interests.add(entry.Request.Interests...)
		avoided.add(entry.Request.Avoid...)
		dietary.add(entry.Request.DietaryRestrictions...)
		stays.add(entry.Themes...)
	}

	learned.TravelerTypes = travelers.ranked()
	learned.Interests = interests.ranked()
	learned.Avoided = avoided.ranked()
	learned.DietaryRestrictions = dietary.ranked()
	learned.AccommodationTypes = stays.ranked()
	return learned
}

// ApplyLearned merges learned values into record, learned values first.
func ApplyLearned(record *types.PreferenceRecord, learned LearnedPreferences) {
	if learned.BudgetMin != nil {
		record.DefaultBudgetMin = learned.BudgetMin
	}
	if learned.BudgetMax != nil {
		record.DefaultBudgetMax = learned.BudgetMax
	}
	record.PreferredTravelerTypes = MergeLists(learned.TravelerTypes, record.PreferredTravelerTypes)
	record.PreferredInterests = MergeLists(learned.Interests, record.PreferredInterests)
	record.AvoidedActivities = MergeLists(learned.Avoided, record.AvoidedActivities)
	record.DietaryRestrictions = MergeLists(learned.DietaryRestrictions, record.DietaryRestrictions)
	record.PreferredAccommodationType = MergeLists(learned.AccommodationTypes, record.PreferredAccommodationType)
}

// counter ranks values by frequency, ties keeping first-seen order.
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(values ...string) {
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := c.counts[v]; !ok {
			c.order = append(c.order, v)
		}
		c.counts[v]++
	}
}

func (c *counter) ranked() []string {
	out := append([]string(nil), c.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}
