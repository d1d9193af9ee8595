package planner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	api "github.com/FACorreiaa/go-travel-planner/internal/api"
	"github.com/FACorreiaa/go-travel-planner/internal/api/budget"
	"github.com/FACorreiaa/go-travel-planner/internal/api/plancache"
	"github.com/FACorreiaa/go-travel-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-travel-planner/internal/api/timeline"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

const (
	AIModelVersion  = "heuristic-v1"
	cacheKeyPrefix  = "ai-plan:"
	DefaultCacheTTL = 7 * 24 * time.Hour
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GeneratePlan(ctx context.Context, userID uuid.UUID, req types.TravelRequest) (*types.GeneratePlanResponse, error)
	GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error)
	GetPlanStatus(ctx context.Context, userID, planID uuid.UUID) (*types.PlanStatusResponse, error)
	ListPlans(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedTravelPlans, error)
	UpdatePlan(ctx context.Context, userID, planID uuid.UUID, patch types.UpdateTravelPlanRequest) (*types.TravelPlan, error)
	DeletePlan(ctx context.Context, userID, planID uuid.UUID) error
}

// PreferenceStore loads history before generation and learns from it afterwards.
type PreferenceStore interface {
	Load(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error)
	SyncFromHistory(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error)
}

type PlaceRecommender interface {
	Recommend(ctx context.Context, destination, country string, prefs types.AnalyzedPreferences) types.RecommendationBundle
}

type DayNoteWriter interface {
	WriteDayNote(ctx context.Context, destination string, day types.DailyItineraryDraft) (string, error)
}

// Deps groups the collaborators of ServiceImpl. Cache and Notes are optional.
type Deps struct {
	Repo        Repository
	Preferences PreferenceStore
	Analyzer    *preferences.Analyzer
	Allocator   *budget.Allocator
	Recommender PlaceRecommender
	Timeline    *timeline.Generator
	Cache       plancache.Cache
	CacheTTL    time.Duration
	Notes       DayNoteWriter
	Metrics     *metrics.AppMetrics
}

type ServiceImpl struct {
	logger *slog.Logger
	Deps
}

func NewServiceImpl(deps Deps, logger *slog.Logger) *ServiceImpl {
	if deps.CacheTTL <= 0 {
		deps.CacheTTL = DefaultCacheTTL
	}
	return &ServiceImpl{logger: logger, Deps: deps}
}

// cachedAnalysis is the value stored under a plan cache key.
type cachedAnalysis struct {
	Analysis types.AnalyzedPreferences    `json:"analysis"`
	Budget   types.BudgetAllocationResult `json:"budget"`
}

// CacheKey hashes the user id and the normalized request as canonical JSON
// with sorted keys.
func CacheKey(userID uuid.UUID, req types.TravelRequest) (string, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	var plan any
	if err := json.Unmarshal(raw, &plan); err != nil {
		return "", fmt.Errorf("failed to normalize request: %w", err)
	}
	canonical, err := json.Marshal(map[string]any{
		"user_id": userID.String(),
		"plan":    plan,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode cache payload: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// DefaultTitle is used when the request carries no title.
func DefaultTitle(req types.TravelRequest) string {
	return fmt.Sprintf("%s %d-day trip", req.Destination, req.TotalDays())
}

func (s *ServiceImpl) GeneratePlan(ctx context.Context, userID uuid.UUID, req types.TravelRequest) (*types.GeneratePlanResponse, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GeneratePlan", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("destination", req.Destination),
	))
	defer span.End()
	start := time.Now()

	if err := req.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		s.recordOutcome(ctx, "invalid", start)
		return nil, err
	}

	history, err := s.Preferences.Load(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Could not load preference history, continuing without it", slog.Any("error", err))
		history = nil
	}

	analysis, alloc, cached := s.analyze(ctx, userID, req, history)
	span.SetAttributes(attribute.Bool("cache.hit", cached))

	bundle := s.Recommender.Recommend(ctx, req.Destination, req.Country, analysis)

	draft := types.NewTravelPlanDraft(req)
	draft.Analysis = analysis
	draft.Budget = alloc
	s.Timeline.Generate(draft, bundle, analysis, alloc)
	draft.Warnings = append(append([]string{}, alloc.Warnings...), bundle.Warnings...)

	if s.Notes != nil {
		s.enrichNotes(ctx, req.Destination, draft)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultTitle(req)
	}
	record := types.PlanRecord{
		UserID:  userID,
		Title:   title,
		Request: req,
		Preferences: types.PlanPreferences{
			Request:  req.Preferences,
			Analysis: analysis,
			Warnings: draft.Warnings,
		},
		BudgetAllocated: alloc.Breakdown,
		Status:          types.PlanInProgress,
		AIModelVersion:  AIModelVersion,
	}

	saveStart := time.Now()
	planID, err := s.Repo.SavePlan(ctx, record, draft.DailyItineraries)
	s.recordQuery(ctx, "save_plan", saveStart, err)
	if err != nil {
		s.markFailed(ctx, record)
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		s.recordOutcome(ctx, "failed", start)
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}

	elapsed := int(time.Since(start).Milliseconds())
	if err := s.Repo.CompletePlan(ctx, planID, elapsed); err != nil {
		if statusErr := s.Repo.SetStatus(ctx, planID, types.PlanFailed); statusErr != nil {
			s.logger.ErrorContext(ctx, "Could not mark plan as failed", slog.Any("error", statusErr))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		s.recordOutcome(ctx, "failed", start)
		return nil, fmt.Errorf("%w: %w", types.ErrPersistence, err)
	}

	if _, err := s.Preferences.SyncFromHistory(ctx, userID); err != nil {
		s.logger.WarnContext(ctx, "Preference learning failed", slog.Any("error", err))
	}

	plan, err := s.Repo.GetPlan(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reload failed")
		return nil, fmt.Errorf("failed to load generated plan: %w", err)
	}

	s.recordOutcome(ctx, "completed", start)
	s.logger.InfoContext(ctx, "Travel plan generated",
		slog.String("plan_id", planID.String()),
		slog.Int("days", draft.TotalDays),
		slog.Int("generation_time_ms", elapsed),
		slog.Bool("cached", cached))
	span.SetStatus(codes.Ok, "plan generated")
	return &types.GeneratePlanResponse{Plan: plan, Warnings: draft.Warnings, Cached: cached}, nil
}

// analyze returns the analysis and budget for req, reusing a cached pair when
// one exists for the same user and request.
func (s *ServiceImpl) analyze(ctx context.Context, userID uuid.UUID, req types.TravelRequest, history *types.PreferenceRecord) (types.AnalyzedPreferences, types.BudgetAllocationResult, bool) {
	var key string
	if s.Cache != nil {
		k, err := CacheKey(userID, req)
		if err != nil {
			s.logger.WarnContext(ctx, "Could not build plan cache key", slog.Any("error", err))
		} else {
			key = k
		}
	}

	if key != "" {
		raw, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			s.logger.WarnContext(ctx, "Plan cache read failed", slog.Any("error", err))
		}
		if ok {
			var entry cachedAnalysis
			if err := json.Unmarshal(raw, &entry); err == nil {
				s.countCache(ctx, true)
				return entry.Analysis, entry.Budget, true
			}
			s.logger.WarnContext(ctx, "Discarding unreadable plan cache entry", slog.String("key", key))
		}
		s.countCache(ctx, false)
	}

	analysis := s.Analyzer.Analyze(req, history)
	alloc := s.Allocator.Allocate(req.BudgetTotal, req.TotalDays(), analysis)

	if key != "" {
		raw, err := json.Marshal(cachedAnalysis{Analysis: analysis, Budget: alloc})
		if err == nil {
			err = s.Cache.Set(ctx, key, raw, s.CacheTTL)
		}
		if err != nil {
			s.logger.WarnContext(ctx, "Plan cache write failed", slog.Any("error", err))
		}
	}
	return analysis, alloc, false
}

func (s *ServiceImpl) enrichNotes(ctx context.Context, destination string, draft *types.TravelPlanDraft) {
	for i := range draft.DailyItineraries {
		day := &draft.DailyItineraries[i]
		note, err := s.Notes.WriteDayNote(ctx, destination, *day)
		if err != nil || note == "" {
			continue
		}
		day.Notes = day.Notes + ". " + note
	}
}

func (s *ServiceImpl) markFailed(ctx context.Context, record types.PlanRecord) {
	record.Status = types.PlanFailed
	if _, err := s.Repo.MarkFailed(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "Could not record failed plan", slog.Any("error", err))
	}
}

func (s *ServiceImpl) recordOutcome(ctx context.Context, outcome string, start time.Time) {
	if s.Metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	s.Metrics.PlanGenerationsTotal.Add(ctx, 1, attrs)
	s.Metrics.PlanGenerationDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}

func (s *ServiceImpl) recordQuery(ctx context.Context, op string, start time.Time, err error) {
	if s.Metrics == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("op", op))
	s.Metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
	if err != nil {
		s.Metrics.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

func (s *ServiceImpl) countCache(ctx context.Context, hit bool) {
	if s.Metrics == nil {
		return
	}
	if hit {
		s.Metrics.PlanCacheHitsTotal.Add(ctx, 1)
		return
	}
	s.Metrics.PlanCacheMissesTotal.Add(ctx, 1)
}

func (s *ServiceImpl) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "GetPlan")
	defer span.End()

	plan, err := s.Repo.GetPlan(ctx, userID, planID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get plan failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "plan loaded")
	return plan, nil
}

// Progress maps a plan status to a completion fraction.
func Progress(status types.PlanStatus) float64 {
	switch status {
	case types.PlanCompleted:
		return 1.0
	case types.PlanFailed:
		return 0.0
	default:
		return 0.5
	}
}

func (s *ServiceImpl) GetPlanStatus(ctx context.Context, userID, planID uuid.UUID) (*types.PlanStatusResponse, error) {
	status, err := s.Repo.GetPlanStatus(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	status.Progress = Progress(status.Status)
	return status, nil
}

func (s *ServiceImpl) ListPlans(ctx context.Context, userID uuid.UUID, page, pageSize int) (*types.PaginatedTravelPlans, error) {
	ctx, span := otel.Tracer("PlannerService").Start(ctx, "ListPlans")
	defer span.End()

	p := api.NewPagination(page, pageSize)
	plans, total, err := s.Repo.ListPlans(ctx, userID, p.PageSize, p.Offset())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	span.SetStatus(codes.Ok, "plans listed")
	return &types.PaginatedTravelPlans{
		Plans:        plans,
		TotalRecords: total,
		Page:         p.Page,
		PageSize:     p.PageSize,
	}, nil
}

func (s *ServiceImpl) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, patch types.UpdateTravelPlanRequest) (*types.TravelPlan, error) {
	if patch.Title != nil {
		t := strings.TrimSpace(*patch.Title)
		if t == "" {
			return nil, types.NewValidationError("title", "must not be empty")
		}
		patch.Title = &t
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, types.NewValidationError("status", fmt.Sprintf("unknown value %q", *patch.Status))
	}
	if patch.Title == nil && patch.Status == nil && patch.Notes == nil {
		return nil, types.NewValidationError("body", "nothing to update")
	}

	if err := s.Repo.UpdatePlan(ctx, userID, planID, patch); err != nil {
		return nil, err
	}
	return s.Repo.GetPlan(ctx, userID, planID)
}

func (s *ServiceImpl) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	return s.Repo.DeletePlan(ctx, userID, planID)
}
