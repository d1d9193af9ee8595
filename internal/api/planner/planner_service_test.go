package planner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/FACorreiaa/go-travel-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-travel-planner/internal/api/budget"
	"github.com/FACorreiaa/go-travel-planner/internal/api/plancache"
	"github.com/FACorreiaa/go-travel-planner/internal/api/preferences"
	"github.com/FACorreiaa/go-travel-planner/internal/api/routes"
	"github.com/FACorreiaa/go-travel-planner/internal/api/timeline"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) SavePlan(ctx context.Context, record types.PlanRecord, days []types.DailyItineraryDraft) (uuid.UUID, error) {
	args := m.Called(ctx, record, days)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) CompletePlan(ctx context.Context, planID uuid.UUID, generationTimeMs int) error {
	args := m.Called(ctx, planID, generationTimeMs)
	return args.Error(0)
}

func (m *MockRepository) MarkFailed(ctx context.Context, record types.PlanRecord) (uuid.UUID, error) {
	args := m.Called(ctx, record)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockRepository) SetStatus(ctx context.Context, planID uuid.UUID, status types.PlanStatus) error {
	args := m.Called(ctx, planID, status)
	return args.Error(0)
}

func (m *MockRepository) GetPlan(ctx context.Context, userID, planID uuid.UUID) (*types.TravelPlan, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.TravelPlan), args.Error(1)
}

func (m *MockRepository) GetPlanStatus(ctx context.Context, userID, planID uuid.UUID) (*types.PlanStatusResponse, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PlanStatusResponse), args.Error(1)
}

func (m *MockRepository) ListPlans(ctx context.Context, userID uuid.UUID, limit, offset int) ([]types.TravelPlanSummary, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]types.TravelPlanSummary), args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdatePlan(ctx context.Context, userID, planID uuid.UUID, patch types.UpdateTravelPlanRequest) error {
	args := m.Called(ctx, userID, planID, patch)
	return args.Error(0)
}

func (m *MockRepository) DeletePlan(ctx context.Context, userID, planID uuid.UUID) error {
	args := m.Called(ctx, userID, planID)
	return args.Error(0)
}

type MockPreferenceStore struct {
	mock.Mock
}

func (m *MockPreferenceStore) Load(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PreferenceRecord), args.Error(1)
}

func (m *MockPreferenceStore) SyncFromHistory(ctx context.Context, userID uuid.UUID) (*types.PreferenceRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PreferenceRecord), args.Error(1)
}

type fakeRecommender struct {
	bundle types.RecommendationBundle
	calls  int
}

func (f *fakeRecommender) Recommend(_ context.Context, _, _ string, _ types.AnalyzedPreferences) types.RecommendationBundle {
	f.calls++
	return f.bundle
}

type fakeNotes struct {
	note string
	err  error
}

func (f fakeNotes) WriteDayNote(_ context.Context, _ string, _ types.DailyItineraryDraft) (string, error) {
	return f.note, f.err
}

func candidate(name string, lat, lng float64) types.PlaceCandidate {
	return types.PlaceCandidate{Name: name, Latitude: lat, Longitude: lng, ExternalID: "ext_" + name}
}

func testBundle() types.RecommendationBundle {
	return types.RecommendationBundle{
		Accommodations: []types.PlaceCandidate{candidate("hotel", 35.6938, 139.7034)},
		Activities:     []types.PlaceCandidate{candidate("temple", 35.7148, 139.7967), candidate("museum", 35.6276, 139.7798)},
		Restaurants:    []types.PlaceCandidate{candidate("ramen", 35.6932, 139.7030), candidate("sushi", 35.6617, 139.7326)},
		Cafes:          []types.PlaceCandidate{candidate("coffee", 35.6635, 139.7083)},
		Warnings:       []string{"bundle warning"},
	}
}

func testRequest() types.TravelRequest {
	start := types.NewDate(2024, time.May, 1)
	return types.TravelRequest{
		Destination:  " Tokyo ",
		Country:      "Japan",
		StartDate:    start,
		EndDate:      start.AddDays(2),
		BudgetTotal:  1_500_000,
		TravelerType: types.TravelerCouple,
		Preferences:  types.PreferenceSet{Interests: []string{"food", "culture"}},
	}
}

type serviceFixture struct {
	svc   *ServiceImpl
	repo  *MockRepository
	prefs *MockPreferenceStore
	rec   *fakeRecommender
}

func setupService(t *testing.T, cache plancache.Cache) serviceFixture {
	t.Helper()
	h := types.DefaultHeuristics()
	m, err := metrics.NewAppMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	repo := new(MockRepository)
	prefs := new(MockPreferenceStore)
	rec := &fakeRecommender{bundle: testBundle()}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	svc := NewServiceImpl(Deps{
		Repo:        repo,
		Preferences: prefs,
		Analyzer:    preferences.NewAnalyzer(h),
		Allocator:   budget.NewAllocator(h),
		Recommender: rec,
		Timeline:    timeline.NewGenerator(h, routes.NewOptimizer(h)),
		Cache:       cache,
		Metrics:     m,
	}, logger)
	return serviceFixture{svc: svc, repo: repo, prefs: prefs, rec: rec}
}

func TestNewServiceImpl_DefaultsCacheTTL(t *testing.T) {
	svc := NewServiceImpl(Deps{}, slog.Default())
	assert.Equal(t, DefaultCacheTTL, svc.CacheTTL)
}

func TestGeneratePlan_Success(t *testing.T) {
	f := setupService(t, nil)
	ctx := context.Background()
	userID := uuid.New()
	planID := uuid.New()
	stored := &types.TravelPlan{ID: planID, Status: types.PlanCompleted}

	var savedRecord types.PlanRecord
	var savedDays []types.DailyItineraryDraft
	f.prefs.On("Load", mock.Anything, userID).Return(nil, nil).Once()
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedRecord = args.Get(1).(types.PlanRecord)
			savedDays = args.Get(2).([]types.DailyItineraryDraft)
		}).
		Return(planID, nil).Once()
	f.repo.On("CompletePlan", mock.Anything, planID, mock.AnythingOfType("int")).Return(nil).Once()
	f.prefs.On("SyncFromHistory", mock.Anything, userID).Return(&types.PreferenceRecord{}, nil).Once()
	f.repo.On("GetPlan", mock.Anything, userID, planID).Return(stored, nil).Once()

	resp, err := f.svc.GeneratePlan(ctx, userID, testRequest())

	require.NoError(t, err)
	assert.Same(t, stored, resp.Plan)
	assert.False(t, resp.Cached)
	assert.Contains(t, resp.Warnings, "bundle warning")

	assert.Equal(t, "Tokyo 3-day trip", savedRecord.Title)
	assert.Equal(t, "Tokyo", savedRecord.Request.Destination)
	assert.Equal(t, types.PlanInProgress, savedRecord.Status)
	assert.Equal(t, AIModelVersion, savedRecord.AIModelVersion)
	assert.Equal(t, []string{"food", "culture"}, savedRecord.Preferences.Analysis.Interests)
	assert.Equal(t, resp.Warnings, savedRecord.Preferences.Warnings)
	assert.Equal(t, int64(1_500_000), savedRecord.BudgetAllocated.Total)

	require.Len(t, savedDays, 3)
	for _, d := range savedDays {
		assert.Len(t, d.Places, 6)
	}
	assert.Equal(t, "food", savedDays[0].Theme)
	assert.Equal(t, "culture", savedDays[1].Theme)

	f.repo.AssertExpectations(t)
	f.prefs.AssertExpectations(t)
}

func TestGeneratePlan_ValidationError(t *testing.T) {
	f := setupService(t, nil)
	req := testRequest()
	req.BudgetTotal = 0

	resp, err := f.svc.GeneratePlan(context.Background(), uuid.New(), req)

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.Equal(t, 0, f.rec.calls)
	f.repo.AssertNotCalled(t, "SavePlan", mock.Anything, mock.Anything, mock.Anything)
}

func TestGeneratePlan_EndBeforeStart(t *testing.T) {
	f := setupService(t, nil)
	req := testRequest()
	req.EndDate = req.StartDate.AddDays(-1)

	_, err := f.svc.GeneratePlan(context.Background(), uuid.New(), req)

	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "end_date", vErr.Field)
}

func TestGeneratePlan_HistoryErrorIsIgnored(t *testing.T) {
	f := setupService(t, nil)
	userID := uuid.New()
	planID := uuid.New()

	f.prefs.On("Load", mock.Anything, userID).Return(nil, errors.New("db down")).Once()
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).Return(planID, nil).Once()
	f.repo.On("CompletePlan", mock.Anything, planID, mock.Anything).Return(nil).Once()
	f.prefs.On("SyncFromHistory", mock.Anything, userID).Return(nil, errors.New("still down")).Once()
	f.repo.On("GetPlan", mock.Anything, userID, planID).Return(&types.TravelPlan{ID: planID}, nil).Once()

	resp, err := f.svc.GeneratePlan(context.Background(), userID, testRequest())

	require.NoError(t, err)
	assert.Equal(t, planID, resp.Plan.ID)
}

func TestGeneratePlan_PersistenceFailureMarksFailed(t *testing.T) {
	f := setupService(t, nil)
	userID := uuid.New()

	var failed types.PlanRecord
	f.prefs.On("Load", mock.Anything, userID).Return(nil, nil).Once()
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).Return(uuid.Nil, errors.New("constraint violation")).Once()
	f.repo.On("MarkFailed", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { failed = args.Get(1).(types.PlanRecord) }).
		Return(uuid.New(), nil).Once()

	resp, err := f.svc.GeneratePlan(context.Background(), userID, testRequest())

	require.Error(t, err)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, types.ErrPersistence)
	assert.Contains(t, err.Error(), "constraint violation")
	assert.Equal(t, types.PlanFailed, failed.Status)
	f.repo.AssertNotCalled(t, "CompletePlan", mock.Anything, mock.Anything, mock.Anything)
	f.prefs.AssertNotCalled(t, "SyncFromHistory", mock.Anything, mock.Anything)
}

func TestGeneratePlan_CompletionFailureSetsFailedStatus(t *testing.T) {
	f := setupService(t, nil)
	userID := uuid.New()
	planID := uuid.New()

	f.prefs.On("Load", mock.Anything, userID).Return(nil, nil).Once()
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).Return(planID, nil).Once()
	f.repo.On("CompletePlan", mock.Anything, planID, mock.Anything).Return(errors.New("timeout")).Once()
	f.repo.On("SetStatus", mock.Anything, planID, types.PlanFailed).Return(nil).Once()

	_, err := f.svc.GeneratePlan(context.Background(), userID, testRequest())

	assert.ErrorIs(t, err, types.ErrPersistence)
	f.repo.AssertExpectations(t)
}

func TestGeneratePlan_CacheHitReusesAnalysis(t *testing.T) {
	cache := plancache.NewMemoryCache(time.Hour, time.Minute)
	f := setupService(t, cache)
	userID := uuid.New()
	first, second := uuid.New(), uuid.New()

	var records []types.PlanRecord
	f.prefs.On("Load", mock.Anything, userID).Return(nil, nil).Twice()
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { records = append(records, args.Get(1).(types.PlanRecord)) }).
		Return(first, nil).Once()
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { records = append(records, args.Get(1).(types.PlanRecord)) }).
		Return(second, nil).Once()
	f.repo.On("CompletePlan", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	f.prefs.On("SyncFromHistory", mock.Anything, userID).Return(nil, nil).Twice()
	f.repo.On("GetPlan", mock.Anything, userID, first).Return(&types.TravelPlan{ID: first}, nil).Once()
	f.repo.On("GetPlan", mock.Anything, userID, second).Return(&types.TravelPlan{ID: second}, nil).Once()

	r1, err := f.svc.GeneratePlan(context.Background(), userID, testRequest())
	require.NoError(t, err)
	r2, err := f.svc.GeneratePlan(context.Background(), userID, testRequest())
	require.NoError(t, err)

	assert.False(t, r1.Cached)
	assert.True(t, r2.Cached)
	assert.NotEqual(t, r1.Plan.ID, r2.Plan.ID)
	require.Len(t, records, 2)
	assert.Equal(t, records[0].Preferences.Analysis, records[1].Preferences.Analysis)
	assert.Equal(t, records[0].BudgetAllocated, records[1].BudgetAllocated)
}

func TestGeneratePlan_DayNotesAppended(t *testing.T) {
	f := setupService(t, nil)
	f.svc.Notes = fakeNotes{note: "Start early at the temple."}
	userID := uuid.New()
	planID := uuid.New()

	var days []types.DailyItineraryDraft
	f.prefs.On("Load", mock.Anything, userID).Return(nil, nil)
	f.repo.On("SavePlan", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { days = args.Get(2).([]types.DailyItineraryDraft) }).
		Return(planID, nil)
	f.repo.On("CompletePlan", mock.Anything, planID, mock.Anything).Return(nil)
	f.prefs.On("SyncFromHistory", mock.Anything, userID).Return(nil, nil)
	f.repo.On("GetPlan", mock.Anything, userID, planID).Return(&types.TravelPlan{ID: planID}, nil)

	_, err := f.svc.GeneratePlan(context.Background(), userID, testRequest())

	require.NoError(t, err)
	require.NotEmpty(t, days)
	assert.Equal(t, "Balanced schedule generated via heuristics for food. Start early at the temple.", days[0].Notes)
}

func TestCacheKey(t *testing.T) {
	userID := uuid.New()

	k1, err := CacheKey(userID, testRequest())
	require.NoError(t, err)
	k2, err := CacheKey(userID, testRequest())
	require.NoError(t, err)
	other, err := CacheKey(uuid.New(), testRequest())
	require.NoError(t, err)

	changed := testRequest()
	changed.BudgetTotal++
	k3, err := CacheKey(userID, changed)
	require.NoError(t, err)

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, other)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, len(cacheKeyPrefix)+64)
}

func TestProgress(t *testing.T) {
	assert.Equal(t, 1.0, Progress(types.PlanCompleted))
	assert.Equal(t, 0.0, Progress(types.PlanFailed))
	assert.Equal(t, 0.5, Progress(types.PlanInProgress))
	assert.Equal(t, 0.5, Progress(types.PlanDraft))
}

func TestGetPlanStatus_SetsProgress(t *testing.T) {
	f := setupService(t, nil)
	userID, planID := uuid.New(), uuid.New()
	f.repo.On("GetPlanStatus", mock.Anything, userID, planID).
		Return(&types.PlanStatusResponse{PlanID: planID, Status: types.PlanCompleted}, nil)

	status, err := f.svc.GetPlanStatus(context.Background(), userID, planID)

	require.NoError(t, err)
	assert.Equal(t, 1.0, status.Progress)
}

func TestListPlans_ClampsPagination(t *testing.T) {
	f := setupService(t, nil)
	userID := uuid.New()
	f.repo.On("ListPlans", mock.Anything, userID, 50, 50).
		Return([]types.TravelPlanSummary{{Title: "Seoul"}}, 51, nil).Once()

	got, err := f.svc.ListPlans(context.Background(), userID, 2, 500)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 50, got.PageSize)
	assert.Equal(t, 51, got.TotalRecords)
	assert.Len(t, got.Plans, 1)
}

func TestUpdatePlan_Validation(t *testing.T) {
	f := setupService(t, nil)
	blank := "   "
	bogus := types.PlanStatus("archived")

	tests := []struct {
		name  string
		patch types.UpdateTravelPlanRequest
		field string
	}{
		{"blank title", types.UpdateTravelPlanRequest{Title: &blank}, "title"},
		{"unknown status", types.UpdateTravelPlanRequest{Status: &bogus}, "status"},
		{"empty patch", types.UpdateTravelPlanRequest{}, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.UpdatePlan(context.Background(), uuid.New(), uuid.New(), tt.patch)
			var vErr *types.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
	f.repo.AssertNotCalled(t, "UpdatePlan", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePlan_TrimsTitleAndReloads(t *testing.T) {
	f := setupService(t, nil)
	userID, planID := uuid.New(), uuid.New()
	title := "  Spring in Tokyo "
	trimmed := "Spring in Tokyo"

	f.repo.On("UpdatePlan", mock.Anything, userID, planID, types.UpdateTravelPlanRequest{Title: &trimmed}).Return(nil).Once()
	f.repo.On("GetPlan", mock.Anything, userID, planID).Return(&types.TravelPlan{ID: planID, Title: trimmed}, nil).Once()

	plan, err := f.svc.UpdatePlan(context.Background(), userID, planID, types.UpdateTravelPlanRequest{Title: &title})

	require.NoError(t, err)
	assert.Equal(t, trimmed, plan.Title)
	f.repo.AssertExpectations(t)
}

func TestDeletePlan_NotFound(t *testing.T) {
	f := setupService(t, nil)
	userID, planID := uuid.New(), uuid.New()
	f.repo.On("DeletePlan", mock.Anything, userID, planID).Return(types.ErrNotFound)

	err := f.svc.DeletePlan(context.Background(), userID, planID)

	assert.ErrorIs(t, err, types.ErrNotFound)
}
