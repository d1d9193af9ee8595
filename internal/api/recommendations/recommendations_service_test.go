package recommendations

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-planner/internal/api/retry"
	"github.com/FACorreiaa/go-travel-planner/internal/types"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetPlanContext(ctx context.Context, userID, planID uuid.UUID) (*PlanContext, error) {
	args := m.Called(ctx, userID, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PlanContext), args.Error(1)
}

func (m *MockRepository) ListFlights(ctx context.Context, planID uuid.UUID) ([]types.FlightOption, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FlightOption), args.Error(1)
}

func (m *MockRepository) ReplaceFlights(ctx context.Context, planID uuid.UUID, options []types.FlightOption) ([]types.FlightOption, error) {
	args := m.Called(ctx, planID, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.FlightOption), args.Error(1)
}

func (m *MockRepository) ListAccommodations(ctx context.Context, planID uuid.UUID) ([]types.AccommodationOption, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.AccommodationOption), args.Error(1)
}

func (m *MockRepository) ReplaceAccommodations(ctx context.Context, planID uuid.UUID, options []types.AccommodationOption) ([]types.AccommodationOption, error) {
	args := m.Called(ctx, planID, options)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.AccommodationOption), args.Error(1)
}

type failingFlights struct {
	mu    sync.Mutex
	calls int
}

func (f *failingFlights) SearchRoundTrip(context.Context, types.FlightSearchParams) ([]types.FlightOption, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil, errors.New("upstream 503")
}

type stubFlights struct {
	options []types.FlightOption
}

func (s stubFlights) SearchRoundTrip(context.Context, types.FlightSearchParams) ([]types.FlightOption, error) {
	return s.options, nil
}

type stubHotels struct {
	options []types.AccommodationOption
	err     error
}

func (s stubHotels) SearchHotels(context.Context, types.HotelSearchParams) ([]types.AccommodationOption, error) {
	return s.options, s.err
}

func fastPolicy() retry.Policy {
	return retry.Policy{Attempts: 3, InitialInterval: time.Millisecond}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func tokyoPlan(id uuid.UUID) *PlanContext {
	start := types.NewDate(2024, time.May, 1)
	return &PlanContext{
		ID:            id,
		Destination:   "Tokyo",
		Country:       "Japan",
		StartDate:     start,
		EndDate:       start.AddDays(3),
		TravelerCount: 2,
		Currency:      "KRW",
	}
}

func TestGetFlights_ReturnsStoredOptions(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	stored := []types.FlightOption{{FlightNumber: "KE703", PriceAmount: 100}}
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ListFlights", mock.Anything, planID).Return(stored, nil)

	svc := NewServiceImpl(repo, &failingFlights{}, nil, fastPolicy(), nil, testLogger())
	res, err := svc.GetFlights(context.Background(), userID, planID, false)

	require.NoError(t, err)
	assert.Equal(t, stored, res.Options)
	assert.Equal(t, "ICN", res.OriginAirport)
	assert.Equal(t, "HND", res.DestinationAirport)
	repo.AssertNotCalled(t, "ReplaceFlights", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetFlights_ProviderFailureFallsBackToMock(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	plan := tokyoPlan(planID)
	plan.OriginAirport = "gmp"
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(plan, nil)
	repo.On("ListFlights", mock.Anything, planID).Return([]types.FlightOption{}, nil)

	var saved []types.FlightOption
	repo.On("ReplaceFlights", mock.Anything, planID, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]types.FlightOption) }).
		Return([]types.FlightOption{{FlightNumber: "KE703"}}, nil)

	provider := &failingFlights{}
	svc := NewServiceImpl(repo, provider, nil, fastPolicy(), nil, testLogger())
	res, err := svc.GetFlights(context.Background(), userID, planID, false)

	require.NoError(t, err)
	assert.Equal(t, 3, provider.calls)
	assert.Equal(t, []string{flightFallbackWarning}, res.Warnings)
	assert.Equal(t, "GMP", res.OriginAirport)
	require.Len(t, saved, 3)
	assert.Equal(t, int64(640_000), saved[0].PriceAmount)
	assert.Equal(t, "GMP", saved[0].DepartureAirport)
	assert.Equal(t, "HND", saved[0].ArrivalAirport)
	for i := 1; i < len(saved); i++ {
		assert.LessOrEqual(t, saved[i-1].PriceAmount, saved[i].PriceAmount)
	}
	for _, f := range saved {
		assert.Contains(t, f.BookingURL, "google.com/travel/flights")
	}
}

func TestGetFlights_ForceRefreshSkipsStored(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ReplaceFlights", mock.Anything, planID, mock.Anything).Return([]types.FlightOption{}, nil)

	svc := NewServiceImpl(repo, nil, nil, fastPolicy(), nil, testLogger())
	res, err := svc.GetFlights(context.Background(), userID, planID, true)

	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	repo.AssertNotCalled(t, "ListFlights", mock.Anything, mock.Anything)
}

func TestGetFlights_EmptyResultWarns(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)

	var saved []types.FlightOption
	repo.On("ReplaceFlights", mock.Anything, planID, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]types.FlightOption) }).
		Return([]types.FlightOption{{FlightNumber: "KE703"}}, nil)

	svc := NewServiceImpl(repo, stubFlights{options: []types.FlightOption{}}, nil, fastPolicy(), nil, testLogger())
	res, err := svc.GetFlights(context.Background(), userID, planID, true)

	require.NoError(t, err)
	assert.Equal(t, []string{"No flights were found from ICN to HND, so sample fares are shown."}, res.Warnings)
	require.Len(t, saved, 3)
	assert.Equal(t, int64(640_000), saved[0].PriceAmount)
}

func TestGetFlights_PlanNotFound(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(nil, types.ErrNotFound)

	svc := NewServiceImpl(repo, nil, nil, fastPolicy(), nil, testLogger())
	_, err := svc.GetFlights(context.Background(), userID, planID, false)

	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestGetFlights_PersistFailure(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ListFlights", mock.Anything, planID).Return([]types.FlightOption{}, nil)
	repo.On("ReplaceFlights", mock.Anything, planID, mock.Anything).Return(nil, errors.New("deadlock"))

	svc := NewServiceImpl(repo, nil, nil, fastPolicy(), nil, testLogger())
	_, err := svc.GetFlights(context.Background(), userID, planID, false)

	assert.ErrorIs(t, err, types.ErrPersistence)
}

func TestGetAccommodations_SortsAndStampsDates(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ListAccommodations", mock.Anything, planID).Return([]types.AccommodationOption{}, nil)

	var saved []types.AccommodationOption
	repo.On("ReplaceAccommodations", mock.Anything, planID, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]types.AccommodationOption) }).
		Return([]types.AccommodationOption{}, nil)

	hotels := stubHotels{options: []types.AccommodationOption{
		{Name: "Pricey", PricePerNight: 300_000, PriceTotal: 900_000},
		{Name: "Cheap", PricePerNight: 50_000, PriceTotal: 150_000, BookingURL: "https://example.com/cheap"},
	}}
	svc := NewServiceImpl(repo, nil, hotels, fastPolicy(), nil, testLogger())
	res, err := svc.GetAccommodations(context.Background(), userID, planID, false)

	require.NoError(t, err)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "2024-05-01", res.CheckIn.String())
	assert.Equal(t, "2024-05-04", res.CheckOut.String())
	require.Len(t, saved, 2)
	assert.Equal(t, "Cheap", saved[0].Name)
	assert.Equal(t, "https://example.com/cheap", saved[0].BookingURL)
	assert.Contains(t, saved[1].BookingURL, "agoda.com/search")
	for _, a := range saved {
		assert.Equal(t, 3, a.Nights)
		assert.Equal(t, res.CheckIn, a.CheckIn)
		assert.Equal(t, res.CheckOut, a.CheckOut)
	}
}

func TestGetAccommodations_EmptyResultUsesSamples(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ListAccommodations", mock.Anything, planID).Return([]types.AccommodationOption{}, nil)

	var saved []types.AccommodationOption
	repo.On("ReplaceAccommodations", mock.Anything, planID, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]types.AccommodationOption) }).
		Return([]types.AccommodationOption{}, nil)

	svc := NewServiceImpl(repo, nil, stubHotels{}, fastPolicy(), nil, testLogger())
	res, err := svc.GetAccommodations(context.Background(), userID, planID, false)

	require.NoError(t, err)
	assert.Equal(t, []string{"No hotels were found for Tokyo, so sample stays are shown."}, res.Warnings)
	require.Len(t, saved, 3)
	assert.Equal(t, int64(360_000), saved[0].PriceTotal)
}

func TestGetAccommodations_ProviderErrorUsesSamples(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ListAccommodations", mock.Anything, planID).Return([]types.AccommodationOption{}, nil)
	repo.On("ReplaceAccommodations", mock.Anything, planID, mock.Anything).Return([]types.AccommodationOption{}, nil)

	svc := NewServiceImpl(repo, nil, stubHotels{err: errors.New("quota")}, fastPolicy(), nil, testLogger())
	res, err := svc.GetAccommodations(context.Background(), userID, planID, false)

	require.NoError(t, err)
	assert.Equal(t, []string{hotelFallbackWarning}, res.Warnings)
}

func TestGetAll_LoadsBoth(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(tokyoPlan(planID), nil)
	repo.On("ListFlights", mock.Anything, planID).Return([]types.FlightOption{{FlightNumber: "OZ1085"}}, nil)
	repo.On("ListAccommodations", mock.Anything, planID).Return([]types.AccommodationOption{{Name: "City Central Stay"}}, nil)

	svc := NewServiceImpl(repo, nil, nil, fastPolicy(), nil, testLogger())
	res, err := svc.GetAll(context.Background(), userID, planID)

	require.NoError(t, err)
	require.NotNil(t, res.Flights)
	require.NotNil(t, res.Accommodations)
	assert.Equal(t, "OZ1085", res.Flights.Options[0].FlightNumber)
	assert.Equal(t, "City Central Stay", res.Accommodations.Options[0].Name)
}

func TestGetAll_PropagatesFailure(t *testing.T) {
	repo := new(MockRepository)
	userID, planID := uuid.New(), uuid.New()
	repo.On("GetPlanContext", mock.Anything, userID, planID).Return(nil, types.ErrNotFound)

	svc := NewServiceImpl(repo, nil, nil, fastPolicy(), nil, testLogger())
	res, err := svc.GetAll(context.Background(), userID, planID)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, types.ErrNotFound)
}
