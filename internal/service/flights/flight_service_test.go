package flights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	args := m.Called(ctx, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(ctx context.Context, flightID string) error {
	args := m.Called(ctx, flightID)
	return args.Error(0)
}

func (m *MockFlightRepository) Search(ctx context.Context, origin, destination string, from, to time.Time) ([]domain.Flight, error) {
	args := m.Called(ctx, origin, destination, from, to)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetFlights(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockCache) SetFlights(ctx context.Context, flights []domain.Flight) error {
	args := m.Called(ctx, flights)
	return args.Error(0)
}

func (m *MockCache) GetSearchResults(ctx context.Context, origin, destination, date string) ([]domain.SearchResult, error) {
	args := m.Called(ctx, origin, destination, date)
	return args.Get(0).([]domain.SearchResult), args.Error(1)
}

func (m *MockCache) SetSearchResults(ctx context.Context, origin, destination, date string, results []domain.SearchResult) error {
	args := m.Called(ctx, origin, destination, date, results)
	return args.Error(0)
}

func sampleFlight() domain.Flight {
	return domain.Flight{
		FlightID:      "6E123",
		Origin:        "Delhi",
		Destination:   "Chennai",
		Airline:       "IndiGo",
		Price:         3200,
		DepartureTime: time.Date(2025, 5, 10, 6, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2025, 5, 10, 7, 30, 0, 0, time.UTC),
	}
}

func TestFlightService_List_CacheMiss(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flights := []domain.Flight{sampleFlight()}

	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)

	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flights := []domain.Flight{sampleFlight()}

	mockCache.On("GetFlights", ctx).Return(flights, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)

	mockCache.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "List")
	mockCache.AssertNotCalled(t, "SetFlights")
}

func TestFlightService_List_CacheErrorFallsThrough(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flights := []domain.Flight{sampleFlight()}

	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), errors.New("cache error")).Once()
	mockRepo.On("List", ctx).Return(flights, nil).Once()
	mockCache.On("SetFlights", ctx, flights).Return(nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)

	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_List_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	expectedErr := errors.New("database error")

	mockCache.On("GetFlights", ctx).Return(([]domain.Flight)(nil), nil).Once()
	mockRepo.On("List", ctx).Return(([]domain.Flight)(nil), expectedErr).Once()

	result, err := service.List(ctx)

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)

	mockCache.AssertNotCalled(t, "SetFlights")
}

func TestFlightService_List_NoCache(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	service := NewFlightService(mockRepo, nil)

	ctx := context.Background()
	flights := []domain.Flight{sampleFlight()}

	mockRepo.On("List", ctx).Return(flights, nil).Once()

	result, err := service.List(ctx)

	assert.NoError(t, err)
	assert.Equal(t, flights, result)

	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_MissingParamsShortCircuit(t *testing.T) {
	queries := []SearchQuery{
		{Origin: "", Destination: "che", Date: "2025-05-10"},
		{Origin: "del", Destination: "", Date: "2025-05-10"},
		{Origin: "del", Destination: "che", Date: ""},
		{Origin: "   ", Destination: "che", Date: "2025-05-10"},
		{},
	}

	for _, q := range queries {
		mockRepo := &MockFlightRepository{}
		mockCache := &MockCache{}
		service := NewFlightService(mockRepo, mockCache)

		result, err := service.Search(context.Background(), q)

		assert.NoError(t, err)
		assert.Empty(t, result)
		assert.NotNil(t, result)

		mockRepo.AssertNotCalled(t, "Search")
		mockCache.AssertNotCalled(t, "GetSearchResults")
		mockCache.AssertNotCalled(t, "SetSearchResults")
	}
}

func TestFlightService_Search_InvalidDate(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	result, err := service.Search(context.Background(), SearchQuery{
		Origin: "del", Destination: "che", Date: "10-05-2025",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, result)

	mockRepo.AssertNotCalled(t, "Search")
	mockCache.AssertNotCalled(t, "GetSearchResults")
}

func TestFlightService_Search_CacheMissPopulatesWithISTFields(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flight := sampleFlight()
	from := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)

	expected := []domain.SearchResult{{
		Flight:           flight,
		DepartureTimeIST: "10 May 2025, 11:30 AM",
		ArrivalTimeIST:   "10 May 2025, 01:00 PM",
	}}

	mockCache.On("GetSearchResults", ctx, "del", "che", "2025-05-10").Return(([]domain.SearchResult)(nil), nil).Once()
	mockRepo.On("Search", ctx, "del", "che", from, to).Return([]domain.Flight{flight}, nil).Once()
	mockCache.On("SetSearchResults", ctx, "del", "che", "2025-05-10", expected).Return(nil).Once()

	result, err := service.Search(ctx, SearchQuery{Origin: "del", Destination: "che", Date: "2025-05-10"})

	assert.NoError(t, err)
	assert.Equal(t, expected, result)

	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_CacheHit(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	cached := []domain.SearchResult{{
		Flight:           sampleFlight(),
		DepartureTimeIST: "10 May 2025, 11:30 AM",
		ArrivalTimeIST:   "10 May 2025, 01:00 PM",
	}}

	mockCache.On("GetSearchResults", ctx, "del", "che", "2025-05-10").Return(cached, nil).Once()

	result, err := service.Search(ctx, SearchQuery{Origin: "del", Destination: "che", Date: "2025-05-10"})

	assert.NoError(t, err)
	assert.Equal(t, cached, result)

	mockCache.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "Search")
	mockCache.AssertNotCalled(t, "SetSearchResults")
}

func TestFlightService_Search_TrimsQueryTerms(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	from := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)

	mockCache.On("GetSearchResults", ctx, "del", "che", "2025-05-10").Return(([]domain.SearchResult)(nil), nil).Once()
	mockRepo.On("Search", ctx, "del", "che", from, to).Return([]domain.Flight{}, nil).Once()
	mockCache.On("SetSearchResults", ctx, "del", "che", "2025-05-10", []domain.SearchResult{}).Return(nil).Once()

	result, err := service.Search(ctx, SearchQuery{Origin: "  del ", Destination: " che", Date: " 2025-05-10 "})

	assert.NoError(t, err)
	assert.Empty(t, result)

	mockCache.AssertExpectations(t)
	mockRepo.AssertExpectations(t)
}

func TestFlightService_Search_RepositoryError(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	expectedErr := errors.New("database error")

	mockCache.On("GetSearchResults", ctx, "del", "che", "2025-05-10").Return(([]domain.SearchResult)(nil), nil).Once()
	mockRepo.On("Search", ctx, "del", "che", mock.Anything, mock.Anything).Return(([]domain.Flight)(nil), expectedErr).Once()

	result, err := service.Search(ctx, SearchQuery{Origin: "del", Destination: "che", Date: "2025-05-10"})

	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, expectedErr, err)

	mockCache.AssertNotCalled(t, "SetSearchResults")
}

func TestFlightService_Search_CacheWriteErrorStillReturnsResults(t *testing.T) {
	mockRepo := &MockFlightRepository{}
	mockCache := &MockCache{}
	service := NewFlightService(mockRepo, mockCache)

	ctx := context.Background()
	flight := sampleFlight()

	mockCache.On("GetSearchResults", ctx, "del", "che", "2025-05-10").Return(([]domain.SearchResult)(nil), nil).Once()
	mockRepo.On("Search", ctx, "del", "che", mock.Anything, mock.Anything).Return([]domain.Flight{flight}, nil).Once()
	mockCache.On("SetSearchResults", ctx, "del", "che", "2025-05-10", mock.Anything).Return(errors.New("cache error")).Once()

	result, err := service.Search(ctx, SearchQuery{Origin: "del", Destination: "che", Date: "2025-05-10"})

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, flight.FlightID, result[0].FlightID)
}

func TestFormatIST_DayBoundary(t *testing.T) {
	// 23:59 UTC is already the next day in IST.
	late := time.Date(2025, 5, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "11 May 2025, 05:29 AM", formatIST(late))

	noon := time.Date(2025, 5, 10, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, "10 May 2025, 11:30 AM", formatIST(noon))
}
