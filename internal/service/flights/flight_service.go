package flights

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	Search(ctx context.Context, query SearchQuery) ([]domain.SearchResult, error)
}

// Cache is the result cache consumed by the lookup service. A nil Cache means
// every read goes straight to the repository.
type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	GetSearchResults(ctx context.Context, origin, destination, date string) ([]domain.SearchResult, error)
	SetSearchResults(ctx context.Context, origin, destination, date string, results []domain.SearchResult) error
}

type SearchQuery struct {
	Origin      string
	Destination string
	Date        string
}

// IST is a fixed offset, so no tzdata lookup is needed.
var istZone = time.FixedZone("IST", 5*3600+30*60)

const (
	istLayout  = "02 Jan 2006, 03:04 PM"
	dateLayout = "2006-01-02"
)

// FlightService serves the read path cache-aside: check the cache, fall
// through to the store on a miss, populate the cache with the result. Cache
// errors are logged and treated as misses; store errors fail the request.
type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			log.Printf("flights cache read: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			log.Printf("flights cache write: %v", err)
		}
	}
	return flights, nil
}

// Search requires all three parameters. An under-specified query returns an
// empty result set without touching the cache or the store; that is policy,
// not an error.
func (s *FlightService) Search(ctx context.Context, query SearchQuery) ([]domain.SearchResult, error) {
	origin := strings.TrimSpace(query.Origin)
	destination := strings.TrimSpace(query.Destination)
	date := strings.TrimSpace(query.Date)
	if origin == "" || destination == "" || date == "" {
		return []domain.SearchResult{}, nil
	}

	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD form", domain.ErrInvalidInput)
	}

	if s.cache != nil {
		cached, err := s.cache.GetSearchResults(ctx, origin, destination, date)
		if err != nil {
			log.Printf("search cache read: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	// Half-open UTC day interval: [00:00, +24h).
	from := day
	to := day.Add(24 * time.Hour)

	flights, err := s.repo.Search(ctx, origin, destination, from, to)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(flights))
	for _, f := range flights {
		results = append(results, domain.SearchResult{
			Flight:           f,
			DepartureTimeIST: formatIST(f.DepartureTime),
			ArrivalTimeIST:   formatIST(f.ArrivalTime),
		})
	}

	if s.cache != nil {
		if err := s.cache.SetSearchResults(ctx, origin, destination, date, results); err != nil {
			log.Printf("search cache write: %v", err)
		}
	}
	return results, nil
}

func formatIST(t time.Time) string {
	return t.In(istZone).Format(istLayout)
}

var _ FlightUseCase = (*FlightService)(nil)
