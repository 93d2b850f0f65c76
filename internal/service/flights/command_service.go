package flights

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/kafka"
	"github.com/Domenick1991/flightsearch/internal/repository"
	"github.com/google/uuid"
)

type FlightCommandUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	Update(ctx context.Context, flightID string, input UpdateFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, flightID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CreateFlightInput struct {
	FlightID      string
	Origin        string
	Destination   string
	Airline       string
	Price         float64
	DepartureTime time.Time
	ArrivalTime   time.Time
}

// UpdateFlightInput carries a partial-field merge; nil fields keep the stored
// value. FlightID itself is immutable and not part of the input.
type UpdateFlightInput struct {
	Origin        *string
	Destination   *string
	Airline       *string
	Price         *float64
	DepartureTime *time.Time
	ArrivalTime   *time.Time
}

func (in UpdateFlightInput) applyTo(f *domain.Flight) {
	if in.Origin != nil {
		f.Origin = *in.Origin
	}
	if in.Destination != nil {
		f.Destination = *in.Destination
	}
	if in.Airline != nil {
		f.Airline = *in.Airline
	}
	if in.Price != nil {
		f.Price = *in.Price
	}
	if in.DepartureTime != nil {
		f.DepartureTime = *in.DepartureTime
	}
	if in.ArrivalTime != nil {
		f.ArrivalTime = *in.ArrivalTime
	}
}

// CommandService mutates the flights table. It never touches the result
// cache; instead each successful mutation publishes a flight-change event and
// the worker drops stale cache entries.
type CommandService struct {
	repo        repository.FlightRepository
	producer    Producer
	eventsTopic string
}

func NewCommandService(repo repository.FlightRepository, producer Producer, eventsTopic string) *CommandService {
	return &CommandService{repo: repo, producer: producer, eventsTopic: eventsTopic}
}

func (s *CommandService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	flight := &domain.Flight{
		FlightID:      input.FlightID,
		Origin:        input.Origin,
		Destination:   input.Destination,
		Airline:       input.Airline,
		Price:         input.Price,
		DepartureTime: input.DepartureTime.UTC(),
		ArrivalTime:   input.ArrivalTime.UTC(),
	}
	if err := validateFlight(flight); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventFlightCreated, flight)
	return flight, nil
}

func (s *CommandService) Update(ctx context.Context, flightID string, input UpdateFlightInput) (*domain.Flight, error) {
	current, err := s.repo.GetByFlightID(ctx, flightID)
	if err != nil {
		return nil, err
	}

	input.applyTo(current)
	current.DepartureTime = current.DepartureTime.UTC()
	current.ArrivalTime = current.ArrivalTime.UTC()
	if err := validateFlight(current); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventFlightUpdated, current)
	return current, nil
}

func (s *CommandService) Delete(ctx context.Context, flightID string) error {
	flight, err := s.repo.GetByFlightID(ctx, flightID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, flightID); err != nil {
		return err
	}

	s.publish(ctx, kafka.EventFlightDeleted, flight)
	return nil
}

func validateFlight(f *domain.Flight) error {
	switch {
	case f.FlightID == "":
		return fmt.Errorf("%w: flightId is required", domain.ErrInvalidInput)
	case f.Origin == "":
		return fmt.Errorf("%w: origin is required", domain.ErrInvalidInput)
	case f.Destination == "":
		return fmt.Errorf("%w: destination is required", domain.ErrInvalidInput)
	case f.Airline == "":
		return fmt.Errorf("%w: airline is required", domain.ErrInvalidInput)
	case f.Price <= 0:
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	case f.DepartureTime.IsZero():
		return fmt.Errorf("%w: departureTime is required", domain.ErrInvalidInput)
	case f.ArrivalTime.IsZero():
		return fmt.Errorf("%w: arrivalTime is required", domain.ErrInvalidInput)
	}
	return nil
}

// publish is best effort: a lost event widens the staleness window to the
// cache TTL but never fails the mutation.
func (s *CommandService) publish(ctx context.Context, eventType string, flight *domain.Flight) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.FlightEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		FlightID:    flight.FlightID,
		Origin:      flight.Origin,
		Destination: flight.Destination,
		OccurredAt:  time.Now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, flight.FlightID, event); err != nil {
		log.Printf("publish %s event for flight %s: %v", eventType, flight.FlightID, err)
	}
}

var _ FlightCommandUseCase = (*CommandService)(nil)
