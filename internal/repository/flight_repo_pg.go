package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, flightID string) error
	Search(ctx context.Context, origin, destination string, from, to time.Time) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `flight_id, origin, destination, airline, price, departure_time, arrival_time, created_at, updated_at`

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByFlightID(ctx context.Context, flightID string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_id=$1`, flightID)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_id, origin, destination, airline, price, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		flight.FlightID, flight.Origin, flight.Destination, flight.Airline, flight.Price, flight.DepartureTime, flight.ArrivalTime).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrFlightExists
		}
		return err
	}
	return nil
}

func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET origin=$1, destination=$2, airline=$3, price=$4, departure_time=$5, arrival_time=$6, updated_at=now() WHERE flight_id=$7`,
		flight.Origin, flight.Destination, flight.Airline, flight.Price, flight.DepartureTime, flight.ArrivalTime, flight.FlightID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, flightID string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE flight_id=$1`, flightID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return domain.ErrFlightNotFound
	}
	return nil
}

// Search matches origin and destination by case-insensitive containment and
// keeps departures inside the half-open interval [from, to).
func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string, from, to time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE origin ILIKE '%'||$1||'%'
		  AND destination ILIKE '%'||$2||'%'
		  AND departure_time >= $3 AND departure_time < $4
		ORDER BY departure_time`,
		origin, destination, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFlights(rows)
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.FlightID, &f.Origin, &f.Destination, &f.Airline, &f.Price, &f.DepartureTime, &f.ArrivalTime, &f.CreatedAt, &f.UpdatedAt)
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
