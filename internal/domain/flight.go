package domain

import (
	"errors"
	"time"
)

var (
	ErrFlightNotFound = errors.New("flight not found")
	ErrFlightExists   = errors.New("flight already exists")
	ErrInvalidInput   = errors.New("invalid input")
)

// Flight is the stored record. FlightID is assigned by the client at creation
// and never changes; all timestamps are kept in UTC.
type Flight struct {
	FlightID      string    `json:"flightId"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Airline       string    `json:"airline"`
	Price         float64   `json:"price"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// SearchResult is a Flight plus display timestamps rendered in Indian Standard
// Time. The IST fields are computed once when a result set is built and travel
// with the cached payload, so cache hits skip the formatting.
type SearchResult struct {
	Flight
	DepartureTimeIST string `json:"departureTimeIST"`
	ArrivalTimeIST   string `json:"arrivalTimeIST"`
}
