package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FlightHandler struct {
	lookup   flights.FlightUseCase
	commands flights.FlightCommandUseCase
}

type createFlightRequest struct {
	FlightID      string    `json:"flightId" binding:"required"`
	Origin        string    `json:"origin" binding:"required"`
	Destination   string    `json:"destination" binding:"required"`
	Airline       string    `json:"airline" binding:"required"`
	Price         float64   `json:"price" binding:"required,gt=0"`
	DepartureTime time.Time `json:"departureTime" binding:"required"`
	ArrivalTime   time.Time `json:"arrivalTime" binding:"required"`
}

type updateFlightRequest struct {
	Origin        *string    `json:"origin"`
	Destination   *string    `json:"destination"`
	Airline       *string    `json:"airline"`
	Price         *float64   `json:"price" binding:"omitempty,gt=0"`
	DepartureTime *time.Time `json:"departureTime"`
	ArrivalTime   *time.Time `json:"arrivalTime"`
}

func NewFlightHandler(lookup flights.FlightUseCase, commands flights.FlightCommandUseCase) *FlightHandler {
	return &FlightHandler{lookup: lookup, commands: commands}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.GET("/search", h.search)
	router.POST("", h.create)
	router.PUT("/:flightId", h.update)
	router.DELETE("/:flightId", h.delete)
}

func (h *FlightHandler) list(c *gin.Context) {
	result, err := h.lookup.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flights"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FlightHandler) search(c *gin.Context) {
	results, err := h.lookup.Search(c.Request.Context(), flights.SearchQuery{
		Origin:      c.Query("origin"),
		Destination: c.Query("destination"),
		Date:        c.Query("date"),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch flights"})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationMessages(err)})
		return
	}

	flight, err := h.commands.Create(c.Request.Context(), flights.CreateFlightInput{
		FlightID:      req.FlightID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		Airline:       req.Airline,
		Price:         req.Price,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFlightExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create flight"})
		}
		return
	}

	c.JSON(http.StatusCreated, flight)
}

func (h *FlightHandler) update(c *gin.Context) {
	var req updateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationMessages(err)})
		return
	}

	flight, err := h.commands.Update(c.Request.Context(), c.Param("flightId"), flights.UpdateFlightInput{
		Origin:        req.Origin,
		Destination:   req.Destination,
		Airline:       req.Airline,
		Price:         req.Price,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFlightNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Flight not found"})
		case errors.Is(err, domain.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update flight"})
		}
		return
	}

	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) delete(c *gin.Context) {
	if err := h.commands.Delete(c.Request.Context(), c.Param("flightId")); err != nil {
		if errors.Is(err, domain.ErrFlightNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Flight not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete flight"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Flight deleted successfully"})
}

// validationMessages flattens binding errors into one message per field.
func validationMessages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%q is required", fe.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%q must be greater than %s", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%q is invalid", fe.Field()))
		}
	}
	return msgs
}
