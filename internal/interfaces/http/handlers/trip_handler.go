package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TripHandler HTTP handler for trips
type TripHandler struct {
	tripService services.TripService
	logger      *zap.Logger
}

// NewTripHandler creates a new TripHandler
func NewTripHandler(tripService services.TripService, logger *zap.Logger) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		logger:      logger,
	}
}

// CreateTripRequest request to create a trip
type CreateTripRequest struct {
	ClinicID       uuid.UUID             `json:"clinic_id" binding:"required"`
	DriverID       uuid.UUID             `json:"driver_id" binding:"required"`
	ServiceLevel   entities.ServiceLevel `json:"service_level" binding:"required"`
	ScheduledTime  *time.Time            `json:"scheduled_time,omitempty"`
	DistanceMiles  float64               `json:"distance_miles"`
	ContractedFare decimal.Decimal       `json:"contracted_fare"`
	PickupAddress  string                `json:"pickup_address" binding:"required"`
	DropoffAddress string                `json:"dropoff_address" binding:"required"`
	Notes          *string               `json:"notes,omitempty"`
}

// ChangeTripStatusRequest request to change a trip's status
type ChangeTripStatusRequest struct {
	Status            string     `json:"status" binding:"required"`
	ActualPickupTime  *time.Time `json:"actual_pickup_time,omitempty"`
	ActualDropoffTime *time.Time `json:"actual_dropoff_time,omitempty"`
}

// SetPayoutOverrideRequest request to override a trip's driver payout
type SetPayoutOverrideRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// ListTripsResponse response with a page of trips
type ListTripsResponse struct {
	Trips  []*entities.Trip `json:"trips"`
	Count  int              `json:"count"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// CreateTrip creates a new trip
func (h *TripHandler) CreateTrip(c *gin.Context) {
	var req CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid create trip request",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	trip := &entities.Trip{
		ClinicID:       req.ClinicID,
		DriverID:       req.DriverID,
		ServiceLevel:   req.ServiceLevel,
		ScheduledTime:  req.ScheduledTime,
		DistanceMiles:  req.DistanceMiles,
		ContractedFare: req.ContractedFare,
		PickupAddress:  req.PickupAddress,
		DropoffAddress: req.DropoffAddress,
		Notes:          req.Notes,
	}

	created, err := h.tripService.CreateTrip(c.Request.Context(), trip)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create trip")
		return
	}

	c.JSON(http.StatusCreated, created)
}

// GetTrip returns a trip by ID
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	trip, err := h.tripService.GetTripByID(c.Request.Context(), tripID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get trip")
		return
	}

	c.JSON(http.StatusOK, trip)
}

// ListTrips returns trips matching the query filters
func (h *TripHandler) ListTrips(c *gin.Context) {
	filters := &entities.TripFilters{}

	if clinicIDStr := c.Query("clinic_id"); clinicIDStr != "" {
		clinicID, err := uuid.Parse(clinicIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid clinic ID format",
			})
			return
		}
		filters.ClinicID = &clinicID
	}

	if driverIDStr := c.Query("driver_id"); driverIDStr != "" {
		driverID, err := uuid.Parse(driverIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "Invalid driver ID format",
			})
			return
		}
		filters.DriverID = &driverID
	}

	if statusStr := c.Query("status"); statusStr != "" {
		filters.Status = []entities.TripStatus{entities.TripStatus(statusStr)}
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filters.Limit = limit
		} else {
			filters.Limit = 20
		}
	} else {
		filters.Limit = 20
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filters.Offset = offset
		}
	}

	trips, err := h.tripService.ListTrips(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err, "Failed to list trips")
		return
	}

	c.JSON(http.StatusOK, &ListTripsResponse{
		Trips:  trips,
		Count:  len(trips),
		Limit:  filters.Limit,
		Offset: filters.Offset,
	})
}

// ChangeStatus changes a trip's status
func (h *TripHandler) ChangeStatus(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	var req ChangeTripStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid change trip status request",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	status := entities.TripStatus(req.Status)

	err = h.tripService.ChangeTripStatus(c.Request.Context(), tripID, status, req.ActualPickupTime, req.ActualDropoffTime)
	if err != nil {
		h.handleServiceError(c, err, "Failed to change trip status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Trip status changed successfully",
		"status":  status,
	})
}

// SetPayoutOverride sets a fixed driver payout for a trip
func (h *TripHandler) SetPayoutOverride(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid trip ID format",
		})
		return
	}

	var req SetPayoutOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid payout override request",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	err = h.tripService.SetPayoutOverride(c.Request.Context(), tripID, req.Amount)
	if err != nil {
		h.handleServiceError(c, err, "Failed to set payout override")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payout override set successfully",
		"amount":  req.Amount,
	})
}

// handleServiceError maps service errors to HTTP responses
func (h *TripHandler) handleServiceError(c *gin.Context, err error, message string) {
	h.logger.Error(message, zap.Error(err))

	switch {
	case errors.Is(err, entities.ErrTripNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Trip not found",
			Code:  "TRIP_NOT_FOUND",
		})
	case errors.Is(err, entities.ErrClinicNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Clinic not found",
			Code:  "CLINIC_NOT_FOUND",
		})
	case errors.Is(err, entities.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Driver not found",
			Code:  "DRIVER_NOT_FOUND",
		})
	case errors.Is(err, entities.ErrInvalidTripStatus),
		errors.Is(err, entities.ErrInvalidServiceLevel),
		errors.Is(err, entities.ErrNegativeDistance),
		errors.Is(err, entities.ErrNegativeFare),
		errors.Is(err, entities.ErrInvalidOverride):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid trip data",
			Code:    "INVALID_DATA",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
