package handlers

import (
	"errors"
	"net/http"

	"nemt-billing/internal/domain/billing"
	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RateHandler HTTP handler for driver rate configuration
type RateHandler struct {
	rateService services.RateService
	logger      *zap.Logger
}

// NewRateHandler creates a new RateHandler
func NewRateHandler(rateService services.RateService, logger *zap.Logger) *RateHandler {
	return &RateHandler{
		rateService: rateService,
		logger:      logger,
	}
}

// ErrorResponse standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// GetRateSchedule returns a driver's rate schedule
func (h *RateHandler) GetRateSchedule(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	schedule, err := h.rateService.GetRateSchedule(c.Request.Context(), driverID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get rate schedule")
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// UpdateRateSchedule replaces a driver's rate schedule
func (h *RateHandler) UpdateRateSchedule(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	var schedule entities.RateSchedule
	if err := c.ShouldBindJSON(&schedule); err != nil {
		h.logger.Error("Invalid rate schedule request",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	if err := h.rateService.UpdateRateSchedule(c.Request.Context(), driverID, schedule); err != nil {
		h.handleServiceError(c, err, "Failed to update rate schedule")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Rate schedule updated successfully",
	})
}

// UpdateDeductions replaces a driver's deduction settings
func (h *RateHandler) UpdateDeductions(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	var deductions entities.Deductions
	if err := c.ShouldBindJSON(&deductions); err != nil {
		h.logger.Error("Invalid deductions request",
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	if err := h.rateService.UpdateDeductions(c.Request.Context(), driverID, deductions); err != nil {
		h.handleServiceError(c, err, "Failed to update deductions")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Deductions updated successfully",
	})
}

// handleServiceError maps service errors to HTTP responses
func (h *RateHandler) handleServiceError(c *gin.Context, err error, message string) {
	h.logger.Error(message, zap.Error(err))

	switch {
	case errors.Is(err, entities.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Driver not found",
			Code:  "DRIVER_NOT_FOUND",
		})
	case errors.Is(err, entities.ErrNegativeRate),
		errors.Is(err, entities.ErrNegativeDeduction),
		errors.Is(err, entities.ErrInvalidDeductionPercent),
		errors.Is(err, billing.ErrEmptyTierList),
		errors.Is(err, billing.ErrTiersNonContiguous),
		errors.Is(err, billing.ErrTierDegenerate):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid rate configuration",
			Code:    "INVALID_RATES",
			Details: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
