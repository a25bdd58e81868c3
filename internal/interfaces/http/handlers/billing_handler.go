package handlers

import (
	"errors"
	"net/http"
	"time"

	"nemt-billing/internal/domain/billing"
	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const periodDateLayout = "2006-01-02"

// BillingHandler HTTP handler for billing reports
type BillingHandler struct {
	reportService services.ReportService
	logger        *zap.Logger
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(reportService services.ReportService, logger *zap.Logger) *BillingHandler {
	return &BillingHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetClinicInvoice returns a clinic's invoice summary for a period.
// The period comes from the start and end query parameters, inclusive.
func (h *BillingHandler) GetClinicInvoice(c *gin.Context) {
	clinicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid clinic ID format",
		})
		return
	}

	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	invoice, err := h.reportService.ClinicInvoice(c.Request.Context(), clinicID, period)
	if err != nil {
		h.handleServiceError(c, err, "Failed to build clinic invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// GetDriverEarnings returns a driver's earnings summary for a period
func (h *BillingHandler) GetDriverEarnings(c *gin.Context) {
	driverID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid driver ID format",
		})
		return
	}

	period, ok := h.parsePeriod(c)
	if !ok {
		return
	}

	earnings, err := h.reportService.DriverEarnings(c.Request.Context(), driverID, period)
	if err != nil {
		h.handleServiceError(c, err, "Failed to build driver earnings")
		return
	}

	c.JSON(http.StatusOK, earnings)
}

// parsePeriod reads the start and end query parameters. On failure it
// writes the error response and returns ok=false.
func (h *BillingHandler) parsePeriod(c *gin.Context) (billing.Period, bool) {
	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr == "" || endStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Query parameters start and end are required",
			Code:  "MISSING_PERIOD",
		})
		return billing.Period{}, false
	}

	start, err := time.Parse(periodDateLayout, startStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid start date, expected YYYY-MM-DD",
			Details: err.Error(),
		})
		return billing.Period{}, false
	}

	end, err := time.Parse(periodDateLayout, endStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid end date, expected YYYY-MM-DD",
			Details: err.Error(),
		})
		return billing.Period{}, false
	}

	period, err := billing.NewPeriod(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid billing period",
			Code:    "INVALID_PERIOD",
			Details: err.Error(),
		})
		return billing.Period{}, false
	}

	return period, true
}

// handleServiceError maps service errors to HTTP responses
func (h *BillingHandler) handleServiceError(c *gin.Context, err error, message string) {
	h.logger.Error(message, zap.Error(err))

	switch {
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
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
