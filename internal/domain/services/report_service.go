package services

import (
	"context"
	"time"

	"nemt-billing/internal/domain/billing"
	"nemt-billing/internal/infrastructure/metrics"
	"nemt-billing/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SummaryCache caches billing report results between runs.
// A nil or unavailable cache never fails a report; it only skips reuse.
type SummaryCache interface {
	GetInvoice(ctx context.Context, clinicID uuid.UUID, period billing.Period) (*ClinicInvoice, bool)
	SetInvoice(ctx context.Context, invoice *ClinicInvoice) error
	GetEarnings(ctx context.Context, driverID uuid.UUID, period billing.Period) (*DriverEarnings, bool)
	SetEarnings(ctx context.Context, earnings *DriverEarnings) error
	InvalidateDriver(ctx context.Context, driverID uuid.UUID) error
	InvalidateClinic(ctx context.Context, clinicID uuid.UUID) error
}

// ClinicInvoice the billing summary handed to invoice renderers.
// Amounts are final: renderers must not re-round them.
type ClinicInvoice struct {
	ClinicID   uuid.UUID        `json:"clinic_id"`
	ClinicName string           `json:"clinic_name"`
	Period     billing.Period   `json:"period"`
	Summary    *billing.Summary `json:"summary"`
	IssuedAt   time.Time        `json:"issued_at"`
	DueDate    time.Time        `json:"due_date"`
}

// DriverEarnings the earnings summary handed to payout reports
type DriverEarnings struct {
	DriverID   uuid.UUID                `json:"driver_id"`
	DriverName string                   `json:"driver_name"`
	Period     billing.Period           `json:"period"`
	Summary    *billing.EarningsSummary `json:"summary"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// ReportService produces period billing reports for invoice and payout
// rendering. All money math happens in the billing package; this service
// only loads records, caches results, and records metrics.
type ReportService interface {
	ClinicInvoice(ctx context.Context, clinicID uuid.UUID, period billing.Period) (*ClinicInvoice, error)
	DriverEarnings(ctx context.Context, driverID uuid.UUID, period billing.Period) (*DriverEarnings, error)
}

// reportService ReportService implementation
type reportService struct {
	tripRepo   repositories.TripRepository
	driverRepo repositories.DriverRepository
	clinicRepo repositories.ClinicRepository
	cache      SummaryCache
	logger     *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	tripRepo repositories.TripRepository,
	driverRepo repositories.DriverRepository,
	clinicRepo repositories.ClinicRepository,
	cache SummaryCache,
	logger *zap.Logger,
) ReportService {
	return &reportService{
		tripRepo:   tripRepo,
		driverRepo: driverRepo,
		clinicRepo: clinicRepo,
		cache:      cache,
		logger:     logger,
	}
}

// ClinicInvoice aggregates a clinic's trips over a period into an invoice summary
func (s *reportService) ClinicInvoice(ctx context.Context, clinicID uuid.UUID, period billing.Period) (*ClinicInvoice, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetInvoice(ctx, clinicID, period); ok {
			s.logger.Debug("Clinic invoice served from cache",
				zap.String("clinic_id", clinicID.String()),
			)
			return cached, nil
		}
	}

	start := time.Now()

	clinic, err := s.clinicRepo.GetByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.ListByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	summary := billing.Aggregate(trips, clinic, period)

	now := time.Now()
	invoice := &ClinicInvoice{
		ClinicID:   clinic.ID,
		ClinicName: clinic.Name,
		Period:     period,
		Summary:    summary,
		IssuedAt:   now,
		DueDate:    clinic.PaymentDueDate(billing.DateOf(now)),
	}

	metrics.ObserveBillingRun(metrics.RunKindInvoice, time.Since(start))

	if s.cache != nil {
		if err := s.cache.SetInvoice(ctx, invoice); err != nil {
			s.logger.Warn("Failed to cache clinic invoice",
				zap.Error(err),
				zap.String("clinic_id", clinicID.String()),
			)
		}
	}

	s.logger.Info("Clinic invoice generated",
		zap.String("clinic_id", clinicID.String()),
		zap.Time("period_start", period.Start),
		zap.Time("period_end", period.End),
		zap.String("grand_total", summary.GrandTotal.StringFixed(2)),
	)

	return invoice, nil
}

// DriverEarnings aggregates a driver's settled trips over a period into a
// net earnings summary
func (s *reportService) DriverEarnings(ctx context.Context, driverID uuid.UUID, period billing.Period) (*DriverEarnings, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetEarnings(ctx, driverID, period); ok {
			s.logger.Debug("Driver earnings served from cache",
				zap.String("driver_id", driverID.String()),
			)
			return cached, nil
		}
	}

	start := time.Now()

	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	trips, err := s.tripRepo.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}

	summary := billing.AggregateDriverEarnings(trips, driver, period)

	for _, warning := range summary.Warnings {
		s.logger.Warn("Trip has no rate configuration for its service level",
			zap.String("trip_id", warning.TripID.String()),
			zap.String("driver_id", warning.DriverID.String()),
			zap.String("service_level", string(warning.ServiceLevel)),
		)
	}
	metrics.AddUnconfiguredWarnings(len(summary.Warnings))

	earnings := &DriverEarnings{
		DriverID:    driver.ID,
		DriverName:  driver.GetFullName(),
		Period:      period,
		Summary:     summary,
		GeneratedAt: time.Now(),
	}

	metrics.ObserveBillingRun(metrics.RunKindEarnings, time.Since(start))

	if s.cache != nil {
		if err := s.cache.SetEarnings(ctx, earnings); err != nil {
			s.logger.Warn("Failed to cache driver earnings",
				zap.Error(err),
				zap.String("driver_id", driverID.String()),
			)
		}
	}

	s.logger.Info("Driver earnings generated",
		zap.String("driver_id", driverID.String()),
		zap.Time("period_start", period.Start),
		zap.Time("period_end", period.End),
		zap.String("grand_total", summary.GrandTotal.StringFixed(2)),
		zap.Int("warnings", len(summary.Warnings)),
	)

	return earnings, nil
}
