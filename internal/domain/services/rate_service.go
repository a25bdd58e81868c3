package services

import (
	"context"
	"fmt"

	"nemt-billing/internal/domain/billing"
	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes billing domain events
type EventPublisher interface {
	PublishBillingEvent(ctx context.Context, eventType string, subjectID uuid.UUID, data interface{}) error
}

// RateService manages driver rate configuration.
// Every schedule is validated before it is persisted; the calculation
// engine assumes persisted schedules are valid.
type RateService interface {
	GetRateSchedule(ctx context.Context, driverID uuid.UUID) (entities.RateSchedule, error)
	UpdateRateSchedule(ctx context.Context, driverID uuid.UUID, schedule entities.RateSchedule) error
	UpdateDeductions(ctx context.Context, driverID uuid.UUID, deductions entities.Deductions) error
}

// rateService RateService implementation
type rateService struct {
	driverRepo repositories.DriverRepository
	cache      SummaryCache
	eventBus   EventPublisher
	logger     *zap.Logger
}

// NewRateService creates a new RateService
func NewRateService(
	driverRepo repositories.DriverRepository,
	cache SummaryCache,
	eventBus EventPublisher,
	logger *zap.Logger,
) RateService {
	return &rateService{
		driverRepo: driverRepo,
		cache:      cache,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// GetRateSchedule returns a driver's current rate schedule
func (s *rateService) GetRateSchedule(ctx context.Context, driverID uuid.UUID) (entities.RateSchedule, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return entities.RateSchedule{}, err
	}

	return driver.Rates, nil
}

// UpdateRateSchedule validates and persists a driver's rate schedule
func (s *rateService) UpdateRateSchedule(ctx context.Context, driverID uuid.UUID, schedule entities.RateSchedule) error {
	s.logger.Info("Updating driver rate schedule",
		zap.String("driver_id", driverID.String()),
		zap.Int("levels", len(schedule.Levels)),
	)

	if err := billing.ValidateSchedule(schedule); err != nil {
		s.logger.Warn("Rate schedule validation failed",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return fmt.Errorf("rate schedule validation failed: %w", err)
	}

	schedule.SchemaVersion = entities.RateScheduleVersion

	if err := s.driverRepo.UpdateRates(ctx, driverID, schedule); err != nil {
		return err
	}

	s.invalidateDriverCache(ctx, driverID)

	eventData := map[string]interface{}{
		"schema_version": schedule.SchemaVersion,
		"levels":         len(schedule.Levels),
	}
	if err := s.eventBus.PublishBillingEvent(ctx, "billing.rates.updated", driverID, eventData); err != nil {
		s.logger.Error("Failed to publish rates updated event",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		// The schedule is already saved; the event is best effort.
	}

	s.logger.Info("Driver rate schedule updated successfully",
		zap.String("driver_id", driverID.String()),
	)

	return nil
}

// UpdateDeductions validates and persists a driver's deductions
func (s *rateService) UpdateDeductions(ctx context.Context, driverID uuid.UUID, deductions entities.Deductions) error {
	if err := deductions.Validate(); err != nil {
		s.logger.Warn("Deductions validation failed",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return fmt.Errorf("deductions validation failed: %w", err)
	}

	if err := s.driverRepo.UpdateDeductions(ctx, driverID, deductions); err != nil {
		return err
	}

	s.invalidateDriverCache(ctx, driverID)

	if err := s.eventBus.PublishBillingEvent(ctx, "billing.deductions.updated", driverID, nil); err != nil {
		s.logger.Error("Failed to publish deductions updated event",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
	}

	return nil
}

// invalidateDriverCache drops cached earnings reports for a driver after
// their rate configuration changes
func (s *rateService) invalidateDriverCache(ctx context.Context, driverID uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateDriver(ctx, driverID); err != nil {
		s.logger.Warn("Failed to invalidate driver report cache",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
	}
}
