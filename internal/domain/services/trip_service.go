package services

import (
	"context"
	"fmt"
	"time"

	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TripService operations the dispatch UI performs on trips
type TripService interface {
	CreateTrip(ctx context.Context, trip *entities.Trip) (*entities.Trip, error)
	GetTripByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error)
	ListTrips(ctx context.Context, filters *entities.TripFilters) ([]*entities.Trip, error)
	ChangeTripStatus(ctx context.Context, id uuid.UUID, status entities.TripStatus, pickup, dropoff *time.Time) error
	SetPayoutOverride(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// tripService TripService implementation
type tripService struct {
	tripRepo   repositories.TripRepository
	driverRepo repositories.DriverRepository
	clinicRepo repositories.ClinicRepository
	cache      SummaryCache
	eventBus   EventPublisher
	logger     *zap.Logger
}

// NewTripService creates a new TripService
func NewTripService(
	tripRepo repositories.TripRepository,
	driverRepo repositories.DriverRepository,
	clinicRepo repositories.ClinicRepository,
	cache SummaryCache,
	eventBus EventPublisher,
	logger *zap.Logger,
) TripService {
	return &tripService{
		tripRepo:   tripRepo,
		driverRepo: driverRepo,
		clinicRepo: clinicRepo,
		cache:      cache,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// CreateTrip validates references and creates a trip
func (s *tripService) CreateTrip(ctx context.Context, trip *entities.Trip) (*entities.Trip, error) {
	s.logger.Info("Creating trip",
		zap.String("clinic_id", trip.ClinicID.String()),
		zap.String("driver_id", trip.DriverID.String()),
		zap.String("service_level", string(trip.ServiceLevel)),
	)

	if err := trip.Validate(); err != nil {
		s.logger.Error("Trip validation failed",
			zap.Error(err),
		)
		return nil, fmt.Errorf("trip validation failed: %w", err)
	}

	// Both references must resolve before a trip can be billed.
	if _, err := s.clinicRepo.GetByID(ctx, trip.ClinicID); err != nil {
		return nil, err
	}
	if _, err := s.driverRepo.GetByID(ctx, trip.DriverID); err != nil {
		return nil, err
	}

	now := time.Now()
	trip.ID = uuid.New()
	trip.CreatedAt = now
	trip.UpdatedAt = now

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	s.invalidateTripCaches(ctx, trip)

	return trip, nil
}

// GetTripByID fetches a trip by ID
func (s *tripService) GetTripByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, err
	}

	return trip, nil
}

// ListTrips fetches trips with filters
func (s *tripService) ListTrips(ctx context.Context, filters *entities.TripFilters) ([]*entities.Trip, error) {
	trips, err := s.tripRepo.List(ctx, filters)
	if err != nil {
		s.logger.Error("Failed to list trips",
			zap.Error(err),
		)
		return nil, err
	}

	return trips, nil
}

// ChangeTripStatus updates a trip's status and actual service times
func (s *tripService) ChangeTripStatus(ctx context.Context, id uuid.UUID, status entities.TripStatus, pickup, dropoff *time.Time) error {
	if !entities.IsValidTripStatus(status) {
		return entities.ErrInvalidTripStatus
	}

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tripRepo.UpdateStatus(ctx, id, status, pickup, dropoff); err != nil {
		return err
	}

	s.invalidateTripCaches(ctx, trip)

	eventData := map[string]interface{}{
		"old_status": string(trip.Status),
		"new_status": string(status),
	}
	if err := s.eventBus.PublishBillingEvent(ctx, "billing.trip.status_changed", id, eventData); err != nil {
		s.logger.Error("Failed to publish trip status changed event",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
	}

	return nil
}

// SetPayoutOverride records a manual payout override on a trip.
// The override must be positive; an override of zero would be
// indistinguishable from "not set" in the payout formula.
func (s *tripService) SetPayoutOverride(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return entities.ErrInvalidOverride
	}

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.tripRepo.SetPayoutOverride(ctx, id, amount); err != nil {
		return err
	}

	s.invalidateTripCaches(ctx, trip)

	eventData := map[string]interface{}{
		"amount": amount.StringFixed(2),
	}
	if err := s.eventBus.PublishBillingEvent(ctx, "billing.trip.override_set", id, eventData); err != nil {
		s.logger.Error("Failed to publish payout override event",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
	}

	s.logger.Info("Payout override set",
		zap.String("trip_id", id.String()),
		zap.String("amount", amount.StringFixed(2)),
	)

	return nil
}

// invalidateTripCaches drops cached reports affected by a trip change
func (s *tripService) invalidateTripCaches(ctx context.Context, trip *entities.Trip) {
	if s.cache == nil {
		return
	}

	if err := s.cache.InvalidateClinic(ctx, trip.ClinicID); err != nil {
		s.logger.Warn("Failed to invalidate clinic report cache",
			zap.Error(err),
			zap.String("clinic_id", trip.ClinicID.String()),
		)
	}

	if err := s.cache.InvalidateDriver(ctx, trip.DriverID); err != nil {
		s.logger.Warn("Failed to invalidate driver report cache",
			zap.Error(err),
			zap.String("driver_id", trip.DriverID.String()),
		)
	}
}
