package services

import (
	"context"
	"testing"

	"nemt-billing/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTripService(tripRepo *mockTripRepository, driverRepo *mockDriverRepository, clinicRepo *mockClinicRepository, eventBus EventPublisher) TripService {
	return NewTripService(tripRepo, driverRepo, clinicRepo, nil, eventBus, zap.NewNop())
}

func newTripInput(clinicID, driverID uuid.UUID) *entities.Trip {
	return &entities.Trip{
		ClinicID:       clinicID,
		DriverID:       driverID,
		Status:         entities.TripStatusPending,
		ServiceLevel:   entities.ServiceLevelWheelchair,
		DistanceMiles:  7.5,
		ContractedFare: decimal.NewFromInt(95),
		PickupAddress:  "12 Main St",
		DropoffAddress: "400 Clinic Way",
	}
}

func TestTripService_CreateTrip(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	driverRepo := &mockDriverRepository{}
	clinicRepo := &mockClinicRepository{}
	svc := newTripService(tripRepo, driverRepo, clinicRepo, relaxedEventPublisher())

	clinicID := uuid.New()
	driverID := uuid.New()
	clinicRepo.On("GetByID", mock.Anything, clinicID).Return(&entities.Clinic{ID: clinicID}, nil)
	driverRepo.On("GetByID", mock.Anything, driverID).Return(&entities.Driver{ID: driverID}, nil)
	tripRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	// Act
	created, err := svc.CreateTrip(context.Background(), newTripInput(clinicID, driverID))

	// Assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	tripRepo.AssertExpectations(t)
}

func TestTripService_CreateTrip_UnknownClinic(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	driverRepo := &mockDriverRepository{}
	clinicRepo := &mockClinicRepository{}
	svc := newTripService(tripRepo, driverRepo, clinicRepo, relaxedEventPublisher())

	clinicID := uuid.New()
	clinicRepo.On("GetByID", mock.Anything, clinicID).Return(nil, entities.ErrClinicNotFound)

	// Act
	_, err := svc.CreateTrip(context.Background(), newTripInput(clinicID, uuid.New()))

	// Assert
	assert.ErrorIs(t, err, entities.ErrClinicNotFound)
	tripRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTripService_CreateTrip_NegativeDistance(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	svc := newTripService(tripRepo, &mockDriverRepository{}, &mockClinicRepository{}, relaxedEventPublisher())

	trip := newTripInput(uuid.New(), uuid.New())
	trip.DistanceMiles = -3

	// Act
	_, err := svc.CreateTrip(context.Background(), trip)

	// Assert
	assert.ErrorIs(t, err, entities.ErrNegativeDistance)
	tripRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTripService_ChangeTripStatus(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	eventBus := &mockEventPublisher{}
	svc := newTripService(tripRepo, &mockDriverRepository{}, &mockClinicRepository{}, eventBus)

	tripID := uuid.New()
	trip := newTripInput(uuid.New(), uuid.New())
	trip.ID = tripID
	tripRepo.On("GetByID", mock.Anything, tripID).Return(trip, nil)
	tripRepo.On("UpdateStatus", mock.Anything, tripID, entities.TripStatusCompleted, mock.Anything, mock.Anything).Return(nil)
	eventBus.On("PublishBillingEvent", mock.Anything, "billing.trip.status_changed", tripID, mock.Anything).Return(nil)

	// Act
	err := svc.ChangeTripStatus(context.Background(), tripID, entities.TripStatusCompleted, nil, nil)

	// Assert
	require.NoError(t, err)
	tripRepo.AssertExpectations(t)
	eventBus.AssertExpectations(t)
}

func TestTripService_ChangeTripStatus_UnknownStatus(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	svc := newTripService(tripRepo, &mockDriverRepository{}, &mockClinicRepository{}, relaxedEventPublisher())

	// Act
	err := svc.ChangeTripStatus(context.Background(), uuid.New(), entities.TripStatus("teleported"), nil, nil)

	// Assert
	assert.ErrorIs(t, err, entities.ErrInvalidTripStatus)
	tripRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTripService_SetPayoutOverride(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	eventBus := &mockEventPublisher{}
	svc := newTripService(tripRepo, &mockDriverRepository{}, &mockClinicRepository{}, eventBus)

	tripID := uuid.New()
	trip := newTripInput(uuid.New(), uuid.New())
	trip.ID = tripID
	amount := decimal.NewFromInt(50)
	tripRepo.On("GetByID", mock.Anything, tripID).Return(trip, nil)
	tripRepo.On("SetPayoutOverride", mock.Anything, tripID, amount).Return(nil)
	eventBus.On("PublishBillingEvent", mock.Anything, "billing.trip.override_set", tripID, mock.Anything).Return(nil)

	// Act
	err := svc.SetPayoutOverride(context.Background(), tripID, amount)

	// Assert
	require.NoError(t, err)
	tripRepo.AssertExpectations(t)
}

func TestTripService_SetPayoutOverride_RejectsNonPositive(t *testing.T) {
	// Arrange
	tripRepo := &mockTripRepository{}
	svc := newTripService(tripRepo, &mockDriverRepository{}, &mockClinicRepository{}, relaxedEventPublisher())

	// Act
	err := svc.SetPayoutOverride(context.Background(), uuid.New(), decimal.Zero)

	// Assert
	assert.ErrorIs(t, err, entities.ErrInvalidOverride)
	tripRepo.AssertNotCalled(t, "SetPayoutOverride", mock.Anything, mock.Anything, mock.Anything)
}
