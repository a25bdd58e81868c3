package services

import (
	"context"
	"time"

	"nemt-billing/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// Mocks for service tests

type mockDriverRepository struct {
	mock.Mock
}

func (m *mockDriverRepository) Create(ctx context.Context, driver *entities.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *mockDriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Driver), args.Error(1)
}

func (m *mockDriverRepository) GetByPhone(ctx context.Context, phone string) (*entities.Driver, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Driver), args.Error(1)
}

func (m *mockDriverRepository) Update(ctx context.Context, driver *entities.Driver) error {
	args := m.Called(ctx, driver)
	return args.Error(0)
}

func (m *mockDriverRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDriverRepository) List(ctx context.Context, filters *entities.DriverFilters) ([]*entities.Driver, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Driver), args.Error(1)
}

func (m *mockDriverRepository) Exists(ctx context.Context, phone, licenseNumber string) (bool, error) {
	args := m.Called(ctx, phone, licenseNumber)
	return args.Bool(0), args.Error(1)
}

func (m *mockDriverRepository) UpdateRates(ctx context.Context, id uuid.UUID, rates entities.RateSchedule) error {
	args := m.Called(ctx, id, rates)
	return args.Error(0)
}

func (m *mockDriverRepository) UpdateDeductions(ctx context.Context, id uuid.UUID, deductions entities.Deductions) error {
	args := m.Called(ctx, id, deductions)
	return args.Error(0)
}

type mockTripRepository struct {
	mock.Mock
}

func (m *mockTripRepository) Create(ctx context.Context, trip *entities.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *mockTripRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Trip), args.Error(1)
}

func (m *mockTripRepository) Update(ctx context.Context, trip *entities.Trip) error {
	args := m.Called(ctx, trip)
	return args.Error(0)
}

func (m *mockTripRepository) List(ctx context.Context, filters *entities.TripFilters) ([]*entities.Trip, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trip), args.Error(1)
}

func (m *mockTripRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*entities.Trip, error) {
	args := m.Called(ctx, clinicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trip), args.Error(1)
}

func (m *mockTripRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Trip, error) {
	args := m.Called(ctx, driverID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Trip), args.Error(1)
}

func (m *mockTripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TripStatus, pickup, dropoff *time.Time) error {
	args := m.Called(ctx, id, status, pickup, dropoff)
	return args.Error(0)
}

func (m *mockTripRepository) SetPayoutOverride(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

type mockClinicRepository struct {
	mock.Mock
}

func (m *mockClinicRepository) Create(ctx context.Context, clinic *entities.Clinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *mockClinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Clinic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Clinic), args.Error(1)
}

func (m *mockClinicRepository) Update(ctx context.Context, clinic *entities.Clinic) error {
	args := m.Called(ctx, clinic)
	return args.Error(0)
}

func (m *mockClinicRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockClinicRepository) List(ctx context.Context, limit, offset int) ([]*entities.Clinic, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Clinic), args.Error(1)
}

type mockEventPublisher struct {
	mock.Mock
}

func (m *mockEventPublisher) PublishBillingEvent(ctx context.Context, eventType string, subjectID uuid.UUID, data interface{}) error {
	args := m.Called(ctx, eventType, subjectID, data)
	return args.Error(0)
}

// relaxedEventPublisher accepts any event. Used where the test does not
// care about events.
func relaxedEventPublisher() *mockEventPublisher {
	bus := &mockEventPublisher{}
	bus.On("PublishBillingEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return bus
}
