package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TripRepository data access for trips
type TripRepository interface {
	Create(ctx context.Context, trip *entities.Trip) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error)
	Update(ctx context.Context, trip *entities.Trip) error
	List(ctx context.Context, filters *entities.TripFilters) ([]*entities.Trip, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*entities.Trip, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Trip, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TripStatus, pickup, dropoff *time.Time) error
	SetPayoutOverride(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

// tripRepository TripRepository implementation
type tripRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTripRepository creates a new trip repository
func NewTripRepository(db *database.DB, logger *zap.Logger) TripRepository {
	return &tripRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new trip
func (r *tripRepository) Create(ctx context.Context, trip *entities.Trip) error {
	query := `
		INSERT INTO trips (
			id, clinic_id, driver_id, status, service_level,
			scheduled_time, actual_pickup_time, actual_dropoff_time,
			distance_miles, contracted_fare, driver_payout_override,
			pickup_address, dropoff_address, notes, created_at, updated_at
		) VALUES (
			:id, :clinic_id, :driver_id, :status, :service_level,
			:scheduled_time, :actual_pickup_time, :actual_dropoff_time,
			:distance_miles, :contracted_fare, :driver_payout_override,
			:pickup_address, :dropoff_address, :notes, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, trip)
	if err != nil {
		r.logger.Error("Failed to create trip",
			zap.Error(err),
			zap.String("trip_id", trip.ID.String()),
		)
		return fmt.Errorf("failed to create trip: %w", err)
	}

	r.logger.Info("Trip created successfully",
		zap.String("trip_id", trip.ID.String()),
		zap.String("clinic_id", trip.ClinicID.String()),
		zap.String("driver_id", trip.DriverID.String()),
	)

	return nil
}

// GetByID fetches a trip by ID
func (r *tripRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Trip, error) {
	var trip entities.Trip
	query := `SELECT * FROM trips WHERE id = $1`

	err := r.db.GetContext(ctx, &trip, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrTripNotFound
		}
		r.logger.Error("Failed to get trip by ID",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return nil, fmt.Errorf("failed to get trip by ID: %w", err)
	}

	return &trip, nil
}

// Update updates a trip's record
func (r *tripRepository) Update(ctx context.Context, trip *entities.Trip) error {
	trip.UpdatedAt = time.Now()

	query := `
		UPDATE trips SET
			clinic_id = :clinic_id, driver_id = :driver_id, status = :status,
			service_level = :service_level, scheduled_time = :scheduled_time,
			actual_pickup_time = :actual_pickup_time,
			actual_dropoff_time = :actual_dropoff_time,
			distance_miles = :distance_miles, contracted_fare = :contracted_fare,
			driver_payout_override = :driver_payout_override,
			pickup_address = :pickup_address, dropoff_address = :dropoff_address,
			notes = :notes, updated_at = :updated_at
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, trip)
	if err != nil {
		r.logger.Error("Failed to update trip",
			zap.Error(err),
			zap.String("trip_id", trip.ID.String()),
		)
		return fmt.Errorf("failed to update trip: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTripNotFound
	}

	return nil
}

// List fetches trips with filters
func (r *tripRepository) List(ctx context.Context, filters *entities.TripFilters) ([]*entities.Trip, error) {
	var conditions []string
	var args []interface{}
	argCount := 0

	query := "SELECT * FROM trips"

	if filters != nil {
		if filters.ClinicID != nil {
			argCount++
			conditions = append(conditions, fmt.Sprintf("clinic_id = $%d", argCount))
			args = append(args, *filters.ClinicID)
		}

		if filters.DriverID != nil {
			argCount++
			conditions = append(conditions, fmt.Sprintf("driver_id = $%d", argCount))
			args = append(args, *filters.DriverID)
		}

		if len(filters.Status) > 0 {
			placeholders := make([]string, len(filters.Status))
			for i, status := range filters.Status {
				argCount++
				placeholders[i] = fmt.Sprintf("$%d", argCount)
				args = append(args, status)
			}
			conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY created_at DESC"

	if filters != nil {
		if filters.Limit > 0 {
			argCount++
			query += fmt.Sprintf(" LIMIT $%d", argCount)
			args = append(args, filters.Limit)
		}

		if filters.Offset > 0 {
			argCount++
			query += fmt.Sprintf(" OFFSET $%d", argCount)
			args = append(args, filters.Offset)
		}
	}

	var trips []*entities.Trip
	err := r.db.SelectContext(ctx, &trips, query, args...)
	if err != nil {
		r.logger.Error("Failed to list trips",
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	return trips, nil
}

// ListByClinic fetches all trips belonging to a clinic.
// Period filtering happens in the billing engine because a trip's billing
// date depends on its status fallback chain, not on a single column.
func (r *tripRepository) ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*entities.Trip, error) {
	query := `
		SELECT * FROM trips
		WHERE clinic_id = $1
		ORDER BY created_at ASC`

	var trips []*entities.Trip
	err := r.db.SelectContext(ctx, &trips, query, clinicID)
	if err != nil {
		r.logger.Error("Failed to list trips by clinic",
			zap.Error(err),
			zap.String("clinic_id", clinicID.String()),
		)
		return nil, fmt.Errorf("failed to list trips by clinic: %w", err)
	}

	return trips, nil
}

// ListByDriver fetches all trips assigned to a driver
func (r *tripRepository) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]*entities.Trip, error) {
	query := `
		SELECT * FROM trips
		WHERE driver_id = $1
		ORDER BY created_at ASC`

	var trips []*entities.Trip
	err := r.db.SelectContext(ctx, &trips, query, driverID)
	if err != nil {
		r.logger.Error("Failed to list trips by driver",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
		return nil, fmt.Errorf("failed to list trips by driver: %w", err)
	}

	return trips, nil
}

// UpdateStatus changes a trip's status, recording actual times when provided
func (r *tripRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.TripStatus, pickup, dropoff *time.Time) error {
	query := `
		UPDATE trips
		SET status = $1,
			actual_pickup_time = COALESCE($2, actual_pickup_time),
			actual_dropoff_time = COALESCE($3, actual_dropoff_time),
			updated_at = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, status, pickup, dropoff, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update trip status",
			zap.Error(err),
			zap.String("trip_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("failed to update trip status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTripNotFound
	}

	r.logger.Info("Trip status updated successfully",
		zap.String("trip_id", id.String()),
		zap.String("status", string(status)),
	)

	return nil
}

// SetPayoutOverride records a manual payout override on a trip
func (r *tripRepository) SetPayoutOverride(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	query := `
		UPDATE trips
		SET driver_payout_override = $1, updated_at = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, amount, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to set payout override",
			zap.Error(err),
			zap.String("trip_id", id.String()),
		)
		return fmt.Errorf("failed to set payout override: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrTripNotFound
	}

	return nil
}
