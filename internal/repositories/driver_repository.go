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
	"go.uber.org/zap"
)

// DriverRepository data access for drivers and their rate configuration
type DriverRepository interface {
	Create(ctx context.Context, driver *entities.Driver) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error)
	GetByPhone(ctx context.Context, phone string) (*entities.Driver, error)
	Update(ctx context.Context, driver *entities.Driver) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters *entities.DriverFilters) ([]*entities.Driver, error)
	Exists(ctx context.Context, phone, licenseNumber string) (bool, error)
	UpdateRates(ctx context.Context, id uuid.UUID, rates entities.RateSchedule) error
	UpdateDeductions(ctx context.Context, id uuid.UUID, deductions entities.Deductions) error
}

// driverRepository DriverRepository implementation
type driverRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDriverRepository creates a new driver repository
func NewDriverRepository(db *database.DB, logger *zap.Logger) DriverRepository {
	return &driverRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new driver
func (r *driverRepository) Create(ctx context.Context, driver *entities.Driver) error {
	query := `
		INSERT INTO drivers (
			id, phone, email, first_name, last_name, license_number,
			status, rates, cancellation_rate, no_show_rate, deductions,
			created_at, updated_at
		) VALUES (
			:id, :phone, :email, :first_name, :last_name, :license_number,
			:status, :rates, :cancellation_rate, :no_show_rate, :deductions,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, driver)
	if err != nil {
		r.logger.Error("Failed to create driver",
			zap.Error(err),
			zap.String("driver_id", driver.ID.String()),
		)
		return fmt.Errorf("failed to create driver: %w", err)
	}

	r.logger.Info("Driver created successfully",
		zap.String("driver_id", driver.ID.String()),
		zap.String("phone", driver.Phone),
	)

	return nil
}

// GetByID fetches a driver by ID
func (r *driverRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error) {
	var driver entities.Driver
	query := `
		SELECT * FROM drivers
		WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &driver, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrDriverNotFound
		}
		r.logger.Error("Failed to get driver by ID",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return nil, fmt.Errorf("failed to get driver by ID: %w", err)
	}

	return &driver, nil
}

// GetByPhone fetches a driver by phone number
func (r *driverRepository) GetByPhone(ctx context.Context, phone string) (*entities.Driver, error) {
	var driver entities.Driver
	query := `
		SELECT * FROM drivers
		WHERE phone = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &driver, query, phone)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrDriverNotFound
		}
		r.logger.Error("Failed to get driver by phone",
			zap.Error(err),
			zap.String("phone", phone),
		)
		return nil, fmt.Errorf("failed to get driver by phone: %w", err)
	}

	return &driver, nil
}

// Update updates a driver's record
func (r *driverRepository) Update(ctx context.Context, driver *entities.Driver) error {
	driver.UpdatedAt = time.Now()

	query := `
		UPDATE drivers SET
			phone = :phone, email = :email, first_name = :first_name,
			last_name = :last_name, license_number = :license_number,
			status = :status, rates = :rates,
			cancellation_rate = :cancellation_rate, no_show_rate = :no_show_rate,
			deductions = :deductions, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, driver)
	if err != nil {
		r.logger.Error("Failed to update driver",
			zap.Error(err),
			zap.String("driver_id", driver.ID.String()),
		)
		return fmt.Errorf("failed to update driver: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrDriverNotFound
	}

	return nil
}

// SoftDelete marks a driver as deleted
func (r *driverRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE drivers
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		r.logger.Error("Failed to soft delete driver",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return fmt.Errorf("failed to soft delete driver: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrDriverNotFound
	}

	return nil
}

// List fetches drivers with filters
func (r *driverRepository) List(ctx context.Context, filters *entities.DriverFilters) ([]*entities.Driver, error) {
	query, args := r.buildListQuery(filters)

	var drivers []*entities.Driver
	err := r.db.SelectContext(ctx, &drivers, query, args...)
	if err != nil {
		r.logger.Error("Failed to list drivers",
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	return drivers, nil
}

// Exists checks whether a driver with the phone or license number exists
func (r *driverRepository) Exists(ctx context.Context, phone, licenseNumber string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM drivers
			WHERE (phone = $1 OR license_number = $2)
			AND deleted_at IS NULL
		)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, phone, licenseNumber)
	if err != nil {
		r.logger.Error("Failed to check driver existence",
			zap.Error(err),
			zap.String("phone", phone),
		)
		return false, fmt.Errorf("failed to check driver existence: %w", err)
	}

	return exists, nil
}

// UpdateRates replaces a driver's rate schedule.
// Callers must validate the schedule before persisting it.
func (r *driverRepository) UpdateRates(ctx context.Context, id uuid.UUID, rates entities.RateSchedule) error {
	query := `
		UPDATE drivers
		SET rates = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, rates, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update driver rates",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return fmt.Errorf("failed to update driver rates: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrDriverNotFound
	}

	r.logger.Info("Driver rates updated successfully",
		zap.String("driver_id", id.String()),
	)

	return nil
}

// UpdateDeductions replaces a driver's deductions
func (r *driverRepository) UpdateDeductions(ctx context.Context, id uuid.UUID, deductions entities.Deductions) error {
	query := `
		UPDATE drivers
		SET deductions = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, deductions, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to update driver deductions",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return fmt.Errorf("failed to update driver deductions: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrDriverNotFound
	}

	return nil
}

// buildListQuery builds the SQL query for driver listing
func (r *driverRepository) buildListQuery(filters *entities.DriverFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argCount := 0

	query := "SELECT * FROM drivers WHERE deleted_at IS NULL"

	if filters != nil {
		if len(filters.Status) > 0 {
			placeholders := make([]string, len(filters.Status))
			for i, status := range filters.Status {
				argCount++
				placeholders[i] = fmt.Sprintf("$%d", argCount)
				args = append(args, status)
			}
			conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
		}

		if filters.CreatedAfter != nil {
			argCount++
			conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCount))
			args = append(args, *filters.CreatedAfter)
		}

		if filters.CreatedBefore != nil {
			argCount++
			conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argCount))
			args = append(args, *filters.CreatedBefore)
		}
	}

	if len(conditions) > 0 {
		query += " AND " + strings.Join(conditions, " AND ")
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

	return query, args
}
