package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"nemt-billing/internal/domain/entities"
	"nemt-billing/internal/infrastructure/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClinicRepository data access for contracting clinics
type ClinicRepository interface {
	Create(ctx context.Context, clinic *entities.Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Clinic, error)
	Update(ctx context.Context, clinic *entities.Clinic) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*entities.Clinic, error)
}

// clinicRepository ClinicRepository implementation
type clinicRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewClinicRepository creates a new clinic repository
func NewClinicRepository(db *database.DB, logger *zap.Logger) ClinicRepository {
	return &clinicRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new clinic
func (r *clinicRepository) Create(ctx context.Context, clinic *entities.Clinic) error {
	query := `
		INSERT INTO clinics (
			id, name, phone, email, address,
			cancellation_rate, no_show_rate, payment_terms_days,
			created_at, updated_at
		) VALUES (
			:id, :name, :phone, :email, :address,
			:cancellation_rate, :no_show_rate, :payment_terms_days,
			:created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, clinic)
	if err != nil {
		r.logger.Error("Failed to create clinic",
			zap.Error(err),
			zap.String("clinic_id", clinic.ID.String()),
		)
		return fmt.Errorf("failed to create clinic: %w", err)
	}

	r.logger.Info("Clinic created successfully",
		zap.String("clinic_id", clinic.ID.String()),
		zap.String("name", clinic.Name),
	)

	return nil
}

// GetByID fetches a clinic by ID
func (r *clinicRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Clinic, error) {
	var clinic entities.Clinic
	query := `
		SELECT * FROM clinics
		WHERE id = $1 AND deleted_at IS NULL`

	err := r.db.GetContext(ctx, &clinic, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrClinicNotFound
		}
		r.logger.Error("Failed to get clinic by ID",
			zap.Error(err),
			zap.String("clinic_id", id.String()),
		)
		return nil, fmt.Errorf("failed to get clinic by ID: %w", err)
	}

	return &clinic, nil
}

// Update updates a clinic's record
func (r *clinicRepository) Update(ctx context.Context, clinic *entities.Clinic) error {
	clinic.UpdatedAt = time.Now()

	query := `
		UPDATE clinics SET
			name = :name, phone = :phone, email = :email, address = :address,
			cancellation_rate = :cancellation_rate, no_show_rate = :no_show_rate,
			payment_terms_days = :payment_terms_days, updated_at = :updated_at
		WHERE id = :id AND deleted_at IS NULL`

	result, err := r.db.NamedExecContext(ctx, query, clinic)
	if err != nil {
		r.logger.Error("Failed to update clinic",
			zap.Error(err),
			zap.String("clinic_id", clinic.ID.String()),
		)
		return fmt.Errorf("failed to update clinic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrClinicNotFound
	}

	return nil
}

// SoftDelete marks a clinic as deleted
func (r *clinicRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	query := `
		UPDATE clinics
		SET deleted_at = $1, updated_at = $1
		WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		r.logger.Error("Failed to soft delete clinic",
			zap.Error(err),
			zap.String("clinic_id", id.String()),
		)
		return fmt.Errorf("failed to soft delete clinic: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return entities.ErrClinicNotFound
	}

	return nil
}

// List fetches clinics with pagination
func (r *clinicRepository) List(ctx context.Context, limit, offset int) ([]*entities.Clinic, error) {
	query := `
		SELECT * FROM clinics
		WHERE deleted_at IS NULL
		ORDER BY name ASC`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
		if offset > 0 {
			query += " OFFSET $2"
			args = append(args, offset)
		}
	}

	var clinics []*entities.Clinic
	err := r.db.SelectContext(ctx, &clinics, query, args...)
	if err != nil {
		r.logger.Error("Failed to list clinics",
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}

	return clinics, nil
}
