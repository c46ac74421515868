package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type DeletionGormRepository struct {
	db *gorm.DB
}

func NewDeletionGormRepository(db *gorm.DB) *DeletionGormRepository {
	return &DeletionGormRepository{db: db}
}

func (r *DeletionGormRepository) Create(
	ctx context.Context,
	dr *models.DeletionRequest,
) error {
	if dr.Code == uuid.Nil {
		dr.Code = uuid.New()
	}
	if dr.Status == "" {
		dr.Status = string(domain.DeletionPending)
	}
	return r.db.WithContext(ctx).Create(dr).Error
}

func (r *DeletionGormRepository) GetByCode(
	ctx context.Context,
	code uuid.UUID,
) (*models.DeletionRequest, error) {

	var dr models.DeletionRequest
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&dr).Error; err != nil {
		return nil, notFound(err, domain.ErrRequestNotFound)
	}
	return &dr, nil
}

func (r *DeletionGormRepository) Resolve(
	ctx context.Context,
	code uuid.UUID,
	approve bool,
	at time.Time,
) (*models.DeletionRequest, error) {

	var dr models.DeletionRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("code = ?", code).
			First(&dr).Error; err != nil {
			return notFound(err, domain.ErrRequestNotFound)
		}

		next, err := domain.NextDeletionStatus(domain.DeletionStatus(dr.Status), approve)
		if err != nil {
			return err
		}

		// update condicional: uma segunda resposta concorrente não passa daqui
		res := tx.Model(&models.DeletionRequest{}).
			Where("id = ? AND status = ?", dr.ID, string(domain.DeletionPending)).
			Updates(map[string]any{
				"status":      string(next),
				"resolved_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrAlreadyResolved
		}

		dr.Status = string(next)
		dr.ResolvedAt = &at

		if next != domain.DeletionApproved || dr.AppointmentID == nil {
			return nil
		}

		apptID := *dr.AppointmentID
		if err := tx.
			Where("id = ? AND tenant_id = ?", apptID, dr.TenantID).
			Delete(&models.Appointment{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.DeletionRequest{}).
			Where("appointment_id = ?", apptID).
			Update("appointment_id", nil).Error
	})
	if err != nil {
		return nil, err
	}

	return &dr, nil
}

// Compile-time check
var _ domain.DeletionRepository = (*DeletionGormRepository)(nil)
