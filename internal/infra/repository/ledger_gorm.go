package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type LedgerGormRepository struct {
	db *gorm.DB
}

func NewLedgerGormRepository(db *gorm.DB) *LedgerGormRepository {
	return &LedgerGormRepository{db: db}
}

// --------------------------------------------------
// Conflict / Create
// --------------------------------------------------

func overlapping(db *gorm.DB, tenantID, staffID uint, start, end time.Time) *gorm.DB {
	return db.Model(&models.Appointment{}).
		Where(
			"tenant_id = ? AND staff_id = ? AND start_time < ? AND end_time > ?",
			tenantID,
			staffID,
			end,
			start,
		)
}

func (r *LedgerGormRepository) CheckConflict(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	start time.Time,
	duration time.Duration,
) (bool, error) {

	var count int64
	if err := overlapping(r.db.WithContext(ctx), tenantID, staffID, start, start.Add(duration)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create trava a linha do profissional, confere sobreposição e grava,
// tudo na mesma transação. Duas reservas do mesmo profissional ficam
// serializadas; no postgres a constraint de exclusão cobre o resto.
func (r *LedgerGormRepository) Create(
	ctx context.Context,
	in domain.NewAppointment,
) (*models.Appointment, error) {

	ap := in.Model()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var staff models.StaffMember
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND tenant_id = ?", in.StaffID, in.TenantID).
			First(&staff).Error; err != nil {
			return notFound(err, domain.ErrStaffNotFound)
		}

		var count int64
		if err := overlapping(tx, in.TenantID, in.StaffID, ap.StartTime, ap.EndTime).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrSlotConflict
		}

		return tx.Create(ap).Error
	})
	if err != nil {
		return nil, translateWrite(err)
	}

	return ap, nil
}

// --------------------------------------------------
// State change
// --------------------------------------------------

func (r *LedgerGormRepository) Get(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Staff").
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, domain.ErrAppointmentNotFound)
	}
	return &ap, nil
}

// MarkCompleted é idempotente; a primeira conclusão fixa completed_at.
func (r *LedgerGormRepository) MarkCompleted(
	ctx context.Context,
	tenantID uint,
	id uint,
	at time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(map[string]any{
			"completed":    true,
			"completed_at": gorm.Expr("COALESCE(completed_at, ?)", at),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *LedgerGormRepository) Delete(
	ctx context.Context,
	tenantID uint,
	id uint,
) (bool, error) {

	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND tenant_id = ?", id, tenantID).
			Delete(&models.Appointment{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true

		// pedidos pendentes perdem a referência, mas continuam resolvíveis
		return tx.Model(&models.DeletionRequest{}).
			Where("appointment_id = ?", id).
			Update("appointment_id", nil).Error
	})
	return deleted, err
}

func (r *LedgerGormRepository) SweepAutoComplete(
	ctx context.Context,
	tenantID uint,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("tenant_id = ? AND completed = ? AND start_time <= ?", tenantID, false, now).
		Updates(map[string]any{
			"completed":    true,
			"completed_at": now,
		})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Reads
// --------------------------------------------------

func (r *LedgerGormRepository) ListBusy(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]availability.Busy, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"tenant_id = ? AND staff_id = ? AND start_time < ? AND end_time > ?",
			tenantID, staffID, to, from,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	busy := make([]availability.Busy, 0, len(apps))
	for _, a := range apps {
		busy = append(busy, availability.Busy{Start: a.StartTime, End: a.EndTime})
	}
	return busy, nil
}

func (r *LedgerGormRepository) ListForPeriod(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Preload("Staff").
		Where("tenant_id = ? AND start_time >= ? AND start_time < ?", tenantID, from, to)

	if staffID != nil {
		q = q.Where("staff_id = ?", *staffID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Ledger = (*LedgerGormRepository)(nil)
