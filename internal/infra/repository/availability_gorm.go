package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func staffOfTenant(db *gorm.DB, tenantID uint) *gorm.DB {
	return db.Model(&models.StaffMember{}).Select("id").Where("tenant_id = ?", tenantID)
}

// --------------------------------------------------
// Rules
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListRules(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where(
			"staff_id = ? AND staff_id IN (?) AND (weekday IS NOT NULL OR date BETWEEN ? AND ?)",
			staffID,
			staffOfTenant(r.db, tenantID),
			from.Format(availability.DateLayout),
			to.Format(availability.DateLayout),
		).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityGormRepository) ListStaffRules(
	ctx context.Context,
	tenantID uint,
	staffID uint,
) ([]models.AvailabilityRule, error) {

	var rules []models.AvailabilityRule
	if err := r.db.WithContext(ctx).
		Where("staff_id = ? AND staff_id IN (?)", staffID, staffOfTenant(r.db, tenantID)).
		Order("id ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AvailabilityGormRepository) CreateRule(
	ctx context.Context,
	rule *models.AvailabilityRule,
) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// UpdateRule troca a janela e o discriminador; o dono não muda.
func (r *AvailabilityGormRepository) UpdateRule(
	ctx context.Context,
	tenantID uint,
	rule *models.AvailabilityRule,
) error {

	res := r.db.WithContext(ctx).
		Model(&models.AvailabilityRule{}).
		Where("id = ? AND staff_id IN (?)", rule.ID, staffOfTenant(r.db, tenantID)).
		Select("weekday", "date", "start_time", "end_time", "lunch_start", "lunch_end").
		Updates(rule)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AvailabilityGormRepository) DeleteRule(
	ctx context.Context,
	tenantID uint,
	ruleID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND staff_id IN (?)", ruleID, staffOfTenant(r.db, tenantID)).
		Delete(&models.AvailabilityRule{})
	return res.RowsAffected > 0, res.Error
}

// --------------------------------------------------
// Blocks
// --------------------------------------------------

func (r *AvailabilityGormRepository) ListBlocks(
	ctx context.Context,
	tenantID uint,
	staffID uint,
	from time.Time,
	to time.Time,
) ([]models.Block, error) {

	var blocks []models.Block
	if err := r.db.WithContext(ctx).
		Where(
			"tenant_id = ? AND staff_id = ? AND date BETWEEN ? AND ?",
			tenantID,
			staffID,
			from.Format(availability.DateLayout),
			to.Format(availability.DateLayout),
		).
		Order("date ASC, start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *AvailabilityGormRepository) CreateBlock(
	ctx context.Context,
	block *models.Block,
) error {
	return r.db.WithContext(ctx).Create(block).Error
}

func (r *AvailabilityGormRepository) DeleteBlock(
	ctx context.Context,
	tenantID uint,
	blockID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", blockID, tenantID).
		Delete(&models.Block{})
	return res.RowsAffected > 0, res.Error
}

// Compile-time check
var (
	_ availability.RuleStore  = (*AvailabilityGormRepository)(nil)
	_ availability.BlockStore = (*AvailabilityGormRepository)(nil)
)
