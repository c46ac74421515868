package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// --------------------------------------------------
// Tema da página pública
// --------------------------------------------------

// GetTheme devolve as cores salvas ou o padrão, sem gravar nada.
func (r *CatalogGormRepository) GetTheme(
	ctx context.Context,
	tenantID uint,
) (models.TenantTheme, error) {

	var theme models.TenantTheme
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&theme).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultTheme(tenantID), nil
	}
	if err != nil {
		return models.TenantTheme{}, err
	}
	return theme, nil
}

// SaveTheme grava ou substitui as cores do tenant.
func (r *CatalogGormRepository) SaveTheme(
	ctx context.Context,
	theme *models.TenantTheme,
) error {

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"primary_color",
				"secondary_color",
				"text_color",
				"text_color_light",
				"button_color",
				"button_text_color",
				"card_background_color",
				"card_text_color",
				"background_color",
				"updated_at",
			}),
		}).
		Create(theme).Error
}
