// Package bootstrap semeia o primeiro administrador da plataforma e,
// opcionalmente, o primeiro tenant. Rodar de novo não altera nada.
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/usecase/tenant"
)

type Result struct {
	AdminCreated  bool
	TenantCreated bool
	TenantSlug    string
}

func Run(ctx context.Context, db *gorm.DB, cfg config.BootstrapConfig, region string) (Result, error) {
	var res Result

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		created, err := seedAdmin(tx, cfg)
		if err != nil {
			return err
		}
		res.AdminCreated = created

		t, err := seedTenant(tx, cfg, region)
		if err != nil {
			return err
		}
		if t != nil {
			res.TenantCreated = true
			res.TenantSlug = t.Slug
		}
		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("bootstrap: %w", err)
	}

	log.Info().
		Bool("admin_created", res.AdminCreated).
		Bool("tenant_created", res.TenantCreated).
		Str("tenant_slug", res.TenantSlug).
		Msg("bootstrap finished")

	return res, nil
}

func seedAdmin(tx *gorm.DB, cfg config.BootstrapConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	var count int64
	if err := tx.Model(&models.PlatformAdmin{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}

	admin := models.PlatformAdmin{
		Name:         cfg.AdminName,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := tx.Create(&admin).Error; err != nil {
		return false, err
	}
	return true, nil
}

func seedTenant(tx *gorm.DB, cfg config.BootstrapConfig, region string) (*models.Tenant, error) {
	if strings.TrimSpace(cfg.TenantName) == "" {
		return nil, nil
	}

	var count int64
	if err := tx.Model(&models.Tenant{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, nil
	}

	return tenant.Create(tx, tenant.CreateTenantInput{
		Name:     cfg.TenantName,
		Email:    cfg.TenantEmail,
		Phone:    cfg.TenantPhone,
		Password: cfg.TenantPassword,
	}, region)
}
