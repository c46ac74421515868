package tenant

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	"github.com/BruksfildServices01/agenda-scheduler/internal/slug"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

const MinPasswordLength = 6

var (
	ErrEmailTaken = httperr.Detailed(httperr.CodeInvalidInput, "email already registered")
	ErrPhoneTaken = httperr.Detailed(httperr.CodeInvalidInput, "phone already registered")
)

type CreateTenantInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Timezone string

	ReminderLeadMinutes int
	AutoComplete        bool

	GatewayAppKey  string
	GatewayAuthKey string
}

type CreateTenant struct {
	db     *gorm.DB
	region string
}

func NewCreateTenant(db *gorm.DB, region string) *CreateTenant {
	return &CreateTenant{db: db, region: region}
}

func (uc *CreateTenant) Execute(ctx context.Context, in CreateTenantInput) (*models.Tenant, error) {
	var out *models.Tenant
	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		t, err := Create(tx, in, uc.region)
		out = t
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Create valida, gera o slug e grava dentro da transação recebida.
// Usado também pelo bootstrap.
func Create(tx *gorm.DB, in CreateTenantInput, region string) (*models.Tenant, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	phone := notify.NormalizePhone(in.Phone, region)

	tz := in.Timezone
	if tz == "" {
		tz = timezone.DefaultTimezone
	}

	switch {
	case name == "":
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "name is required")
	case email == "":
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "email is required")
	case len(in.Password) < MinPasswordLength:
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "password too short")
	case !timezone.IsValid(tz):
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "unknown timezone")
	case in.ReminderLeadMinutes < 0:
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "reminder lead must not be negative")
	}

	taken, err := exists(tx, "email = ?", email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}
	if phone != "" {
		taken, err := exists(tx, "phone = ?", phone)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrPhoneTaken
		}
	}

	s, err := slug.Unique(name, func(candidate string) (bool, error) {
		return exists(tx, "slug = ?", candidate)
	})
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	t := models.Tenant{
		Name:                name,
		Slug:                s,
		Email:               email,
		Phone:               phone,
		PasswordHash:        string(hash),
		Active:              true,
		Timezone:            tz,
		GatewayAppKey:       strings.TrimSpace(in.GatewayAppKey),
		GatewayAuthKey:      strings.TrimSpace(in.GatewayAuthKey),
		ReminderLeadMinutes: in.ReminderLeadMinutes,
		AutoComplete:        in.AutoComplete,
	}
	if err := tx.Create(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func exists(tx *gorm.DB, cond string, arg any) (bool, error) {
	var count int64
	if err := tx.Model(&models.Tenant{}).Where(cond, arg).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ------------------------------------------------------------
// Ativação
// ------------------------------------------------------------

// SetActive liga ou desliga o tenant. Os dados ficam intactos.
func SetActive(ctx context.Context, db *gorm.DB, tenantID uint, active bool) (*models.Tenant, error) {
	res := db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", tenantID).
		Update("active", active)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	var t models.Tenant
	if err := db.WithContext(ctx).First(&t, tenantID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
