package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type fixture struct {
	tenant  models.Tenant
	staff   models.StaffMember
	service models.Service
	client  models.Client
}

func seed(t *testing.T, db *gorm.DB, slug string) fixture {
	t.Helper()

	f := fixture{}
	f.tenant = models.Tenant{
		Name:         "Barbearia " + slug,
		Slug:         slug,
		Email:        slug + "@example.com",
		PasswordHash: "x",
		Active:       true,
		Timezone:     "America/Sao_Paulo",
	}
	require.NoError(t, db.Create(&f.tenant).Error)

	f.staff = models.StaffMember{TenantID: f.tenant.ID, Name: "João", Active: true}
	require.NoError(t, db.Create(&f.staff).Error)

	f.service = models.Service{
		TenantID:        f.tenant.ID,
		Name:            "Corte",
		DurationMinutes: 30,
		Price:           decimal.NewFromInt(50),
		Active:          true,
	}
	require.NoError(t, db.Create(&f.service).Error)

	f.client = models.Client{TenantID: f.tenant.ID, Name: "Maria", Phone: "5511999998888"}
	require.NoError(t, db.Create(&f.client).Error)

	return f
}

func at(day, hhmm string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04", day+" "+hhmm)
	if err != nil {
		panic(err)
	}
	return ts
}
