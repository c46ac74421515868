package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

// 2030-06-03 é uma segunda-feira
const monday = "2030-06-03"

var fixedNow = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Notify(_ context.Context, m notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Kind)
	}
	return out
}

func (r *recorder) last() notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs[len(r.msgs)-1]
}

type env struct {
	db        *gorm.DB
	catalog   *repository.CatalogGormRepository
	ledger    *repository.LedgerGormRepository
	deletions *repository.DeletionGormRepository
	avail     *repository.AvailabilityGormRepository
	notifier  *recorder

	tenant  models.Tenant
	staff   models.StaffMember
	service models.Service
	client  models.Client
}

var opts = Options{Region: "BR", PublicBaseURL: "https://agenda.example.com/"}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := dbtest.New(t)
	e := &env{
		db:        db,
		catalog:   repository.NewCatalogGormRepository(db),
		ledger:    repository.NewLedgerGormRepository(db),
		deletions: repository.NewDeletionGormRepository(db),
		avail:     repository.NewAvailabilityGormRepository(db),
		notifier:  &recorder{},
	}

	e.tenant = models.Tenant{
		Name:           "Barbearia Centro",
		Slug:           "barbearia-centro",
		Email:          "centro@example.com",
		PasswordHash:   "x",
		Active:         true,
		Timezone:       "America/Sao_Paulo",
		GatewayAppKey:  "app",
		GatewayAuthKey: "auth",
	}
	require.NoError(t, db.Create(&e.tenant).Error)

	e.staff = models.StaffMember{TenantID: e.tenant.ID, Name: "João", Active: true}
	require.NoError(t, db.Create(&e.staff).Error)

	e.service = models.Service{
		TenantID:        e.tenant.ID,
		Name:            "Corte",
		DurationMinutes: 30,
		Price:           decimal.RequireFromString("45.50"),
		Active:          true,
	}
	require.NoError(t, db.Create(&e.service).Error)

	e.client = models.Client{TenantID: e.tenant.ID, Name: "Maria", Phone: "(11) 99999-8888"}
	require.NoError(t, db.Create(&e.client).Error)

	return e
}

func (e *env) booking() *CreateBooking {
	uc := NewCreateBooking(e.catalog, e.ledger, e.deletions, e.notifier, nil, opts)
	uc.now = clock
	return uc
}

func (e *env) input(hhmm string) CreateBookingInput {
	return CreateBookingInput{
		TenantID:  e.tenant.ID,
		StaffID:   e.staff.ID,
		ServiceID: e.service.ID,
		ClientID:  e.client.ID,
		Start:     wall(monday, hhmm),
	}
}

func wall(day, hhmm string) time.Time {
	ts, err := time.Parse("2006-01-02 15:04", day+" "+hhmm)
	if err != nil {
		panic(err)
	}
	return ts
}
