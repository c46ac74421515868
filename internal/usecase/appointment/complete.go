package appointment

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

type MarkCompleted struct {
	catalog domain.Catalog
	ledger  domain.Ledger
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewMarkCompleted(
	catalog domain.Catalog,
	ledger domain.Ledger,
	audit *audit.Dispatcher,
) *MarkCompleted {
	return &MarkCompleted{
		catalog: catalog,
		ledger:  ledger,
		audit:   audit,
		now:     time.Now,
	}
}

// Execute é idempotente: chamar de novo devolve true e mantém a primeira data.
func (uc *MarkCompleted) Execute(
	ctx context.Context,
	tenantID uint,
	actorID *uint,
	appointmentID uint,
) (bool, error) {

	tenant, err := uc.catalog.GetTenant(ctx, tenantID)
	if err != nil {
		return false, err
	}

	ok, err := uc.ledger.MarkCompleted(
		ctx,
		tenant.ID,
		appointmentID,
		timezone.WallClock(uc.now(), tenant.Timezone),
	)
	if err != nil || !ok {
		return ok, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		ActorID:  actorID,
		Action:   audit.ActionAppointmentCompleted,
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return true, nil
}

// ======================================================
// Varredura automática (login do tenant)
// ======================================================

type SweepAutoComplete struct {
	catalog domain.Catalog
	ledger  domain.Ledger
	audit   *audit.Dispatcher
	now     func() time.Time
}

func NewSweepAutoComplete(
	catalog domain.Catalog,
	ledger domain.Ledger,
	audit *audit.Dispatcher,
) *SweepAutoComplete {
	return &SweepAutoComplete{
		catalog: catalog,
		ledger:  ledger,
		audit:   audit,
		now:     time.Now,
	}
}

// Execute conclui tudo que já começou no relógio do tenant.
// Sem nada para concluir devolve 0, sem erro.
func (uc *SweepAutoComplete) Execute(
	ctx context.Context,
	tenantID uint,
) (int64, error) {

	tenant, err := uc.catalog.GetTenant(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	n, err := uc.ledger.SweepAutoComplete(ctx, tenant.ID, timezone.WallClock(uc.now(), tenant.Timezone))
	if err != nil {
		return 0, err
	}

	if n > 0 {
		log.Info().Uint("tenant_id", tenant.ID).Int64("count", n).Msg("appointments auto completed")
		uc.audit.Dispatch(audit.Event{
			TenantID: tenant.ID,
			Action:   audit.ActionAutoCompleted,
			Entity:   "appointment",
			Metadata: map[string]any{"count": n},
		})
	}

	return n, nil
}
