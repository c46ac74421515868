package appointment

import (
	"context"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	ledger domain.Ledger
	audit  *audit.Dispatcher
}

func NewDeleteAppointment(
	ledger domain.Ledger,
	audit *audit.Dispatcher,
) *DeleteAppointment {
	return &DeleteAppointment{
		ledger: ledger,
		audit:  audit,
	}
}

// Execute remove na hora, sem confirmação do cliente. false = não existe.
func (uc *DeleteAppointment) Execute(
	ctx context.Context,
	tenantID uint,
	actorID *uint,
	appointmentID uint,
) (bool, error) {

	ok, err := uc.ledger.Delete(ctx, tenantID, appointmentID)
	if err != nil || !ok {
		return ok, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		ActorID:  actorID,
		Action:   audit.ActionAppointmentDeleted,
		Entity:   "appointment",
		EntityID: &appointmentID,
	})

	return true, nil
}
