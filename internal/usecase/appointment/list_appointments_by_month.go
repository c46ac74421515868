package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/dto"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
)

type ListAppointmentsByMonth struct {
	ledger domain.Ledger
}

func NewListAppointmentsByMonth(
	ledger domain.Ledger,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		ledger: ledger,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	if month < 1 || month > 12 || year < 2000 {
		return nil, httperr.Detailed(httperr.CodeInvalidInput, "invalid year or month")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.ledger.ListForPeriod(
		ctx,
		tenantID,
		staffID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.AppointmentList(appointments), nil
}
