package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	ledger domain.Ledger
}

func NewListAppointmentsByDate(
	ledger domain.Ledger,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		ledger: ledger,
	}
}

// Execute lista o dia inteiro; staffID nil traz todos os profissionais.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	tenantID uint,
	staffID *uint,
	date time.Time,
) ([]dto.AppointmentListDTO, error) {

	// horário de parede: o dia começa à meia-noite "UTC"
	start := time.Date(
		date.Year(),
		date.Month(),
		date.Day(),
		0, 0, 0, 0,
		time.UTC,
	)
	end := start.AddDate(0, 0, 1)

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
