package appointment

import (
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// NewAppointment é o pedido de gravação no ledger. Duration vem do
// serviço no momento da reserva e fica congelada em EndTime.
type NewAppointment struct {
	TenantID    uint
	StaffID     uint
	ServiceID   uint
	ClientID    uint
	Start       time.Time
	Duration    time.Duration
	Observation string
}

func (n NewAppointment) End() time.Time {
	return n.Start.Add(n.Duration)
}

func (n NewAppointment) Model() *models.Appointment {
	return &models.Appointment{
		TenantID:    n.TenantID,
		StaffID:     n.StaffID,
		ServiceID:   n.ServiceID,
		ClientID:    n.ClientID,
		StartTime:   n.Start,
		EndTime:     n.End(),
		Observation: n.Observation,
	}
}

// ===============================
// Domain checks
// ===============================

// CheckService garante que o serviço pode ocupar agenda no tenant.
func CheckService(svc *models.Service, tenantID uint) error {
	if svc.TenantID != tenantID {
		return ErrServiceForeign
	}
	if svc.DurationMinutes <= 0 {
		return ErrServiceDuration
	}
	if !svc.Active {
		return ErrServiceInactive
	}
	return nil
}

func CheckStaff(staff *models.StaffMember, tenantID uint) error {
	if staff.TenantID != tenantID {
		return ErrStaffForeign
	}
	if !staff.Active {
		return ErrStaffInactive
	}
	return nil
}

// CheckOffer: profissional sem vínculo cadastrado atende todos os serviços.
func CheckOffer(offers bool) error {
	if !offers {
		return ErrServiceNotOffered
	}
	return nil
}

func CheckTenant(t *models.Tenant) error {
	if !t.Active {
		return ErrTenantInactive
	}
	return nil
}
