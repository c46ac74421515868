package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	TenantID  uint
	StaffID   uint
	ServiceID uint
	ClientID  uint

	Start       time.Time // horário de parede do tenant
	Observation string

	ActorID *uint // nil quando vem da página pública
}

type BookingResult struct {
	Appointment *models.Appointment `json:"appointment"`

	// preenchido quando um lembrete com link de cancelamento foi agendado
	DeletionCode *uuid.UUID `json:"deletion_code,omitempty"`
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	catalog   domain.Catalog
	ledger    domain.Ledger
	deletions domain.DeletionRepository
	audit     *audit.Dispatcher
	messenger messenger

	now func() time.Time
}

func NewCreateBooking(
	catalog domain.Catalog,
	ledger domain.Ledger,
	deletions domain.DeletionRepository,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	opts Options,
) *CreateBooking {
	return &CreateBooking{
		catalog:   catalog,
		ledger:    ledger,
		deletions: deletions,
		audit:     audit,
		messenger: newMessenger(notifier, opts),
		now:       time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*BookingResult, error) {

	res, err := uc.execute(ctx, in)
	metrics.Bookings.WithLabelValues(resultLabel(err)).Inc()
	return res, err
}

func (uc *CreateBooking) execute(
	ctx context.Context,
	in CreateBookingInput,
) (*BookingResult, error) {

	// --------------------------------------------------
	// 1️⃣ Entrada (antes de qualquer acesso ao banco)
	// --------------------------------------------------
	if in.TenantID == 0 || in.StaffID == 0 || in.ServiceID == 0 || in.ClientID == 0 {
		return nil, domain.ErrMissingRefs
	}
	if err := domain.ValidateStart(in.Start, timezone.WallClock(uc.now(), timezone.DefaultTimezone)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Tenant ativo
	// --------------------------------------------------
	tenant, err := uc.catalog.GetTenant(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckTenant(tenant); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Serviço, profissional e cliente do tenant
	// --------------------------------------------------
	svc, err := uc.catalog.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckService(svc, tenant.ID); err != nil {
		return nil, err
	}

	staff, err := uc.catalog.GetStaff(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckStaff(staff, tenant.ID); err != nil {
		return nil, err
	}

	offers, err := uc.catalog.StaffOffers(ctx, staff.ID, svc.ID)
	if err != nil {
		return nil, err
	}
	if err := domain.CheckOffer(offers); err != nil {
		return nil, err
	}

	client, err := uc.catalog.GetClient(ctx, tenant.ID, in.ClientID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Intervalo ocupado
	// --------------------------------------------------
	req := domain.NewAppointment{
		TenantID:    tenant.ID,
		StaffID:     staff.ID,
		ServiceID:   svc.ID,
		ClientID:    client.ID,
		Start:       in.Start.Truncate(time.Minute),
		Duration:    time.Duration(svc.DurationMinutes) * time.Minute,
		Observation: in.Observation,
	}

	// --------------------------------------------------
	// 5️⃣ + 6️⃣ Conflito e gravação
	// --------------------------------------------------
	ap, err := uc.commit(ctx, req)
	if err != nil {
		return nil, err
	}

	ap.Staff = *staff
	ap.Service = *svc
	ap.Client = *client

	// --------------------------------------------------
	// 7️⃣ + 8️⃣ Efeitos colaterais (best effort)
	// --------------------------------------------------
	// gravado é gravado: desconexão do cliente não desfaz nem cala o aviso
	sideCtx, cancel := uc.messenger.detach(ctx)
	defer cancel()

	result := &BookingResult{Appointment: ap}
	result.DeletionCode = uc.notify(sideCtx, tenant, ap)

	uc.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		ActorID:  in.ActorID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{
			"staff_id":   staff.ID,
			"service_id": svc.ID,
			"start":      ap.StartTime.Format("2006-01-02 15:04"),
		},
	})

	return result, nil
}

// commit confere e grava; perde a corrida → ErrSlotConflict. Falha
// transitória de serialização ganha uma única nova tentativa; se repetir,
// vira conflito e o cliente consulta os horários de novo.
func (uc *CreateBooking) commit(
	ctx context.Context,
	req domain.NewAppointment,
) (*models.Appointment, error) {

	for attempt := 0; attempt < 2; attempt++ {
		busy, err := uc.ledger.CheckConflict(ctx, req.TenantID, req.StaffID, req.Start, req.Duration)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, domain.ErrSlotConflict
		}

		ap, err := uc.ledger.Create(ctx, req)
		if err == nil {
			return ap, nil
		}
		if !errors.Is(err, domain.ErrRetryable) {
			return nil, err
		}
		log.Debug().Uint("staff_id", req.StaffID).Int("attempt", attempt).Msg("booking write retry")
	}

	return nil, domain.ErrSlotConflict
}

func (uc *CreateBooking) notify(
	ctx context.Context,
	tenant *models.Tenant,
	ap *models.Appointment,
) *uuid.UUID {

	if !tenant.HasGateway() {
		return nil
	}

	uc.messenger.send(ctx, tenant, notify.KindConfirmation, ap.Client.Phone,
		confirmationText(ap.Staff.Name, ap.Service.Name, ap.StartTime), nil)

	if tenant.ReminderLeadMinutes <= 0 {
		return nil
	}

	remindAt := ap.StartTime.Add(-time.Duration(tenant.ReminderLeadMinutes) * time.Minute)
	sendAt := timezone.Instant(remindAt, tenant.Timezone).UTC()
	if !sendAt.After(uc.now()) {
		// lembrete já venceu
		return nil
	}

	dr := &models.DeletionRequest{
		TenantID:      tenant.ID,
		AppointmentID: &ap.ID,
		ClientID:      ap.ClientID,
	}
	if err := uc.deletions.Create(ctx, dr); err != nil {
		log.Warn().Err(err).
			Uint("tenant_id", tenant.ID).
			Uint("appointment_id", ap.ID).
			Msg("reminder token not created")
		return nil
	}

	link := DeletionLink(uc.messenger.opts.PublicBaseURL, dr.Code)
	uc.messenger.send(ctx, tenant, notify.KindReminder, ap.Client.Phone,
		reminderText(ap.Staff.Name, ap.Service.Name, ap.StartTime, link), &sendAt)

	return &dr.Code
}

func resultLabel(err error) string {
	if err == nil {
		return "created"
	}
	return httperr.CodeOf(err)
}
