package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// ======================================================
// Pedido (iniciado pelo tenant)
// ======================================================

type RequestDeletion struct {
	catalog   domain.Catalog
	ledger    domain.Ledger
	deletions domain.DeletionRepository
	audit     *audit.Dispatcher
	messenger messenger
}

func NewRequestDeletion(
	catalog domain.Catalog,
	ledger domain.Ledger,
	deletions domain.DeletionRepository,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	opts Options,
) *RequestDeletion {
	return &RequestDeletion{
		catalog:   catalog,
		ledger:    ledger,
		deletions: deletions,
		audit:     audit,
		messenger: newMessenger(notifier, opts),
	}
}

// Execute cria o pedido Pending e manda o link ao cliente.
func (uc *RequestDeletion) Execute(
	ctx context.Context,
	tenantID uint,
	actorID *uint,
	appointmentID uint,
) (*models.DeletionRequest, error) {

	tenant, err := uc.catalog.GetTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	ap, err := uc.ledger.Get(ctx, tenant.ID, appointmentID)
	if err != nil {
		return nil, err
	}

	dr := &models.DeletionRequest{
		TenantID:      tenant.ID,
		AppointmentID: &ap.ID,
		ClientID:      ap.ClientID,
	}
	if err := uc.deletions.Create(ctx, dr); err != nil {
		return nil, err
	}

	link := DeletionLink(uc.messenger.opts.PublicBaseURL, dr.Code)
	sideCtx, cancel := uc.messenger.detach(ctx)
	defer cancel()
	uc.messenger.send(
		sideCtx,
		tenant,
		notify.KindDeletionRequest,
		ap.Client.Phone,
		deletionRequestText(ap.Client.Name, dr.Code, link),
		nil,
	)

	uc.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		ActorID:  actorID,
		Action:   audit.ActionDeletionRequested,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"code": dr.Code.String()},
	})

	return dr, nil
}

// ======================================================
// Resposta do cliente
// ======================================================

type ResolveDeletion struct {
	catalog   domain.Catalog
	deletions domain.DeletionRepository
	audit     *audit.Dispatcher
	messenger messenger
	now       func() time.Time
}

func NewResolveDeletion(
	catalog domain.Catalog,
	deletions domain.DeletionRepository,
	notifier notify.Notifier,
	audit *audit.Dispatcher,
	opts Options,
) *ResolveDeletion {
	return &ResolveDeletion{
		catalog:   catalog,
		deletions: deletions,
		audit:     audit,
		messenger: newMessenger(notifier, opts),
		now:       time.Now,
	}
}

// Execute aprova (remove o agendamento) ou nega. Pedido já resolvido
// devolve ErrAlreadyResolved sem tocar no agendamento.
func (uc *ResolveDeletion) Execute(
	ctx context.Context,
	code uuid.UUID,
	approve bool,
) (*models.DeletionRequest, error) {

	current, err := uc.deletions.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	tenant, err := uc.catalog.GetTenant(ctx, current.TenantID)
	if err != nil {
		return nil, err
	}

	dr, err := uc.deletions.Resolve(ctx, code, approve, timezone.WallClock(uc.now(), tenant.Timezone))
	if err != nil {
		return nil, err
	}

	kind, text, action := notify.KindDeletionCancelled, deletionCancelledText, audit.ActionDeletionDenied
	if approve {
		kind, text, action = notify.KindDeletionCompleted, deletionCompletedText, audit.ActionDeletionApproved
	}

	sideCtx, cancel := uc.messenger.detach(ctx)
	defer cancel()
	if client, err := uc.catalog.GetClient(sideCtx, tenant.ID, dr.ClientID); err == nil {
		uc.messenger.send(sideCtx, tenant, kind, client.Phone, text, nil)
	} else {
		log.Warn().Err(err).Uint("tenant_id", tenant.ID).Msg("deletion notice without client")
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		Action:   action,
		Entity:   "deletion_request",
		EntityID: &dr.ID,
		Metadata: map[string]any{"code": dr.Code.String()},
	})

	return dr, nil
}

// ======================================================
// Consulta pública
// ======================================================

type DeletionStatusView struct {
	Status string `json:"status"`
	Slug   string `json:"slug"`
}

type GetDeletionStatus struct {
	catalog   domain.Catalog
	deletions domain.DeletionRepository
}

func NewGetDeletionStatus(
	catalog domain.Catalog,
	deletions domain.DeletionRepository,
) *GetDeletionStatus {
	return &GetDeletionStatus{catalog: catalog, deletions: deletions}
}

func (uc *GetDeletionStatus) Execute(
	ctx context.Context,
	code uuid.UUID,
) (*DeletionStatusView, error) {

	dr, err := uc.deletions.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	tenant, err := uc.catalog.GetTenant(ctx, dr.TenantID)
	if err != nil {
		return nil, err
	}

	return &DeletionStatusView{Status: dr.Status, Slug: tenant.Slug}, nil
}
