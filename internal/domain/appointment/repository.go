package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// Catalog resolve as referências de uma reserva. Lookups por id não
// filtram tenant; quem chama decide entre NotFound e Invalid*.
type Catalog interface {
	// -------- Tenant --------
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)

	// -------- Staff / Service --------
	GetStaff(ctx context.Context, id uint) (*models.StaffMember, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)

	// StaffOffers é true quando o profissional atende o serviço ou
	// ainda não tem nenhum serviço vinculado.
	StaffOffers(ctx context.Context, staffID, serviceID uint) (bool, error)

	// -------- Client --------
	GetClient(ctx context.Context, tenantID, id uint) (*models.Client, error)
	GetOrCreateClient(
		ctx context.Context,
		tenantID uint,
		name string,
		phone string,
		email string,
	) (*models.Client, error)
}

// Ledger guarda os agendamentos e garante a não sobreposição por profissional.
type Ledger interface {
	// -------- Appointment (conflict / create) --------
	CheckConflict(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		start time.Time,
		duration time.Duration,
	) (bool, error)

	// Create revalida o conflito na mesma transação do insert.
	// Devolve ErrSlotConflict ou ErrRetryable quando perde a corrida.
	Create(ctx context.Context, in NewAppointment) (*models.Appointment, error)

	// -------- Appointment (state change) --------
	Get(ctx context.Context, tenantID, id uint) (*models.Appointment, error)
	MarkCompleted(ctx context.Context, tenantID, id uint, at time.Time) (bool, error)
	Delete(ctx context.Context, tenantID, id uint) (bool, error)
	SweepAutoComplete(ctx context.Context, tenantID uint, now time.Time) (int64, error)

	// -------- Reads --------
	ListBusy(
		ctx context.Context,
		tenantID uint,
		staffID uint,
		from time.Time,
		to time.Time,
	) ([]availability.Busy, error)

	ListForPeriod(
		ctx context.Context,
		tenantID uint,
		staffID *uint,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)
}

type DeletionRepository interface {
	Create(ctx context.Context, dr *models.DeletionRequest) error
	GetByCode(ctx context.Context, code uuid.UUID) (*models.DeletionRequest, error)

	// Resolve faz a transição atômica a partir de Pending. Na aprovação
	// remove o agendamento na mesma transação.
	Resolve(
		ctx context.Context,
		code uuid.UUID,
		approve bool,
		at time.Time,
	) (*models.DeletionRequest, error)
}
