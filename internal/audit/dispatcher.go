package audit

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Event struct {
	TenantID uint
	ActorID  *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Ações registradas
const (
	ActionAppointmentCreated   = "appointment_created"
	ActionAppointmentCompleted = "appointment_completed"
	ActionAppointmentDeleted   = "appointment_deleted"
	ActionDeletionRequested    = "deletion_requested"
	ActionDeletionApproved     = "deletion_approved"
	ActionDeletionDenied       = "deletion_denied"
	ActionAutoCompleted        = "appointments_auto_completed"
	ActionStaffDeleted         = "staff_deleted"
	ActionGatewayPaired        = "gateway_paired"
	ActionTenantStatusChanged  = "tenant_status_changed"
	ActionStockMoved           = "stock_moved"
	ActionProductSold          = "product_sold"
)

type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}
	once   sync.Once
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		if err := d.logger.Log(ev); err != nil {
			log.Error().
				Err(err).
				Str("action", ev.Action).
				Uint("tenant_id", ev.TenantID).
				Msg("audit write failed")
		}
	}
}

// Dispatch nunca bloqueia a requisição. Dispatcher nil descarta.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}

	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		log.Warn().Str("action", ev.Action).Msg("audit queue full, dropping event")
	}
}

// Close drena a fila e espera o worker terminar.
func (d *Dispatcher) Close() {
	if d == nil {
		return
	}
	d.once.Do(func() { close(d.queue) })
	<-d.done
}
