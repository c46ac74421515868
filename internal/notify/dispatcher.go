package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/metrics"
)

type Options struct {
	Workers int
	Timeout time.Duration
}

// Dispatcher desacopla o envio da reserva: Notify só enfileira, e um pool
// de workers fala com o gateway. Falha de entrega vai para a dead letter,
// sem nova tentativa.
type Dispatcher struct {
	queue   Queue
	gateway Gateway
	creds   CredentialSource
	workers int
	timeout time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDispatcher(queue Queue, gateway Gateway, creds CredentialSource, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Dispatcher{
		queue:   queue,
		gateway: gateway,
		creds:   creds,
		workers: opts.Workers,
		timeout: opts.Timeout,
	}
}

func (d *Dispatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	log.Info().Int("workers", d.workers).Msg("notification dispatcher started")
}

// Stop é o Shutdown com prazo de uma entrega.
func (d *Dispatcher) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	d.Shutdown(ctx)
}

// Shutdown interrompe os workers, espera as entregas em andamento e, se a
// fila é em processo, entrega o que sobrou até ela esvaziar ou ctx vencer.
// Devolve quantas mensagens ficaram sem entrega.
func (d *Dispatcher) Shutdown(ctx context.Context) int {
	if d.cancel == nil {
		return 0
	}
	d.cancel()
	d.wg.Wait()
	d.cancel = nil

	dropped := d.drain(ctx)
	if dropped > 0 {
		metrics.Notifications.WithLabelValues("shutdown", "dropped").Add(float64(dropped))
		log.Warn().Int("dropped", dropped).Msg("notification queue not drained before shutdown deadline")
	}
	log.Info().Msg("notification dispatcher stopped")
	return dropped
}

// drainable é a fila que some com o processo; a do redis sobrevive ao
// restart e não precisa ser esvaziada aqui.
type drainable interface {
	TryPop() (Message, bool)
	Len() int
}

func (d *Dispatcher) drain(ctx context.Context) int {
	q, ok := d.queue.(drainable)
	if !ok {
		return 0
	}
	for ctx.Err() == nil {
		msg, ok := q.TryPop()
		if !ok {
			return 0
		}
		d.deliver(msg)
	}
	return q.Len()
}

func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	if msg.Phone == "" {
		metrics.Notifications.WithLabelValues(msg.Kind, "skipped").Inc()
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.EnqueuedAt = time.Now().UTC()

	// a reserva já foi gravada; cancelamento do cliente não derruba o envio
	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := d.queue.Push(pushCtx, msg); err != nil {
		metrics.Notifications.WithLabelValues(msg.Kind, "dropped").Inc()
		log.Warn().Err(err).
			Uint("tenant_id", msg.TenantID).
			Str("kind", msg.Kind).
			Msg("notification dropped")
	}
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()

	for {
		msg, err := d.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Int("worker", id).Msg("notification queue pop failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	logger := log.With().
		Str("message_id", msg.ID).
		Uint("tenant_id", msg.TenantID).
		Str("kind", msg.Kind).
		Logger()

	cred, err := d.creds.GatewayCredentials(ctx, msg.TenantID)
	if err != nil || !cred.Valid() {
		metrics.Notifications.WithLabelValues(msg.Kind, "skipped").Inc()
		logger.Warn().Err(err).Msg("tenant without gateway credentials")
		_ = d.queue.DeadLetter(ctx, msg, "missing_credentials")
		return
	}

	if msg.SendAt != nil {
		err = d.gateway.ScheduleSend(ctx, cred, msg.Phone, msg.Text, *msg.SendAt)
	} else {
		err = d.gateway.Send(ctx, cred, msg.Phone, msg.Text)
	}

	if err != nil {
		metrics.Notifications.WithLabelValues(msg.Kind, "failed").Inc()
		logger.Warn().Err(err).Msg("gateway delivery failed")
		if dlErr := d.queue.DeadLetter(ctx, msg, err.Error()); dlErr != nil {
			logger.Error().Err(dlErr).Msg("dead letter failed")
		}
		return
	}

	metrics.Notifications.WithLabelValues(msg.Kind, "sent").Inc()
	logger.Debug().Msg("notification sent")
}
