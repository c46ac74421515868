package appointment

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

// Options são os parâmetros comuns dos fluxos que falam com o cliente.
type Options struct {
	Region        string        // região para normalizar telefone
	PublicBaseURL string        // base dos links enviados
	SideTimeout   time.Duration // prazo dos efeitos após o commit; zero usa defaultSideTimeout
}

const defaultSideTimeout = 5 * time.Second

// DeletionLink é o link de confirmação de exclusão enviado ao cliente.
func DeletionLink(base string, code uuid.UUID) string {
	return strings.TrimRight(base, "/") + "/confirmar-exclusao?codigo=" + url.QueryEscape(code.String())
}

// ------------------------------------------------------
// Textos
// ------------------------------------------------------

func appointmentLines(staff, service string, start time.Time) string {
	return fmt.Sprintf(
		"👤 Profissional: %s\n✂️ Serviço: %s\n📅 Data: %s\n⏰ Horário: %s",
		staff,
		service,
		start.Format("02/01/2006"),
		start.Format("15:04"),
	)
}

func confirmationText(staff, service string, start time.Time) string {
	return "*Confirmação de Agendamento*\n\nOlá! Seu agendamento foi confirmado:\n\n" +
		appointmentLines(staff, service, start)
}

func reminderText(staff, service string, start time.Time, link string) string {
	return "*Lembrete de Agendamento*\n\nSeu horário está próximo!\n\n" +
		appointmentLines(staff, service, start) +
		"\n\nSe precisar cancelar, clique aqui: " + link
}

func deletionRequestText(name string, code uuid.UUID, link string) string {
	return fmt.Sprintf(
		"Olá, %s!\n\nVocê confirma a exclusão do seu agendamento?\n\nCódigo: *%s*\n\n✅ Confirmar: %s",
		name,
		code,
		link,
	)
}

const (
	deletionCompletedText = "A Solicitação de exclusão foi concluída com sucesso!"
	deletionCancelledText = "A solicitação de exclusão do seu agendamento foi cancelada com sucesso."
)

// ------------------------------------------------------
// Envio
// ------------------------------------------------------

type messenger struct {
	notifier notify.Notifier
	opts     Options
}

func newMessenger(n notify.Notifier, opts Options) messenger {
	if n == nil {
		n = notify.Nop{}
	}
	if opts.SideTimeout <= 0 {
		opts.SideTimeout = defaultSideTimeout
	}
	return messenger{notifier: n, opts: opts}
}

// detach solta os efeitos colaterais do cancelamento da requisição,
// mas mantém um prazo próprio para a escrita no banco e na fila.
func (m messenger) detach(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), m.opts.SideTimeout)
}

// send só enfileira quando o tenant tem gateway; sem ele não há quem entregue.
func (m messenger) send(
	ctx context.Context,
	tenant *models.Tenant,
	kind string,
	phone string,
	text string,
	sendAt *time.Time,
) {
	if !tenant.HasGateway() {
		return
	}
	m.notifier.Notify(ctx, notify.Message{
		Kind:     kind,
		TenantID: tenant.ID,
		Phone:    notify.NormalizePhone(phone, m.opts.Region),
		Text:     text,
		SendAt:   sendAt,
	})
}
