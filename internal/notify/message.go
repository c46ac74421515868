package notify

import (
	"context"
	"time"
)

// Tipos de mensagem
const (
	KindConfirmation      = "confirmation"
	KindReminder          = "reminder"
	KindDeletionRequest   = "deletion_request"
	KindDeletionCompleted = "deletion_completed"
	KindDeletionCancelled = "deletion_cancelled"
)

type Message struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	TenantID uint       `json:"tenant_id"`
	Phone    string     `json:"phone"`
	Text     string     `json:"text"`
	SendAt   *time.Time `json:"send_at,omitempty"` // UTC; nil = imediato

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// Notifier é o que os use cases enxergam: enfileira e segue.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

// Nop descarta tudo. Usado quando o gateway não está configurado.
type Nop struct{}

func (Nop) Notify(context.Context, Message) {}
