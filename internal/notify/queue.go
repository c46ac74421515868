package notify

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueFull   = errors.New("notify: queue full")
	ErrQueueClosed = errors.New("notify: queue closed")
)

// Queue guarda mensagens entre o use case e os workers.
type Queue interface {
	Push(ctx context.Context, msg Message) error
	// Pop bloqueia até haver mensagem ou o contexto acabar.
	Pop(ctx context.Context) (Message, error)
	DeadLetter(ctx context.Context, msg Message, reason string) error
}

// MemoryQueue é a fila em processo, com buffer fixo.
type MemoryQueue struct {
	ch chan Message

	mu   sync.Mutex
	dead []DeadMessage
}

type DeadMessage struct {
	Message Message `json:"message"`
	Reason  string  `json:"reason"`
}

const maxDeadInMemory = 100

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 100
	}
	return &MemoryQueue{ch: make(chan Message, size)}
}

func (q *MemoryQueue) Push(_ context.Context, msg Message) error {
	select {
	case q.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *MemoryQueue) Pop(ctx context.Context) (Message, error) {
	select {
	case msg := <-q.ch:
		return msg, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

// TryPop não bloqueia.
func (q *MemoryQueue) TryPop() (Message, bool) {
	select {
	case msg := <-q.ch:
		return msg, true
	default:
		return Message{}, false
	}
}

func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

func (q *MemoryQueue) DeadLetter(_ context.Context, msg Message, reason string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.dead = append(q.dead, DeadMessage{Message: msg, Reason: reason})
	if len(q.dead) > maxDeadInMemory {
		q.dead = q.dead[len(q.dead)-maxDeadInMemory:]
	}
	return nil
}

// Dead devolve uma cópia das mensagens descartadas.
func (q *MemoryQueue) Dead() []DeadMessage {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]DeadMessage, len(q.dead))
	copy(out, q.dead)
	return out
}
