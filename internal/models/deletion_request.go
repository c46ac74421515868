package models

import (
	"time"

	"github.com/google/uuid"
)

type DeletionRequest struct {
	ID       uint      `gorm:"primaryKey" json:"-"`
	Code     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"code"`
	TenantID uint      `gorm:"index;not null" json:"tenant_id"`

	// nil depois que o agendamento é removido
	AppointmentID *uint  `gorm:"index" json:"appointment_id"`
	ClientID      uint   `json:"client_id"`
	Status        string `gorm:"size:20;not null;default:'pending'" json:"status"`

	ResolvedAt *time.Time `json:"resolved_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
