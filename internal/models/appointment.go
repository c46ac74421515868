package models

import "time"

// Appointment guarda início e fim em horário de parede do tenant.
// EndTime é derivado da duração do serviço no momento da reserva.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TenantID uint `gorm:"index;not null" json:"tenant_id"`

	StaffID uint        `gorm:"index:idx_appointment_staff_start;not null" json:"staff_id"`
	Staff   StaffMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"staff"`

	ClientID uint   `gorm:"not null" json:"client_id"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"client"`

	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	StartTime time.Time `gorm:"type:timestamp;index:idx_appointment_staff_start;not null" json:"start_time"`
	EndTime   time.Time `gorm:"type:timestamp;not null" json:"end_time"`

	Observation string     `gorm:"size:255" json:"observation"`
	Completed   bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt *time.Time `gorm:"type:timestamp" json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
