package models

import "time"

type StaffMember struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	TenantID uint   `gorm:"index;not null" json:"tenant_id"`
	Tenant   Tenant `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Phone    string `gorm:"size:20" json:"phone"`
	PhotoURL string `gorm:"size:500" json:"photo_url"`
	Active   bool   `gorm:"default:true" json:"active"`

	// vazio = atende todos os serviços do tenant
	Services []Service `gorm:"many2many:staff_services;joinForeignKey:StaffID;joinReferences:ServiceID" json:"services,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
