package models

import "time"

// Tenant é a conta de um estabelecimento. Toda entidade de agenda
// pertence, direta ou indiretamente, a um tenant.
type Tenant struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Slug         string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Email        string `gorm:"size:100;uniqueIndex" json:"email"`
	Phone        string `gorm:"size:20;index" json:"phone"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Active       bool   `gorm:"default:true" json:"active"`
	Timezone     string `gorm:"size:64;default:'America/Sao_Paulo'" json:"timezone"`

	GatewayAppKey   string `gorm:"size:255" json:"-"`
	GatewayAuthKey  string `gorm:"size:255" json:"-"`
	GatewayDeviceID string `gorm:"size:255" json:"gateway_device_id"`

	ReminderLeadMinutes int  `gorm:"default:0" json:"reminder_lead_minutes"`
	AutoComplete        bool `gorm:"default:false" json:"auto_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasGateway indica se o tenant configurou credenciais do gateway de mensagens.
func (t *Tenant) HasGateway() bool {
	return t.GatewayAppKey != "" && t.GatewayAuthKey != ""
}
