package models

import "time"

// AvailabilityRule guarda as duas variantes de regra numa só tabela:
// exatamente um entre Weekday e Date é preenchido.
type AvailabilityRule struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"index;not null" json:"staff_id"`

	Weekday *int    `json:"weekday,omitempty"`
	Date    *string `gorm:"size:10;index" json:"date,omitempty"` // YYYY-MM-DD

	StartTime  string  `gorm:"size:5;not null" json:"start_time"` // HH:MM
	EndTime    string  `gorm:"size:5;not null" json:"end_time"`
	LunchStart *string `gorm:"size:5" json:"lunch_start,omitempty"`
	LunchEnd   *string `gorm:"size:5" json:"lunch_end,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
