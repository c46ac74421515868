package models

import "time"

// TenantTheme guarda as cores da página pública do tenant.
type TenantTheme struct {
	ID       uint `gorm:"primaryKey" json:"-"`
	TenantID uint `gorm:"uniqueIndex;not null" json:"tenant_id"`

	PrimaryColor        string `gorm:"size:7;not null" json:"primary_color"`
	SecondaryColor      string `gorm:"size:7;not null" json:"secondary_color"`
	TextColor           string `gorm:"size:7;not null" json:"text_color"`
	TextColorLight      string `gorm:"size:7;not null" json:"text_color_light"`
	ButtonColor         string `gorm:"size:7;not null" json:"button_color"`
	ButtonTextColor     string `gorm:"size:7;not null" json:"button_text_color"`
	CardBackgroundColor string `gorm:"size:7;not null" json:"card_background_color"`
	CardTextColor       string `gorm:"size:7;not null" json:"card_text_color"`
	BackgroundColor     string `gorm:"size:7;not null" json:"background_color"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTheme é o que o tenant vê antes de salvar as próprias cores.
func DefaultTheme(tenantID uint) TenantTheme {
	return TenantTheme{
		TenantID:            tenantID,
		PrimaryColor:        "#007bff",
		SecondaryColor:      "#6c757d",
		TextColor:           "#212529",
		TextColorLight:      "#f8f9fa",
		ButtonColor:         "#007bff",
		ButtonTextColor:     "#f8f9fa",
		CardBackgroundColor: "#ffffff",
		CardTextColor:       "#212529",
		BackgroundColor:     "#f5f6fa",
	}
}
