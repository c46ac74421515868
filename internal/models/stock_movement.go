package models

import "time"

// StockMovement registra cada alteração de estoque de um produto.
type StockMovement struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	TenantID  uint `gorm:"index;not null" json:"tenant_id"`
	ProductID uint `gorm:"index;not null" json:"product_id"`

	Kind        string `gorm:"size:20;not null" json:"kind"` // in | out | sale
	Quantity    int    `gorm:"not null" json:"quantity"`     // positivo entra, negativo sai
	StockBefore int    `gorm:"not null" json:"stock_before"`
	StockAfter  int    `gorm:"not null" json:"stock_after"`
	Reason      string `gorm:"size:255" json:"reason"`
	SaleID      *uint  `gorm:"index" json:"sale_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
