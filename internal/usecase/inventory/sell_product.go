package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/inventory"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type SellProductInput struct {
	TenantID  uint
	ProductID uint
	ClientID  *uint
	Quantity  int

	// nil usa o preço de cadastro do produto
	UnitPrice *decimal.Decimal

	ActorID *uint
}

type SaleResult struct {
	Sale       *models.ProductSale   `json:"sale"`
	StockAfter int                   `json:"stock"`
	Movement   *models.StockMovement `json:"movement"`
}

type SellProduct struct {
	store domain.Store
	audit *audit.Dispatcher
}

func NewSellProduct(store domain.Store, audit *audit.Dispatcher) *SellProduct {
	return &SellProduct{store: store, audit: audit}
}

func (uc *SellProduct) Execute(
	ctx context.Context,
	in SellProductInput,
) (*SaleResult, error) {

	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	sale := &models.ProductSale{
		TenantID:  in.TenantID,
		ProductID: in.ProductID,
		ClientID:  in.ClientID,
		Quantity:  in.Quantity,
	}
	if in.UnitPrice != nil {
		if !in.UnitPrice.IsPositive() {
			return nil, domain.ErrInvalidPrice
		}
		sale.UnitPrice = in.UnitPrice.Round(2)
	}

	mov, err := uc.store.Sell(ctx, sale)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		ActorID:  in.ActorID,
		Action:   audit.ActionProductSold,
		Entity:   "product_sale",
		EntityID: &sale.ID,
		Metadata: map[string]any{
			"product_id": sale.ProductID,
			"quantity":   sale.Quantity,
			"total":      sale.Total.StringFixed(2),
		},
	})

	return &SaleResult{Sale: sale, StockAfter: mov.StockAfter, Movement: mov}, nil
}
