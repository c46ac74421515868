package inventory

import (
	"context"
	"time"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// Tipos de movimentação de estoque
const (
	KindIn   = "in"
	KindOut  = "out"
	KindSale = "sale"
)

var (
	ErrProductNotFound   = httperr.Detailed(httperr.CodeNotFound, "product not found")
	ErrClientNotFound    = httperr.Detailed(httperr.CodeNotFound, "client not found")
	ErrProductInactive   = httperr.Detailed(httperr.CodeInvalidInput, "product is inactive")
	ErrInvalidQuantity   = httperr.Detailed(httperr.CodeInvalidInput, "quantity must be positive")
	ErrInvalidKind       = httperr.Detailed(httperr.CodeInvalidInput, "movement type must be in or out")
	ErrInvalidPrice      = httperr.Detailed(httperr.CodeInvalidInput, "unit price must be positive")
	ErrInsufficientStock = httperr.ErrBusiness(httperr.CodeInsufficientStock)
)

// Store guarda produtos, movimentações e vendas. Toda alteração de
// estoque trava a linha do produto e grava a movimentação junto.
type Store interface {
	GetProduct(ctx context.Context, tenantID, id uint) (*models.Product, error)

	// Move soma delta ao estoque. Resultado negativo → ErrInsufficientStock.
	Move(
		ctx context.Context,
		tenantID uint,
		productID uint,
		delta int,
		kind string,
		reason string,
	) (*models.StockMovement, error)

	// Sell baixa o estoque e grava a venda na mesma transação.
	Sell(ctx context.Context, sale *models.ProductSale) (*models.StockMovement, error)

	ListMovements(ctx context.Context, tenantID, productID uint, limit int) ([]models.StockMovement, error)
	ListSales(
		ctx context.Context,
		tenantID uint,
		from time.Time,
		to time.Time,
		page int,
		limit int,
	) ([]models.ProductSale, int64, error)
}
