package inventory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-scheduler/internal/db/dbtest"
	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/inventory"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type env struct {
	store   *repository.InventoryGormRepository
	tenant  models.Tenant
	product models.Product
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db := dbtest.New(t)
	e := &env{store: repository.NewInventoryGormRepository(db)}

	e.tenant = models.Tenant{Name: "T", Slug: "t", Email: "t@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, db.Create(&e.tenant).Error)

	e.product = models.Product{
		TenantID: e.tenant.ID,
		Name:     "Cera",
		Price:    decimal.RequireFromString("30"),
		Stock:    4,
		Active:   true,
	}
	require.NoError(t, db.Create(&e.product).Error)
	return e
}

func TestMoveStock(t *testing.T) {
	e := newEnv(t)
	uc := NewMoveStock(e.store, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		in   MoveStockInput
		code string
	}{
		{"quantidade zero", MoveStockInput{Kind: domain.KindIn}, httperr.CodeInvalidInput},
		{"tipo venda não é manual", MoveStockInput{Kind: domain.KindSale, Quantity: 1}, httperr.CodeInvalidInput},
		{"saída maior que o estoque", MoveStockInput{Kind: domain.KindOut, Quantity: 5}, httperr.CodeInsufficientStock},
		{"produto desconhecido", MoveStockInput{Kind: domain.KindIn, Quantity: 1, ProductID: 9999}, httperr.CodeNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			in.TenantID = e.tenant.ID
			if in.ProductID == 0 {
				in.ProductID = e.product.ID
			}
			_, err := uc.Execute(ctx, in)
			require.Error(t, err)
			assert.Equal(t, tt.code, httperr.CodeOf(err))
		})
	}

	mov, err := uc.Execute(ctx, MoveStockInput{TenantID: e.tenant.ID, ProductID: e.product.ID, Kind: domain.KindOut, Quantity: 4, Reason: "  perda "})
	require.NoError(t, err)
	assert.Equal(t, -4, mov.Quantity)
	assert.Equal(t, 0, mov.StockAfter)
	assert.Equal(t, "perda", mov.Reason)
}

func TestSellProduct(t *testing.T) {
	e := newEnv(t)
	uc := NewSellProduct(e.store, nil)
	ctx := context.Background()

	zero := decimal.Zero
	_, err := uc.Execute(ctx, SellProductInput{TenantID: e.tenant.ID, ProductID: e.product.ID, Quantity: 1, UnitPrice: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)

	_, err = uc.Execute(ctx, SellProductInput{TenantID: e.tenant.ID, ProductID: e.product.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	promo := decimal.RequireFromString("25.555")
	res, err := uc.Execute(ctx, SellProductInput{TenantID: e.tenant.ID, ProductID: e.product.ID, Quantity: 3, UnitPrice: &promo})
	require.NoError(t, err)
	assert.True(t, res.Sale.UnitPrice.Equal(decimal.RequireFromString("25.56")))
	assert.True(t, res.Sale.Total.Equal(decimal.RequireFromString("76.68")), res.Sale.Total.String())
	assert.Equal(t, 1, res.StockAfter)
	assert.Equal(t, domain.KindSale, res.Movement.Kind)

	_, err = uc.Execute(ctx, SellProductInput{TenantID: e.tenant.ID, ProductID: e.product.ID, Quantity: 2})
	assert.Equal(t, httperr.CodeInsufficientStock, httperr.CodeOf(err))
}
