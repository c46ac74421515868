package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/agenda-scheduler/internal/domain/inventory"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) GetProduct(
	ctx context.Context,
	tenantID uint,
	id uint,
) (*models.Product, error) {

	var p models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&p).Error; err != nil {
		return nil, notFound(err, inventory.ErrProductNotFound)
	}
	return &p, nil
}

// --------------------------------------------------
// Estoque
// --------------------------------------------------

// lockProduct trava a linha do produto até o fim da transação.
func lockProduct(tx *gorm.DB, tenantID, productID uint) (*models.Product, error) {
	var p models.Product
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND tenant_id = ?", productID, tenantID).
		First(&p).Error; err != nil {
		return nil, notFound(err, inventory.ErrProductNotFound)
	}
	return &p, nil
}

// applyDelta altera o estoque e grava a movimentação correspondente.
func applyDelta(
	tx *gorm.DB,
	p *models.Product,
	delta int,
	kind string,
	reason string,
	saleID *uint,
) (*models.StockMovement, error) {

	after := p.Stock + delta
	if after < 0 {
		return nil, inventory.ErrInsufficientStock
	}

	if err := tx.Model(p).Update("stock", after).Error; err != nil {
		return nil, err
	}

	mov := &models.StockMovement{
		TenantID:    p.TenantID,
		ProductID:   p.ID,
		Kind:        kind,
		Quantity:    delta,
		StockBefore: p.Stock,
		StockAfter:  after,
		Reason:      reason,
		SaleID:      saleID,
	}
	if err := tx.Create(mov).Error; err != nil {
		return nil, err
	}

	p.Stock = after
	return mov, nil
}

func (r *InventoryGormRepository) Move(
	ctx context.Context,
	tenantID uint,
	productID uint,
	delta int,
	kind string,
	reason string,
) (*models.StockMovement, error) {

	var mov *models.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProduct(tx, tenantID, productID)
		if err != nil {
			return err
		}

		mov, err = applyDelta(tx, p, delta, kind, reason, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Sell confere o cliente, baixa o estoque e grava a venda. Preço unitário
// zerado na venda assume o preço do produto.
func (r *InventoryGormRepository) Sell(
	ctx context.Context,
	sale *models.ProductSale,
) (*models.StockMovement, error) {

	var mov *models.StockMovement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := lockProduct(tx, sale.TenantID, sale.ProductID)
		if err != nil {
			return err
		}
		if !p.Active {
			return inventory.ErrProductInactive
		}

		if sale.ClientID != nil {
			var count int64
			if err := tx.Model(&models.Client{}).
				Where("id = ? AND tenant_id = ?", *sale.ClientID, sale.TenantID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return inventory.ErrClientNotFound
			}
		}

		if p.Stock < sale.Quantity {
			return inventory.ErrInsufficientStock
		}

		if sale.UnitPrice.IsZero() {
			sale.UnitPrice = p.Price
		}
		sale.Total = sale.UnitPrice.Mul(decimal.NewFromInt(int64(sale.Quantity))).Round(2)

		if err := tx.Omit("Product", "Client").Create(sale).Error; err != nil {
			return err
		}

		mov, err = applyDelta(tx, p, -sale.Quantity, inventory.KindSale, "", &sale.ID)
		if err != nil {
			return err
		}

		sale.Product = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// --------------------------------------------------
// Leitura
// --------------------------------------------------

func (r *InventoryGormRepository) ListMovements(
	ctx context.Context,
	tenantID uint,
	productID uint,
	limit int,
) ([]models.StockMovement, error) {

	var list []models.StockMovement
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND product_id = ?", tenantID, productID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListSales pagina as vendas de [from, to), mais recentes primeiro.
func (r *InventoryGormRepository) ListSales(
	ctx context.Context,
	tenantID uint,
	from time.Time,
	to time.Time,
	page int,
	limit int,
) ([]models.ProductSale, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.ProductSale{}).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []models.ProductSale
	if err := q.
		Preload("Product").
		Preload("Client").
		Order("created_at DESC, id DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sales).Error; err != nil {
		return nil, 0, err
	}
	return sales, total, nil
}

// Compile-time check
var _ inventory.Store = (*InventoryGormRepository)(nil)
