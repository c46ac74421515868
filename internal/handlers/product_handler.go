package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/domain/inventory"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
	ucInventory "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/inventory"
)

type ProductHandler struct {
	db       *gorm.DB
	store    *repository.InventoryGormRepository
	uploader *media.Uploader
	move     *ucInventory.MoveStock
	sell     *ucInventory.SellProduct
}

func NewProductHandler(
	db *gorm.DB,
	uploader *media.Uploader,
	move *ucInventory.MoveStock,
	sell *ucInventory.SellProduct,
) *ProductHandler {
	return &ProductHandler{
		db:       db,
		store:    repository.NewInventoryGormRepository(db),
		uploader: uploader,
		move:     move,
		sell:     sell,
	}
}

// --------- Requests ---------

type CreateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=100"`
	Description string          `json:"description" binding:"max=255"`
	Category    string          `json:"category" binding:"max=50"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock" binding:"min=0"`
}

// Estoque não muda por aqui; use as movimentações.
type UpdateProductRequest struct {
	Name        *string          `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string          `json:"description,omitempty" binding:"omitempty,max=255"`
	Category    *string          `json:"category,omitempty" binding:"omitempty,max=50"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}

type StockMoveRequest struct {
	Type     string `json:"type" binding:"required,oneof=in out"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Reason   string `json:"reason" binding:"max=255"`
}

type SaleRequest struct {
	ClientID  *uint            `json:"client_id" binding:"omitempty,min=1"`
	Quantity  int              `json:"quantity" binding:"required,min=1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// --------- CRUD ---------

func (h *ProductHandler) List(c *gin.Context) {
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))
	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", middleware.TenantID(c))

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if c.Query("low_stock") != "" {
		limit, err := strconv.Atoi(c.Query("low_stock"))
		if err != nil || limit < 0 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "low_stock inválido.")
			return
		}
		q = q.Where("stock <= ?", limit)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var products []models.Product
	if err := q.Order("id ASC").Find(&products).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, products)
}

func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Preço não pode ser negativo.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Nome obrigatório.")
		return
	}

	product := models.Product{
		TenantID:    middleware.TenantID(c),
		Name:        name,
		Description: req.Description,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Price:       req.Price.Round(2),
		Stock:       req.Stock,
		Active:      true,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		if product.Stock == 0 {
			return nil
		}
		// estoque inicial também fica no histórico
		return tx.Create(&models.StockMovement{
			TenantID:    product.TenantID,
			ProductID:   product.ID,
			Kind:        inventory.KindIn,
			Quantity:    product.Stock,
			StockBefore: 0,
			StockAfter:  product.Stock,
			Reason:      "estoque inicial",
		}).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	product, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Nome obrigatório.")
			return
		}
		product.Name = name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Preço não pode ser negativo.")
			return
		}
		product.Price = req.Price.Round(2)
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(product).
		Select("name", "description", "category", "price", "active").
		Updates(product).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Delete só remove produto sem vendas; com histórico, desative.
func (h *ProductHandler) Delete(c *gin.Context) {
	product, ok := h.load(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var sold int64
	if err := db.Model(&models.ProductSale{}).
		Where("product_id = ?", product.ID).
		Count(&sold).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if sold > 0 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Produto possui vendas. Desative-o.")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", product.ID).Delete(&models.StockMovement{}).Error; err != nil {
			return err
		}
		return tx.Delete(product).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ProductHandler) UploadImage(c *gin.Context) {
	product, ok := h.load(c)
	if !ok {
		return
	}

	url := uploadImage(c, h.uploader, product.TenantID, "products")
	if url == "" {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(product).
		Update("image_url", url).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	product.ImageURL = url

	c.JSON(http.StatusOK, product)
}

// --------- Estoque ---------

func (h *ProductHandler) MoveStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req StockMoveRequest
	if !bindJSON(c, &req) {
		return
	}

	mov, err := h.move.Execute(c.Request.Context(), ucInventory.MoveStockInput{
		TenantID:  middleware.TenantID(c),
		ProductID: id,
		Kind:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		ActorID:   middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": mov.ProductID,
		"stock":      mov.StockAfter,
		"movement":   mov,
	})
}

func (h *ProductHandler) Movements(c *gin.Context) {
	product, ok := h.load(c)
	if !ok {
		return
	}

	_, limit := pagination(c)
	list, err := h.store.ListMovements(c.Request.Context(), product.TenantID, product.ID, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

// --------- Vendas ---------

func (h *ProductHandler) Sell(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req SaleRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.sell.Execute(c.Request.Context(), ucInventory.SellProductInput{
		TenantID:  middleware.TenantID(c),
		ProductID: id,
		ClientID:  req.ClientID,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
		ActorID:   middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// Sales aceita from/to (YYYY-MM-DD, inclusivos); sem eles, os últimos 30 dias.
func (h *ProductHandler) Sales(c *gin.Context) {
	page, limit := pagination(c)

	tenantID := middleware.TenantID(c)
	tz := tenantTimezone(h.db, c, tenantID)

	from, to, ok := dateRange(c, 0, func() time.Time { return dayOf(timezone.NowIn(tz)) })
	if !ok {
		return
	}
	if c.Query("from") == "" && c.Query("to") == "" && c.Query("date") == "" {
		from = to.AddDate(0, 0, -30)
	}

	// datas de parede do tenant; created_at é instante
	sales, total, err := h.store.ListSales(
		c.Request.Context(),
		tenantID,
		timezone.Instant(from, tz).UTC(),
		timezone.Instant(to.AddDate(0, 0, 1), tz).UTC(),
		page,
		limit,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, sales, page, limit, total)
}

func (h *ProductHandler) load(c *gin.Context) (*models.Product, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	product, err := h.store.GetProduct(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		if errors.Is(err, inventory.ErrProductNotFound) {
			httperr.NotFound(c, httperr.CodeNotFound, "Produto não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return product, true
}
