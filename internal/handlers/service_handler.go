package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

type ServiceHandler struct {
	db       *gorm.DB
	uploader *media.Uploader
}

func NewServiceHandler(db *gorm.DB, uploader *media.Uploader) *ServiceHandler {
	return &ServiceHandler{db: db, uploader: uploader}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"duration_minutes" binding:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
}

type UpdateServiceRequest struct {
	Name            *string          `json:"name,omitempty"`
	Description     *string          `json:"description,omitempty"`
	DurationMinutes *int             `json:"duration_minutes,omitempty" binding:"omitempty,min=1"`
	Price           *decimal.Decimal `json:"price,omitempty"`
	Active          *bool            `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	activeStr := strings.TrimSpace(c.Query("active"))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", tenantID)

	switch activeStr {
	case "true":
		q = q.Where("active = ?", true)
	case "false":
		q = q.Where("active = ?", false)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Price.IsNegative() {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Preço não pode ser negativo.")
		return
	}

	service := models.Service{
		TenantID:        middleware.TenantID(c),
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price.Round(2),
		Active:          true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Preço não pode ser negativo.")
			return
		}
		service.Price = req.Price.Round(2)
	}
	if req.Active != nil {
		service.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(service).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, service)
}

// Delete só remove serviço sem agendamentos; com histórico, desative.
func (h *ServiceHandler) Delete(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var used int64
	if err := db.Model(&models.Appointment{}).
		Where("service_id = ?", service.ID).
		Count(&used).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if used > 0 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Serviço possui agendamentos. Desative-o.")
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM staff_services WHERE service_id = ?", service.ID).Error; err != nil {
			return err
		}
		return tx.Delete(service).Error
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ServiceHandler) UploadImage(c *gin.Context) {
	service, ok := h.load(c)
	if !ok {
		return
	}

	url := uploadImage(c, h.uploader, service.TenantID, "services")
	if url == "" {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(service).
		Update("image_url", url).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	service.ImageURL = url

	c.JSON(http.StatusOK, service)
}

// load busca o serviço do tenant logado; escreve 404 quando não existe.
func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", id, middleware.TenantID(c)).
		First(&service).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, httperr.CodeNotFound, "Serviço não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &service, true
}
