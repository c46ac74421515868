package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

type StaffHandler struct {
	db       *gorm.DB
	catalog  *repository.CatalogGormRepository
	uploader *media.Uploader
	audit    *audit.Dispatcher
	region   string
}

func NewStaffHandler(
	db *gorm.DB,
	cfg *config.Config,
	uploader *media.Uploader,
	audit *audit.Dispatcher,
) *StaffHandler {
	return &StaffHandler{
		db:       db,
		catalog:  repository.NewCatalogGormRepository(db),
		uploader: uploader,
		audit:    audit,
		region:   cfg.DefaultRegion,
	}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// StaffServicesRequest: lista vazia volta a "atende todos os serviços".
type StaffServicesRequest struct {
	ServiceIDs []uint `json:"service_ids" binding:"omitempty,dive,min=1"`
}

type UpdateStaffRequest struct {
	Name   *string `json:"name,omitempty"`
	Phone  *string `json:"phone,omitempty"`
	Active *bool   `json:"active,omitempty"`
}

// --------- Handlers ---------

func (h *StaffHandler) List(c *gin.Context) {
	onlyActive := c.Query("active") == "true"

	staff, err := h.catalog.ListStaff(c.Request.Context(), middleware.TenantID(c), onlyActive)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) Create(c *gin.Context) {
	var req CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Nome obrigatório.")
		return
	}

	staff := models.StaffMember{
		TenantID: middleware.TenantID(c),
		Name:     name,
		Phone:    notify.NormalizePhone(req.Phone, h.region),
		Active:   true,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, staff)
}

func (h *StaffHandler) Update(c *gin.Context) {
	staff, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Nome obrigatório.")
			return
		}
		staff.Name = name
	}
	if req.Phone != nil {
		staff.Phone = notify.NormalizePhone(*req.Phone, h.region)
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := h.db.WithContext(c.Request.Context()).Save(staff).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, staff)
}

// Delete apaga em cascata regras, bloqueios e agendamentos do profissional.
func (h *StaffHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.catalog.DeleteStaff(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.NotFound(c, httperr.CodeNotFound, "Profissional não encontrado.")
		return
	}

	writeAudit(h.audit, c, audit.ActionStaffDeleted, "staff", &id, nil)

	c.Status(http.StatusNoContent)
}

// --------- Serviços atendidos ---------

func (h *StaffHandler) ListServices(c *gin.Context) {
	staff, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(staff).
		Order("id ASC").
		Association("Services").
		Find(&staff.Services); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff_id":     staff.ID,
		"all_services": len(staff.Services) == 0,
		"services":     nonNil(staff.Services),
	})
}

func (h *StaffHandler) SetServices(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req StaffServicesRequest
	if !bindJSON(c, &req) {
		return
	}

	services, err := h.catalog.SetStaffServices(c.Request.Context(), middleware.TenantID(c), id, req.ServiceIDs)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff_id":     id,
		"all_services": len(services) == 0,
		"services":     nonNil(services),
	})
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

func (h *StaffHandler) UploadPhoto(c *gin.Context) {
	staff, ok := h.load(c)
	if !ok {
		return
	}

	url := uploadImage(c, h.uploader, staff.TenantID, "staff")
	if url == "" {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(staff).
		Update("photo_url", url).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	staff.PhotoURL = url

	c.JSON(http.StatusOK, staff)
}

func (h *StaffHandler) load(c *gin.Context) (*models.StaffMember, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var staff models.StaffMember
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND tenant_id = ?", id, middleware.TenantID(c)).
		First(&staff).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, httperr.CodeNotFound, "Profissional não encontrado.")
			return nil, false
		}
		httperr.Respond(c, err)
		return nil, false
	}
	return &staff, true
}
