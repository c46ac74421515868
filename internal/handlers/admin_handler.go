package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	ucTenant "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/tenant"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

// ======================================================
// HANDLER (admin da plataforma)
// ======================================================

type AdminHandler struct {
	db           *gorm.DB
	createTenant *ucTenant.CreateTenant
	audit        *audit.Dispatcher

	emailCheck func(ctx context.Context, email string) bool
}

func NewAdminHandler(
	db *gorm.DB,
	createTenant *ucTenant.CreateTenant,
	audit *audit.Dispatcher,
) *AdminHandler {
	return &AdminHandler{
		db:           db,
		createTenant: createTenant,
		audit:        audit,
		emailCheck:   validators.IsEmailDomainValid,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateTenantRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=6"`
	Timezone string `json:"timezone"`

	ReminderLeadMinutes int  `json:"reminder_lead_minutes" binding:"min=0"`
	AutoComplete        bool `json:"auto_complete"`

	GatewayAppKey  string `json:"gateway_app_key"`
	GatewayAuthKey string `json:"gateway_auth_key"`
}

// ======================================================
// TENANTS
// ======================================================

func (h *AdminHandler) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	if !h.emailCheck(c.Request.Context(), req.Email) {
		httperr.BadRequest(c, "invalid_email_domain", "O domínio do e-mail informado não parece ser válido.")
		return
	}

	tenant, err := h.createTenant.Execute(c.Request.Context(), ucTenant.CreateTenantInput{
		Name:                req.Name,
		Email:               req.Email,
		Phone:               req.Phone,
		Password:            req.Password,
		Timezone:            req.Timezone,
		ReminderLeadMinutes: req.ReminderLeadMinutes,
		AutoComplete:        req.AutoComplete,
		GatewayAppKey:       req.GatewayAppKey,
		GatewayAuthKey:      req.GatewayAuthKey,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"tenant": tenantView(tenant)})
}

func (h *AdminHandler) ListTenants(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Tenant{})

	if active := c.Query("active"); active != "" {
		v, err := strconv.ParseBool(active)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "active inválido.")
			return
		}
		q = q.Where("active = ?", v)
	}

	var tenants []models.Tenant
	if err := q.Order("id ASC").Find(&tenants).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	out := make([]gin.H, 0, len(tenants))
	for i := range tenants {
		out = append(out, tenantView(&tenants[i]))
	}

	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

func (h *AdminHandler) Activate(c *gin.Context)   { h.setActive(c, true) }
func (h *AdminHandler) Deactivate(c *gin.Context) { h.setActive(c, false) }

func (h *AdminHandler) setActive(c *gin.Context, active bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	tenant, err := ucTenant.SetActive(c.Request.Context(), h.db, id, active)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		TenantID: tenant.ID,
		ActorID:  middleware.ActorID(c),
		Action:   audit.ActionTenantStatusChanged,
		Entity:   "tenant",
		EntityID: &tenant.ID,
		Metadata: map[string]any{"active": active},
	})

	c.JSON(http.StatusOK, gin.H{"tenant": tenantView(tenant)})
}
