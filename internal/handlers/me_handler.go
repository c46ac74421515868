package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// MeHandler expõe e ajusta o próprio tenant logado.
type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

type UpdateTenantRequest struct {
	Name                *string `json:"name"`
	Timezone            *string `json:"timezone"`
	ReminderLeadMinutes *int    `json:"reminder_lead_minutes" binding:"omitempty,min=0"`
	AutoComplete        *bool   `json:"auto_complete"`
	GatewayAppKey       *string `json:"gateway_app_key"`
	GatewayAuthKey      *string `json:"gateway_auth_key"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).
		First(&tenant, middleware.TenantID(c)).Error; err != nil {
		httperr.NotFound(c, httperr.CodeNotFound, "Estabelecimento não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tenant": tenantView(&tenant)})
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	var req UpdateTenantRequest
	if !bindJSON(c, &req) {
		return
	}

	updates := map[string]any{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Nome obrigatório.")
			return
		}
		updates["name"] = name
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Fuso horário inválido.")
			return
		}
		updates["timezone"] = *req.Timezone
	}
	if req.ReminderLeadMinutes != nil {
		updates["reminder_lead_minutes"] = *req.ReminderLeadMinutes
	}
	if req.AutoComplete != nil {
		updates["auto_complete"] = *req.AutoComplete
	}
	if req.GatewayAppKey != nil {
		updates["gateway_app_key"] = strings.TrimSpace(*req.GatewayAppKey)
	}
	if req.GatewayAuthKey != nil {
		updates["gateway_auth_key"] = strings.TrimSpace(*req.GatewayAuthKey)
	}

	tenantID := middleware.TenantID(c)
	db := h.db.WithContext(c.Request.Context())

	if len(updates) > 0 {
		if err := db.Model(&models.Tenant{}).
			Where("id = ?", tenantID).
			Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	h.GetMe(c)
}
