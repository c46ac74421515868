package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
)

type AuthHandler struct {
	db     *gorm.DB
	config *config.Config
	sweep  *ucAppointment.SweepAutoComplete
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	sweep *ucAppointment.SweepAutoComplete,
) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, sweep: sweep}
}

// --------- Requests ---------

// Login aceita e-mail ou telefone no mesmo campo.
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	login := strings.TrimSpace(req.Login)

	q := h.db.WithContext(c.Request.Context())
	if strings.Contains(login, "@") {
		q = q.Where("email = ?", strings.ToLower(login))
	} else {
		phone := notify.NormalizePhone(login, h.config.DefaultRegion)
		if phone == "" {
			invalidCredentials(c)
			return
		}
		q = q.Where("phone = ?", phone)
	}

	var tenant models.Tenant
	if err := q.First(&tenant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			invalidCredentials(c)
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(tenant.PasswordHash), []byte(req.Password)); err != nil {
		invalidCredentials(c)
		return
	}

	if !tenant.Active {
		httperr.Respond(c, httperr.ErrBusiness(httperr.CodeTenantInactive))
		return
	}

	if tenant.AutoComplete {
		if _, err := h.sweep.Execute(c.Request.Context(), tenant.ID); err != nil {
			log.Warn().Err(err).Uint("tenant_id", tenant.ID).Msg("auto complete sweep failed")
		}
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, tenant.ID, tenant.ID, middleware.RoleTenant)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tenant": tenantView(&tenant),
		"token":  token,
	})
}

func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if !bindJSON(c, &req) {
		return
	}

	var admin models.PlatformAdmin
	if err := h.db.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&admin).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			invalidCredentials(c)
			return
		}
		httperr.Respond(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		invalidCredentials(c)
		return
	}

	token, err := middleware.IssueToken(h.config.JWTSecret, admin.ID, 0, middleware.RoleAdmin)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admin": gin.H{
			"id":    admin.ID,
			"name":  admin.Name,
			"email": admin.Email,
		},
		"token": token,
	})
}

func invalidCredentials(c *gin.Context) {
	httperr.Unauthorized(c, "invalid_credentials", "Credenciais inválidas.")
}

// tenantView é o tenant sem segredos do gateway.
func tenantView(t *models.Tenant) gin.H {
	return gin.H{
		"id":                    t.ID,
		"name":                  t.Name,
		"slug":                  t.Slug,
		"email":                 t.Email,
		"phone":                 t.Phone,
		"active":                t.Active,
		"timezone":              t.Timezone,
		"reminder_lead_minutes": t.ReminderLeadMinutes,
		"auto_complete":         t.AutoComplete,
		"gateway_configured":    t.HasGateway(),
		"gateway_device_id":     t.GatewayDeviceID,
	}
}
