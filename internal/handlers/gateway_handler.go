package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/agenda-scheduler/internal/audit"
	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

// ======================================================
// HANDLER
// ======================================================

// GatewayHandler pareia o WhatsApp do tenant. O gateway chama o webhook
// quando o aparelho conecta, entregando as chaves de envio.
type GatewayHandler struct {
	catalog *repository.CatalogGormRepository
	devices notify.DeviceManager
	audit   *audit.Dispatcher

	secret  string
	baseURL string
}

func NewGatewayHandler(
	catalog *repository.CatalogGormRepository,
	devices notify.DeviceManager,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *GatewayHandler {
	return &GatewayHandler{
		catalog: catalog,
		devices: devices,
		audit:   audit,
		secret:  cfg.JWTSecret,
		baseURL: cfg.PublicBaseURL,
	}
}

// Payload do webhook. O provedor não é consistente nos nomes.
type GatewayWebhookRequest struct {
	AppKey   string `json:"appkey"`
	AppKey2  string `json:"appKey"`
	AuthKey  string `json:"authkey"`
	AuthKey2 string `json:"authKey"`
	DeviceID string `json:"deviceId"`
}

func (r GatewayWebhookRequest) credentials() notify.Credentials {
	return notify.Credentials{
		AppKey:  strings.TrimSpace(firstNonEmpty(r.AppKey, r.AppKey2)),
		AuthKey: strings.TrimSpace(firstNonEmpty(r.AuthKey, r.AuthKey2)),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// ======================================================
// PAIR / STATUS
// ======================================================

func (h *GatewayHandler) Pair(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	tenant, err := h.catalog.GetTenant(c.Request.Context(), tenantID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	pairing, err := h.devices.PairDevice(c.Request.Context(), deviceName(tenant.Slug), h.webhookURL(tenant.ID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if pairing.DeviceID != "" {
		cred, _ := h.catalog.GatewayCredentials(c.Request.Context(), tenant.ID)
		if err := h.catalog.SaveGatewayDevice(c.Request.Context(), tenant.ID, cred, pairing.DeviceID); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, pairing)
}

func (h *GatewayHandler) Status(c *gin.Context) {
	tenant, err := h.catalog.GetTenant(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	connected, err := h.devices.DeviceConnected(c.Request.Context(), deviceName(tenant.Slug))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected":          connected,
		"gateway_configured": tenant.HasGateway(),
		"device_id":          tenant.GatewayDeviceID,
	})
}

// ======================================================
// WEBHOOK
// ======================================================

func (h *GatewayHandler) Webhook(c *gin.Context) {
	tenantID, ok := paramID(c, "tenantId")
	if !ok {
		return
	}

	if !hmac.Equal([]byte(c.Query("token")), []byte(webhookToken(h.secret, tenantID))) {
		httperr.Unauthorized(c, httperr.CodeUnauthorized, "Token inválido.")
		return
	}

	var req GatewayWebhookRequest
	if !bindJSON(c, &req) {
		return
	}

	cred := req.credentials()
	if !cred.Valid() {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Chaves ausentes.")
		return
	}

	if err := h.catalog.SaveGatewayDevice(c.Request.Context(), tenantID, cred, req.DeviceID); err != nil {
		httperr.Respond(c, err)
		return
	}

	log.Info().Uint("tenant_id", tenantID).Str("device_id", req.DeviceID).Msg("gateway device paired")

	h.audit.Dispatch(audit.Event{
		TenantID: tenantID,
		Action:   audit.ActionGatewayPaired,
		Entity:   "tenant",
		EntityID: &tenantID,
		Metadata: map[string]any{"device_id": req.DeviceID},
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func deviceName(slug string) string {
	return "Dispositivo-" + slug
}

func (h *GatewayHandler) webhookURL(tenantID uint) string {
	return fmt.Sprintf("%s/api/webhooks/gateway/%d?token=%s",
		h.baseURL, tenantID, url.QueryEscape(webhookToken(h.secret, tenantID)))
}

// webhookToken assina o id do tenant; a URL vai para o provedor e volta.
func webhookToken(secret string, tenantID uint) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("gateway-webhook:" + strconv.FormatUint(uint64(tenantID), 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
