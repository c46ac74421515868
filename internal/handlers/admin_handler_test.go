package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	ucTenant "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/tenant"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminRouter(t *testing.T, db *gorm.DB, domainOK bool) *gin.Engine {
	t.Helper()

	h := NewAdminHandler(db, ucTenant.NewCreateTenant(db, "BR"), nil)
	h.emailCheck = func(context.Context, string) bool { return domainOK }

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextActorID, uint(1))
		c.Next()
	})
	r.GET("/tenants", h.ListTenants)
	r.POST("/tenants", h.CreateTenant)
	r.PATCH("/tenants/:id/activate", h.Activate)
	r.PATCH("/tenants/:id/deactivate", h.Deactivate)
	return r
}

func send(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdmin_CreateTenant(t *testing.T) {
	db := dbtest.New(t)
	r := adminRouter(t, db, true)

	w := send(r, http.MethodPost, "/tenants", gin.H{
		"name":            "Clínica Bem Estar",
		"email":           "Contato@BemEstar.com",
		"phone":           "(21) 98888-1111",
		"password":        "segredo1",
		"gateway_app_key": "app",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		Tenant map[string]any `json:"tenant"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "clinica-bem-estar", body.Tenant["slug"])
	assert.Equal(t, "contato@bemestar.com", body.Tenant["email"])
	assert.Equal(t, "5521988881111", body.Tenant["phone"])
	assert.Equal(t, false, body.Tenant["gateway_configured"])
	assert.NotContains(t, w.Body.String(), "segredo1")

	w = send(r, http.MethodPost, "/tenants", gin.H{
		"name":     "Outra",
		"email":    "contato@bemestar.com",
		"password": "segredo1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdmin_CreateTenant_InvalidDomain(t *testing.T) {
	db := dbtest.New(t)
	r := adminRouter(t, db, false)

	w := send(r, http.MethodPost, "/tenants", gin.H{
		"name":     "Sem MX",
		"email":    "x@dominio-que-nao-existe.invalid",
		"password": "segredo1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_email_domain")

	var count int64
	require.NoError(t, db.Model(&models.Tenant{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAdmin_ActivateDeactivate(t *testing.T) {
	db := dbtest.New(t)
	r := adminRouter(t, db, true)

	tenant := models.Tenant{Name: "A", Slug: "a", Email: "a@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, db.Create(&tenant).Error)

	w := send(r, http.MethodPatch, "/tenants/1/deactivate", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = send(r, http.MethodGet, "/tenants?active=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)

	w = send(r, http.MethodGet, "/tenants?active=true", nil)
	assert.Contains(t, w.Body.String(), `"total":0`)

	w = send(r, http.MethodPatch, "/tenants/1/activate", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Tenant
	require.NoError(t, db.First(&reloaded, tenant.ID).Error)
	assert.True(t, reloaded.Active)

	w = send(r, http.MethodPatch, "/tenants/42/activate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(r, http.MethodGet, "/tenants?active=talvez", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWebhookToken(t *testing.T) {
	a := webhookToken("secret", 7)
	assert.Len(t, a, 64)
	assert.Equal(t, a, webhookToken("secret", 7))
	assert.NotEqual(t, a, webhookToken("secret", 8))
	assert.NotEqual(t, a, webhookToken("other", 7))

	h := &GatewayHandler{secret: "secret", baseURL: "https://agenda.example.com"}
	assert.Equal(t, "https://agenda.example.com/api/webhooks/gateway/7?token="+a, h.webhookURL(7))
}
