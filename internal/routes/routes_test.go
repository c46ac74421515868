package routes

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/db/dbtest"
	"github.com/BruksfildServices01/agenda-scheduler/internal/media"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	"github.com/BruksfildServices01/agenda-scheduler/internal/validators"
)

// 2030-06-03 é uma segunda-feira
const monday = "2030-06-03"

func init() {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(); err != nil {
		panic(err)
	}
}

type recorder struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (r *recorder) Notify(_ context.Context, m notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, m)
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.msgs))
	for _, m := range r.msgs {
		out = append(out, m.Kind)
	}
	return out
}

type fakeDevices struct{}

func (fakeDevices) PairDevice(_ context.Context, name, _ string) (notify.DevicePairing, error) {
	return notify.DevicePairing{QRCode: "qr-" + name, DeviceID: "dev-1"}, nil
}

func (fakeDevices) DeviceConnected(context.Context, string) (bool, error) {
	return true, nil
}

type api struct {
	t        *testing.T
	db       *gorm.DB
	cfg      *config.Config
	router   *gin.Engine
	notifier *recorder

	tenant  models.Tenant
	staff   models.StaffMember
	service models.Service
	token   string
}

func newAPI(t *testing.T) *api {
	t.Helper()

	db := dbtest.New(t)
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		DefaultRegion:    "BR",
		PublicBaseURL:    "https://agenda.example.com",
		MaxSlotRangeDays: 62,
	}

	a := &api{t: t, db: db, cfg: cfg, notifier: &recorder{}}

	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)

	a.tenant = models.Tenant{
		Name:           "Studio Centro",
		Slug:           "studio-centro",
		Email:          "centro@example.com",
		Phone:          "5511988887777",
		PasswordHash:   string(hash),
		Active:         true,
		Timezone:       "America/Sao_Paulo",
		GatewayAppKey:  "app",
		GatewayAuthKey: "auth",
	}
	require.NoError(t, db.Create(&a.tenant).Error)

	a.staff = models.StaffMember{TenantID: a.tenant.ID, Name: "Ana", Active: true}
	require.NoError(t, db.Create(&a.staff).Error)

	a.service = models.Service{
		TenantID:        a.tenant.ID,
		Name:            "Corte",
		DurationMinutes: 30,
		Price:           decimal.RequireFromString("50"),
		Active:          true,
	}
	require.NoError(t, db.Create(&a.service).Error)

	weekday := 1
	require.NoError(t, db.Create(&models.AvailabilityRule{
		StaffID:   a.staff.ID,
		Weekday:   &weekday,
		StartTime: "09:00",
		EndTime:   "12:00",
	}).Error)

	a.token, err = middleware.IssueToken(cfg.JWTSecret, a.tenant.ID, a.tenant.ID, middleware.RoleTenant)
	require.NoError(t, err)

	a.router = gin.New()
	RegisterRoutes(a.router, Deps{
		DB:       db,
		Config:   cfg,
		Notifier: a.notifier,
		Devices:  fakeDevices{},
		Uploader: media.NewUploader(nil),
		Health:   func() gin.H { return gin.H{"gateway_breaker": "closed"} },
	})

	return a
}

func (a *api) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

type slotsResponse struct {
	Slots []struct {
		Date string `json:"date"`
		Time string `json:"time"`
	} `json:"slots"`
}

func (a *api) slotsPath() string {
	return fmt.Sprintf("/api/public/tenants/%s/slots?staff_id=%d&service_id=%d&date=%s",
		a.tenant.Slug, a.staff.ID, a.service.ID, monday)
}

func (a *api) publicBooking(hhmm string) map[string]any {
	return map[string]any{
		"staff_id":     a.staff.ID,
		"service_id":   a.service.ID,
		"client_name":  "Maria",
		"client_phone": "(11) 99999-8888",
		"date":         monday,
		"time":         hhmm,
	}
}

func mustWall(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02 15:04", s)
	require.NoError(t, err)
	return ts
}

// ======================================================
// OPERAÇÃO
// ======================================================

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","gateway_breaker":"closed"}`, w.Body.String())

	w = a.do(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "agenda_http_requests_total")
}

// ======================================================
// LOGIN
// ======================================================

func TestLogin(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		login  string
		pass   string
		status int
	}{
		{"por e-mail", "Centro@Example.com", "segredo123", http.StatusOK},
		{"por telefone", "(11) 98888-7777", "segredo123", http.StatusOK},
		{"senha errada", "centro@example.com", "errada", http.StatusUnauthorized},
		{"desconhecido", "outro@example.com", "segredo123", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/api/auth/login", gin.H{"login": tt.login, "password": tt.pass}, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			if tt.status == http.StatusOK {
				body := decode[map[string]any](t, w)
				assert.NotEmpty(t, body["token"])
				tenant := body["tenant"].(map[string]any)
				assert.Equal(t, true, tenant["gateway_configured"])
				assert.NotContains(t, tenant, "gateway_app_key")
			}
		})
	}
}

func TestLogin_InactiveTenant(t *testing.T) {
	a := newAPI(t)
	require.NoError(t, a.db.Model(&models.Tenant{}).Where("id = ?", a.tenant.ID).Update("active", false).Error)

	w := a.do(http.MethodPost, "/api/auth/login", gin.H{"login": "centro@example.com", "password": "segredo123"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "tenant_inactive")
}

func TestLogin_SweepsPastAppointments(t *testing.T) {
	a := newAPI(t)
	require.NoError(t, a.db.Model(&models.Tenant{}).Where("id = ?", a.tenant.ID).Update("auto_complete", true).Error)

	client := models.Client{TenantID: a.tenant.ID, Name: "Maria", Phone: "5511999998888"}
	require.NoError(t, a.db.Create(&client).Error)

	past := models.Appointment{
		TenantID:  a.tenant.ID,
		StaffID:   a.staff.ID,
		ServiceID: a.service.ID,
		ClientID:  client.ID,
	}
	past.StartTime = mustWall(t, "2020-01-06 09:00")
	past.EndTime = mustWall(t, "2020-01-06 09:30")
	require.NoError(t, a.db.Create(&past).Error)

	w := a.do(http.MethodPost, "/api/auth/login", gin.H{"login": "centro@example.com", "password": "segredo123"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Appointment
	require.NoError(t, a.db.First(&reloaded, past.ID).Error)
	assert.True(t, reloaded.Completed)
	assert.NotNil(t, reloaded.CompletedAt)
}

// ======================================================
// PÁGINA PÚBLICA
// ======================================================

func TestPublicProfile(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/public/tenants/studio-centro", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[struct {
		Tenant   map[string]any   `json:"tenant"`
		Services []models.Service `json:"services"`
		Staff    []models.StaffMember
	}](t, w)
	assert.Equal(t, "Studio Centro", body.Tenant["name"])
	require.Len(t, body.Services, 1)
	assert.True(t, body.Services[0].Price.Equal(decimal.NewFromInt(50)))

	w = a.do(http.MethodGet, "/api/public/tenants/nao-existe", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicBooking(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, a.slotsPath(), nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	before := decode[slotsResponse](t, w)
	require.Len(t, before.Slots, 6)
	assert.Equal(t, "09:00", before.Slots[0].Time)
	assert.Equal(t, "11:30", before.Slots[5].Time)

	path := "/api/public/tenants/studio-centro/appointments"

	w = a.do(http.MethodPost, path, a.publicBooking("09:00"), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, path, a.publicBooking("09:00"), "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "slot_conflict")

	w = a.do(http.MethodGet, a.slotsPath(), nil, "")
	after := decode[slotsResponse](t, w)
	require.Len(t, after.Slots, 5)
	assert.Equal(t, "09:30", after.Slots[0].Time)

	var clients int64
	require.NoError(t, a.db.Model(&models.Client{}).Where("phone = ?", "5511999998888").Count(&clients).Error)
	assert.Equal(t, int64(1), clients)

	assert.Contains(t, a.notifier.kinds(), notify.KindConfirmation)
}

func TestPublicBooking_Rejects(t *testing.T) {
	a := newAPI(t)
	path := "/api/public/tenants/studio-centro/appointments"

	badTime := a.publicBooking("9h")
	w := a.do(http.MethodPost, path, badTime, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	noPhone := a.publicBooking("09:00")
	noPhone["client_phone"] = "abc"
	w = a.do(http.MethodPost, path, noPhone, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	unknownStaff := a.publicBooking("09:00")
	unknownStaff["staff_id"] = 999
	w = a.do(http.MethodPost, path, unknownStaff, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublic_InactiveTenant(t *testing.T) {
	a := newAPI(t)
	require.NoError(t, a.db.Model(&models.Tenant{}).Where("id = ?", a.tenant.ID).Update("active", false).Error)

	w := a.do(http.MethodGet, a.slotsPath(), nil, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// ======================================================
// LINK DE CANCELAMENTO
// ======================================================

func TestDeletionFlow(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/appointments", gin.H{
		"staff_id":     a.staff.ID,
		"service_id":   a.service.ID,
		"client_name":  "Maria",
		"client_phone": "11999998888",
		"date":         monday,
		"time":         "10:00",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	booked := decode[struct {
		Appointment models.Appointment `json:"appointment"`
	}](t, w)
	apID := booked.Appointment.ID

	w = a.do(http.MethodPost, fmt.Sprintf("/api/me/appointments/%d/deletion-request", apID), nil, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dr := decode[models.DeletionRequest](t, w)

	w = a.do(http.MethodGet, "/api/public/deletion-requests/"+dr.Code.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"pending","slug":"studio-centro"}`, w.Body.String())

	w = a.do(http.MethodGet, "/confirmar-exclusao?codigo="+dr.Code.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sim, cancelar")

	w = a.do(http.MethodPost, "/api/public/deletion-requests/"+dr.Code.String()+"/confirm", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"approved"}`, w.Body.String())

	w = a.do(http.MethodPost, "/api/public/deletion-requests/"+dr.Code.String()+"/deny", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&models.Appointment{}).Where("id = ?", apID).Count(&count).Error)
	assert.Zero(t, count)

	assert.Contains(t, a.notifier.kinds(), notify.KindDeletionRequest)
	assert.Contains(t, a.notifier.kinds(), notify.KindDeletionCompleted)

	w = a.do(http.MethodGet, "/api/public/deletion-requests/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeletionPage_Form(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/public/tenants/studio-centro/appointments", a.publicBooking("11:00"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	var ap models.Appointment
	require.NoError(t, a.db.First(&ap).Error)

	w = a.do(http.MethodPost, fmt.Sprintf("/api/me/appointments/%d/deletion-request", ap.ID), nil, a.token)
	require.Equal(t, http.StatusCreated, w.Code)
	dr := decode[models.DeletionRequest](t, w)

	form := url.Values{"codigo": {dr.Code.String()}, "acao": {"manter"}}
	req := httptest.NewRequest(http.MethodPost, "/confirmar-exclusao", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Seu agendamento foi mantido.")

	var count int64
	require.NoError(t, a.db.Model(&models.Appointment{}).Where("id = ?", ap.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w = a.do(http.MethodGet, "/confirmar-exclusao?codigo=00000000-0000-0000-0000-000000000000", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ======================================================
// ÁREA LOGADA
// ======================================================

func TestServices(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/services", gin.H{
		"name":             "Barba",
		"duration_minutes": 20,
		"price":            "35.555",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	svc := decode[models.Service](t, w)
	assert.True(t, svc.Price.Equal(decimal.RequireFromString("35.56")), svc.Price.String())

	w = a.do(http.MethodPost, "/api/me/services", gin.H{
		"name":             "Grátis",
		"duration_minutes": 20,
		"price":            "-1",
	}, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/me/services?query=barb", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Service](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, "Barba", list[0].Name)

	w = a.do(http.MethodGet, "/api/me/services", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestServiceDelete_RefusedWithAppointments(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/public/tenants/studio-centro/appointments", a.publicBooking("09:00"), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(http.MethodDelete, fmt.Sprintf("/api/me/services/%d", a.service.ID), nil, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRules(t *testing.T) {
	a := newAPI(t)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"override", gin.H{"staff_id": a.staff.ID, "date": "2030-06-08", "start_time": "08:00", "end_time": "10:00"}, http.StatusCreated},
		{"dia e data", gin.H{"staff_id": a.staff.ID, "weekday": 2, "date": "2030-06-08", "start_time": "08:00", "end_time": "10:00"}, http.StatusBadRequest},
		{"sem dia", gin.H{"staff_id": a.staff.ID, "start_time": "08:00", "end_time": "10:00"}, http.StatusBadRequest},
		{"janela invertida", gin.H{"staff_id": a.staff.ID, "weekday": 2, "start_time": "10:00", "end_time": "08:00"}, http.StatusBadRequest},
		{"almoço fora", gin.H{"staff_id": a.staff.ID, "weekday": 2, "start_time": "08:00", "end_time": "12:00", "lunch_start": "12:00", "lunch_end": "13:00"}, http.StatusBadRequest},
		{"hora malformada", gin.H{"staff_id": a.staff.ID, "weekday": 2, "start_time": "8", "end_time": "12:00"}, http.StatusBadRequest},
		{"profissional alheio", gin.H{"staff_id": 999, "weekday": 2, "start_time": "08:00", "end_time": "12:00"}, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(http.MethodPost, "/api/me/rules", tt.body, a.token)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	w := a.do(http.MethodGet, fmt.Sprintf("/api/me/staff/%d/rules", a.staff.ID), nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.AvailabilityRule](t, w), 2)
}

func TestBlocksRemoveSlots(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/blocks", gin.H{
		"staff_id":   a.staff.ID,
		"date":       monday,
		"start_time": "09:00",
		"end_time":   "10:00",
		"reason":     "consulta médica",
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, a.slotsPath(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[slotsResponse](t, w)
	require.Len(t, got.Slots, 4)
	assert.Equal(t, "10:00", got.Slots[0].Time)
}

func TestUpload_StorageDisabled(t *testing.T) {
	a := newAPI(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "foto.png")
	require.NoError(t, err)
	_, _ = part.Write([]byte("not really an image"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/me/staff/%d/photo", a.staff.ID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// GATEWAY
// ======================================================

func webhookToken(secret string, tenantID uint) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("gateway-webhook:%d", tenantID)))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestGatewayWebhook(t *testing.T) {
	a := newAPI(t)
	path := fmt.Sprintf("/api/webhooks/gateway/%d", a.tenant.ID)
	body := gin.H{"appKey": "new-app", "authkey": "new-auth", "deviceId": "dev-9"}

	w := a.do(http.MethodPost, path+"?token=forjado", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(http.MethodPost, path+"?token="+webhookToken(a.cfg.JWTSecret, a.tenant.ID), body, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var tenant models.Tenant
	require.NoError(t, a.db.First(&tenant, a.tenant.ID).Error)
	assert.Equal(t, "new-app", tenant.GatewayAppKey)
	assert.Equal(t, "new-auth", tenant.GatewayAuthKey)
	assert.Equal(t, "dev-9", tenant.GatewayDeviceID)
}

func TestGatewayPairAndStatus(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/gateway/pair", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"qr_code":"qr-Dispositivo-studio-centro","device_id":"dev-1"}`, w.Body.String())

	w = a.do(http.MethodGet, "/api/me/gateway/status", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"connected":true,"gateway_configured":true,"device_id":"dev-1"}`, w.Body.String())
}

// ======================================================
// AUDITORIA
// ======================================================

func TestAuditLogs(t *testing.T) {
	a := newAPI(t)

	other := models.Tenant{Name: "Outro", Slug: "outro", Email: "outro@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, a.db.Create(&other).Error)

	apID := uint(10)
	require.NoError(t, a.db.Create(&[]models.AuditLog{
		{TenantID: a.tenant.ID, Action: "appointment_created", Entity: "appointment", EntityID: &apID},
		{TenantID: a.tenant.ID, Action: "appointment_deleted", Entity: "appointment", EntityID: &apID},
		{TenantID: a.tenant.ID, Action: "staff_deleted", Entity: "staff"},
		{TenantID: other.ID, Action: "appointment_created", Entity: "appointment"},
	}).Error)

	type page struct {
		Data  []models.AuditLog `json:"data"`
		Page  int               `json:"page"`
		Limit int               `json:"limit"`
		Total int64             `json:"total"`
	}

	w := a.do(http.MethodGet, "/api/me/audit-logs", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[page](t, w)
	assert.Equal(t, int64(3), all.Total)
	assert.Equal(t, 50, all.Limit)

	w = a.do(http.MethodGet, "/api/me/audit-logs?entity=appointment&entity_id=10&limit=1&page=2", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	filtered := decode[page](t, w)
	assert.Equal(t, int64(2), filtered.Total)
	require.Len(t, filtered.Data, 1)
	assert.Equal(t, "appointment_created", filtered.Data[0].Action)

	w = a.do(http.MethodGet, "/api/me/audit-logs?from=ontem", nil, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ======================================================
// PRODUTOS E ESTOQUE
// ======================================================

type errorBody struct {
	Code string `json:"error_code"`
}

func TestProducts_StockAndSales(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/me/products", gin.H{
		"name":     "Pomada",
		"category": "Cabelo",
		"price":    "12.50",
		"stock":    5,
	}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	product := decode[models.Product](t, w)
	assert.Equal(t, "cabelo", product.Category)
	path := fmt.Sprintf("/api/me/products/%d", product.ID)

	w = a.do(http.MethodPost, path+"/stock", gin.H{"type": "out", "quantity": 10}, a.token)
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Equal(t, "insufficient_stock", decode[errorBody](t, w).Code)

	w = a.do(http.MethodPost, path+"/stock", gin.H{"type": "in", "quantity": 3, "reason": "compra"}, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 8, decode[map[string]any](t, w)["stock"])

	w = a.do(http.MethodPost, path+"/stock", gin.H{"type": "sumiu", "quantity": 1}, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	client := models.Client{TenantID: a.tenant.ID, Name: "Maria", Phone: "5511999998888"}
	require.NoError(t, a.db.Create(&client).Error)

	w = a.do(http.MethodPost, path+"/sales", gin.H{"quantity": 2, "client_id": client.ID}, a.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[struct {
		Sale  models.ProductSale `json:"sale"`
		Stock int                `json:"stock"`
	}](t, w)
	assert.True(t, sale.Sale.Total.Equal(decimal.RequireFromString("25")), sale.Sale.Total.String())
	assert.Equal(t, 6, sale.Stock)

	w = a.do(http.MethodPost, path+"/sales", gin.H{"quantity": 7}, a.token)
	assert.Equal(t, http.StatusConflict, w.Code)

	other := models.Tenant{Name: "Outro", Slug: "outro", Email: "outro@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, a.db.Create(&other).Error)
	stranger := models.Client{TenantID: other.ID, Name: "Zé", Phone: "5511977776666"}
	require.NoError(t, a.db.Create(&stranger).Error)
	w = a.do(http.MethodPost, path+"/sales", gin.H{"quantity": 1, "client_id": stranger.ID}, a.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodGet, path+"/movements", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	movements := decode[struct {
		Data []models.StockMovement `json:"data"`
	}](t, w)
	require.Len(t, movements.Data, 3)
	assert.Equal(t, "sale", movements.Data[0].Kind)
	assert.Equal(t, -2, movements.Data[0].Quantity)

	w = a.do(http.MethodGet, "/api/me/product-sales", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	sales := decode[struct {
		Data  []models.ProductSale `json:"data"`
		Total int64                `json:"total"`
	}](t, w)
	assert.Equal(t, int64(1), sales.Total)

	w = a.do(http.MethodDelete, path, nil, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/me/products?low_stock=6", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["total"])
}

func TestProducts_TenantIsolation(t *testing.T) {
	a := newAPI(t)

	other := models.Tenant{Name: "Outro", Slug: "outro", Email: "outro@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, a.db.Create(&other).Error)
	foreign := models.Product{TenantID: other.ID, Name: "Shampoo", Stock: 3, Active: true}
	require.NoError(t, a.db.Create(&foreign).Error)

	path := fmt.Sprintf("/api/me/products/%d", foreign.ID)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPatch, path, gin.H{"name": "x"}, a.token).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, path+"/stock", gin.H{"type": "in", "quantity": 1}, a.token).Code)
	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, path+"/sales", gin.H{"quantity": 1}, a.token).Code)

	w := a.do(http.MethodPost, "/api/me/products", gin.H{"name": "Gel"}, a.token)
	require.Equal(t, http.StatusCreated, w.Code)
	mine := decode[models.Product](t, w)
	assert.Equal(t, http.StatusNoContent,
		a.do(http.MethodDelete, fmt.Sprintf("/api/me/products/%d", mine.ID), nil, a.token).Code)
}

// ======================================================
// TEMA E SERVIÇOS DO PROFISSIONAL
// ======================================================

func TestTheme(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/me/theme", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#007bff", decode[models.TenantTheme](t, w).PrimaryColor)

	body := gin.H{
		"primary_color":         "#FF0000",
		"secondary_color":       "#00ff00",
		"text_color":            "#000000",
		"text_color_light":      "#ffffff",
		"button_color":          "#123456",
		"button_text_color":     "#ffffff",
		"card_background_color": "#fafafa",
		"card_text_color":       "#111111",
		"background_color":      "#eeeeee",
	}
	w = a.do(http.MethodPut, "/api/me/theme", body, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body["button_color"] = "azul"
	w = a.do(http.MethodPut, "/api/me/theme", body, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/public/tenants/studio-centro", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[struct {
		Theme models.TenantTheme `json:"theme"`
	}](t, w)
	assert.Equal(t, "#ff0000", profile.Theme.PrimaryColor)
	assert.Equal(t, "#123456", profile.Theme.ButtonColor)
}

func TestStaffServices(t *testing.T) {
	a := newAPI(t)

	beard := models.Service{TenantID: a.tenant.ID, Name: "Barba", DurationMinutes: 20, Active: true}
	require.NoError(t, a.db.Create(&beard).Error)
	path := fmt.Sprintf("/api/me/staff/%d/services", a.staff.ID)

	w := a.do(http.MethodGet, path, nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["all_services"])

	w = a.do(http.MethodPut, path, gin.H{"service_ids": []uint{beard.ID}}, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	type profile struct {
		Staff []struct {
			ID         uint   `json:"id"`
			ServiceIDs []uint `json:"service_ids"`
		} `json:"staff"`
	}
	w = a.do(http.MethodGet, "/api/public/tenants/studio-centro", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	p := decode[profile](t, w)
	require.Len(t, p.Staff, 1)
	assert.Equal(t, []uint{beard.ID}, p.Staff[0].ServiceIDs)

	// corte deixou de ser oferecido pela Ana
	w = a.do(http.MethodGet, a.slotsPath(), nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = a.do(http.MethodPost, "/api/public/tenants/studio-centro/appointments", a.publicBooking("09:00"), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	other := models.Tenant{Name: "Outro", Slug: "outro", Email: "outro@example.com", PasswordHash: "x", Active: true}
	require.NoError(t, a.db.Create(&other).Error)
	foreign := models.Service{TenantID: other.ID, Name: "X", DurationMinutes: 30, Active: true}
	require.NoError(t, a.db.Create(&foreign).Error)
	w = a.do(http.MethodPut, path, gin.H{"service_ids": []uint{foreign.ID}}, a.token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = a.do(http.MethodPut, path, gin.H{"service_ids": []uint{}}, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	w = a.do(http.MethodGet, "/api/public/tenants/studio-centro", nil, "")
	p = decode[profile](t, w)
	assert.ElementsMatch(t, []uint{a.service.ID, beard.ID}, p.Staff[0].ServiceIDs)
}

func TestInactiveStaffHasNoSlots(t *testing.T) {
	a := newAPI(t)
	require.NoError(t, a.db.Model(&a.staff).Update("active", false).Error)

	w := a.do(http.MethodGet, a.slotsPath(), nil, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "invalid_staff", decode[errorBody](t, w).Code)

	w = a.do(http.MethodPost, "/api/public/tenants/studio-centro/appointments", a.publicBooking("09:00"), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ======================================================
// DASHBOARD
// ======================================================

func TestDashboardAnalytics(t *testing.T) {
	a := newAPI(t)

	client := models.Client{TenantID: a.tenant.ID, Name: "Maria", Phone: "5511999998888"}
	require.NoError(t, a.db.Create(&client).Error)

	start := mustWall(t, "2030-03-04 10:00")
	require.NoError(t, a.db.Create(&[]models.Appointment{
		{TenantID: a.tenant.ID, StaffID: a.staff.ID, ClientID: client.ID, ServiceID: a.service.ID,
			StartTime: start, EndTime: start.Add(30 * time.Minute), Completed: true},
		{TenantID: a.tenant.ID, StaffID: a.staff.ID, ClientID: client.ID, ServiceID: a.service.ID,
			StartTime: start.Add(time.Hour), EndTime: start.Add(90 * time.Minute)},
	}).Error)

	w := a.do(http.MethodGet, "/api/me/dashboard/analytics?year=2030", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode[struct {
		Year        int   `json:"year"`
		StaffCount  int64 `json:"staff_count"`
		ClientCount int64 `json:"client_count"`
		Earnings    []struct {
			Month    int             `json:"month"`
			Services decimal.Decimal `json:"services"`
		} `json:"earnings"`
	}](t, w)
	assert.Equal(t, 2030, body.Year)
	assert.Equal(t, int64(1), body.StaffCount)
	assert.Equal(t, int64(1), body.ClientCount)
	require.Len(t, body.Earnings, 12)
	assert.True(t, body.Earnings[2].Services.Equal(decimal.NewFromInt(50)), body.Earnings[2].Services.String())
	assert.True(t, body.Earnings[3].Services.IsZero())

	w = a.do(http.MethodGet, "/api/me/dashboard/analytics?year=abc", nil, a.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(http.MethodGet, "/api/me/dashboard", nil, a.token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["pending"])
}

// ======================================================
// PRAZO DE BANCO
// ======================================================

func TestExpiredDeadlineIsInternal(t *testing.T) {
	a := newAPI(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/me/services", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+a.token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal", decode[errorBody](t, w).Code)
}
