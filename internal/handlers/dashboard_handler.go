package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

var monthNames = [12]string{
	"jan", "fev", "mar", "abr", "mai", "jun",
	"jul", "ago", "set", "out", "nov", "dez",
}

// ======================================================
// HANDLER
// ======================================================

// DashboardHandler agrega números do tenant no relógio de parede dele.
// Faturamento é a soma do preço atual do serviço dos atendimentos concluídos.
type DashboardHandler struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db, now: time.Now}
}

type DashboardSummary struct {
	TodayCount     int64           `json:"today_count"`
	MonthCompleted int64           `json:"month_completed"`
	Pending        int64           `json:"pending"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	RevenueMonth   decimal.Decimal `json:"revenue_month"`
}

type MonthlyEarning struct {
	Month    int             `json:"month"`
	Name     string          `json:"name"`
	Services decimal.Decimal `json:"services"`
	Products decimal.Decimal `json:"products"`
	Total    decimal.Decimal `json:"total"`
}

type DashboardAnalytics struct {
	Year         int              `json:"year"`
	StaffCount   int64            `json:"staff_count"`
	ClientCount  int64            `json:"client_count"`
	Earnings     []MonthlyEarning `json:"earnings"`
	YearServices decimal.Decimal  `json:"year_services"`
	YearProducts decimal.Decimal  `json:"year_products"`
}

type appointmentRow struct {
	StartTime time.Time
	Completed bool
	Price     decimal.Decimal
}

// Summary aceita staff_id para restringir a um profissional.
func (h *DashboardHandler) Summary(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	ctx := c.Request.Context()

	staffID, ok := queryUint(c, "staff_id")
	if !ok {
		return
	}

	tz := tenantTimezone(h.db, c, tenantID)

	now := timezone.WallClock(h.now(), tz)
	today := dayOf(now)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	base := func() *gorm.DB {
		q := h.db.WithContext(ctx).
			Model(&models.Appointment{}).
			Where("appointments.tenant_id = ?", tenantID)
		if staffID != nil {
			q = q.Where("appointments.staff_id = ?", *staffID)
		}
		return q
	}

	var sum DashboardSummary
	if err := base().Where("completed = ?", false).Count(&sum.Pending).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	// 📅 hoje e mês corrente numa leitura só
	lo, hi := today, tomorrow
	if monthStart.Before(lo) {
		lo = monthStart
	}
	if monthEnd.After(hi) {
		hi = monthEnd
	}

	var rows []appointmentRow
	if err := base().
		Select("appointments.start_time, appointments.completed, services.price").
		Joins("JOIN services ON services.id = appointments.service_id").
		Where("appointments.start_time >= ? AND appointments.start_time < ?", lo, hi).
		Scan(&rows).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	for _, r := range rows {
		isToday := !r.StartTime.Before(today) && r.StartTime.Before(tomorrow)
		inMonth := !r.StartTime.Before(monthStart) && r.StartTime.Before(monthEnd)

		if isToday {
			sum.TodayCount++
		}
		if !r.Completed {
			continue
		}
		if isToday {
			sum.RevenueToday = sum.RevenueToday.Add(r.Price)
		}
		if inMonth {
			sum.MonthCompleted++
			sum.RevenueMonth = sum.RevenueMonth.Add(r.Price)
		}
	}

	c.JSON(http.StatusOK, sum)
}

// Analytics devolve totais do ano (year, padrão o ano corrente do tenant)
// com os doze meses preenchidos.
func (h *DashboardHandler) Analytics(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	ctx := c.Request.Context()

	tz := tenantTimezone(h.db, c, tenantID)

	year := timezone.WallClock(h.now(), tz).Year()
	if raw := c.Query("year"); raw != "" {
		y, err := strconv.Atoi(raw)
		if err != nil || y < 2000 || y > 9999 {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Ano inválido.")
			return
		}
		year = y
	}

	out := DashboardAnalytics{Year: year, Earnings: make([]MonthlyEarning, 12)}
	for i := range out.Earnings {
		out.Earnings[i] = MonthlyEarning{Month: i + 1, Name: monthNames[i]}
	}

	if err := h.db.WithContext(ctx).Model(&models.StaffMember{}).
		Where("tenant_id = ?", tenantID).Count(&out.StaffCount).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Client{}).
		Where("tenant_id = ?", tenantID).Count(&out.ClientCount).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	// --------------------------------------------------
	// Serviços (start_time já é parede)
	// --------------------------------------------------
	var rows []appointmentRow
	if err := h.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("appointments.start_time, appointments.completed, services.price").
		Joins("JOIN services ON services.id = appointments.service_id").
		Where("appointments.tenant_id = ? AND appointments.completed = ?", tenantID, true).
		Where("appointments.start_time >= ? AND appointments.start_time < ?", yearStart, yearEnd).
		Scan(&rows).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	for _, r := range rows {
		m := &out.Earnings[r.StartTime.Month()-1]
		m.Services = m.Services.Add(r.Price)
	}

	// --------------------------------------------------
	// Vendas de produto (created_at é instante; vira parede)
	// --------------------------------------------------
	var sales []models.ProductSale
	if err := h.db.WithContext(ctx).
		Select("id", "total", "created_at").
		Where("tenant_id = ?", tenantID).
		Where("created_at >= ? AND created_at < ?",
			timezone.Instant(yearStart, tz).AddDate(0, 0, -1).UTC(),
			timezone.Instant(yearEnd, tz).AddDate(0, 0, 1).UTC()).
		Find(&sales).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	for _, s := range sales {
		wall := timezone.WallClock(s.CreatedAt, tz)
		if wall.Year() != year {
			continue
		}
		m := &out.Earnings[wall.Month()-1]
		m.Products = m.Products.Add(s.Total)
	}

	for i := range out.Earnings {
		m := &out.Earnings[i]
		m.Total = m.Services.Add(m.Products)
		out.YearServices = out.YearServices.Add(m.Services)
		out.YearProducts = out.YearProducts.Add(m.Products)
	}

	c.JSON(http.StatusOK, out)
}
