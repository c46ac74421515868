package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/timezone"
)

// --------------------------------------------------
// Datas de parede
// --------------------------------------------------
// A API recebe data e hora locais do tenant. O valor vira um time.Time
// com location UTC, que é como a agenda guarda horários.

func parseDate(dateStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", dateStr, time.UTC)
}

func parseDateTime(dateStr, timeStr string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, time.UTC)
}

// tenantTimezone lê o fuso do tenant; sem tenant legível, vale o padrão.
func tenantTimezone(db *gorm.DB, c *gin.Context, tenantID uint) string {
	var tenant models.Tenant
	if err := db.WithContext(c.Request.Context()).
		Select("id", "timezone").
		First(&tenant, tenantID).Error; err != nil || tenant.Timezone == "" {
		return timezone.DefaultTimezone
	}
	return tenant.Timezone
}

// tenantToday devolve, sob demanda, a data de hoje no fuso do tenant.
func tenantToday(db *gorm.DB, c *gin.Context, tenantID uint) func() time.Time {
	return func() time.Time {
		return dayOf(timezone.NowIn(tenantTimezone(db, c, tenantID)))
	}
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Identificador inválido.")
		return 0, false
	}
	return uint(id), true
}

// queryUint devolve nil para parâmetro ausente.
func queryUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, httperr.CodeInvalidInput, name+" inválido.")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Dados inválidos.")
		return false
	}
	return true
}
