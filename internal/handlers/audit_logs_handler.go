package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

// ======================================================
// HANDLER
// ======================================================

// AuditLogsHandler lista o histórico de ações do tenant logado.
type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List aceita action, entity, entity_id e from/to (YYYY-MM-DD, inclusivos).
func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	// --------------------------------------------------
	// Query base (sempre protegido por tenant)
	// --------------------------------------------------
	q := h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{}).
		Where("tenant_id = ?", middleware.TenantID(c))

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if entity := c.Query("entity"); entity != "" {
		q = q.Where("entity = ?", entity)
	}

	entityID, ok := queryUint(c, "entity_id")
	if !ok {
		return
	}
	if entityID != nil {
		q = q.Where("entity_id = ?", *entityID)
	}

	if raw := c.Query("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Data inicial inválida.")
			return
		}
		q = q.Where("created_at >= ?", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Data final inválida.")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1))
	}

	// --------------------------------------------------
	// Total + página
	// --------------------------------------------------
	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}

// pagination nunca falha: valor inválido volta ao padrão.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(auditDefaultLimit)))
	if limit <= 0 || limit > auditMaxLimit {
		limit = auditDefaultLimit
	}
	return page, limit
}
