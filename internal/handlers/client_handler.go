package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
)

type ClientHandler struct {
	db      *gorm.DB
	catalog *repository.CatalogGormRepository
	region  string
}

func NewClientHandler(db *gorm.DB, cfg *config.Config) *ClientHandler {
	return &ClientHandler{
		db:      db,
		catalog: repository.NewCatalogGormRepository(db),
		region:  cfg.DefaultRegion,
	}
}

type UpsertClientRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"omitempty,email"`
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Where("tenant_id = ?", tenantID)

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?",
			like, like, like,
		)
	}

	var clients []models.Client
	if err := q.
		Order("created_at DESC").
		Find(&clients).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, clients)
}

// ======================================================
// GET OR CREATE (pelo telefone normalizado)
// ======================================================
func (h *ClientHandler) Upsert(c *gin.Context) {
	var req UpsertClientRequest
	if !bindJSON(c, &req) {
		return
	}

	phone := notify.NormalizePhone(req.Phone, h.region)
	if phone == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Telefone inválido.")
		return
	}

	client, err := h.catalog.GetOrCreateClient(
		c.Request.Context(),
		middleware.TenantID(c),
		strings.TrimSpace(req.Name),
		phone,
		strings.ToLower(strings.TrimSpace(req.Email)),
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, client)
}
