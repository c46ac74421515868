package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	slots "github.com/BruksfildServices01/agenda-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
	ucAvailability "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/availability"
)

// ======================================================
// HANDLER
// ======================================================

// AvailabilityHandler cuida das regras de expediente, dos bloqueios
// e da consulta de horários livres do tenant logado.
type AvailabilityHandler struct {
	db    *gorm.DB
	store *repository.AvailabilityGormRepository
	slots *ucAvailability.GenerateSlots
}

func NewAvailabilityHandler(
	db *gorm.DB,
	generate *ucAvailability.GenerateSlots,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		db:    db,
		store: repository.NewAvailabilityGormRepository(db),
		slots: generate,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// RuleRequest: exatamente um entre weekday e date.
type RuleRequest struct {
	StaffID    uint    `json:"staff_id" binding:"required"`
	Weekday    *int    `json:"weekday" binding:"omitempty,min=0,max=6"`
	Date       *string `json:"date" binding:"omitempty,ymd"`
	StartTime  string  `json:"start_time" binding:"required,hhmm"`
	EndTime    string  `json:"end_time" binding:"required,hhmm"`
	LunchStart *string `json:"lunch_start" binding:"omitempty,hhmm"`
	LunchEnd   *string `json:"lunch_end" binding:"omitempty,hhmm"`
}

func (r RuleRequest) model() models.AvailabilityRule {
	return models.AvailabilityRule{
		StaffID:    r.StaffID,
		Weekday:    r.Weekday,
		Date:       r.Date,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		LunchStart: r.LunchStart,
		LunchEnd:   r.LunchEnd,
	}
}

type BlockRequest struct {
	StaffID   uint   `json:"staff_id" binding:"required"`
	Date      string `json:"date" binding:"required,ymd"`
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
	Reason    string `json:"reason" binding:"max=255"`
}

// ======================================================
// RULES
// ======================================================

func (h *AvailabilityHandler) ListRules(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	rules, err := h.store.ListStaffRules(c.Request.Context(), middleware.TenantID(c), staffID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

func (h *AvailabilityHandler) CreateRule(c *gin.Context) {
	var req RuleRequest
	if !bindJSON(c, &req) {
		return
	}

	if !h.ownsStaff(c, req.StaffID) {
		return
	}

	rule := req.model()
	if _, err := slots.RuleFromModel(rule); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.store.CreateRule(c.Request.Context(), &rule); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, rule)
}

func (h *AvailabilityHandler) UpdateRule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req RuleRequest
	if !bindJSON(c, &req) {
		return
	}

	rule := req.model()
	rule.ID = id
	if _, err := slots.RuleFromModel(rule); err != nil {
		httperr.Respond(c, err)
		return
	}

	err := h.store.UpdateRule(c.Request.Context(), middleware.TenantID(c), &rule)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, httperr.CodeNotFound, "Regra não encontrada.")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

func (h *AvailabilityHandler) DeleteRule(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteRule(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.NotFound(c, httperr.CodeNotFound, "Regra não encontrada.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// BLOCKS
// ======================================================

// ListBlocks aceita from/to (YYYY-MM-DD); sem eles, os próximos 30 dias.
func (h *AvailabilityHandler) ListBlocks(c *gin.Context) {
	staffID, ok := paramID(c, "id")
	if !ok {
		return
	}

	from, to, ok := dateRange(c, 30, tenantToday(h.db, c, middleware.TenantID(c)))
	if !ok {
		return
	}

	blocks, err := h.store.ListBlocks(c.Request.Context(), middleware.TenantID(c), staffID, from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, blocks)
}

func (h *AvailabilityHandler) CreateBlock(c *gin.Context) {
	var req BlockRequest
	if !bindJSON(c, &req) {
		return
	}

	if !h.ownsStaff(c, req.StaffID) {
		return
	}

	block := models.Block{
		TenantID:  middleware.TenantID(c),
		StaffID:   req.StaffID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
	}
	if _, err := slots.BlockFromModel(block); err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.store.CreateBlock(c.Request.Context(), &block); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, block)
}

func (h *AvailabilityHandler) DeleteBlock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteBlock(c.Request.Context(), middleware.TenantID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.NotFound(c, httperr.CodeNotFound, "Bloqueio não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// SLOTS
// ======================================================

func (h *AvailabilityHandler) Slots(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	listSlots(c, h.slots, tenantID, tenantToday(h.db, c, tenantID))
}

// listSlots é compartilhado com a página pública.
func listSlots(
	c *gin.Context,
	uc *ucAvailability.GenerateSlots,
	tenantID uint,
	today func() time.Time,
) {
	staffID, ok := queryUint(c, "staff_id")
	if !ok {
		return
	}
	serviceID, ok := queryUint(c, "service_id")
	if !ok {
		return
	}
	if staffID == nil || serviceID == nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Profissional e serviço obrigatórios.")
		return
	}

	from, to, ok := dateRange(c, 0, today)
	if !ok {
		return
	}

	result, err := uc.Execute(c.Request.Context(), ucAvailability.GenerateSlotsInput{
		TenantID:  tenantID,
		StaffID:   *staffID,
		ServiceID: *serviceID,
		From:      from,
		To:        to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": result})
}

// dateRange lê from/to; "date" sozinho vale pelos dois. Sem nada,
// usa hoje (relógio do tenant) até hoje+days.
func dateRange(c *gin.Context, days int, today func() time.Time) (time.Time, time.Time, bool) {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if d := c.Query("date"); d != "" {
		fromStr, toStr = d, d
	}

	if fromStr == "" && toStr == "" {
		d := today()
		return d, d.AddDate(0, 0, days), true
	}
	if fromStr == "" || toStr == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Informe from e to.")
		return time.Time{}, time.Time{}, false
	}

	from, err := parseDate(fromStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Data inicial inválida.")
		return time.Time{}, time.Time{}, false
	}
	to, err := parseDate(toStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Data final inválida.")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *AvailabilityHandler) ownsStaff(c *gin.Context, staffID uint) bool {
	var count int64
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.StaffMember{}).
		Where("id = ? AND tenant_id = ?", staffID, middleware.TenantID(c)).
		Count(&count).Error; err != nil {
		httperr.Respond(c, err)
		return false
	}
	if count == 0 {
		httperr.Respond(c, httperr.Detailed(httperr.CodeInvalidStaff, "staff member not found"))
		return false
	}
	return true
}
