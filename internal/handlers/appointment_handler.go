package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/agenda-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httperr"
	"github.com/BruksfildServices01/agenda-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/agenda-scheduler/internal/middleware"
	"github.com/BruksfildServices01/agenda-scheduler/internal/notify"
	ucAppointment "github.com/BruksfildServices01/agenda-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	catalog domain.Catalog
	region  string

	create          *ucAppointment.CreateBooking
	complete        *ucAppointment.MarkCompleted
	remove          *ucAppointment.DeleteAppointment
	requestDeletion *ucAppointment.RequestDeletion
	listByDate      *ucAppointment.ListAppointmentsByDate
	listByMonth     *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(
	catalog domain.Catalog,
	region string,
	create *ucAppointment.CreateBooking,
	complete *ucAppointment.MarkCompleted,
	remove *ucAppointment.DeleteAppointment,
	requestDeletion *ucAppointment.RequestDeletion,
	listByDate *ucAppointment.ListAppointmentsByDate,
	listByMonth *ucAppointment.ListAppointmentsByMonth,
) *AppointmentHandler {
	return &AppointmentHandler{
		catalog:         catalog,
		region:          region,
		create:          create,
		complete:        complete,
		remove:          remove,
		requestDeletion: requestDeletion,
		listByDate:      listByDate,
		listByMonth:     listByMonth,
	}
}

// ======================================================
// REQUESTS
// ======================================================

// CreateAppointmentRequest aceita um cliente já cadastrado (client_id)
// ou nome + telefone, que viram get-or-create.
type CreateAppointmentRequest struct {
	StaffID     uint   `json:"staff_id" binding:"required"`
	ServiceID   uint   `json:"service_id" binding:"required"`
	ClientID    uint   `json:"client_id"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
	ClientEmail string `json:"client_email" binding:"omitempty,email"`
	Date        string `json:"date" binding:"required,ymd"`
	Time        string `json:"time" binding:"required,hhmm"`
	Observation string `json:"observation" binding:"max=255"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	tenantID := middleware.TenantID(c)

	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := parseDateTime(req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Data ou hora inválida.")
		return
	}

	clientID := req.ClientID
	if clientID == 0 {
		id, ok := resolveClient(c, h.catalog, h.region, tenantID, req.ClientName, req.ClientPhone, req.ClientEmail)
		if !ok {
			return
		}
		clientID = id
	}

	res, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateBookingInput{
		TenantID:    tenantID,
		StaffID:     req.StaffID,
		ServiceID:   req.ServiceID,
		ClientID:    clientID,
		Start:       start,
		Observation: req.Observation,
		ActorID:     middleware.ActorID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

// resolveClient faz o get-or-create pelo telefone normalizado.
func resolveClient(
	c *gin.Context,
	catalog domain.Catalog,
	region string,
	tenantID uint,
	name, rawPhone, email string,
) (uint, bool) {
	phone := notify.NormalizePhone(rawPhone, region)
	if name == "" || phone == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Nome e telefone do cliente obrigatórios.")
		return 0, false
	}

	client, err := catalog.GetOrCreateClient(c.Request.Context(), tenantID, name, phone, email)
	if err != nil {
		httperr.Respond(c, err)
		return 0, false
	}
	return client.ID, true
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Data obrigatória.")
		return
	}

	date, err := parseDate(dateStr)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Data inválida.")
		return
	}

	staffID, ok := queryUint(c, "staff_id")
	if !ok {
		return
	}

	list, err := h.listByDate.Execute(c.Request.Context(), middleware.TenantID(c), staffID, date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Ano e mês são obrigatórios.")
		return
	}

	staffID, ok := queryUint(c, "staff_id")
	if !ok {
		return
	}

	list, err := h.listByMonth.Execute(c.Request.Context(), middleware.TenantID(c), staffID, year, month)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

// ======================================================
// COMPLETE / DELETE
// ======================================================

func (h *AppointmentHandler) Complete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	done, err := h.complete.Execute(c.Request.Context(), middleware.TenantID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !done {
		httperr.NotFound(c, httperr.CodeNotFound, "Agendamento não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"completed": true})
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.remove.Execute(c.Request.Context(), middleware.TenantID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !deleted {
		httperr.NotFound(c, httperr.CodeNotFound, "Agendamento não encontrado.")
		return
	}

	c.Status(http.StatusNoContent)
}

// ======================================================
// DELETION REQUEST
// ======================================================

func (h *AppointmentHandler) RequestDeletion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	dr, err := h.requestDeletion.Execute(c.Request.Context(), middleware.TenantID(c), middleware.ActorID(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dr)
}
